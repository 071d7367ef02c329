package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListCampaigns busca todas as campanhas de uma conta de anúncio
func (c *MetaClient) ListCampaigns(ctx context.Context, accessToken, accountExternalID string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Add("fields", "id,name,status,objective,buying_type,daily_budget,lifetime_budget,start_time,stop_time,created_time,updated_time")

	path := fmt.Sprintf("act_%s/campaigns", accountExternalID)
	return c.FetchAll(ctx, accessToken, path, params)
}
