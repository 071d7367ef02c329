package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListAdSets busca todos os conjuntos de anúncios de uma campanha
func (c *MetaClient) ListAdSets(ctx context.Context, accessToken, campaignExternalID string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Add("fields", "id,name,status,billing_event,optimization_goal,daily_budget,lifetime_budget,targeting,start_time,end_time")

	path := fmt.Sprintf("%s/adsets", campaignExternalID)
	return c.FetchAll(ctx, accessToken, path, params)
}
