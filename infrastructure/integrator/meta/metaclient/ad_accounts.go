package metaclient

import (
	"context"
	"encoding/json"
	"net/url"
)

// ListAdAccounts busca todas as contas de anúncio do usuário dono do token
func (c *MetaClient) ListAdAccounts(ctx context.Context, accessToken string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Add("fields", "id,account_id,name,currency,timezone_name,account_status")

	return c.FetchAll(ctx, accessToken, "me/adaccounts", params)
}
