package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListAds busca todos os anúncios de um conjunto, com o criativo expandido inline
func (c *MetaClient) ListAds(ctx context.Context, accessToken, adSetExternalID string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Add("fields", "id,name,status,tracking_specs,creative{id,title,body,image_url,video_url,thumbnail_url,call_to_action_type,link_url}")

	path := fmt.Sprintf("%s/ads", adSetExternalID)
	return c.FetchAll(ctx, accessToken, path, params)
}
