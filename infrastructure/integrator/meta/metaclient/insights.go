package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

// ListCampaignInsights busca os insights diários de uma campanha no período
// dos filtros (time_increment=1 devolve um registro por dia)
func (c *MetaClient) ListCampaignInsights(ctx context.Context, accessToken, campaignExternalID string, filters *domain.InsightFilters) ([]json.RawMessage, error) {
	return c.listInsights(ctx, accessToken, campaignExternalID, filters)
}

// ListAdSetInsights busca os insights diários de um conjunto de anúncios, com
// a mesma janela e granularidade dos insights de campanha
func (c *MetaClient) ListAdSetInsights(ctx context.Context, accessToken, adSetExternalID string, filters *domain.InsightFilters) ([]json.RawMessage, error) {
	return c.listInsights(ctx, accessToken, adSetExternalID, filters)
}

func (c *MetaClient) listInsights(ctx context.Context, accessToken, externalID string, filters *domain.InsightFilters) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Add("fields", "date_start,date_stop,impressions,clicks,spend,reach,frequency,conversions,action_values")
	params.Add("time_increment", "1")

	if filters != nil && filters.StartDate != nil && filters.EndDate != nil {
		timeRange := fmt.Sprintf(
			"{\"since\":\"%s\",\"until\":\"%s\"}",
			filters.StartDate.Format(time.DateOnly),
			filters.EndDate.Format(time.DateOnly),
		)
		params.Add("time_range", timeRange)
	} else {
		params.Add("date_preset", "last_30d")
	}

	path := fmt.Sprintf("%s/insights", externalID)
	return c.FetchAll(ctx, accessToken, path, params)
}
