package meta

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-dashboard-api/internal/config"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

// fakeClient devolve registros fixos sem tocar a rede
type fakeClient struct {
	records []json.RawMessage
	err     error
}

func (f *fakeClient) FetchPage(ctx context.Context, accessToken, path string, params url.Values, cursor string) (*metaclient.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &metaclient.Page{Records: f.records}, nil
}

func (f *fakeClient) FetchAll(ctx context.Context, accessToken, path string, params url.Values) ([]json.RawMessage, error) {
	return f.records, f.err
}

func (f *fakeClient) ListAdAccounts(ctx context.Context, accessToken string) ([]json.RawMessage, error) {
	return f.records, f.err
}

func (f *fakeClient) ListCampaigns(ctx context.Context, accessToken, accountExternalID string) ([]json.RawMessage, error) {
	return f.records, f.err
}

func (f *fakeClient) ListAdSets(ctx context.Context, accessToken, campaignExternalID string) ([]json.RawMessage, error) {
	return f.records, f.err
}

func (f *fakeClient) ListAds(ctx context.Context, accessToken, adSetExternalID string) ([]json.RawMessage, error) {
	return f.records, f.err
}

func (f *fakeClient) ListCampaignInsights(ctx context.Context, accessToken, campaignExternalID string, filters *domain.InsightFilters) ([]json.RawMessage, error) {
	return f.records, f.err
}

func (f *fakeClient) ListAdSetInsights(ctx context.Context, accessToken, adSetExternalID string, filters *domain.InsightFilters) ([]json.RawMessage, error) {
	return f.records, f.err
}

func TestListCampaigns_RegistroInvalidoNaoDerrubaOLote(t *testing.T) {
	client := &fakeClient{
		records: []json.RawMessage{
			json.RawMessage(`{"id": "c1", "name": "Campanha A", "status": "ACTIVE", "daily_budget": "1000"}`),
			json.RawMessage(`{"id": "c2", "name": "Campanha B", "status": "ACTIVE", "daily_budget": "abc"}`),
			json.RawMessage(`{"id": "c3", "name": "Campanha C", "status": "PAUSED"}`),
		},
	}

	service := New(&config.Config{}, client)

	campaigns, mappingErrs, err := service.ListCampaigns(context.Background(), "token", "123", "BRL")

	require.NoError(t, err)

	// Os registros válidos sobrevivem, o inválido vira erro de mapeamento
	require.Len(t, campaigns, 2)
	assert.Equal(t, "c1", campaigns[0].ExternalID)
	assert.Equal(t, "c3", campaigns[1].ExternalID)

	require.Len(t, mappingErrs, 1)
	assert.Equal(t, "c2", mappingErrs[0].ExternalID)
	assert.Equal(t, "daily_budget", mappingErrs[0].Field)
}

func TestListAdAccounts_FalhaDoClienteAbortaOLote(t *testing.T) {
	client := &fakeClient{
		err: &metaclient.UpstreamUnavailableError{Status: 503, Attempts: 3},
	}

	service := New(&config.Config{}, client)

	accounts, mappingErrs, err := service.ListAdAccounts(context.Background(), "token")

	require.Error(t, err)
	assert.True(t, metaclient.IsUpstreamUnavailable(err))
	assert.Nil(t, accounts)
	assert.Nil(t, mappingErrs)
}

func TestGetCampaignInsights_NormalizaRegistrosDiarios(t *testing.T) {
	client := &fakeClient{
		records: []json.RawMessage{
			json.RawMessage(`{"date_start": "2024-01-15", "impressions": "100", "clicks": "10", "spend": "5.00"}`),
			json.RawMessage(`{"date_start": "não-é-data", "impressions": "50"}`),
		},
	}

	service := New(&config.Config{}, client)

	records, mappingErrs, err := service.GetCampaignInsights(context.Background(), "token", "c1", nil)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(100), records[0].Impressions)

	require.Len(t, mappingErrs, 1)
	assert.Equal(t, "date_start", mappingErrs[0].Field)
}

func TestGetAdSetInsights_NormalizaRegistrosDiarios(t *testing.T) {
	client := &fakeClient{
		records: []json.RawMessage{
			json.RawMessage(`{"date_start": "2024-01-15", "impressions": "80", "clicks": "4", "spend": "2.50"}`),
		},
	}

	service := New(&config.Config{}, client)

	records, mappingErrs, err := service.GetAdSetInsights(context.Background(), "token", "as1", nil)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(80), records[0].Impressions)
	assert.Empty(t, mappingErrs)
}
