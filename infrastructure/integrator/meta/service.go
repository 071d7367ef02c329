package meta

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-dashboard-api/internal/config"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

// MetaIntegrator busca recursos na Graph API e os entrega já normalizados.
// O mapeamento é por registro: registros malformados viram MappingError na
// lista de erros do lote e não derrubam os demais.
type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

func (s *MetaIntegrator) ListAdAccounts(ctx context.Context, accessToken string) ([]*domain.AdAccount, []*MappingError, error) {
	records, err := s.Client.ListAdAccounts(ctx, accessToken)
	if err != nil {
		return nil, nil, err
	}

	accounts := make([]*domain.AdAccount, 0, len(records))
	mappingErrors := make([]*MappingError, 0)

	for _, record := range records {
		account, mapErr := MapAdAccount(record)
		if mapErr != nil {
			logrus.WithError(mapErr).Warn("Registro de conta descartado no mapeamento")
			mappingErrors = append(mappingErrors, mapErr)
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts, mappingErrors, nil
}

func (s *MetaIntegrator) ListCampaigns(ctx context.Context, accessToken, accountExternalID, currency string) ([]*domain.Campaign, []*MappingError, error) {
	records, err := s.Client.ListCampaigns(ctx, accessToken, accountExternalID)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]*domain.Campaign, 0, len(records))
	mappingErrors := make([]*MappingError, 0)

	for _, record := range records {
		campaign, mapErr := MapCampaign(record, currency)
		if mapErr != nil {
			logrus.WithError(mapErr).WithField("account_external_id", accountExternalID).
				Warn("Registro de campanha descartado no mapeamento")
			mappingErrors = append(mappingErrors, mapErr)
			continue
		}
		campaigns = append(campaigns, campaign)
	}

	return campaigns, mappingErrors, nil
}

func (s *MetaIntegrator) ListAdSets(ctx context.Context, accessToken, campaignExternalID, currency string) ([]*domain.AdSet, []*MappingError, error) {
	records, err := s.Client.ListAdSets(ctx, accessToken, campaignExternalID)
	if err != nil {
		return nil, nil, err
	}

	adSets := make([]*domain.AdSet, 0, len(records))
	mappingErrors := make([]*MappingError, 0)

	for _, record := range records {
		adSet, mapErr := MapAdSet(record, currency)
		if mapErr != nil {
			logrus.WithError(mapErr).WithField("campaign_external_id", campaignExternalID).
				Warn("Registro de conjunto de anúncios descartado no mapeamento")
			mappingErrors = append(mappingErrors, mapErr)
			continue
		}
		adSets = append(adSets, adSet)
	}

	return adSets, mappingErrors, nil
}

func (s *MetaIntegrator) ListAds(ctx context.Context, accessToken, adSetExternalID string) ([]*domain.Ad, []*MappingError, error) {
	records, err := s.Client.ListAds(ctx, accessToken, adSetExternalID)
	if err != nil {
		return nil, nil, err
	}

	ads := make([]*domain.Ad, 0, len(records))
	mappingErrors := make([]*MappingError, 0)

	for _, record := range records {
		ad, mapErr := MapAd(record)
		if mapErr != nil {
			logrus.WithError(mapErr).WithField("ad_set_external_id", adSetExternalID).
				Warn("Registro de anúncio descartado no mapeamento")
			mappingErrors = append(mappingErrors, mapErr)
			continue
		}
		ads = append(ads, ad)
	}

	return ads, mappingErrors, nil
}

// GetCampaignInsights busca e normaliza os insights diários de uma campanha
func (s *MetaIntegrator) GetCampaignInsights(ctx context.Context, accessToken, campaignExternalID string, filters *domain.InsightFilters) ([]*domain.InsightRecord, []*MappingError, error) {
	records, err := s.Client.ListCampaignInsights(ctx, accessToken, campaignExternalID, filters)
	if err != nil {
		return nil, nil, err
	}

	return s.mapInsightRecords(campaignExternalID, records)
}

// GetAdSetInsights busca e normaliza os insights diários de um conjunto de
// anúncios
func (s *MetaIntegrator) GetAdSetInsights(ctx context.Context, accessToken, adSetExternalID string, filters *domain.InsightFilters) ([]*domain.InsightRecord, []*MappingError, error) {
	records, err := s.Client.ListAdSetInsights(ctx, accessToken, adSetExternalID, filters)
	if err != nil {
		return nil, nil, err
	}

	return s.mapInsightRecords(adSetExternalID, records)
}

func (s *MetaIntegrator) mapInsightRecords(externalID string, records []json.RawMessage) ([]*domain.InsightRecord, []*MappingError, error) {
	insights := make([]*domain.InsightRecord, 0, len(records))
	mappingErrors := make([]*MappingError, 0)

	for _, record := range records {
		insight, mapErr := MapInsight(record)
		if mapErr != nil {
			logrus.WithError(mapErr).WithField("external_id", externalID).
				Warn("Registro de insight descartado no mapeamento")
			mappingErrors = append(mappingErrors, mapErr)
			continue
		}
		insights = append(insights, insight)
	}

	return insights, mappingErrors, nil
}

// VerifyAccessToken faz uma chamada mínima à plataforma para confirmar que o
// token informado é aceito antes de armazená-lo
func (s *MetaIntegrator) VerifyAccessToken(ctx context.Context, accessToken string) error {
	params := url.Values{}
	params.Set("fields", "id")
	params.Set("limit", "1")

	_, err := s.Client.FetchPage(ctx, accessToken, "me/adaccounts", params, "")
	return err
}
