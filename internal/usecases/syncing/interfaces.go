package syncing

import (
	"context"

	"github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

// Integrator é a fatia do integrador do Meta que a sincronização usa. Cada
// listagem devolve as entidades normalizadas e os erros de mapeamento por
// registro, que a passagem registra sem abortar.
type Integrator interface {
	ListAdAccounts(ctx context.Context, accessToken string) ([]*domain.AdAccount, []*meta.MappingError, error)
	ListCampaigns(ctx context.Context, accessToken, accountExternalID, currency string) ([]*domain.Campaign, []*meta.MappingError, error)
	ListAdSets(ctx context.Context, accessToken, campaignExternalID, currency string) ([]*domain.AdSet, []*meta.MappingError, error)
	ListAds(ctx context.Context, accessToken, adSetExternalID string) ([]*domain.Ad, []*meta.MappingError, error)
	GetCampaignInsights(ctx context.Context, accessToken, campaignExternalID string, filters *domain.InsightFilters) ([]*domain.InsightRecord, []*meta.MappingError, error)
	GetAdSetInsights(ctx context.Context, accessToken, adSetExternalID string, filters *domain.InsightFilters) ([]*domain.InsightRecord, []*meta.MappingError, error)
}

// Options restringe o alcance de uma passagem de sincronização
type Options struct {
	// AccountID limita a passagem a uma única conta, identificada pelo ID
	// interno ou pelo external_id da plataforma. Vazio sincroniza todas.
	AccountID string
}

// Syncer dispara passagens de sincronização e expõe o estado da última
type Syncer interface {
	SyncUser(ctx context.Context, user *domain.User, opts Options) (*domain.SyncResult, error)
	LastResult(userID int) *domain.SyncResult
	InProgress(userID int) bool
}
