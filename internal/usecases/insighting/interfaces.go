package insighting

import (
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

// Insighter expõe as leituras do dashboard sobre os dados já sincronizados.
// Nenhuma operação aqui toca a Graph API: tudo sai do banco.
type Insighter interface {
	// ListAccounts retorna as contas de anúncio do usuário
	ListAccounts(userID int, availableStatus []domain.AdAccountStatus) ([]*domain.AdAccountResponse, error)

	// ListCampaigns retorna as campanhas ativas de uma conta do usuário,
	// com filtro opcional por status da plataforma
	ListCampaigns(userID int, accountID string, availableStatus []string) ([]*domain.CampaignResponse, error)

	// GetCampaignMetrics retorna a série diária persistida e o total do
	// período para uma campanha do usuário
	GetCampaignMetrics(userID int, campaignID string, filters *domain.InsightFilters) (*domain.CampaignMetricsResponse, error)

	// ListAdSets retorna os conjuntos de anúncios ativos de uma campanha do
	// usuário
	ListAdSets(userID int, campaignID string) ([]*domain.AdSetResponse, error)

	// ListAds retorna os anúncios ativos de um conjunto do usuário, com o
	// criativo vinculado quando existir
	ListAds(userID int, adSetID string) ([]*domain.AdResponse, error)

	// GetAdSetMetrics retorna a série diária persistida e o total do período
	// para um conjunto de anúncios do usuário
	GetAdSetMetrics(userID int, adSetID string, filters *domain.InsightFilters) (*domain.AdSetMetricsResponse, error)
}
