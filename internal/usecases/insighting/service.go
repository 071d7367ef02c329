package insighting

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/ads-dashboard-api/internal/config"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

var (
	ErrAccountNotFound  = fmt.Errorf("conta não encontrada")
	ErrCampaignNotFound = fmt.Errorf("campanha não encontrada")
	ErrAdSetNotFound    = fmt.Errorf("conjunto de anúncios não encontrado")
	ErrInvalidDateRange = fmt.Errorf("a data de início não pode ser posterior à data de fim")
)

type Service struct {
	cfg                    *config.Config
	accountRepository      repository.AccountRepository
	campaignRepository     repository.CampaignRepository
	adSetRepository        repository.AdSetRepository
	adRepository           repository.AdRepository
	metricsRepository      repository.MetricsRepository
	adSetMetricsRepository repository.AdSetMetricsRepository
}

func NewService(
	cfg *config.Config,
	accountRepo repository.AccountRepository,
	campaignRepo repository.CampaignRepository,
	adSetRepo repository.AdSetRepository,
	adRepo repository.AdRepository,
	metricsRepo repository.MetricsRepository,
	adSetMetricsRepo repository.AdSetMetricsRepository,
) Insighter {
	return &Service{
		cfg:                    cfg,
		accountRepository:      accountRepo,
		campaignRepository:     campaignRepo,
		adSetRepository:        adSetRepo,
		adRepository:           adRepo,
		metricsRepository:      metricsRepo,
		adSetMetricsRepository: adSetMetricsRepo,
	}
}

func (s *Service) ListAccounts(userID int, availableStatus []domain.AdAccountStatus) ([]*domain.AdAccountResponse, error) {
	accounts, err := s.accountRepository.ListAccountsByUser(userID, availableStatus)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Erro ao listar contas do usuário")
		return nil, err
	}

	response := make([]*domain.AdAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, &domain.AdAccountResponse{
			ID:         account.ID,
			ExternalID: account.ExternalID,
			Name:       account.Name,
			Currency:   account.Currency,
			Timezone:   account.Timezone,
			Status:     account.Status,
		})
	}

	return response, nil
}

func (s *Service) ListCampaigns(userID int, accountID string, availableStatus []string) ([]*domain.CampaignResponse, error) {
	account, err := s.accountRepository.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}

	// Conta inexistente e conta de outro usuário respondem igual
	if account == nil || account.UserID != userID {
		return nil, ErrAccountNotFound
	}

	campaigns, err := s.campaignRepository.ListCampaignsByAccount(account.ID, availableStatus)
	if err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).Error("Erro ao listar campanhas da conta")
		return nil, err
	}

	response := make([]*domain.CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		response = append(response, &domain.CampaignResponse{
			ID:             campaign.ID,
			ExternalID:     campaign.ExternalID,
			Name:           campaign.Name,
			Status:         campaign.Status,
			Objective:      campaign.Objective,
			DailyBudget:    campaign.DailyBudget,
			LifetimeBudget: campaign.LifetimeBudget,
			StartTime:      campaign.StartTime,
			StopTime:       campaign.StopTime,
		})
	}

	return response, nil
}

func (s *Service) GetCampaignMetrics(userID int, campaignID string, filters *domain.InsightFilters) (*domain.CampaignMetricsResponse, error) {
	campaign, err := s.ownedCampaign(userID, campaignID)
	if err != nil {
		return nil, err
	}

	startDate, endDate, err := s.resolveDateRange(filters)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.metricsRepository.GetByDateRange(campaign.ID, startDate, endDate)
	if err != nil {
		logrus.WithError(err).WithField("campaign_id", campaign.ID).Error("Erro ao buscar métricas da campanha")
		return nil, err
	}

	daily, totals := metricsSeries(snapshots)

	return &domain.CampaignMetricsResponse{
		CampaignID: campaign.ID,
		StartDate:  startDate.Format("2006-01-02"),
		EndDate:    endDate.Format("2006-01-02"),
		Totals:     totals,
		Daily:      daily,
	}, nil
}

func (s *Service) ListAdSets(userID int, campaignID string) ([]*domain.AdSetResponse, error) {
	campaign, err := s.ownedCampaign(userID, campaignID)
	if err != nil {
		return nil, err
	}

	adSets, err := s.adSetRepository.ListAdSetsByCampaign(campaign.ID)
	if err != nil {
		logrus.WithError(err).WithField("campaign_id", campaign.ID).Error("Erro ao listar conjuntos da campanha")
		return nil, err
	}

	response := make([]*domain.AdSetResponse, 0, len(adSets))
	for _, adSet := range adSets {
		response = append(response, &domain.AdSetResponse{
			ID:               adSet.ID,
			ExternalID:       adSet.ExternalID,
			Name:             adSet.Name,
			Status:           adSet.Status,
			BillingEvent:     adSet.BillingEvent,
			OptimizationGoal: adSet.OptimizationGoal,
			DailyBudget:      adSet.DailyBudget,
			LifetimeBudget:   adSet.LifetimeBudget,
			Targeting:        adSet.Targeting,
			StartTime:        adSet.StartTime,
			EndTime:          adSet.EndTime,
		})
	}

	return response, nil
}

func (s *Service) ListAds(userID int, adSetID string) ([]*domain.AdResponse, error) {
	adSet, err := s.ownedAdSet(userID, adSetID)
	if err != nil {
		return nil, err
	}

	ads, err := s.adRepository.ListAdsByAdSet(adSet.ID)
	if err != nil {
		logrus.WithError(err).WithField("ad_set_id", adSet.ID).Error("Erro ao listar anúncios do conjunto")
		return nil, err
	}

	response := make([]*domain.AdResponse, 0, len(ads))
	for _, ad := range ads {
		response = append(response, &domain.AdResponse{
			ID:         ad.ID,
			ExternalID: ad.ExternalID,
			Name:       ad.Name,
			Status:     ad.Status,
			Creative:   ad.Creative,
		})
	}

	return response, nil
}

func (s *Service) GetAdSetMetrics(userID int, adSetID string, filters *domain.InsightFilters) (*domain.AdSetMetricsResponse, error) {
	adSet, err := s.ownedAdSet(userID, adSetID)
	if err != nil {
		return nil, err
	}

	startDate, endDate, err := s.resolveDateRange(filters)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.adSetMetricsRepository.GetByDateRange(adSet.ID, startDate, endDate)
	if err != nil {
		logrus.WithError(err).WithField("ad_set_id", adSet.ID).Error("Erro ao buscar métricas do conjunto")
		return nil, err
	}

	daily, totals := metricsSeries(snapshots)

	return &domain.AdSetMetricsResponse{
		AdSetID:   adSet.ID,
		StartDate: startDate.Format("2006-01-02"),
		EndDate:   endDate.Format("2006-01-02"),
		Totals:    totals,
		Daily:     daily,
	}, nil
}

// ownedCampaign carrega a campanha e confirma que a conta dela pertence ao
// usuário. Campanha inexistente e campanha de outro usuário respondem igual.
func (s *Service) ownedCampaign(userID int, campaignID string) (*domain.Campaign, error) {
	campaign, err := s.campaignRepository.GetCampaignByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}

	account, err := s.accountRepository.GetAccountByID(campaign.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.UserID != userID {
		return nil, ErrCampaignNotFound
	}

	return campaign, nil
}

// ownedAdSet sobe a cadeia conjunto -> campanha -> conta para confirmar a
// posse do usuário
func (s *Service) ownedAdSet(userID int, adSetID string) (*domain.AdSet, error) {
	adSet, err := s.adSetRepository.GetAdSetByID(adSetID)
	if err != nil {
		return nil, err
	}
	if adSet == nil {
		return nil, ErrAdSetNotFound
	}

	if _, err := s.ownedCampaign(userID, adSet.CampaignID); err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return nil, ErrAdSetNotFound
		}
		return nil, err
	}

	return adSet, nil
}

// metricsSeries converte os agregados persistidos na série diária da resposta
// e no total do período, com as razões derivadas dos contadores somados
func metricsSeries(snapshots []*domain.MetricsSnapshot) ([]*domain.MetricsResponse, *domain.MetricsResponse) {
	daily := make([]*domain.MetricsResponse, 0, len(snapshots))
	records := make([]*domain.InsightRecord, 0, len(snapshots))

	for _, snapshot := range snapshots {
		daily = append(daily, snapshotToResponse(snapshot))
		records = append(records, &domain.InsightRecord{
			DateStart:     snapshot.DateStart,
			DateStop:      snapshot.DateStop,
			Impressions:   snapshot.Impressions,
			Clicks:        snapshot.Clicks,
			Spend:         snapshot.Spend,
			Conversions:   snapshot.Conversions,
			PurchaseValue: snapshot.PurchaseValue,
			Reach:         snapshot.Reach,
			Frequency:     snapshot.Frequency,
		})
	}

	return daily, snapshotToResponse(Aggregate(records))
}

// resolveDateRange aplica a janela padrão de 30 dias quando o chamador não
// informa datas
func (s *Service) resolveDateRange(filters *domain.InsightFilters) (time.Time, time.Time, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -30)

	if filters != nil {
		if filters.EndDate != nil {
			endDate = *filters.EndDate
		}
		if filters.StartDate != nil {
			startDate = *filters.StartDate
		}
	}

	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}

	return startDate, endDate, nil
}

func snapshotToResponse(snapshot *domain.MetricsSnapshot) *domain.MetricsResponse {
	response := &domain.MetricsResponse{
		Impressions:    snapshot.Impressions,
		Clicks:         snapshot.Clicks,
		Spend:          snapshot.Spend,
		Conversions:    snapshot.Conversions,
		PurchaseValue:  snapshot.PurchaseValue,
		Reach:          snapshot.Reach,
		Frequency:      snapshot.Frequency,
		CTR:            snapshot.CTR,
		CPC:            snapshot.CPC,
		CPM:            snapshot.CPM,
		ConversionRate: snapshot.ConversionRate,
		ROAS:           snapshot.ROAS,
	}

	if !snapshot.DateStart.IsZero() {
		response.Date = snapshot.DateStart.Format("2006-01-02")
	}
	if !snapshot.DateStop.IsZero() {
		response.DateStop = snapshot.DateStop.Format("2006-01-02")
	}

	return response
}
