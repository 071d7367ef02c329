package insighting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-dashboard-api/internal/config"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"go.uber.org/mock/gomock"
)

type readMocks struct {
	accountRepo      *mocks.MockAccountRepository
	campaignRepo     *mocks.MockCampaignRepository
	adSetRepo        *mocks.MockAdSetRepository
	adRepo           *mocks.MockAdRepository
	metricsRepo      *mocks.MockMetricsRepository
	adSetMetricsRepo *mocks.MockAdSetMetricsRepository
}

func newReadService(ctrl *gomock.Controller) (Insighter, *readMocks) {
	m := &readMocks{
		accountRepo:      mocks.NewMockAccountRepository(ctrl),
		campaignRepo:     mocks.NewMockCampaignRepository(ctrl),
		adSetRepo:        mocks.NewMockAdSetRepository(ctrl),
		adRepo:           mocks.NewMockAdRepository(ctrl),
		metricsRepo:      mocks.NewMockMetricsRepository(ctrl),
		adSetMetricsRepo: mocks.NewMockAdSetMetricsRepository(ctrl),
	}

	service := NewService(&config.Config{}, m.accountRepo, m.campaignRepo, m.adSetRepo, m.adRepo, m.metricsRepo, m.adSetMetricsRepo)

	return service, m
}

func TestListCampaigns_ContaDeOutroUsuario(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	// Conta de outro usuário responde igual a conta inexistente
	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(&domain.AdAccount{
		ID:     "ACC1",
		UserID: 99,
	}, nil)

	_, err := service.ListCampaigns(7, "ACC1", nil)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestListCampaigns_ContaInexistente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(nil, nil)

	_, err := service.ListCampaigns(7, "ACC1", nil)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestListCampaigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(&domain.AdAccount{
		ID:     "ACC1",
		UserID: 7,
	}, nil)

	budget := 15.0
	m.campaignRepo.EXPECT().ListCampaignsByAccount("ACC1", []string{"ACTIVE"}).Return([]*domain.Campaign{
		{ID: "CMP1", ExternalID: "c1", Name: "Campanha", Status: "ACTIVE", DailyBudget: &budget},
	}, nil)

	campaigns, err := service.ListCampaigns(7, "ACC1", []string{"ACTIVE"})

	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, "CMP1", campaigns[0].ID)
	require.NotNil(t, campaigns[0].DailyBudget)
	assert.InDelta(t, 15.0, *campaigns[0].DailyBudget, 0.0001)
}

func TestGetCampaignMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.campaignRepo.EXPECT().GetCampaignByID("CMP1").Return(&domain.Campaign{
		ID:        "CMP1",
		AccountID: "ACC1",
	}, nil)
	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(&domain.AdAccount{
		ID:     "ACC1",
		UserID: 7,
	}, nil)

	startDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)

	m.metricsRepo.EXPECT().GetByDateRange("CMP1", startDate, endDate).Return([]*domain.MetricsSnapshot{
		{
			CampaignID:  "CMP1",
			DateStart:   startDate,
			DateStop:    startDate,
			Impressions: 1000,
			Clicks:      100,
			Spend:       30.0,
			CTR:         10.0,
		},
		{
			CampaignID:  "CMP1",
			DateStart:   endDate,
			DateStop:    endDate,
			Impressions: 2000,
			Clicks:      50,
			Spend:       45.0,
			CTR:         2.5,
		},
	}, nil)

	response, err := service.GetCampaignMetrics(7, "CMP1", &domain.InsightFilters{
		StartDate: &startDate,
		EndDate:   &endDate,
	})

	require.NoError(t, err)
	assert.Equal(t, "CMP1", response.CampaignID)
	assert.Equal(t, "2024-01-10", response.StartDate)
	assert.Equal(t, "2024-01-11", response.EndDate)

	require.Len(t, response.Daily, 2)
	assert.Equal(t, "2024-01-10", response.Daily[0].Date)
	assert.InDelta(t, 10.0, response.Daily[0].CTR, 0.0001)

	// O total deriva as razões dos contadores somados, não da média diária
	require.NotNil(t, response.Totals)
	assert.Equal(t, int64(3000), response.Totals.Impressions)
	assert.Equal(t, int64(150), response.Totals.Clicks)
	assert.InDelta(t, 75.0, response.Totals.Spend, 0.0001)
	assert.InDelta(t, 5.0, response.Totals.CTR, 0.0001)
	assert.InDelta(t, 0.5, response.Totals.CPC, 0.0001)
}

func TestGetCampaignMetrics_CampanhaDeOutroUsuario(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.campaignRepo.EXPECT().GetCampaignByID("CMP1").Return(&domain.Campaign{
		ID:        "CMP1",
		AccountID: "ACC1",
	}, nil)
	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(&domain.AdAccount{
		ID:     "ACC1",
		UserID: 99,
	}, nil)

	_, err := service.GetCampaignMetrics(7, "CMP1", nil)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestGetCampaignMetrics_IntervaloInvalido(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.campaignRepo.EXPECT().GetCampaignByID("CMP1").Return(&domain.Campaign{
		ID:        "CMP1",
		AccountID: "ACC1",
	}, nil)
	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(&domain.AdAccount{
		ID:     "ACC1",
		UserID: 7,
	}, nil)

	startDate := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := service.GetCampaignMetrics(7, "CMP1", &domain.InsightFilters{
		StartDate: &startDate,
		EndDate:   &endDate,
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestListAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.accountRepo.EXPECT().
		ListAccountsByUser(7, []domain.AdAccountStatus{domain.AdAccountStatusActive}).
		Return([]*domain.AdAccount{
			{ID: "ACC1", ExternalID: "111", Name: "Loja A", Currency: "BRL", Status: domain.AdAccountStatusActive},
		}, nil)

	accounts, err := service.ListAccounts(7, []domain.AdAccountStatus{domain.AdAccountStatusActive})

	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "111", accounts[0].ExternalID)
	assert.Equal(t, "Loja A", accounts[0].Name)
}

func TestListAdSets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.campaignRepo.EXPECT().GetCampaignByID("CMP1").Return(&domain.Campaign{
		ID:        "CMP1",
		AccountID: "ACC1",
	}, nil)
	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(&domain.AdAccount{
		ID:     "ACC1",
		UserID: 7,
	}, nil)

	budget := 25.0
	m.adSetRepo.EXPECT().ListAdSetsByCampaign("CMP1").Return([]*domain.AdSet{
		{ID: "AS1", ExternalID: "as1", Name: "Conjunto", Status: "ACTIVE", DailyBudget: &budget},
	}, nil)

	adSets, err := service.ListAdSets(7, "CMP1")

	require.NoError(t, err)
	require.Len(t, adSets, 1)
	assert.Equal(t, "AS1", adSets[0].ID)
	require.NotNil(t, adSets[0].DailyBudget)
	assert.InDelta(t, 25.0, *adSets[0].DailyBudget, 0.0001)
}

func TestListAdSets_CampanhaDeOutroUsuario(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.campaignRepo.EXPECT().GetCampaignByID("CMP1").Return(&domain.Campaign{
		ID:        "CMP1",
		AccountID: "ACC1",
	}, nil)
	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(&domain.AdAccount{
		ID:     "ACC1",
		UserID: 99,
	}, nil)

	_, err := service.ListAdSets(7, "CMP1")
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestListAds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.adSetRepo.EXPECT().GetAdSetByID("AS1").Return(&domain.AdSet{
		ID:         "AS1",
		CampaignID: "CMP1",
	}, nil)
	m.campaignRepo.EXPECT().GetCampaignByID("CMP1").Return(&domain.Campaign{
		ID:        "CMP1",
		AccountID: "ACC1",
	}, nil)
	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(&domain.AdAccount{
		ID:     "ACC1",
		UserID: 7,
	}, nil)

	m.adRepo.EXPECT().ListAdsByAdSet("AS1").Return([]*domain.Ad{
		{ID: "AD1", ExternalID: "ad1", Name: "Anúncio", Status: "ACTIVE", Creative: &domain.Creative{ExternalID: "cr1", Title: "Título"}},
	}, nil)

	ads, err := service.ListAds(7, "AS1")

	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, "AD1", ads[0].ID)
	require.NotNil(t, ads[0].Creative)
	assert.Equal(t, "cr1", ads[0].Creative.ExternalID)
}

func TestListAds_ConjuntoInexistente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.adSetRepo.EXPECT().GetAdSetByID("AS1").Return(nil, nil)

	_, err := service.ListAds(7, "AS1")
	assert.ErrorIs(t, err, ErrAdSetNotFound)
}

func TestGetAdSetMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.adSetRepo.EXPECT().GetAdSetByID("AS1").Return(&domain.AdSet{
		ID:         "AS1",
		CampaignID: "CMP1",
	}, nil)
	m.campaignRepo.EXPECT().GetCampaignByID("CMP1").Return(&domain.Campaign{
		ID:        "CMP1",
		AccountID: "ACC1",
	}, nil)
	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(&domain.AdAccount{
		ID:     "ACC1",
		UserID: 7,
	}, nil)

	startDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)

	m.adSetMetricsRepo.EXPECT().GetByDateRange("AS1", startDate, endDate).Return([]*domain.MetricsSnapshot{
		{AdSetID: "AS1", DateStart: startDate, DateStop: startDate, Impressions: 500, Clicks: 50, Spend: 10.0},
		{AdSetID: "AS1", DateStart: endDate, DateStop: endDate, Impressions: 500, Clicks: 50, Spend: 15.0},
	}, nil)

	response, err := service.GetAdSetMetrics(7, "AS1", &domain.InsightFilters{
		StartDate: &startDate,
		EndDate:   &endDate,
	})

	require.NoError(t, err)
	assert.Equal(t, "AS1", response.AdSetID)
	require.Len(t, response.Daily, 2)

	// O total deriva as razões dos contadores somados
	require.NotNil(t, response.Totals)
	assert.Equal(t, int64(1000), response.Totals.Impressions)
	assert.InDelta(t, 25.0, response.Totals.Spend, 0.0001)
	assert.InDelta(t, 10.0, response.Totals.CTR, 0.0001)
	assert.InDelta(t, 0.25, response.Totals.CPC, 0.0001)
}

func TestGetAdSetMetrics_ConjuntoDeOutroUsuario(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newReadService(ctrl)

	m.adSetRepo.EXPECT().GetAdSetByID("AS1").Return(&domain.AdSet{
		ID:         "AS1",
		CampaignID: "CMP1",
	}, nil)
	m.campaignRepo.EXPECT().GetCampaignByID("CMP1").Return(&domain.Campaign{
		ID:        "CMP1",
		AccountID: "ACC1",
	}, nil)
	m.accountRepo.EXPECT().GetAccountByID("ACC1").Return(&domain.AdAccount{
		ID:     "ACC1",
		UserID: 99,
	}, nil)

	_, err := service.GetAdSetMetrics(7, "AS1", nil)
	assert.ErrorIs(t, err, ErrAdSetNotFound)
}
