package syncing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-dashboard-api/internal/config"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	syncmocks "github.com/vfg2006/ads-dashboard-api/internal/usecases/syncing/mocks"
	"go.uber.org/mock/gomock"
)

type serviceMocks struct {
	integrator       *syncmocks.MockIntegrator
	accountRepo      *mocks.MockAccountRepository
	campaignRepo     *mocks.MockCampaignRepository
	adSetRepo        *mocks.MockAdSetRepository
	adRepo           *mocks.MockAdRepository
	creativeRepo     *mocks.MockCreativeRepository
	metricsRepo      *mocks.MockMetricsRepository
	adSetMetricsRepo *mocks.MockAdSetMetricsRepository
}

func newTestService(ctrl *gomock.Controller) (Syncer, *serviceMocks) {
	return newTestServiceWithTimeout(ctrl, time.Minute)
}

func newTestServiceWithTimeout(ctrl *gomock.Controller, passTimeout time.Duration) (Syncer, *serviceMocks) {
	m := &serviceMocks{
		integrator:       syncmocks.NewMockIntegrator(ctrl),
		accountRepo:      mocks.NewMockAccountRepository(ctrl),
		campaignRepo:     mocks.NewMockCampaignRepository(ctrl),
		adSetRepo:        mocks.NewMockAdSetRepository(ctrl),
		adRepo:           mocks.NewMockAdRepository(ctrl),
		creativeRepo:     mocks.NewMockCreativeRepository(ctrl),
		metricsRepo:      mocks.NewMockMetricsRepository(ctrl),
		adSetMetricsRepo: mocks.NewMockAdSetMetricsRepository(ctrl),
	}

	cfg := &config.Config{
		Sync: config.Sync{
			PassTimeout:           passTimeout,
			MaxConcurrentAccounts: 2,
			LookbackDays:          7,
			DeactivateAfterMisses: 3,
		},
	}

	service := NewService(
		cfg,
		m.integrator,
		m.accountRepo,
		m.campaignRepo,
		m.adSetRepo,
		m.adRepo,
		m.creativeRepo,
		m.metricsRepo,
		m.adSetMetricsRepo,
	)

	return service, m
}

func testUser() *domain.User {
	token := "token-valido"
	return &domain.User{
		ID:              7,
		Name:            "Usuário de Teste",
		Email:           "teste@example.com",
		MetaAccessToken: &token,
	}
}

func insightDay(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestSyncUser_PassagemCompleta(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)
	user := testUser()

	account := &domain.AdAccount{ExternalID: "111", Name: "Loja A", Currency: "BRL"}
	campaign := &domain.Campaign{ExternalID: "c1", Name: "Campanha"}
	adSet := &domain.AdSet{ExternalID: "as1", Name: "Conjunto"}
	ad := &domain.Ad{
		ExternalID: "ad1",
		Name:       "Anúncio",
		Creative:   &domain.Creative{ExternalID: "cr1", Title: "Título"},
	}

	m.integrator.EXPECT().
		ListAdAccounts(gomock.Any(), "token-valido").
		Return([]*domain.AdAccount{account}, nil, nil)

	m.accountRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(saved *domain.AdAccount) error {
			assert.Equal(t, 7, saved.UserID)
			saved.ID = "ACC1"
			return nil
		})

	m.accountRepo.EXPECT().MarkMissing(7, []string{"111"}).Return(int64(0), nil)
	m.accountRepo.EXPECT().DeactivateStale(7, 3).Return(int64(0), nil)

	m.integrator.EXPECT().
		ListCampaigns(gomock.Any(), "token-valido", "111", "BRL").
		Return([]*domain.Campaign{campaign}, nil, nil)

	m.campaignRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(saved *domain.Campaign) error {
			assert.Equal(t, "ACC1", saved.AccountID)
			saved.ID = "CMP1"
			return nil
		})

	m.campaignRepo.EXPECT().MarkMissing("ACC1", []string{"c1"}).Return(int64(0), nil)
	m.campaignRepo.EXPECT().DeactivateStale("ACC1", 3).Return(int64(0), nil)

	m.integrator.EXPECT().
		ListAdSets(gomock.Any(), "token-valido", "c1", "BRL").
		Return([]*domain.AdSet{adSet}, nil, nil)

	m.adSetRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(saved *domain.AdSet) error {
			assert.Equal(t, "CMP1", saved.CampaignID)
			saved.ID = "AS1"
			return nil
		})

	m.adSetRepo.EXPECT().MarkMissing("CMP1", []string{"as1"}).Return(int64(0), nil)
	m.adSetRepo.EXPECT().DeactivateStale("CMP1", 3).Return(int64(0), nil)

	m.integrator.EXPECT().
		ListAds(gomock.Any(), "token-valido", "as1").
		Return([]*domain.Ad{ad}, nil, nil)

	m.adRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(saved *domain.Ad) error {
			assert.Equal(t, "AS1", saved.AdSetID)
			saved.ID = "AD1"
			return nil
		})

	m.creativeRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(saved *domain.Creative) error {
			assert.Equal(t, "AD1", saved.AdID)
			return nil
		})

	m.adRepo.EXPECT().MarkMissing("AS1", []string{"ad1"}).Return(int64(0), nil)
	m.adRepo.EXPECT().DeactivateStale("AS1", 3).Return(int64(0), nil)

	m.integrator.EXPECT().
		GetAdSetInsights(gomock.Any(), "token-valido", "as1", gomock.Any()).
		Return([]*domain.InsightRecord{
			{DateStart: insightDay("2024-01-10"), DateStop: insightDay("2024-01-10"), Impressions: 40, Clicks: 2},
		}, nil, nil)

	m.adSetMetricsRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(snapshot *domain.MetricsSnapshot) error {
			assert.Equal(t, "AS1", snapshot.AdSetID)
			assert.Empty(t, snapshot.CampaignID)
			return nil
		})

	// Dois registros do mesmo dia e um de outro geram dois agregados diários
	m.integrator.EXPECT().
		GetCampaignInsights(gomock.Any(), "token-valido", "c1", gomock.Any()).
		Return([]*domain.InsightRecord{
			{DateStart: insightDay("2024-01-10"), DateStop: insightDay("2024-01-10"), Impressions: 100, Clicks: 10},
			{DateStart: insightDay("2024-01-10"), DateStop: insightDay("2024-01-10"), Impressions: 50, Clicks: 5},
			{DateStart: insightDay("2024-01-11"), DateStop: insightDay("2024-01-11"), Impressions: 200, Clicks: 8},
		}, nil, nil)

	m.metricsRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(snapshot *domain.MetricsSnapshot) error {
			assert.Equal(t, "CMP1", snapshot.CampaignID)
			return nil
		}).
		Times(2)

	result, err := service.SyncUser(context.Background(), user, Options{})

	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusCompleted, result.Status)
	assert.Equal(t, 1, result.AccountsSynced)
	assert.Equal(t, 8, result.CompletedEntities)
	assert.Empty(t, result.FailedEntities)

	// A passagem fica disponível como último resultado do usuário
	assert.Equal(t, result, service.LastResult(7))
	assert.False(t, service.InProgress(7))
}

func TestSyncUser_SemCredencialFalhaAntesDeComecar(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _ := newTestService(ctrl)

	result, err := service.SyncUser(context.Background(), &domain.User{ID: 7}, Options{})

	assert.ErrorIs(t, err, metaclient.ErrMissingCredential)
	assert.Nil(t, result)
}

func TestSyncUser_FalhaNaListagemDeContasAbortaTudo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)

	m.integrator.EXPECT().
		ListAdAccounts(gomock.Any(), "token-valido").
		Return(nil, nil, &metaclient.UpstreamUnavailableError{Status: 503, Attempts: 3})

	// Nenhuma escrita acontece: os mocks de repositório não têm expectativas

	result, err := service.SyncUser(context.Background(), testUser(), Options{})

	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusFailed, result.Status)
	require.Len(t, result.FailedEntities, 1)
	assert.Equal(t, domain.EntityKindAccount, result.FailedEntities[0].Kind)
	assert.Equal(t, domain.SyncErrorUpstreamUnavailable, result.FailedEntities[0].ErrorKind)
}

func TestSyncUser_FalhaDeUmaEntidadeNaoAbortaAPassagem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)

	account := &domain.AdAccount{ExternalID: "111", Currency: "BRL"}

	m.integrator.EXPECT().
		ListAdAccounts(gomock.Any(), "token-valido").
		Return([]*domain.AdAccount{account}, nil, nil)

	m.accountRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(saved *domain.AdAccount) error {
			saved.ID = "ACC1"
			return nil
		})
	m.accountRepo.EXPECT().MarkMissing(7, gomock.Any()).Return(int64(0), nil)
	m.accountRepo.EXPECT().DeactivateStale(7, 3).Return(int64(0), nil)

	m.integrator.EXPECT().
		ListCampaigns(gomock.Any(), "token-valido", "111", "BRL").
		Return([]*domain.Campaign{
			{ExternalID: "c1"},
			{ExternalID: "c2"},
		}, nil, nil)

	// A primeira campanha falha na persistência, a segunda segue o fluxo normal
	gomock.InOrder(
		m.campaignRepo.EXPECT().
			SaveOrUpdate(gomock.Any()).
			Return(assert.AnError),
		m.campaignRepo.EXPECT().
			SaveOrUpdate(gomock.Any()).
			DoAndReturn(func(saved *domain.Campaign) error {
				saved.ID = "CMP2"
				return nil
			}),
	)

	m.campaignRepo.EXPECT().MarkMissing("ACC1", []string{"c1", "c2"}).Return(int64(0), nil)
	m.campaignRepo.EXPECT().DeactivateStale("ACC1", 3).Return(int64(0), nil)

	m.integrator.EXPECT().
		ListAdSets(gomock.Any(), "token-valido", "c2", "BRL").
		Return(nil, nil, nil)
	m.adSetRepo.EXPECT().MarkMissing("CMP2", gomock.Any()).Return(int64(0), nil)
	m.adSetRepo.EXPECT().DeactivateStale("CMP2", 3).Return(int64(0), nil)

	m.integrator.EXPECT().
		GetCampaignInsights(gomock.Any(), "token-valido", "c2", gomock.Any()).
		Return(nil, nil, nil)

	result, err := service.SyncUser(context.Background(), testUser(), Options{})

	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusPartiallyFailed, result.Status)
	require.Len(t, result.FailedEntities, 1)
	assert.Equal(t, domain.EntityKindCampaign, result.FailedEntities[0].Kind)
	assert.Equal(t, "c1", result.FailedEntities[0].ExternalID)
	assert.Equal(t, domain.SyncErrorStorage, result.FailedEntities[0].ErrorKind)
}

func TestSyncUser_FiltroDeContaNaoEncontrado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)

	m.integrator.EXPECT().
		ListAdAccounts(gomock.Any(), "token-valido").
		Return([]*domain.AdAccount{{ExternalID: "111"}}, nil, nil)

	m.accountRepo.EXPECT().GetAccountByID("999").Return(nil, nil)

	result, err := service.SyncUser(context.Background(), testUser(), Options{AccountID: "999"})

	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusFailed, result.Status)
	assert.Equal(t, ErrAccountNotFound.Error(), result.Message)
}

func TestSyncUser_FiltroDeContaNaoMarcaAusentes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)

	m.integrator.EXPECT().
		ListAdAccounts(gomock.Any(), "token-valido").
		Return([]*domain.AdAccount{
			{ExternalID: "111", Currency: "BRL"},
			{ExternalID: "222", Currency: "BRL"},
		}, nil, nil)

	m.accountRepo.EXPECT().GetAccountByID("222").Return(nil, nil)

	// Só a conta filtrada é persistida; MarkMissing de contas não roda em
	// passagem parcial
	m.accountRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(saved *domain.AdAccount) error {
			assert.Equal(t, "222", saved.ExternalID)
			saved.ID = "ACC2"
			return nil
		})

	m.integrator.EXPECT().
		ListCampaigns(gomock.Any(), "token-valido", "222", "BRL").
		Return(nil, nil, nil)
	m.campaignRepo.EXPECT().MarkMissing("ACC2", gomock.Any()).Return(int64(0), nil)
	m.campaignRepo.EXPECT().DeactivateStale("ACC2", 3).Return(int64(0), nil)

	result, err := service.SyncUser(context.Background(), testUser(), Options{AccountID: "222"})

	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusCompleted, result.Status)
	assert.Equal(t, 1, result.AccountsSynced)
}

func TestSyncUser_DisparoConcorrenteRejeitado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})

	m.integrator.EXPECT().
		ListAdAccounts(gomock.Any(), "token-valido").
		DoAndReturn(func(ctx context.Context, accessToken string) ([]*domain.AdAccount, []*meta.MappingError, error) {
			close(started)
			<-release
			return nil, nil, nil
		})

	m.accountRepo.EXPECT().MarkMissing(7, gomock.Any()).Return(int64(0), nil)
	m.accountRepo.EXPECT().DeactivateStale(7, 3).Return(int64(0), nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := service.SyncUser(context.Background(), testUser(), Options{})
		assert.NoError(t, err)
	}()

	<-started
	assert.True(t, service.InProgress(7))

	_, err := service.SyncUser(context.Background(), testUser(), Options{})
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	<-done

	assert.False(t, service.InProgress(7))
}

func TestSyncUser_FiltroPorIDInternoResolveAConta(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)

	m.integrator.EXPECT().
		ListAdAccounts(gomock.Any(), "token-valido").
		Return([]*domain.AdAccount{
			{ExternalID: "111", Currency: "BRL"},
			{ExternalID: "222", Currency: "BRL"},
		}, nil, nil)

	// O ID interno é resolvido pelo banco para o external_id da plataforma
	m.accountRepo.EXPECT().
		GetAccountByID("ACC2").
		Return(&domain.AdAccount{ID: "ACC2", UserID: 7, ExternalID: "222"}, nil)

	m.accountRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(saved *domain.AdAccount) error {
			assert.Equal(t, "222", saved.ExternalID)
			saved.ID = "ACC2"
			return nil
		})

	m.integrator.EXPECT().
		ListCampaigns(gomock.Any(), "token-valido", "222", "BRL").
		Return(nil, nil, nil)
	m.campaignRepo.EXPECT().MarkMissing("ACC2", gomock.Any()).Return(int64(0), nil)
	m.campaignRepo.EXPECT().DeactivateStale("ACC2", 3).Return(int64(0), nil)

	result, err := service.SyncUser(context.Background(), testUser(), Options{AccountID: "ACC2"})

	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusCompleted, result.Status)
	assert.Equal(t, 1, result.AccountsSynced)
}

func TestSyncUser_TimeoutEncerraComoErro(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestServiceWithTimeout(ctrl, 30*time.Millisecond)

	account := &domain.AdAccount{ExternalID: "111", Currency: "BRL"}

	m.integrator.EXPECT().
		ListAdAccounts(gomock.Any(), "token-valido").
		Return([]*domain.AdAccount{account}, nil, nil)

	m.accountRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(saved *domain.AdAccount) error {
			saved.ID = "ACC1"
			return nil
		})
	m.accountRepo.EXPECT().MarkMissing(7, gomock.Any()).Return(int64(0), nil)
	m.accountRepo.EXPECT().DeactivateStale(7, 3).Return(int64(0), nil)

	// A listagem de campanhas só devolve depois que a janela da passagem estoura
	m.integrator.EXPECT().
		ListCampaigns(gomock.Any(), "token-valido", "111", "BRL").
		DoAndReturn(func(ctx context.Context, accessToken, accountExternalID, currency string) ([]*domain.Campaign, []*meta.MappingError, error) {
			<-ctx.Done()
			return nil, nil, ctx.Err()
		})

	result, err := service.SyncUser(context.Background(), testUser(), Options{})

	require.NoError(t, err)

	// Passagem interrompida pela janela termina como erro, nunca como parcial
	assert.Equal(t, domain.SyncStatusFailed, result.Status)
	assert.Equal(t, "passagem interrompida por timeout", result.Message)

	// O estouro aparece uma única vez no resultado
	require.Len(t, result.FailedEntities, 1)
	assert.Equal(t, domain.SyncErrorTimedOut, result.FailedEntities[0].ErrorKind)

	assert.Equal(t, result, service.LastResult(7))
}
