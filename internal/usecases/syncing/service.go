package syncing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/ads-dashboard-api/internal/config"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/internal/usecases/insighting"
)

var (
	// ErrSyncInProgress indica que já existe uma passagem em andamento para o
	// usuário. Disparos concorrentes são rejeitados, nunca enfileirados.
	ErrSyncInProgress = errors.New("sincronização já em andamento para o usuário")

	// ErrAccountNotFound indica que o filtro de conta não corresponde a
	// nenhuma conta retornada pela plataforma
	ErrAccountNotFound = errors.New("conta não encontrada na listagem da plataforma")
)

type Service struct {
	cfg        *config.Config
	integrator Integrator

	accountRepo      repository.AccountRepository
	campaignRepo     repository.CampaignRepository
	adSetRepo        repository.AdSetRepository
	adRepo           repository.AdRepository
	creativeRepo     repository.CreativeRepository
	metricsRepo      repository.MetricsRepository
	adSetMetricsRepo repository.AdSetMetricsRepository

	mu          sync.Mutex
	inFlight    map[int]struct{}
	lastResults map[int]*domain.SyncResult
}

func NewService(
	cfg *config.Config,
	integrator Integrator,
	accountRepo repository.AccountRepository,
	campaignRepo repository.CampaignRepository,
	adSetRepo repository.AdSetRepository,
	adRepo repository.AdRepository,
	creativeRepo repository.CreativeRepository,
	metricsRepo repository.MetricsRepository,
	adSetMetricsRepo repository.AdSetMetricsRepository,
) Syncer {
	return &Service{
		cfg:              cfg,
		integrator:       integrator,
		accountRepo:      accountRepo,
		campaignRepo:     campaignRepo,
		adSetRepo:        adSetRepo,
		adRepo:           adRepo,
		creativeRepo:     creativeRepo,
		metricsRepo:      metricsRepo,
		adSetMetricsRepo: adSetMetricsRepo,
		inFlight:         make(map[int]struct{}),
		lastResults:      make(map[int]*domain.SyncResult),
	}
}

// SyncUser executa uma passagem completa para o usuário: contas, campanhas,
// conjuntos, anúncios, criativos e métricas, nessa ordem. Falhas de entidade
// são registradas no resultado e não abortam a passagem; só a falha da
// listagem inicial de contas aborta tudo, sem persistir nada.
func (s *Service) SyncUser(ctx context.Context, user *domain.User, opts Options) (*domain.SyncResult, error) {
	if !user.HasMetaCredential() {
		return nil, metaclient.ErrMissingCredential
	}

	if !s.acquire(user.ID) {
		return nil, ErrSyncInProgress
	}
	defer s.release(user.ID)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Sync.PassTimeout)
	defer cancel()

	result := &domain.SyncResult{
		StartedAt: time.Now(),
	}

	accessToken := *user.MetaAccessToken
	state := newPassState()

	accounts, mappingErrs, err := s.integrator.ListAdAccounts(ctx, accessToken)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Listagem de contas falhou, passagem abortada")

		result.Status = domain.SyncStatusFailed
		result.Message = err.Error()
		result.FailedEntities = []domain.EntityError{{
			Kind:      domain.EntityKindAccount,
			ErrorKind: classify(err),
			Message:   err.Error(),
		}}
		result.FinishedAt = time.Now()
		s.storeResult(user.ID, result)

		return result, nil
	}
	state.recordMappingErrors(mappingErrs)

	fullPass := opts.AccountID == ""
	if !fullPass {
		accounts = filterAccounts(accounts, s.resolveAccountFilter(user.ID, opts.AccountID))
		if len(accounts) == 0 {
			result.Status = domain.SyncStatusFailed
			result.Message = ErrAccountNotFound.Error()
			result.FinishedAt = time.Now()
			s.storeResult(user.ID, result)

			return result, nil
		}
	}

	seen := make([]string, 0, len(accounts))
	synced := make([]*domain.AdAccount, 0, len(accounts))

	for _, account := range accounts {
		account.UserID = user.ID
		seen = append(seen, account.ExternalID)

		if err := s.accountRepo.SaveOrUpdate(account); err != nil {
			state.fail(domain.EntityKindAccount, account.ExternalID, classify(err), err)
			continue
		}

		state.complete()
		synced = append(synced, account)
	}

	// Contas ausentes na listagem só contam como perdidas em passagens completas
	if fullPass {
		s.markMissingAccounts(user.ID, seen)
	}

	s.syncAccounts(ctx, accessToken, synced, state)

	result.AccountsSynced = len(synced)
	result.CompletedEntities = state.completedCount()
	result.FailedEntities = state.failureList()
	result.FinishedAt = time.Now()

	switch {
	case ctx.Err() != nil:
		// Estouro da janela é estado terminal de erro, não parcial. A entrada
		// de timeout só é acrescentada se nenhuma entidade já a registrou.
		result.Status = domain.SyncStatusFailed
		result.Message = "passagem interrompida por timeout"
		if !hasTimedOutEntry(result.FailedEntities) {
			result.FailedEntities = append(result.FailedEntities, domain.EntityError{
				Kind:      domain.EntityKindAccount,
				ErrorKind: domain.SyncErrorTimedOut,
				Message:   ctx.Err().Error(),
			})
		}

	case len(result.FailedEntities) == 0:
		result.Status = domain.SyncStatusCompleted

	default:
		result.Status = domain.SyncStatusPartiallyFailed
	}

	s.storeResult(user.ID, result)

	return result, nil
}

// syncAccounts processa as contas com concorrência limitada. Dentro de cada
// conta a árvore é percorrida sequencialmente para não estourar o limite de
// requisições da plataforma.
func (s *Service) syncAccounts(ctx context.Context, accessToken string, accounts []*domain.AdAccount, state *passState) {
	maxWorkers := s.cfg.Sync.MaxConcurrentAccounts
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for _, account := range accounts {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(account *domain.AdAccount) {
			defer wg.Done()
			defer func() { <-sem }()

			s.syncAccount(ctx, accessToken, account, state)
		}(account)
	}

	wg.Wait()
}

func (s *Service) syncAccount(ctx context.Context, accessToken string, account *domain.AdAccount, state *passState) {
	campaigns, mappingErrs, err := s.integrator.ListCampaigns(ctx, accessToken, account.ExternalID, account.Currency)
	if err != nil {
		state.fail(domain.EntityKindAccount, account.ExternalID, classify(err), err)
		return
	}
	state.recordMappingErrors(mappingErrs)

	seen := make([]string, 0, len(campaigns))

	for _, campaign := range campaigns {
		if ctx.Err() != nil {
			return
		}

		campaign.AccountID = account.ID
		seen = append(seen, campaign.ExternalID)

		if err := s.campaignRepo.SaveOrUpdate(campaign); err != nil {
			state.fail(domain.EntityKindCampaign, campaign.ExternalID, classify(err), err)
			continue
		}
		state.complete()

		s.syncCampaign(ctx, accessToken, account, campaign, state)
	}

	if _, err := s.campaignRepo.MarkMissing(account.ID, seen); err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).Warn("Erro ao marcar campanhas ausentes")
	}
	if _, err := s.campaignRepo.DeactivateStale(account.ID, s.cfg.Sync.DeactivateAfterMisses); err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).Warn("Erro ao desativar campanhas ausentes")
	}
}

func (s *Service) syncCampaign(ctx context.Context, accessToken string, account *domain.AdAccount, campaign *domain.Campaign, state *passState) {
	adSets, mappingErrs, err := s.integrator.ListAdSets(ctx, accessToken, campaign.ExternalID, account.Currency)
	if err != nil {
		state.fail(domain.EntityKindCampaign, campaign.ExternalID, classify(err), err)
	} else {
		state.recordMappingErrors(mappingErrs)

		seen := make([]string, 0, len(adSets))
		for _, adSet := range adSets {
			if ctx.Err() != nil {
				return
			}

			adSet.CampaignID = campaign.ID
			seen = append(seen, adSet.ExternalID)

			if err := s.adSetRepo.SaveOrUpdate(adSet); err != nil {
				state.fail(domain.EntityKindAdSet, adSet.ExternalID, classify(err), err)
				continue
			}
			state.complete()

			s.syncAdSet(ctx, accessToken, adSet, state)
		}

		if _, err := s.adSetRepo.MarkMissing(campaign.ID, seen); err != nil {
			logrus.WithError(err).WithField("campaign_id", campaign.ID).Warn("Erro ao marcar conjuntos ausentes")
		}
		if _, err := s.adSetRepo.DeactivateStale(campaign.ID, s.cfg.Sync.DeactivateAfterMisses); err != nil {
			logrus.WithError(err).WithField("campaign_id", campaign.ID).Warn("Erro ao desativar conjuntos ausentes")
		}
	}

	s.syncCampaignMetrics(ctx, accessToken, campaign, state)
}

func (s *Service) syncAdSet(ctx context.Context, accessToken string, adSet *domain.AdSet, state *passState) {
	ads, mappingErrs, err := s.integrator.ListAds(ctx, accessToken, adSet.ExternalID)
	if err != nil {
		state.fail(domain.EntityKindAdSet, adSet.ExternalID, classify(err), err)
	} else {
		state.recordMappingErrors(mappingErrs)

		seen := make([]string, 0, len(ads))

		for _, ad := range ads {
			if ctx.Err() != nil {
				return
			}

			ad.AdSetID = adSet.ID
			seen = append(seen, ad.ExternalID)

			if err := s.adRepo.SaveOrUpdate(ad); err != nil {
				state.fail(domain.EntityKindAd, ad.ExternalID, classify(err), err)
				continue
			}
			state.complete()

			if ad.Creative != nil {
				ad.Creative.AdID = ad.ID

				if err := s.creativeRepo.SaveOrUpdate(ad.Creative); err != nil {
					state.fail(domain.EntityKindCreative, ad.Creative.ExternalID, classify(err), err)
					continue
				}
				state.complete()
			}
		}

		if _, err := s.adRepo.MarkMissing(adSet.ID, seen); err != nil {
			logrus.WithError(err).WithField("ad_set_id", adSet.ID).Warn("Erro ao marcar anúncios ausentes")
		}
		if _, err := s.adRepo.DeactivateStale(adSet.ID, s.cfg.Sync.DeactivateAfterMisses); err != nil {
			logrus.WithError(err).WithField("ad_set_id", adSet.ID).Warn("Erro ao desativar anúncios ausentes")
		}
	}

	s.syncAdSetMetrics(ctx, accessToken, adSet, state)
}

// syncCampaignMetrics busca os insights diários da janela configurada, agrega
// por dia e grava cada agregado. Reprocessar a mesma janela substitui os
// registros existentes.
func (s *Service) syncCampaignMetrics(ctx context.Context, accessToken string, campaign *domain.Campaign, state *passState) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -s.cfg.Sync.LookbackDays)

	filters := &domain.InsightFilters{
		StartDate: &startDate,
		EndDate:   &endDate,
	}

	records, mappingErrs, err := s.integrator.GetCampaignInsights(ctx, accessToken, campaign.ExternalID, filters)
	if err != nil {
		state.fail(domain.EntityKindMetrics, campaign.ExternalID, classify(err), err)
		return
	}
	state.recordMappingErrors(mappingErrs)

	for _, snapshot := range insighting.AggregateDaily(records) {
		snapshot.CampaignID = campaign.ID

		if err := s.metricsRepo.SaveOrUpdate(snapshot); err != nil {
			state.fail(domain.EntityKindMetrics, campaign.ExternalID, classify(err), err)
			continue
		}
		state.complete()
	}
}

// syncAdSetMetrics é o espelho de syncCampaignMetrics no nível de conjunto:
// mesma janela, mesma agregação diária, gravada em adset_metrics
func (s *Service) syncAdSetMetrics(ctx context.Context, accessToken string, adSet *domain.AdSet, state *passState) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -s.cfg.Sync.LookbackDays)

	filters := &domain.InsightFilters{
		StartDate: &startDate,
		EndDate:   &endDate,
	}

	records, mappingErrs, err := s.integrator.GetAdSetInsights(ctx, accessToken, adSet.ExternalID, filters)
	if err != nil {
		state.fail(domain.EntityKindMetrics, adSet.ExternalID, classify(err), err)
		return
	}
	state.recordMappingErrors(mappingErrs)

	for _, snapshot := range insighting.AggregateDaily(records) {
		snapshot.AdSetID = adSet.ID

		if err := s.adSetMetricsRepo.SaveOrUpdate(snapshot); err != nil {
			state.fail(domain.EntityKindMetrics, adSet.ExternalID, classify(err), err)
			continue
		}
		state.complete()
	}
}

func (s *Service) markMissingAccounts(userID int, seen []string) {
	if _, err := s.accountRepo.MarkMissing(userID, seen); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Erro ao marcar contas ausentes")
	}
	if _, err := s.accountRepo.DeactivateStale(userID, s.cfg.Sync.DeactivateAfterMisses); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Erro ao desativar contas ausentes")
	}
}

// LastResult retorna o resultado da última passagem do usuário, ou nil se
// nenhuma rodou desde a inicialização
func (s *Service) LastResult(userID int) *domain.SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastResults[userID]
}

// InProgress indica se existe passagem em andamento para o usuário
func (s *Service) InProgress(userID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, running := s.inFlight[userID]
	return running
}

func (s *Service) acquire(userID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, running := s.inFlight[userID]; running {
		return false
	}

	s.inFlight[userID] = struct{}{}
	return true
}

func (s *Service) release(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, userID)
}

func (s *Service) storeResult(userID int, result *domain.SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastResults[userID] = result
}

// resolveAccountFilter traduz o filtro de conta para um external_id. Um ID
// interno já persistido é resolvido pelo banco; qualquer outro valor é tratado
// como external_id da plataforma.
func (s *Service) resolveAccountFilter(userID int, accountID string) string {
	account, err := s.accountRepo.GetAccountByID(accountID)
	if err != nil {
		logrus.WithError(err).WithField("account_id", accountID).Warn("Erro ao resolver filtro de conta")
		return accountID
	}
	if account != nil && account.UserID == userID {
		return account.ExternalID
	}
	return accountID
}

func filterAccounts(accounts []*domain.AdAccount, externalID string) []*domain.AdAccount {
	filtered := make([]*domain.AdAccount, 0, 1)
	for _, account := range accounts {
		if account.ExternalID == externalID {
			filtered = append(filtered, account)
		}
	}
	return filtered
}

func hasTimedOutEntry(failures []domain.EntityError) bool {
	for _, failure := range failures {
		if failure.ErrorKind == domain.SyncErrorTimedOut {
			return true
		}
	}
	return false
}

// classify traduz um erro qualquer da passagem para a taxonomia do resultado
func classify(err error) domain.SyncErrorKind {
	var mappingErr *meta.MappingError

	switch {
	case metaclient.IsUpstreamUnavailable(err):
		return domain.SyncErrorUpstreamUnavailable
	case metaclient.IsUpstreamRejected(err):
		return domain.SyncErrorUpstreamRejected
	case metaclient.IsUpstreamProtocolError(err):
		return domain.SyncErrorUpstreamProtocol
	case errors.As(err, &mappingErr):
		return domain.SyncErrorMapping
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return domain.SyncErrorTimedOut
	default:
		return domain.SyncErrorStorage
	}
}
