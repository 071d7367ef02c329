package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/ads-dashboard-api/internal/config"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/internal/usecases/syncing"
)

// MetaSyncService agenda a sincronização noturna: uma passagem completa para
// cada usuário com credencial do Meta vinculada, seguida da limpeza de
// métricas fora da janela de retenção.
type MetaSyncService struct {
	scheduler        *gocron.Scheduler
	cfg              *config.Config
	userRepo         repository.UserRepository
	metricsRepo      repository.MetricsRepository
	adSetMetricsRepo repository.AdSetMetricsRepository
	syncer           syncing.Syncer

	runMutex      sync.Mutex
	running       bool
	lastStartedAt time.Time
	lastResults   []*domain.SyncResult
}

func NewMetaSyncService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	metricsRepo repository.MetricsRepository,
	adSetMetricsRepo repository.AdSetMetricsRepository,
	syncer syncing.Syncer,
) *MetaSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": cfg.MetaSync.CronSchedule,
		"sync_enabled":  cfg.MetaSync.Enabled,
	}).Info("Configuração do agendador de sincronização do Meta carregada")

	return &MetaSyncService{
		scheduler:        gocron.NewScheduler(time.Local),
		cfg:              cfg,
		userRepo:         userRepo,
		metricsRepo:      metricsRepo,
		adSetMetricsRepo: adSetMetricsRepo,
		syncer:           syncer,
	}
}

// Start inicia o agendador
func (s *MetaSyncService) Start(ctx context.Context) error {
	if !s.cfg.MetaSync.Enabled {
		logrus.Info("Sincronização agendada do Meta desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.cfg.MetaSync.CronSchedule).Info("Iniciando agendador de sincronização do Meta")

	_, err := s.scheduler.Cron(s.cfg.MetaSync.CronSchedule).Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização do Meta: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização do Meta")
		s.scheduler.Stop()
	}()

	return nil
}

// RunOnce executa uma rodada completa: todos os usuários com credencial, um
// por vez. Rodadas concorrentes são ignoradas, não enfileiradas.
func (s *MetaSyncService) RunOnce(ctx context.Context) {
	s.runMutex.Lock()
	if s.running {
		s.runMutex.Unlock()
		logrus.Info("Rodada de sincronização já em andamento, ignorando")
		return
	}
	s.running = true
	s.lastStartedAt = time.Now()
	s.runMutex.Unlock()

	defer func() {
		s.runMutex.Lock()
		s.running = false
		s.runMutex.Unlock()
	}()

	startTime := time.Now()
	logrus.Info("Iniciando rodada de sincronização do Meta")

	users, err := s.userRepo.ListUsersWithMetaCredential()
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar usuários com credencial do Meta")
		return
	}

	results := make([]*domain.SyncResult, 0, len(users))

	for _, user := range users {
		if ctx.Err() != nil {
			logrus.Warn("Rodada de sincronização interrompida pelo contexto")
			break
		}

		result, err := s.syncer.SyncUser(ctx, user, syncing.Options{})
		if err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Warn("Passagem de sincronização não executada")
			continue
		}

		logrus.WithFields(logrus.Fields{
			"user_id":            user.ID,
			"status":             result.Status,
			"accounts_synced":    result.AccountsSynced,
			"completed_entities": result.CompletedEntities,
			"failed_entities":    len(result.FailedEntities),
			"duration":           result.FinishedAt.Sub(result.StartedAt).String(),
		}).Info("Passagem de sincronização concluída")

		results = append(results, result)
	}

	s.cleanupOldMetrics()

	s.runMutex.Lock()
	s.lastResults = results
	s.runMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"users":    len(users),
		"duration": time.Since(startTime).String(),
	}).Info("Rodada de sincronização do Meta concluída")
}

// cleanupOldMetrics remove os agregados fora da janela de retenção, nos dois
// níveis
func (s *MetaSyncService) cleanupOldMetrics() {
	if s.cfg.Sync.MetricsRetentionDays <= 0 {
		return
	}

	removed, err := s.metricsRepo.DeleteOlderThan(s.cfg.Sync.MetricsRetentionDays)
	if err != nil {
		logrus.WithError(err).Warn("Erro ao limpar métricas antigas de campanhas")
		return
	}

	removedAdSet, err := s.adSetMetricsRepo.DeleteOlderThan(s.cfg.Sync.MetricsRetentionDays)
	if err != nil {
		logrus.WithError(err).Warn("Erro ao limpar métricas antigas de conjuntos")
		return
	}

	if removed+removedAdSet > 0 {
		logrus.WithFields(logrus.Fields{
			"removed_campaign": removed,
			"removed_ad_set":   removedAdSet,
			"retention_days":   s.cfg.Sync.MetricsRetentionDays,
		}).Info("Métricas fora da janela de retenção removidas")
	}
}

// LastRun retorna quando a última rodada começou e os resultados por usuário
func (s *MetaSyncService) LastRun() (time.Time, []*domain.SyncResult, bool) {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	return s.lastStartedAt, s.lastResults, s.running
}
