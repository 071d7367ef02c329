package handler

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-dashboard-api/internal/scheduler"
	"github.com/vfg2006/ads-dashboard-api/pkg/apiErrors"
)

// RunCronJob dispara manualmente a rodada de sincronização agendada, para
// todos os usuários com credencial. Útil para operação sem esperar o cron.
func RunCronJob(service *scheduler.MetaSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização agendada não disponível", nil)
			return
		}

		// A rodada corre em segundo plano; a resposta só confirma o disparo
		go service.RunOnce(context.Background())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "disparada",
		})
	}
}

// GetCronStatus informa o estado da última rodada agendada
func GetCronStatus(service *scheduler.MetaSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização agendada não disponível", nil)
			return
		}

		lastStartedAt, lastResults, running := service.LastRun()

		response := map[string]any{
			"running":      running,
			"last_results": lastResults,
		}
		if !lastStartedAt.IsZero() {
			response["last_started_at"] = lastStartedAt
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.Error(err)
		}
	}
}
