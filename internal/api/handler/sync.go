package handler

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/internal/usecases/syncing"
	"github.com/vfg2006/ads-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/ads-dashboard-api/pkg/middleware"
)

type RunSyncRequest struct {
	// AccountID restringe a passagem a uma conta. Vazio sincroniza todas.
	AccountID string `json:"account_id"`
}

type SyncStatusResponse struct {
	InProgress bool               `json:"in_progress"`
	LastResult *domain.SyncResult `json:"last_result,omitempty"`
}

// RunSync dispara uma passagem de sincronização para o usuário logado e
// responde com o resultado estruturado. Sucesso parcial também responde 200:
// o desfecho por entidade está no corpo.
func RunSync(syncer syncing.Syncer, userRepo repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		var req RunSyncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		// A credencial vem do banco, não do token JWT
		user, err := userRepo.GetUserByID(userClaims.UserID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário", nil)
			return
		}
		if user == nil {
			apiErrors.WriteError(w, apiErrors.ErrUserNotFound, "Usuário não encontrado", nil)
			return
		}

		result, err := syncer.SyncUser(r.Context(), user, syncing.Options{AccountID: req.AccountID})
		if err != nil {
			switch {
			case errors.Is(err, syncing.ErrSyncInProgress):
				apiErrors.WriteError(w, apiErrors.ErrSyncInProgress, "Sincronização já em andamento", nil)

			case errors.Is(err, metaclient.ErrMissingCredential):
				apiErrors.WriteError(w, apiErrors.ErrMissingMetaCredential, "Vincule um token de acesso do Meta antes de sincronizar", nil)

			default:
				logrus.Error(err)
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao executar sincronização", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.Error(err)
		}
	}
}

// SyncStatus informa se há passagem em andamento e o resultado da última
func SyncStatus(syncer syncing.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		response := SyncStatusResponse{
			InProgress: syncer.InProgress(userClaims.UserID),
			LastResult: syncer.LastResult(userClaims.UserID),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.Error(err)
		}
	}
}
