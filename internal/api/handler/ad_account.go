package handler

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/internal/usecases/insighting"
	"github.com/vfg2006/ads-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/ads-dashboard-api/pkg/middleware"
)

// AdAccountList lista as contas de anúncio do usuário logado. Por padrão só
// as ativas; ?status=all inclui as desativadas pela sincronização.
func AdAccountList(service insighting.Insighter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		availableStatus := []domain.AdAccountStatus{domain.AdAccountStatusActive}
		if r.URL.Query().Get("status") == "all" {
			availableStatus = nil
		}

		accounts, err := service.ListAccounts(userClaims.UserID, availableStatus)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar contas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(accounts); err != nil {
			logrus.Error(err)
		}
	}
}

// CampaignList lista as campanhas de uma conta do usuário logado, com filtro
// opcional ?status=ACTIVE,PAUSED
func CampaignList(service insighting.Insighter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta não fornecido", nil)
			return
		}

		availableStatus := parseStatusFilter(r.URL.Query().Get("status"))

		campaigns, err := service.ListCampaigns(userClaims.UserID, accountID, availableStatus)
		if err != nil {
			if errors.Is(err, insighting.ErrAccountNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Conta não encontrada", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar campanhas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(campaigns); err != nil {
			logrus.Error(err)
		}
	}
}

func parseStatusFilter(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	statuses := make([]string, 0, len(parts))
	for _, part := range parts {
		status := strings.ToUpper(strings.TrimSpace(part))
		if status != "" {
			statuses = append(statuses, status)
		}
	}

	return statuses
}
