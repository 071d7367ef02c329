package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/internal/usecases/insighting"
	"github.com/vfg2006/ads-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/ads-dashboard-api/pkg/middleware"
	"github.com/vfg2006/ads-dashboard-api/pkg/utils"
)

// GetCampaignMetrics retorna a série diária e os totais do período para uma
// campanha do usuário. Sem start_date/end_date a janela padrão é de 30 dias.
func GetCampaignMetrics(service insighting.Insighter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		campaignID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if campaignID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da campanha não fornecido", nil)
			return
		}

		filters, ok := parseInsightFilters(w, r)
		if !ok {
			return
		}

		metrics, err := service.GetCampaignMetrics(userClaims.UserID, campaignID, filters)
		if err != nil {
			switch {
			case errors.Is(err, insighting.ErrCampaignNotFound):
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Campanha não encontrada", nil)

			case errors.Is(err, insighting.ErrInvalidDateRange):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)

			default:
				logrus.Error(err)
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar métricas", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(metrics); err != nil {
			logrus.Error(err)
		}
	}
}

// GetAdSetMetrics retorna a série diária e os totais do período para um
// conjunto de anúncios do usuário, com a mesma janela padrão das campanhas
func GetAdSetMetrics(service insighting.Insighter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		adSetID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if adSetID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do conjunto não fornecido", nil)
			return
		}

		filters, ok := parseInsightFilters(w, r)
		if !ok {
			return
		}

		metrics, err := service.GetAdSetMetrics(userClaims.UserID, adSetID, filters)
		if err != nil {
			switch {
			case errors.Is(err, insighting.ErrAdSetNotFound):
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Conjunto de anúncios não encontrado", nil)

			case errors.Is(err, insighting.ErrInvalidDateRange):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)

			default:
				logrus.Error(err)
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar métricas", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(metrics); err != nil {
			logrus.Error(err)
		}
	}
}

// parseInsightFilters lê start_date/end_date da query string. Quando uma data
// é inválida o erro já foi escrito na resposta e o retorno é false.
func parseInsightFilters(w http.ResponseWriter, r *http.Request) (*domain.InsightFilters, bool) {
	filters := &domain.InsightFilters{}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		startDate, err := utils.ParseDate(raw)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start_date inválida, use o formato YYYY-MM-DD", nil)
			return nil, false
		}
		filters.StartDate = startDate
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		endDate, err := utils.ParseDate(raw)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end_date inválida, use o formato YYYY-MM-DD", nil)
			return nil, false
		}
		filters.EndDate = endDate
	}

	return filters, true
}
