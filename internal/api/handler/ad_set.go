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
)

// AdSetList lista os conjuntos de anúncios ativos de uma campanha do usuário
// logado
func AdSetList(service insighting.Insighter) http.HandlerFunc {
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

		adSets, err := service.ListAdSets(userClaims.UserID, campaignID)
		if err != nil {
			if errors.Is(err, insighting.ErrCampaignNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Campanha não encontrada", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar conjuntos", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(adSets); err != nil {
			logrus.Error(err)
		}
	}
}

// AdList lista os anúncios ativos de um conjunto do usuário logado, com o
// criativo vinculado quando existir
func AdList(service insighting.Insighter) http.HandlerFunc {
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

		ads, err := service.ListAds(userClaims.UserID, adSetID)
		if err != nil {
			if errors.Is(err, insighting.ErrAdSetNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Conjunto de anúncios não encontrado", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar anúncios", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ads); err != nil {
			logrus.Error(err)
		}
	}
}
