package meta

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	metadomain "github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/pkg/utils"
)

// Formato fixo de timestamp da Graph API: "2024-01-15T10:30:00-0300"
const metaTimeLayout = "2006-01-02T15:04:05-0700"

// MappingError registra a falha de mapeamento de um único registro. A falha de
// um registro nunca aborta o lote: o chamador coleta o erro e segue adiante.
type MappingError struct {
	Kind       domain.EntityKind
	ExternalID string
	Field      string
	Cause      error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("erro ao mapear %s %q (campo %s): %v", e.Kind, e.ExternalID, e.Field, e.Cause)
}

func (e *MappingError) Unwrap() error {
	return e.Cause
}

// Moedas sem subunidade: a Graph API já reporta orçamentos na unidade inteira
var zeroDecimalCurrencies = map[string]struct{}{
	"CLP": {},
	"ISK": {},
	"JPY": {},
	"KRW": {},
	"PYG": {},
	"TWD": {},
	"VND": {},
	"XAF": {},
	"XOF": {},
}

// parseBudget converte um orçamento em subunidade ("1500" = R$ 15,00) para a
// unidade maior da moeda da conta. String vazia significa "sem orçamento" e
// vira nil, distinto de orçamento zero. Sem moeda conhecida o valor é
// repassado como veio e o registro é sinalizado (flagged).
func parseBudget(raw string, currency string) (value *float64, flagged bool, err error) {
	if raw == "" {
		return nil, false, nil
	}

	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false, err
	}

	if currency == "" {
		return &parsed, true, nil
	}

	if _, zeroDecimal := zeroDecimalCurrencies[currency]; !zeroDecimal {
		parsed = parsed / 100
	}

	rounded := utils.RoundWithTwoDecimalPlace(parsed)
	return &rounded, false, nil
}

// parseOptionalTime converte um timestamp do formato da Graph API.
// String vazia é um campo opcional ausente e vira nil sem erro.
func parseOptionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	parsed, err := time.Parse(metaTimeLayout, raw)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}

func parseCount(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parseAmount(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// MapAdAccount converte um registro bruto de conta em AdAccount normalizada
func MapAdAccount(raw json.RawMessage) (*domain.AdAccount, *MappingError) {
	var record metadomain.RawAdAccount
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, &MappingError{Kind: domain.EntityKindAccount, Field: "record", Cause: err}
	}

	externalID := record.AccountID
	if externalID == "" {
		// O campo id vem como "act_<account_id>"
		if len(record.ID) > 4 && record.ID[:4] == "act_" {
			externalID = record.ID[4:]
		} else {
			externalID = record.ID
		}
	}

	if externalID == "" {
		return nil, &MappingError{
			Kind:  domain.EntityKindAccount,
			Field: "account_id",
			Cause: fmt.Errorf("registro sem identificador externo"),
		}
	}

	status := domain.AdAccountStatusInactive
	if record.AccountStatus == 1 {
		status = domain.AdAccountStatusActive
	}

	return &domain.AdAccount{
		ExternalID: externalID,
		Name:       record.Name,
		Currency:   record.Currency,
		Timezone:   record.TimezoneName,
		Status:     status,
	}, nil
}

// MapCampaign converte um registro bruto de campanha, usando a moeda da conta
// dona para converter os orçamentos de subunidade para unidade maior
func MapCampaign(raw json.RawMessage, currency string) (*domain.Campaign, *MappingError) {
	var record metadomain.RawCampaign
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, &MappingError{Kind: domain.EntityKindCampaign, Field: "record", Cause: err}
	}

	if record.ID == "" {
		return nil, &MappingError{
			Kind:  domain.EntityKindCampaign,
			Field: "id",
			Cause: fmt.Errorf("registro sem identificador externo"),
		}
	}

	dailyBudget, dailyFlagged, err := parseBudget(record.DailyBudget, currency)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindCampaign, ExternalID: record.ID, Field: "daily_budget", Cause: err}
	}

	lifetimeBudget, lifetimeFlagged, err := parseBudget(record.LifetimeBudget, currency)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindCampaign, ExternalID: record.ID, Field: "lifetime_budget", Cause: err}
	}

	startTime, err := parseOptionalTime(record.StartTime)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindCampaign, ExternalID: record.ID, Field: "start_time", Cause: err}
	}

	stopTime, err := parseOptionalTime(record.StopTime)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindCampaign, ExternalID: record.ID, Field: "stop_time", Cause: err}
	}

	return &domain.Campaign{
		ExternalID:        record.ID,
		Name:              record.Name,
		Status:            record.Status,
		Objective:         record.Objective,
		BuyingType:        record.BuyingType,
		DailyBudget:       dailyBudget,
		LifetimeBudget:    lifetimeBudget,
		BudgetUnconverted: dailyFlagged || lifetimeFlagged,
		StartTime:         startTime,
		StopTime:          stopTime,
	}, nil
}

// MapAdSet converte um registro bruto de conjunto de anúncios
func MapAdSet(raw json.RawMessage, currency string) (*domain.AdSet, *MappingError) {
	var record metadomain.RawAdSet
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, &MappingError{Kind: domain.EntityKindAdSet, Field: "record", Cause: err}
	}

	if record.ID == "" {
		return nil, &MappingError{
			Kind:  domain.EntityKindAdSet,
			Field: "id",
			Cause: fmt.Errorf("registro sem identificador externo"),
		}
	}

	dailyBudget, dailyFlagged, err := parseBudget(record.DailyBudget, currency)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindAdSet, ExternalID: record.ID, Field: "daily_budget", Cause: err}
	}

	lifetimeBudget, lifetimeFlagged, err := parseBudget(record.LifetimeBudget, currency)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindAdSet, ExternalID: record.ID, Field: "lifetime_budget", Cause: err}
	}

	startTime, err := parseOptionalTime(record.StartTime)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindAdSet, ExternalID: record.ID, Field: "start_time", Cause: err}
	}

	endTime, err := parseOptionalTime(record.EndTime)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindAdSet, ExternalID: record.ID, Field: "end_time", Cause: err}
	}

	return &domain.AdSet{
		ExternalID:        record.ID,
		Name:              record.Name,
		Status:            record.Status,
		BillingEvent:      record.BillingEvent,
		OptimizationGoal:  record.OptimizationGoal,
		DailyBudget:       dailyBudget,
		LifetimeBudget:    lifetimeBudget,
		BudgetUnconverted: dailyFlagged || lifetimeFlagged,
		Targeting:         record.Targeting,
		StartTime:         startTime,
		EndTime:           endTime,
	}, nil
}

// MapAd converte um registro bruto de anúncio, incluindo o criativo expandido
func MapAd(raw json.RawMessage) (*domain.Ad, *MappingError) {
	var record metadomain.RawAd
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, &MappingError{Kind: domain.EntityKindAd, Field: "record", Cause: err}
	}

	if record.ID == "" {
		return nil, &MappingError{
			Kind:  domain.EntityKindAd,
			Field: "id",
			Cause: fmt.Errorf("registro sem identificador externo"),
		}
	}

	ad := &domain.Ad{
		ExternalID:    record.ID,
		Name:          record.Name,
		Status:        record.Status,
		TrackingSpecs: record.TrackingSpecs,
	}

	if record.Creative != nil && record.Creative.ID != "" {
		ad.Creative = &domain.Creative{
			ExternalID:   record.Creative.ID,
			Title:        record.Creative.Title,
			Body:         record.Creative.Body,
			ImageURL:     record.Creative.ImageURL,
			VideoURL:     record.Creative.VideoURL,
			ThumbnailURL: record.Creative.ThumbnailURL,
			CallToAction: record.Creative.CallToActionType,
			LinkURL:      record.Creative.LinkURL,
		}
	}

	return ad, nil
}

// MapInsight converte um registro bruto de insight diário em InsightRecord.
// Contadores chegam como string na Graph API e ausência vale zero; a data de
// início é obrigatória e invalida o registro quando não parseável.
func MapInsight(raw json.RawMessage) (*domain.InsightRecord, *MappingError) {
	var record metadomain.RawInsight
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, &MappingError{Kind: domain.EntityKindMetrics, Field: "record", Cause: err}
	}

	dateStart, err := time.Parse(time.DateOnly, record.DateStart)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindMetrics, ExternalID: record.DateStart, Field: "date_start", Cause: err}
	}

	dateStop := dateStart
	if record.DateStop != "" {
		parsed, err := time.Parse(time.DateOnly, record.DateStop)
		if err != nil {
			return nil, &MappingError{Kind: domain.EntityKindMetrics, ExternalID: record.DateStart, Field: "date_stop", Cause: err}
		}
		dateStop = parsed
	}

	impressions, err := parseCount(record.Impressions)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindMetrics, ExternalID: record.DateStart, Field: "impressions", Cause: err}
	}

	clicks, err := parseCount(record.Clicks)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindMetrics, ExternalID: record.DateStart, Field: "clicks", Cause: err}
	}

	spend, err := parseAmount(record.Spend)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindMetrics, ExternalID: record.DateStart, Field: "spend", Cause: err}
	}

	reach, err := parseCount(record.Reach)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindMetrics, ExternalID: record.DateStart, Field: "reach", Cause: err}
	}

	frequency, err := parseAmount(record.Frequency)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindMetrics, ExternalID: record.DateStart, Field: "frequency", Cause: err}
	}

	conversions, err := parseCount(record.Conversions)
	if err != nil {
		return nil, &MappingError{Kind: domain.EntityKindMetrics, ExternalID: record.DateStart, Field: "conversions", Cause: err}
	}

	purchaseValue := 0.0
	for _, action := range record.PurchaseActions() {
		value, err := parseAmount(action.Value)
		if err != nil {
			return nil, &MappingError{Kind: domain.EntityKindMetrics, ExternalID: record.DateStart, Field: "action_values", Cause: err}
		}
		purchaseValue += value
	}

	return &domain.InsightRecord{
		DateStart:     dateStart,
		DateStop:      dateStop,
		Impressions:   impressions,
		Clicks:        clicks,
		Spend:         spend,
		Conversions:   conversions,
		PurchaseValue: purchaseValue,
		Reach:         reach,
		Frequency:     frequency,
	}, nil
}
