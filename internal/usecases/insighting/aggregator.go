package insighting

import (
	"sort"

	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

// Aggregate soma os contadores dos registros diários e deriva as razões uma
// única vez sobre os totais. Derivar por registro e tirar a média depois
// produziria números errados para qualquer distribuição desigual de volume.
// Denominador zero resulta em razão zero, nunca em erro ou NaN.
func Aggregate(records []*domain.InsightRecord) *domain.MetricsSnapshot {
	snapshot := &domain.MetricsSnapshot{}

	if len(records) == 0 {
		return snapshot
	}

	for _, record := range records {
		snapshot.Impressions += record.Impressions
		snapshot.Clicks += record.Clicks
		snapshot.Spend += record.Spend
		snapshot.Conversions += record.Conversions
		snapshot.PurchaseValue += record.PurchaseValue
		snapshot.Reach += record.Reach

		if snapshot.DateStart.IsZero() || record.DateStart.Before(snapshot.DateStart) {
			snapshot.DateStart = record.DateStart
		}
		if record.DateStop.After(snapshot.DateStop) {
			snapshot.DateStop = record.DateStop
		}
	}

	// Frequência é impressões por pessoa alcançada, derivada dos totais
	snapshot.Frequency = ratio(float64(snapshot.Impressions), float64(snapshot.Reach))

	deriveRatios(snapshot)

	return snapshot
}

// AggregateDaily agrupa os registros por date_start e agrega cada dia
// separadamente, na ordem cronológica. Registros duplicados do mesmo dia são
// somados no mesmo agregado.
func AggregateDaily(records []*domain.InsightRecord) []*domain.MetricsSnapshot {
	byDay := make(map[string][]*domain.InsightRecord)
	for _, record := range records {
		key := record.DateStart.Format("2006-01-02")
		byDay[key] = append(byDay[key], record)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	snapshots := make([]*domain.MetricsSnapshot, 0, len(days))
	for _, day := range days {
		snapshots = append(snapshots, Aggregate(byDay[day]))
	}

	return snapshots
}

func deriveRatios(snapshot *domain.MetricsSnapshot) {
	impressions := float64(snapshot.Impressions)
	clicks := float64(snapshot.Clicks)
	conversions := float64(snapshot.Conversions)

	snapshot.CTR = ratio(clicks, impressions) * 100
	snapshot.CPC = ratio(snapshot.Spend, clicks)
	snapshot.CPM = ratio(snapshot.Spend, impressions) * 1000
	snapshot.ConversionRate = ratio(conversions, clicks) * 100
	snapshot.ROAS = ratio(snapshot.PurchaseValue, snapshot.Spend)
}

func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
