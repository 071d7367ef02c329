package insighting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		records  []*domain.InsightRecord
		validate func(t *testing.T, snapshot *domain.MetricsSnapshot)
	}{
		{
			name: "Deve somar contadores e derivar razões sobre os totais",
			records: []*domain.InsightRecord{
				{
					DateStart:     day("2024-01-10"),
					DateStop:      day("2024-01-10"),
					Impressions:   1000,
					Clicks:        100,
					Spend:         30.50,
					Conversions:   10,
					PurchaseValue: 120.0,
					Reach:         800,
				},
				{
					DateStart:     day("2024-01-11"),
					DateStop:      day("2024-01-11"),
					Impressions:   2000,
					Clicks:        50,
					Spend:         45.0,
					Conversions:   5,
					PurchaseValue: 60.0,
					Reach:         1200,
				},
			},
			validate: func(t *testing.T, snapshot *domain.MetricsSnapshot) {
				assert.Equal(t, int64(3000), snapshot.Impressions)
				assert.Equal(t, int64(150), snapshot.Clicks)
				assert.InDelta(t, 75.50, snapshot.Spend, 0.0001)
				assert.Equal(t, int64(15), snapshot.Conversions)
				assert.InDelta(t, 180.0, snapshot.PurchaseValue, 0.0001)
				assert.Equal(t, int64(2000), snapshot.Reach)

				// Razões derivadas uma única vez sobre os totais, nunca a
				// média das razões diárias
				assert.InDelta(t, 5.0, snapshot.CTR, 0.0001)
				assert.InDelta(t, 0.503333, snapshot.CPC, 0.0001)
				assert.InDelta(t, 25.166667, snapshot.CPM, 0.0001)
				assert.InDelta(t, 10.0, snapshot.ConversionRate, 0.0001)
				assert.InDelta(t, 2.384106, snapshot.ROAS, 0.0001)
				assert.InDelta(t, 1.5, snapshot.Frequency, 0.0001)

				assert.Equal(t, day("2024-01-10"), snapshot.DateStart)
				assert.Equal(t, day("2024-01-11"), snapshot.DateStop)
			},
		},
		{
			name: "Denominador zero deve resultar em razão zero, nunca NaN",
			records: []*domain.InsightRecord{
				{
					DateStart:   day("2024-01-10"),
					DateStop:    day("2024-01-10"),
					Impressions: 500,
				},
			},
			validate: func(t *testing.T, snapshot *domain.MetricsSnapshot) {
				assert.Zero(t, snapshot.CPC)
				assert.Zero(t, snapshot.ConversionRate)
				assert.Zero(t, snapshot.ROAS)
				assert.Zero(t, snapshot.Frequency)
				assert.Zero(t, snapshot.CTR)
				assert.Zero(t, snapshot.CPM)
			},
		},
		{
			name:    "Lista vazia deve produzir agregado zerado",
			records: nil,
			validate: func(t *testing.T, snapshot *domain.MetricsSnapshot) {
				assert.Zero(t, snapshot.Impressions)
				assert.Zero(t, snapshot.Spend)
				assert.Zero(t, snapshot.CTR)
				assert.True(t, snapshot.DateStart.IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Aggregate(tt.records))
		})
	}
}

func TestAggregate_OrdemDosRegistrosNaoImporta(t *testing.T) {
	records := []*domain.InsightRecord{
		{DateStart: day("2024-01-10"), DateStop: day("2024-01-10"), Impressions: 100, Clicks: 7, Spend: 3.10, Reach: 90},
		{DateStart: day("2024-01-11"), DateStop: day("2024-01-11"), Impressions: 250, Clicks: 12, Spend: 8.25, Reach: 200},
		{DateStart: day("2024-01-12"), DateStop: day("2024-01-12"), Impressions: 40, Clicks: 1, Spend: 0.75, Reach: 35},
	}

	reversed := []*domain.InsightRecord{records[2], records[1], records[0]}

	assert.Equal(t, Aggregate(records), Aggregate(reversed))
}

func TestAggregateDaily(t *testing.T) {
	records := []*domain.InsightRecord{
		{DateStart: day("2024-01-12"), DateStop: day("2024-01-12"), Impressions: 50, Clicks: 2},
		{DateStart: day("2024-01-10"), DateStop: day("2024-01-10"), Impressions: 100, Clicks: 10},
		// Registro duplicado do mesmo dia deve ser somado no mesmo agregado
		{DateStart: day("2024-01-10"), DateStop: day("2024-01-10"), Impressions: 200, Clicks: 5},
	}

	snapshots := AggregateDaily(records)

	assert.Len(t, snapshots, 2)

	// Ordem cronológica, independente da ordem de chegada
	assert.Equal(t, day("2024-01-10"), snapshots[0].DateStart)
	assert.Equal(t, int64(300), snapshots[0].Impressions)
	assert.Equal(t, int64(15), snapshots[0].Clicks)
	assert.InDelta(t, 5.0, snapshots[0].CTR, 0.0001)

	assert.Equal(t, day("2024-01-12"), snapshots[1].DateStart)
	assert.Equal(t, int64(50), snapshots[1].Impressions)
}

func TestAggregateDaily_SemRegistros(t *testing.T) {
	assert.Empty(t, AggregateDaily(nil))
}
