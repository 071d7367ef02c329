package repository

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/pkg/utils"
)

const (
	adSetMetricsTable = "adset_metrics sm"
)

type AdSetMetricsRepository interface {
	GetByDateRange(adSetID string, startDate, endDate time.Time) ([]*domain.MetricsSnapshot, error)
	SaveOrUpdate(snapshot *domain.MetricsSnapshot) error
	DeleteOlderThan(days int) (int64, error)
}

type adSetMetricsRepository struct {
	conn *postgres.Connection
}

func NewAdSetMetricsRepository(conn *postgres.Connection) AdSetMetricsRepository {
	return &adSetMetricsRepository{
		conn: conn,
	}
}

func (r *adSetMetricsRepository) GetByDateRange(adSetID string, startDate, endDate time.Time) ([]*domain.MetricsSnapshot, error) {
	query, args, err := squirrel.
		Select(adSetMetricsColumns()).
		From(adSetMetricsTable).
		Where(squirrel.Eq{"sm.ad_set_id": adSetID}).
		Where(squirrel.GtOrEq{"sm.date_start": startDate.Format("2006-01-02")}).
		Where(squirrel.LtOrEq{"sm.date_start": endDate.Format("2006-01-02")}).
		OrderBy("sm.date_start ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.MetricsSnapshot, 0)
	for rows.Next() {
		snapshot := &domain.MetricsSnapshot{}

		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.AdSetID,
			&snapshot.DateStart,
			&snapshot.DateStop,
			&snapshot.Impressions,
			&snapshot.Clicks,
			&snapshot.Spend,
			&snapshot.Conversions,
			&snapshot.PurchaseValue,
			&snapshot.Reach,
			&snapshot.Frequency,
			&snapshot.CTR,
			&snapshot.CPC,
			&snapshot.CPM,
			&snapshot.ConversionRate,
			&snapshot.ROAS,
			&snapshot.CreatedAt,
			&snapshot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear métricas: %w", err)
		}

		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}

// SaveOrUpdate grava o agregado do dia para o conjunto. A unicidade por
// (ad_set_id, date_start) garante que reprocessar o mesmo período substitui o
// registro em vez de duplicar.
func (r *adSetMetricsRepository) SaveOrUpdate(snapshot *domain.MetricsSnapshot) error {
	if snapshot.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar o ID das métricas: %w", err)
		}
		snapshot.ID = id
	}

	query := squirrel.StatementBuilder.
		Insert("adset_metrics").
		Columns(
			"id", "ad_set_id", "date_start", "date_stop",
			"impressions", "clicks", "spend", "conversions", "purchase_value", "reach", "frequency",
			"ctr", "cpc", "cpm", "conversion_rate", "roas",
		).
		Values(
			snapshot.ID,
			snapshot.AdSetID,
			snapshot.DateStart.Format("2006-01-02"),
			snapshot.DateStop.Format("2006-01-02"),
			snapshot.Impressions,
			snapshot.Clicks,
			snapshot.Spend,
			snapshot.Conversions,
			snapshot.PurchaseValue,
			snapshot.Reach,
			snapshot.Frequency,
			snapshot.CTR,
			snapshot.CPC,
			snapshot.CPM,
			snapshot.ConversionRate,
			snapshot.ROAS,
		).
		Suffix(`
			ON CONFLICT (ad_set_id, date_start) DO UPDATE SET
				date_stop = EXCLUDED.date_stop,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				spend = EXCLUDED.spend,
				conversions = EXCLUDED.conversions,
				purchase_value = EXCLUDED.purchase_value,
				reach = EXCLUDED.reach,
				frequency = EXCLUDED.frequency,
				ctr = EXCLUDED.ctr,
				cpc = EXCLUDED.cpc,
				cpm = EXCLUDED.cpm,
				conversion_rate = EXCLUDED.conversion_rate,
				roas = EXCLUDED.roas,
				updated_at = NOW()
			RETURNING id
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	err = r.conn.QueryRow(sqlQuery, args...).Scan(&snapshot.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

// DeleteOlderThan remove agregados mais antigos que a janela de retenção
func (r *adSetMetricsRepository) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	query, args, err := squirrel.
		Delete("adset_metrics").
		Where(squirrel.Lt{"date_start": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	return result.RowsAffected()
}

func adSetMetricsColumns() string {
	return `sm.id, sm.ad_set_id, sm.date_start, sm.date_stop,
		sm.impressions, sm.clicks, sm.spend, sm.conversions, sm.purchase_value, sm.reach, sm.frequency,
		sm.ctr, sm.cpc, sm.cpm, sm.conversion_rate, sm.roas, sm.created_at, sm.updated_at`
}
