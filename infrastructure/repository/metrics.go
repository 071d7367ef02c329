package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/pkg/utils"
)

const (
	campaignMetricsTable = "campaign_metrics cm"
)

type MetricsRepository interface {
	GetByDateRange(campaignID string, startDate, endDate time.Time) ([]*domain.MetricsSnapshot, error)
	SaveOrUpdate(snapshot *domain.MetricsSnapshot) error
	DeleteOlderThan(days int) (int64, error)
}

type metricsRepository struct {
	conn *postgres.Connection
}

func NewMetricsRepository(conn *postgres.Connection) MetricsRepository {
	return &metricsRepository{
		conn: conn,
	}
}

func (r *metricsRepository) GetByDateRange(campaignID string, startDate, endDate time.Time) ([]*domain.MetricsSnapshot, error) {
	query, args, err := squirrel.
		Select(metricsColumns()).
		From(campaignMetricsTable).
		Where(squirrel.Eq{"cm.campaign_id": campaignID}).
		Where(squirrel.GtOrEq{"cm.date_start": startDate.Format("2006-01-02")}).
		Where(squirrel.LtOrEq{"cm.date_start": endDate.Format("2006-01-02")}).
		OrderBy("cm.date_start ASC").
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
		snapshot, err := r.scanSnapshotRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear métricas: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}

// SaveOrUpdate grava o agregado do dia. A unicidade por (campaign_id, date_start)
// garante que reprocessar o mesmo período substitui o registro em vez de duplicar.
func (r *metricsRepository) SaveOrUpdate(snapshot *domain.MetricsSnapshot) error {
	if snapshot.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar o ID das métricas: %w", err)
		}
		snapshot.ID = id
	}

	query := squirrel.StatementBuilder.
		Insert("campaign_metrics").
		Columns(
			"id", "campaign_id", "date_start", "date_stop",
			"impressions", "clicks", "spend", "conversions", "purchase_value", "reach", "frequency",
			"ctr", "cpc", "cpm", "conversion_rate", "roas",
		).
		Values(
			snapshot.ID,
			snapshot.CampaignID,
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
			ON CONFLICT (campaign_id, date_start) DO UPDATE SET
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
func (r *metricsRepository) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	query, args, err := squirrel.
		Delete("campaign_metrics").
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

func metricsColumns() string {
	return `cm.id, cm.campaign_id, cm.date_start, cm.date_stop,
		cm.impressions, cm.clicks, cm.spend, cm.conversions, cm.purchase_value, cm.reach, cm.frequency,
		cm.ctr, cm.cpc, cm.cpm, cm.conversion_rate, cm.roas, cm.created_at, cm.updated_at`
}

func (r *metricsRepository) scanSnapshotRows(rows *sql.Rows) (*domain.MetricsSnapshot, error) {
	snapshot := &domain.MetricsSnapshot{}

	if err := rows.Scan(
		&snapshot.ID,
		&snapshot.CampaignID,
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
		return nil, err
	}

	return snapshot, nil
}
