package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/pkg/utils"
)

const (
	adSetsTable = "ad_sets s"
)

type AdSetRepository interface {
	GetAdSetByID(adSetID string) (*domain.AdSet, error)
	ListAdSetsByCampaign(campaignID string) ([]*domain.AdSet, error)
	SaveOrUpdate(adSet *domain.AdSet) error
	MarkMissing(campaignID string, seenExternalIDs []string) (int64, error)
	DeactivateStale(campaignID string, maxMisses int) (int64, error)
}

type adSetRepository struct {
	conn *postgres.Connection
}

func NewAdSetRepository(conn *postgres.Connection) AdSetRepository {
	return &adSetRepository{
		conn: conn,
	}
}

func (r *adSetRepository) GetAdSetByID(adSetID string) (*domain.AdSet, error) {
	query, args, err := squirrel.
		Select("s.id, s.campaign_id, s.external_id, s.name, s.status, s.billing_event, s.optimization_goal, s.daily_budget, s.lifetime_budget, s.targeting, s.start_time, s.end_time, s.active, s.missing_syncs, s.created_at, s.updated_at").
		From(adSetsTable).
		Where(squirrel.Eq{"s.id": adSetID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)

	adSet := &domain.AdSet{}
	var targeting []byte

	if err := row.Scan(
		&adSet.ID,
		&adSet.CampaignID,
		&adSet.ExternalID,
		&adSet.Name,
		&adSet.Status,
		&adSet.BillingEvent,
		&adSet.OptimizationGoal,
		&adSet.DailyBudget,
		&adSet.LifetimeBudget,
		&targeting,
		&adSet.StartTime,
		&adSet.EndTime,
		&adSet.Active,
		&adSet.MissingSyncs,
		&adSet.CreatedAt,
		&adSet.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear conjunto de anúncios: %w", err)
	}

	if len(targeting) > 0 {
		adSet.Targeting = targeting
	}

	return adSet, nil
}

func (r *adSetRepository) ListAdSetsByCampaign(campaignID string) ([]*domain.AdSet, error) {
	query, args, err := squirrel.
		Select("s.id, s.campaign_id, s.external_id, s.name, s.status, s.billing_event, s.optimization_goal, s.daily_budget, s.lifetime_budget, s.targeting, s.start_time, s.end_time, s.active, s.missing_syncs, s.created_at, s.updated_at").
		From(adSetsTable).
		Where(squirrel.Eq{"s.campaign_id": campaignID, "s.active": true}).
		OrderBy("s.name ASC").
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

	adSets := make([]*domain.AdSet, 0)
	for rows.Next() {
		adSet := &domain.AdSet{}
		var targeting []byte

		if err := rows.Scan(
			&adSet.ID,
			&adSet.CampaignID,
			&adSet.ExternalID,
			&adSet.Name,
			&adSet.Status,
			&adSet.BillingEvent,
			&adSet.OptimizationGoal,
			&adSet.DailyBudget,
			&adSet.LifetimeBudget,
			&targeting,
			&adSet.StartTime,
			&adSet.EndTime,
			&adSet.Active,
			&adSet.MissingSyncs,
			&adSet.CreatedAt,
			&adSet.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear conjunto de anúncios: %w", err)
		}

		if len(targeting) > 0 {
			adSet.Targeting = targeting
		}

		adSets = append(adSets, adSet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return adSets, nil
}

func (r *adSetRepository) SaveOrUpdate(adSet *domain.AdSet) error {
	if adSet.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar o ID do conjunto de anúncios: %w", err)
		}
		adSet.ID = id
	}

	var targeting interface{}
	if len(adSet.Targeting) > 0 {
		targeting = []byte(adSet.Targeting)
	}

	query := squirrel.StatementBuilder.
		Insert("ad_sets").
		Columns(
			"id", "campaign_id", "external_id", "name", "status", "billing_event", "optimization_goal",
			"daily_budget", "lifetime_budget", "targeting", "start_time", "end_time", "active", "missing_syncs",
		).
		Values(
			adSet.ID,
			adSet.CampaignID,
			adSet.ExternalID,
			adSet.Name,
			adSet.Status,
			adSet.BillingEvent,
			adSet.OptimizationGoal,
			adSet.DailyBudget,
			adSet.LifetimeBudget,
			targeting,
			adSet.StartTime,
			adSet.EndTime,
			true,
			0,
		).
		Suffix(`
			ON CONFLICT (external_id) DO UPDATE SET
				campaign_id = EXCLUDED.campaign_id,
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				billing_event = EXCLUDED.billing_event,
				optimization_goal = EXCLUDED.optimization_goal,
				daily_budget = EXCLUDED.daily_budget,
				lifetime_budget = EXCLUDED.lifetime_budget,
				targeting = EXCLUDED.targeting,
				start_time = EXCLUDED.start_time,
				end_time = EXCLUDED.end_time,
				active = true,
				missing_syncs = 0,
				updated_at = NOW()
			RETURNING id
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	err = r.conn.QueryRow(sqlQuery, args...).Scan(&adSet.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *adSetRepository) MarkMissing(campaignID string, seenExternalIDs []string) (int64, error) {
	query := squirrel.
		Update("ad_sets").
		Set("missing_syncs", squirrel.Expr("missing_syncs + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"campaign_id": campaignID, "active": true}).
		Where(squirrel.Expr("NOT (external_id = ANY(?))", pq.Array(seenExternalIDs))).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return result.RowsAffected()
}

func (r *adSetRepository) DeactivateStale(campaignID string, maxMisses int) (int64, error) {
	query := squirrel.
		Update("ad_sets").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"campaign_id": campaignID, "active": true}).
		Where(squirrel.GtOrEq{"missing_syncs": maxMisses}).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return result.RowsAffected()
}
