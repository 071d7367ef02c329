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
	campaignsTable = "campaigns c"
)

type CampaignRepository interface {
	GetCampaignByID(campaignID string) (*domain.Campaign, error)
	ListCampaignsByAccount(accountID string, availableStatus []string) ([]*domain.Campaign, error)
	SaveOrUpdate(campaign *domain.Campaign) error
	MarkMissing(accountID string, seenExternalIDs []string) (int64, error)
	DeactivateStale(accountID string, maxMisses int) (int64, error)
}

type campaignRepository struct {
	conn *postgres.Connection
}

func NewCampaignRepository(conn *postgres.Connection) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

func (r *campaignRepository) GetCampaignByID(campaignID string) (*domain.Campaign, error) {
	query, args, err := squirrel.
		Select(campaignColumns()).
		From(campaignsTable).
		Where(squirrel.Eq{"c.id": campaignID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)

	campaign, err := r.scanCampaign(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return campaign, nil
}

func (r *campaignRepository) ListCampaignsByAccount(accountID string, availableStatus []string) ([]*domain.Campaign, error) {
	queryBuilder := squirrel.
		Select(campaignColumns()).
		From(campaignsTable).
		Where(squirrel.Eq{"c.account_id": accountID, "c.active": true}).
		OrderBy("c.name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(availableStatus) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"c.status": availableStatus})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		campaign, err := r.scanCampaignRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear campanha: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return campaigns, nil
}

func (r *campaignRepository) SaveOrUpdate(campaign *domain.Campaign) error {
	if campaign.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar o ID da campanha: %w", err)
		}
		campaign.ID = id
	}

	query := squirrel.StatementBuilder.
		Insert("campaigns").
		Columns(
			"id", "account_id", "external_id", "name", "status", "objective", "buying_type",
			"daily_budget", "lifetime_budget", "start_time", "stop_time", "active", "missing_syncs",
		).
		Values(
			campaign.ID,
			campaign.AccountID,
			campaign.ExternalID,
			campaign.Name,
			campaign.Status,
			campaign.Objective,
			campaign.BuyingType,
			campaign.DailyBudget,
			campaign.LifetimeBudget,
			campaign.StartTime,
			campaign.StopTime,
			true,
			0,
		).
		Suffix(`
			ON CONFLICT (external_id) DO UPDATE SET
				account_id = EXCLUDED.account_id,
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				objective = EXCLUDED.objective,
				buying_type = EXCLUDED.buying_type,
				daily_budget = EXCLUDED.daily_budget,
				lifetime_budget = EXCLUDED.lifetime_budget,
				start_time = EXCLUDED.start_time,
				stop_time = EXCLUDED.stop_time,
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

	err = r.conn.QueryRow(sqlQuery, args...).Scan(&campaign.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *campaignRepository) MarkMissing(accountID string, seenExternalIDs []string) (int64, error) {
	query := squirrel.
		Update("campaigns").
		Set("missing_syncs", squirrel.Expr("missing_syncs + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"account_id": accountID, "active": true}).
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

func (r *campaignRepository) DeactivateStale(accountID string, maxMisses int) (int64, error) {
	query := squirrel.
		Update("campaigns").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"account_id": accountID, "active": true}).
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

func campaignColumns() string {
	return "c.id, c.account_id, c.external_id, c.name, c.status, c.objective, c.buying_type, c.daily_budget, c.lifetime_budget, c.start_time, c.stop_time, c.active, c.missing_syncs, c.created_at, c.updated_at"
}

func (r *campaignRepository) scanCampaign(row *sql.Row) (*domain.Campaign, error) {
	campaign := &domain.Campaign{}

	if err := row.Scan(
		&campaign.ID,
		&campaign.AccountID,
		&campaign.ExternalID,
		&campaign.Name,
		&campaign.Status,
		&campaign.Objective,
		&campaign.BuyingType,
		&campaign.DailyBudget,
		&campaign.LifetimeBudget,
		&campaign.StartTime,
		&campaign.StopTime,
		&campaign.Active,
		&campaign.MissingSyncs,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return campaign, nil
}

func (r *campaignRepository) scanCampaignRows(rows *sql.Rows) (*domain.Campaign, error) {
	campaign := &domain.Campaign{}

	if err := rows.Scan(
		&campaign.ID,
		&campaign.AccountID,
		&campaign.ExternalID,
		&campaign.Name,
		&campaign.Status,
		&campaign.Objective,
		&campaign.BuyingType,
		&campaign.DailyBudget,
		&campaign.LifetimeBudget,
		&campaign.StartTime,
		&campaign.StopTime,
		&campaign.Active,
		&campaign.MissingSyncs,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return campaign, nil
}
