package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/pkg/utils"
)

const (
	accountsTable = "ad_accounts a"
)

type AccountRepository interface {
	GetAccountByID(accountID string) (*domain.AdAccount, error)
	ListAccountsByUser(userID int, availableStatus []domain.AdAccountStatus) ([]*domain.AdAccount, error)
	SaveOrUpdate(account *domain.AdAccount) error
	MarkMissing(userID int, seenExternalIDs []string) (int64, error)
	DeactivateStale(userID int, maxMisses int) (int64, error)
}

type accountRepository struct {
	conn *postgres.Connection
}

func NewAccountRepository(conn *postgres.Connection) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

func (r *accountRepository) GetAccountByID(accountID string) (*domain.AdAccount, error) {
	accountsSQL, accountsArgs, err := squirrel.
		Select("a.id, a.user_id, a.external_id, a.name, a.currency, a.timezone, a.status, a.missing_syncs, a.created_at, a.updated_at").
		From(accountsTable).
		Where(squirrel.Eq{"a.id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(accountsSQL, accountsArgs...)

	acc := &domain.AdAccount{}
	if err := row.Scan(
		&acc.ID,
		&acc.UserID,
		&acc.ExternalID,
		&acc.Name,
		&acc.Currency,
		&acc.Timezone,
		&acc.Status,
		&acc.MissingSyncs,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return acc, nil
}

func (r *accountRepository) ListAccountsByUser(userID int, availableStatus []domain.AdAccountStatus) ([]*domain.AdAccount, error) {
	queryBuilder := squirrel.
		Select("a.id, a.user_id, a.external_id, a.name, a.currency, a.timezone, a.status, a.missing_syncs, a.created_at, a.updated_at").
		From(accountsTable).
		Where(squirrel.Eq{"a.user_id": userID}).
		OrderBy("a.name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(availableStatus) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"a.status": availableStatus})
	}

	accountsSQL, accountsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(accountsSQL, accountsArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.AdAccount, 0)
	for rows.Next() {
		acc := &domain.AdAccount{}
		if err := rows.Scan(
			&acc.ID,
			&acc.UserID,
			&acc.ExternalID,
			&acc.Name,
			&acc.Currency,
			&acc.Timezone,
			&acc.Status,
			&acc.MissingSyncs,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		); err != nil {
			return nil, err
		}

		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

// SaveOrUpdate insere a conta ou atualiza a existente com o mesmo external_id.
// Toda conta vista na sincronização volta a missing_syncs = 0 e fica ativa de
// novo, ainda que tenha sido desativada em passagens anteriores.
func (r *accountRepository) SaveOrUpdate(account *domain.AdAccount) error {
	if account.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar o ID da conta: %w", err)
		}
		account.ID = id
	}

	query := squirrel.StatementBuilder.
		Insert("ad_accounts").
		Columns("id", "user_id", "external_id", "name", "currency", "timezone", "status", "missing_syncs").
		Values(
			account.ID,
			account.UserID,
			account.ExternalID,
			account.Name,
			account.Currency,
			account.Timezone,
			account.Status,
			0,
		).
		Suffix(`
			ON CONFLICT (user_id, external_id) DO UPDATE SET
				name = EXCLUDED.name,
				currency = EXCLUDED.currency,
				timezone = EXCLUDED.timezone,
				status = EXCLUDED.status,
				missing_syncs = 0,
				updated_at = NOW()
			RETURNING id
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	err = r.conn.QueryRow(sqlQuery, args...).Scan(&account.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

// MarkMissing incrementa missing_syncs das contas ativas do usuário que não
// apareceram na listagem da plataforma nesta passagem
func (r *accountRepository) MarkMissing(userID int, seenExternalIDs []string) (int64, error) {
	query := squirrel.
		Update("ad_accounts").
		Set("missing_syncs", squirrel.Expr("missing_syncs + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID, "status": domain.AdAccountStatusActive}).
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

// DeactivateStale desativa as contas ausentes por maxMisses passagens seguidas
func (r *accountRepository) DeactivateStale(userID int, maxMisses int) (int64, error) {
	query := squirrel.
		Update("ad_accounts").
		Set("status", domain.AdAccountStatusInactive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID, "status": domain.AdAccountStatusActive}).
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
