package repository

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/pkg/utils"
)

const (
	adsTable = "ads ad"
)

type AdRepository interface {
	ListAdsByAdSet(adSetID string) ([]*domain.Ad, error)
	SaveOrUpdate(ad *domain.Ad) error
	MarkMissing(adSetID string, seenExternalIDs []string) (int64, error)
	DeactivateStale(adSetID string, maxMisses int) (int64, error)
}

type adRepository struct {
	conn *postgres.Connection
}

func NewAdRepository(conn *postgres.Connection) AdRepository {
	return &adRepository{
		conn: conn,
	}
}

// ListAdsByAdSet retorna os anúncios ativos do conjunto, com o criativo
// vinculado quando existir
func (r *adRepository) ListAdsByAdSet(adSetID string) ([]*domain.Ad, error) {
	query, args, err := squirrel.
		Select(`ad.id, ad.ad_set_id, ad.external_id, ad.name, ad.status, ad.tracking_specs, ad.active,
			ad.missing_syncs, ad.created_at, ad.updated_at,
			cr.id, cr.external_id, cr.title, cr.body, cr.image_url, cr.video_url, cr.thumbnail_url,
			cr.call_to_action, cr.link_url`).
		From(adsTable).
		LeftJoin("creatives cr ON cr.ad_id = ad.id").
		Where(squirrel.Eq{"ad.ad_set_id": adSetID, "ad.active": true}).
		OrderBy("ad.name ASC").
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

	ads := make([]*domain.Ad, 0)
	for rows.Next() {
		ad := &domain.Ad{}
		var trackingSpecs []byte
		var creativeID, creativeExternalID, title, body *string
		var imageURL, videoURL, thumbnailURL, callToAction, linkURL *string

		if err := rows.Scan(
			&ad.ID,
			&ad.AdSetID,
			&ad.ExternalID,
			&ad.Name,
			&ad.Status,
			&trackingSpecs,
			&ad.Active,
			&ad.MissingSyncs,
			&ad.CreatedAt,
			&ad.UpdatedAt,
			&creativeID,
			&creativeExternalID,
			&title,
			&body,
			&imageURL,
			&videoURL,
			&thumbnailURL,
			&callToAction,
			&linkURL,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear anúncio: %w", err)
		}

		if len(trackingSpecs) > 0 {
			ad.TrackingSpecs = trackingSpecs
		}

		if creativeID != nil {
			ad.Creative = &domain.Creative{
				ID:           *creativeID,
				AdID:         ad.ID,
				ExternalID:   deref(creativeExternalID),
				Title:        deref(title),
				Body:         deref(body),
				ImageURL:     deref(imageURL),
				VideoURL:     deref(videoURL),
				ThumbnailURL: deref(thumbnailURL),
				CallToAction: deref(callToAction),
				LinkURL:      deref(linkURL),
			}
		}

		ads = append(ads, ad)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return ads, nil
}

func (r *adRepository) SaveOrUpdate(ad *domain.Ad) error {
	if ad.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar o ID do anúncio: %w", err)
		}
		ad.ID = id
	}

	var trackingSpecs interface{}
	if len(ad.TrackingSpecs) > 0 {
		trackingSpecs = []byte(ad.TrackingSpecs)
	}

	query := squirrel.StatementBuilder.
		Insert("ads").
		Columns("id", "ad_set_id", "external_id", "name", "status", "tracking_specs", "active", "missing_syncs").
		Values(
			ad.ID,
			ad.AdSetID,
			ad.ExternalID,
			ad.Name,
			ad.Status,
			trackingSpecs,
			true,
			0,
		).
		Suffix(`
			ON CONFLICT (external_id) DO UPDATE SET
				ad_set_id = EXCLUDED.ad_set_id,
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				tracking_specs = EXCLUDED.tracking_specs,
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

	err = r.conn.QueryRow(sqlQuery, args...).Scan(&ad.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *adRepository) MarkMissing(adSetID string, seenExternalIDs []string) (int64, error) {
	query := squirrel.
		Update("ads").
		Set("missing_syncs", squirrel.Expr("missing_syncs + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"ad_set_id": adSetID, "active": true}).
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

func (r *adRepository) DeactivateStale(adSetID string, maxMisses int) (int64, error) {
	query := squirrel.
		Update("ads").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"ad_set_id": adSetID, "active": true}).
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

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
