package repository

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
	"github.com/vfg2006/ads-dashboard-api/pkg/utils"
)

type CreativeRepository interface {
	SaveOrUpdate(creative *domain.Creative) error
}

type creativeRepository struct {
	conn *postgres.Connection
}

func NewCreativeRepository(conn *postgres.Connection) CreativeRepository {
	return &creativeRepository{
		conn: conn,
	}
}

// SaveOrUpdate insere ou atualiza o criativo vinculado a um anúncio. O
// external_id é a chave de idempotência, como nas demais entidades.
func (r *creativeRepository) SaveOrUpdate(creative *domain.Creative) error {
	if creative.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar o ID do criativo: %w", err)
		}
		creative.ID = id
	}

	query := squirrel.StatementBuilder.
		Insert("creatives").
		Columns(
			"id", "ad_id", "external_id", "title", "body", "image_url", "video_url",
			"thumbnail_url", "call_to_action", "link_url",
		).
		Values(
			creative.ID,
			creative.AdID,
			creative.ExternalID,
			creative.Title,
			creative.Body,
			creative.ImageURL,
			creative.VideoURL,
			creative.ThumbnailURL,
			creative.CallToAction,
			creative.LinkURL,
		).
		Suffix(`
			ON CONFLICT (external_id) DO UPDATE SET
				ad_id = EXCLUDED.ad_id,
				title = EXCLUDED.title,
				body = EXCLUDED.body,
				image_url = EXCLUDED.image_url,
				video_url = EXCLUDED.video_url,
				thumbnail_url = EXCLUDED.thumbnail_url,
				call_to_action = EXCLUDED.call_to_action,
				link_url = EXCLUDED.link_url,
				updated_at = NOW()
			RETURNING id
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	err = r.conn.QueryRow(sqlQuery, args...).Scan(&creative.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}
