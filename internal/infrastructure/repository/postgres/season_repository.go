package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	qb "github.com/riskibarqy/jersey-metadata/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) Upsert(ctx context.Context, item season.Season) (season.Season, error) {
	item.Label = strings.TrimSpace(item.Label)
	if err := item.Validate(); err != nil {
		return season.Season{}, fmt.Errorf("upsert season: %w", err)
	}

	insertModel := seasonInsertModel{
		ExternalID: nullableString(item.ExternalID),
		Label:      item.Label,
		StartYear:  nullableInt(item.StartYear),
		EndYear:    nullableInt(item.EndYear),
	}
	query, args, err := qb.InsertModel("seasons", insertModel, `ON CONFLICT (label)
DO UPDATE SET
    external_id = COALESCE(EXCLUDED.external_id, seasons.external_id),
    start_year = COALESCE(EXCLUDED.start_year, seasons.start_year),
    end_year = COALESCE(EXCLUDED.end_year, seasons.end_year),
    updated_at = NOW()
RETURNING `+seasonColumns)
	if err != nil {
		return season.Season{}, fmt.Errorf("build season upsert query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		return season.Season{}, fmt.Errorf("upsert season label=%s: %w", item.Label, err)
	}
	return seasonFromRow(row), nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, id int64) (season.Season, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *SeasonRepository) GetByLabel(ctx context.Context, label string) (season.Season, bool, error) {
	return r.getOne(ctx, qb.Eq("label", strings.TrimSpace(label)))
}

func (r *SeasonRepository) GetByExternalIDOrLabel(ctx context.Context, externalID, label string) (season.Season, bool, error) {
	if externalID = strings.TrimSpace(externalID); externalID != "" {
		item, found, err := r.getOne(ctx, qb.Eq("external_id", externalID))
		if err != nil || found {
			return item, found, err
		}
	}
	if strings.TrimSpace(label) == "" {
		return season.Season{}, false, nil
	}
	return r.GetByLabel(ctx, label)
}

func (r *SeasonRepository) getOne(ctx context.Context, cond qb.Condition) (season.Season, bool, error) {
	query, args, err := qb.Select(seasonColumns).From("seasons").Where(cond).OrderBy("id").Limit(1).ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build select season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("select season: %w", err)
	}
	return seasonFromRow(row), true, nil
}

func seasonFromRow(row seasonTableModel) season.Season {
	return season.Season{
		ID:         row.ID,
		ExternalID: nullStringValue(row.ExternalID),
		Label:      row.Label,
		StartYear:  int(nullInt64Value(row.StartYear)),
		EndYear:    int(nullInt64Value(row.EndYear)),
	}
}
