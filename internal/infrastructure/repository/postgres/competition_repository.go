package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	qb "github.com/riskibarqy/jersey-metadata/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) Upsert(ctx context.Context, item competition.Competition) (competition.Competition, error) {
	if err := item.Validate(); err != nil {
		return competition.Competition{}, fmt.Errorf("upsert competition: %w", err)
	}

	insertModel := competitionInsertModel{
		ExternalID:       item.ExternalID,
		Name:             item.Name,
		CountryCode:      item.CountryCode,
		ClubCount:        item.ClubCount,
		PlayerCount:      item.PlayerCount,
		TotalMarketValue: item.TotalMarketValue,
	}
	query, args, err := qb.InsertModel("competitions", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET
    name = EXCLUDED.name,
    country_code = EXCLUDED.country_code,
    club_count = EXCLUDED.club_count,
    player_count = EXCLUDED.player_count,
    total_market_value = EXCLUDED.total_market_value,
    updated_at = NOW()
RETURNING `+competitionColumns)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("build competition upsert query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		return competition.Competition{}, fmt.Errorf("upsert competition external_id=%s: %w", item.ExternalID, err)
	}
	return competitionFromRow(row), nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, id int64) (competition.Competition, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *CompetitionRepository) GetByExternalID(ctx context.Context, externalID string) (competition.Competition, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *CompetitionRepository) getOne(ctx context.Context, cond qb.Condition) (competition.Competition, bool, error) {
	query, args, err := qb.Select(competitionColumns).From("competitions").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build select competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("select competition: %w", err)
	}
	return competitionFromRow(row), true, nil
}

func competitionFromRow(row competitionTableModel) competition.Competition {
	return competition.Competition{
		ID:               row.ID,
		ExternalID:       row.ExternalID,
		Name:             row.Name,
		CountryCode:      row.CountryCode,
		ClubCount:        row.ClubCount,
		PlayerCount:      row.PlayerCount,
		TotalMarketValue: row.TotalMarketValue,
	}
}
