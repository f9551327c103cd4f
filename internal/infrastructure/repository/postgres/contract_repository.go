package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	qb "github.com/riskibarqy/jersey-metadata/internal/platform/querybuilder"
)

type ContractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Upsert(ctx context.Context, item contract.Contract) (contract.Contract, error) {
	if err := item.Validate(); err != nil {
		return contract.Contract{}, fmt.Errorf("upsert contract: %w", err)
	}

	insertModel := contractInsertModel{
		PlayerID:     item.PlayerID,
		ClubID:       item.ClubID,
		SeasonID:     item.SeasonID,
		JerseyNumber: item.JerseyNumber,
	}
	query, args, err := qb.InsertModel("player_contracts", insertModel, `ON CONFLICT (player_id, club_id, season_id, jersey_number)
DO UPDATE SET updated_at = NOW()
RETURNING `+contractColumns)
	if err != nil {
		return contract.Contract{}, fmt.Errorf("build contract upsert query: %w", err)
	}

	var row contractTableModel
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if isForeignKeyViolation(err) {
			return contract.Contract{}, fmt.Errorf("upsert contract player=%d club=%d season=%d: %w", item.PlayerID, item.ClubID, item.SeasonID, contract.ErrMissingReference)
		}
		return contract.Contract{}, fmt.Errorf("upsert contract player=%d club=%d season=%d: %w", item.PlayerID, item.ClubID, item.SeasonID, err)
	}
	return contractFromRow(row), nil
}

func (r *ContractRepository) ListByClubSeason(ctx context.Context, clubID, seasonID int64, jersey *int) ([]contract.Contract, error) {
	conditions := []qb.Condition{
		qb.Eq("club_id", clubID),
		qb.Eq("season_id", seasonID),
	}
	if jersey != nil {
		conditions = append(conditions, qb.Eq("jersey_number", *jersey))
	}

	query, args, err := qb.Select(contractColumns).From("player_contracts").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select contracts query: %w", err)
	}

	var rows []contractTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select contracts club=%d season=%d: %w", clubID, seasonID, err)
	}

	out := make([]contract.Contract, 0, len(rows))
	for _, row := range rows {
		out = append(out, contractFromRow(row))
	}
	return out, nil
}

func (r *ContractRepository) CountByClubSeason(ctx context.Context, clubID, seasonID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("player_contracts").
		Where(qb.Eq("club_id", clubID), qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count contracts query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count contracts club=%d season=%d: %w", clubID, seasonID, err)
	}
	return count, nil
}

func contractFromRow(row contractTableModel) contract.Contract {
	return contract.Contract{
		ID:           row.ID,
		PlayerID:     row.PlayerID,
		ClubID:       row.ClubID,
		SeasonID:     row.SeasonID,
		JerseyNumber: row.JerseyNumber,
	}
}
