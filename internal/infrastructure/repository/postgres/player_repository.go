package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	qb "github.com/riskibarqy/jersey-metadata/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Upsert(ctx context.Context, item player.Player) (player.Player, error) {
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("upsert player: %w", err)
	}

	insertModel := playerInsertModel{
		ExternalID:    strings.TrimSpace(item.ExternalID),
		FullName:      strings.TrimSpace(item.FullName),
		Nationality:   nullableString(item.Nationality),
		Position:      nullableString(item.Position),
		CurrentClubID: nullableInt64(item.CurrentClubID),
		ShirtNumber:   nullableInt(item.ShirtNumber),
	}
	query, args, err := qb.InsertModel("players", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET
    full_name = EXCLUDED.full_name,
    nationality = COALESCE(EXCLUDED.nationality, players.nationality),
    position = COALESCE(EXCLUDED.position, players.position),
    current_club_id = COALESCE(EXCLUDED.current_club_id, players.current_club_id),
    shirt_number = COALESCE(EXCLUDED.shirt_number, players.shirt_number),
    updated_at = NOW()
RETURNING `+playerColumns)
	if err != nil {
		return player.Player{}, fmt.Errorf("build player upsert query: %w", err)
	}

	var row playerTableModel
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		return player.Player{}, fmt.Errorf("upsert player external_id=%s: %w", item.ExternalID, err)
	}
	return playerFromRow(row), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID string) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", strings.TrimSpace(externalID)))
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerColumns).From("players").
		Where(qb.In("id", int64sToAny(ids))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) getOne(ctx context.Context, cond qb.Condition) (player.Player, bool, error) {
	query, args, err := qb.Select(playerColumns).From("players").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player: %w", err)
	}
	return playerFromRow(row), true, nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:            row.ID,
		ExternalID:    row.ExternalID,
		FullName:      row.FullName,
		Nationality:   nullStringValue(row.Nationality),
		Position:      nullStringValue(row.Position),
		CurrentClubID: nullInt64Value(row.CurrentClubID),
		ShirtNumber:   int(nullInt64Value(row.ShirtNumber)),
	}
}
