package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
)

// ContractRepository checks references the way the postgres foreign keys do.
type ContractRepository struct {
	mu      sync.RWMutex
	nextID  int64
	rows    []contract.Contract
	players *PlayerRepository
	clubs   *ClubRepository
	seasons *SeasonRepository
}

func NewContractRepository(players *PlayerRepository, clubs *ClubRepository, seasons *SeasonRepository) *ContractRepository {
	return &ContractRepository{
		players: players,
		clubs:   clubs,
		seasons: seasons,
	}
}

func (r *ContractRepository) Upsert(ctx context.Context, item contract.Contract) (contract.Contract, error) {
	if err := item.Validate(); err != nil {
		return contract.Contract{}, fmt.Errorf("upsert contract: %w", err)
	}
	if err := r.checkReferences(ctx, item); err != nil {
		return contract.Contract{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.PlayerID == item.PlayerID && row.ClubID == item.ClubID && row.SeasonID == item.SeasonID && row.JerseyNumber == item.JerseyNumber {
			return row, nil
		}
	}
	r.nextID++
	item.ID = r.nextID
	r.rows = append(r.rows, item)
	return item, nil
}

func (r *ContractRepository) checkReferences(ctx context.Context, item contract.Contract) error {
	if r.players != nil {
		if _, ok, _ := r.players.GetByID(ctx, item.PlayerID); !ok {
			return fmt.Errorf("player id=%d: %w", item.PlayerID, contract.ErrMissingReference)
		}
	}
	if r.clubs != nil {
		if _, ok, _ := r.clubs.GetByID(ctx, item.ClubID); !ok {
			return fmt.Errorf("club id=%d: %w", item.ClubID, contract.ErrMissingReference)
		}
	}
	if r.seasons != nil {
		if _, ok, _ := r.seasons.GetByID(ctx, item.SeasonID); !ok {
			return fmt.Errorf("season id=%d: %w", item.SeasonID, contract.ErrMissingReference)
		}
	}
	return nil
}

func (r *ContractRepository) ListByClubSeason(_ context.Context, clubID, seasonID int64, jersey *int) ([]contract.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contract.Contract, 0)
	for _, row := range r.rows {
		if row.ClubID != clubID || row.SeasonID != seasonID {
			continue
		}
		if jersey != nil && row.JerseyNumber != *jersey {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *ContractRepository) CountByClubSeason(_ context.Context, clubID, seasonID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, row := range r.rows {
		if row.ClubID == clubID && row.SeasonID == seasonID {
			count++
		}
	}
	return count, nil
}
