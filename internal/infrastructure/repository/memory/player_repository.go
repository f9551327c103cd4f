package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   []player.Player
}

func NewPlayerRepository(seed []player.Player) *PlayerRepository {
	r := &PlayerRepository{}
	for _, item := range seed {
		_, _ = r.Upsert(context.Background(), item)
	}
	return r
}

func (r *PlayerRepository) Upsert(_ context.Context, item player.Player) (player.Player, error) {
	item.ExternalID = strings.TrimSpace(item.ExternalID)
	item.FullName = strings.TrimSpace(item.FullName)
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("upsert player: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.rows {
		row := &r.rows[idx]
		if row.ExternalID != item.ExternalID {
			continue
		}
		row.FullName = item.FullName
		row.Nationality = keep(row.Nationality, item.Nationality)
		row.Position = keep(row.Position, item.Position)
		if item.CurrentClubID > 0 {
			row.CurrentClubID = item.CurrentClubID
		}
		if item.ShirtNumber > 0 {
			row.ShirtNumber = item.ShirtNumber
		}
		return *row, nil
	}

	r.nextID++
	item.ID = r.nextID
	r.rows = append(r.rows, item)
	return item, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.rows {
		if item.ID == id {
			return item, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, externalID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	externalID = strings.TrimSpace(externalID)
	for _, item := range r.rows {
		if item.ExternalID == externalID {
			return item, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, ids []int64) ([]player.Player, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil
	}

	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(ids))
	for _, item := range r.rows {
		if _, ok := want[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}
