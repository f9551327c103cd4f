package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
)

type SeasonRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   []season.Season
}

func NewSeasonRepository(seed []season.Season) *SeasonRepository {
	r := &SeasonRepository{}
	for _, item := range seed {
		_, _ = r.Upsert(context.Background(), item)
	}
	return r
}

// Upsert is keyed by label; empty or zero fields keep the stored value.
func (r *SeasonRepository) Upsert(_ context.Context, item season.Season) (season.Season, error) {
	item.Label = strings.TrimSpace(item.Label)
	if err := item.Validate(); err != nil {
		return season.Season{}, fmt.Errorf("upsert season: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.rows {
		row := &r.rows[idx]
		if row.Label != item.Label {
			continue
		}
		if item.ExternalID != "" {
			row.ExternalID = item.ExternalID
		}
		if item.StartYear != 0 {
			row.StartYear = item.StartYear
		}
		if item.EndYear != 0 {
			row.EndYear = item.EndYear
		}
		return *row, nil
	}

	r.nextID++
	item.ID = r.nextID
	r.rows = append(r.rows, item)
	return item, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, id int64) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.rows {
		if item.ID == id {
			return item, true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) GetByLabel(_ context.Context, label string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	label = strings.TrimSpace(label)
	for _, item := range r.rows {
		if item.Label == label {
			return item, true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) GetByExternalIDOrLabel(ctx context.Context, externalID, label string) (season.Season, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID != "" {
		r.mu.RLock()
		for _, item := range r.rows {
			if item.ExternalID == externalID {
				r.mu.RUnlock()
				return item, true, nil
			}
		}
		r.mu.RUnlock()
	}
	if strings.TrimSpace(label) == "" {
		return season.Season{}, false, nil
	}
	return r.GetByLabel(ctx, label)
}
