package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
)

type CompetitionRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   []competition.Competition
}

func NewCompetitionRepository() *CompetitionRepository {
	return &CompetitionRepository{}
}

func (r *CompetitionRepository) Upsert(_ context.Context, item competition.Competition) (competition.Competition, error) {
	item.ExternalID = strings.TrimSpace(item.ExternalID)
	if err := item.Validate(); err != nil {
		return competition.Competition{}, fmt.Errorf("upsert competition: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.rows {
		if r.rows[idx].ExternalID == item.ExternalID {
			item.ID = r.rows[idx].ID
			r.rows[idx] = item
			return item, nil
		}
	}
	r.nextID++
	item.ID = r.nextID
	r.rows = append(r.rows, item)
	return item, nil
}

func (r *CompetitionRepository) GetByID(_ context.Context, id int64) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.rows {
		if item.ID == id {
			return item, true, nil
		}
	}
	return competition.Competition{}, false, nil
}

func (r *CompetitionRepository) GetByExternalID(_ context.Context, externalID string) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	externalID = strings.TrimSpace(externalID)
	for _, item := range r.rows {
		if item.ExternalID == externalID {
			return item, true, nil
		}
	}
	return competition.Competition{}, false, nil
}
