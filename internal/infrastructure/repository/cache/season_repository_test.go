package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/jersey-metadata/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSeasonRepository struct {
	season.Repository
	labelCalls int
}

func (r *countingSeasonRepository) GetByLabel(ctx context.Context, label string) (season.Season, bool, error) {
	r.labelCalls++
	return r.Repository.GetByLabel(ctx, label)
}

func TestSeasonRepository_CachesHitsOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := &countingSeasonRepository{Repository: memory.NewSeasonRepository(nil)}
	repo := NewSeasonRepository(inner, basecache.NewStore[season.Season](time.Minute))

	_, found, err := repo.GetByLabel(ctx, "19/20")
	require.NoError(t, err)
	assert.False(t, found)

	created, err := inner.Repository.Upsert(ctx, season.FromStartYear(2019))
	require.NoError(t, err)

	got, found, err := repo.GetByLabel(ctx, "19/20")
	require.NoError(t, err)
	assert.True(t, found, "a miss must not be cached")
	assert.Equal(t, created.ID, got.ID)

	_, _, err = repo.GetByLabel(ctx, "19/20")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.labelCalls)
}

func TestSeasonRepository_UpsertRefreshesEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository(memory.NewSeasonRepository(nil), basecache.NewStore[season.Season](time.Minute))

	saved, err := repo.Upsert(ctx, season.Season{Label: "19/20"})
	require.NoError(t, err)

	byID, found, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, byID.ExternalID)

	_, err = repo.Upsert(ctx, season.FromStartYear(2019))
	require.NoError(t, err)

	byID, _, err = repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "2019", byID.ExternalID)
}
