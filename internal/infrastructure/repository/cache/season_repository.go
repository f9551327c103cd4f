package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	basecache "github.com/riskibarqy/jersey-metadata/internal/platform/cache"
)

// SeasonRepository is a read-through decorator. Only hits are cached, so a
// season created by a backfill is visible on the next lookup.
type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store[season.Season]
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store[season.Season]) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) Upsert(ctx context.Context, item season.Season) (season.Season, error) {
	saved, err := r.next.Upsert(ctx, item)
	if err != nil {
		return season.Season{}, err
	}
	r.cache.DeletePrefix(ctx, "season:")
	r.remember(ctx, saved)
	return saved, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, id int64) (season.Season, bool, error) {
	return r.cache.GetOrLoad(ctx, "season:id:"+strconv.FormatInt(id, 10), func(ctx context.Context) (season.Season, bool, error) {
		return r.next.GetByID(ctx, id)
	})
}

func (r *SeasonRepository) GetByLabel(ctx context.Context, label string) (season.Season, bool, error) {
	label = strings.TrimSpace(label)
	return r.cache.GetOrLoad(ctx, "season:label:"+label, func(ctx context.Context) (season.Season, bool, error) {
		return r.next.GetByLabel(ctx, label)
	})
}

func (r *SeasonRepository) GetByExternalIDOrLabel(ctx context.Context, externalID, label string) (season.Season, bool, error) {
	key := "season:ext:" + strings.TrimSpace(externalID) + "|" + strings.TrimSpace(label)
	return r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (season.Season, bool, error) {
		return r.next.GetByExternalIDOrLabel(ctx, externalID, label)
	})
}

func (r *SeasonRepository) remember(ctx context.Context, item season.Season) {
	if item.ID > 0 {
		r.cache.Set(ctx, "season:id:"+strconv.FormatInt(item.ID, 10), item)
	}
	if item.Label != "" {
		r.cache.Set(ctx, "season:label:"+item.Label, item)
	}
}
