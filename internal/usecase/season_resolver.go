package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
)

// SeasonResolver turns free-text season input into a stored season.
type SeasonResolver struct {
	seasons season.Repository
}

func NewSeasonResolver(seasons season.Repository) *SeasonResolver {
	return &SeasonResolver{seasons: seasons}
}

// Resolve tries, in order: slash form, dash form, direct label, bare start
// year. The first form that parses and matches a stored season wins.
func (r *SeasonResolver) Resolve(ctx context.Context, raw string) (season.Season, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonResolver.Resolve")
	defer span.End()

	text := strings.TrimSpace(raw)
	if text == "" {
		return season.Season{}, false, nil
	}

	if label, ok := season.NormalizeSlashLabel(text); ok {
		item, found, err := r.byLabel(ctx, label)
		if err != nil || found {
			return item, found, err
		}
	}

	if start, end, ok := season.ParseDashRange(text); ok {
		label := fmt.Sprintf("%02d/%02d", start%100, end%100)
		item, found, err := r.byLabel(ctx, label)
		if err != nil || found {
			return item, found, err
		}
	}

	item, found, err := r.byLabel(ctx, text)
	if err != nil || found {
		return item, found, err
	}

	if year, ok := season.ParseStartYear(text); ok {
		externalID := strconv.Itoa(year)
		item, found, err := r.seasons.GetByExternalIDOrLabel(ctx, externalID, season.LabelFromStartYear(year))
		if err != nil {
			return season.Season{}, false, fmt.Errorf("find season by start year %d: %w", year, err)
		}
		// the two-digit label is shared across centuries: "1919" must not land on 2019/20
		if found && (item.ExternalID == externalID || item.StartsIn(year)) {
			return item, true, nil
		}
	}

	return season.Season{}, false, nil
}

func (r *SeasonResolver) byLabel(ctx context.Context, label string) (season.Season, bool, error) {
	item, found, err := r.seasons.GetByLabel(ctx, label)
	if err != nil {
		return season.Season{}, false, fmt.Errorf("find season by label %q: %w", label, err)
	}
	return item, found, nil
}
