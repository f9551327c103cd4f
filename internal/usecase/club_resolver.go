package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/platform/textnorm"
)

const defaultClubSearchLimit = 20

const (
	clubRankNone = iota
	clubRankSubstring
	clubRankPrefix
	clubRankExact
)

// ClubResolver turns free-text club input into a stored club.
type ClubResolver struct {
	clubs       club.Repository
	aliases     *club.AliasTable
	searchLimit int
}

func NewClubResolver(clubs club.Repository, aliases *club.AliasTable) *ClubResolver {
	return &ClubResolver{
		clubs:       clubs,
		aliases:     aliases,
		searchLimit: defaultClubSearchLimit,
	}
}

// Resolve searches every alias term (mapped names first, then the input) and
// keeps the best-ranked hit across all of them: exact > prefix > substring on
// name or official name. Ties go to the earlier term. When no search hit
// ranks, it falls back to an exact match on the trimmed input.
func (r *ClubResolver) Resolve(ctx context.Context, raw string) (club.Club, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubResolver.Resolve")
	defer span.End()

	terms := r.aliases.Terms(raw)
	if len(terms) == 0 {
		return club.Club{}, false, nil
	}

	var (
		best     club.Club
		bestRank = clubRankNone
	)
	for _, term := range terms {
		candidates, err := r.clubs.SearchByName(ctx, term, r.searchLimit)
		if err != nil {
			return club.Club{}, false, fmt.Errorf("search clubs by %q: %w", term, err)
		}
		candidate, rank := bestClubMatch(term, candidates)
		if rank > bestRank {
			best, bestRank = candidate, rank
		}
		if bestRank == clubRankExact {
			break
		}
	}
	if bestRank > clubRankNone {
		return best, true, nil
	}

	item, found, err := r.clubs.FindByExactName(ctx, strings.TrimSpace(raw))
	if err != nil {
		return club.Club{}, false, fmt.Errorf("find club by exact name: %w", err)
	}
	return item, found, nil
}

func bestClubMatch(term string, candidates []club.Club) (club.Club, int) {
	needle := textnorm.Fold(term)
	bestRank := clubRankNone
	var best club.Club
	for _, candidate := range candidates {
		rank := max(rankClubName(needle, candidate.Name), rankClubName(needle, candidate.OfficialName))
		if rank > bestRank {
			bestRank = rank
			best = candidate
		}
	}
	return best, bestRank
}

func rankClubName(needle, name string) int {
	folded := textnorm.Fold(name)
	switch {
	case needle == "" || folded == "":
		return clubRankNone
	case folded == needle:
		return clubRankExact
	case strings.HasPrefix(folded, needle):
		return clubRankPrefix
	case strings.Contains(folded, needle):
		return clubRankSubstring
	default:
		return clubRankNone
	}
}
