package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/platform/textnorm"
	"github.com/sourcegraph/conc/pool"
)

const defaultSeedConcurrency = 3

type SeedInput struct {
	CompetitionName string
	SeasonLabel     string
	MaxConcurrency  int
	// SkipBackfill only links competition, season and clubs.
	SkipBackfill bool
}

type SeedReport struct {
	CompetitionID   int64            `json:"competitionId"`
	CompetitionName string           `json:"competitionName"`
	SeasonID        int64            `json:"seasonId"`
	SeasonLabel     string           `json:"seasonLabel"`
	ClubsLinked     int              `json:"clubsLinked"`
	ClubsFailed     int              `json:"clubsFailed"`
	Clubs           []ClubSeedResult `json:"clubs"`
}

type ClubSeedResult struct {
	ClubID   int64           `json:"clubId"`
	ClubName string          `json:"clubName"`
	Backfill *BackfillReport `json:"backfill,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// SeedService bootstraps a competition season from the upstream catalogue.
type SeedService struct {
	competitions competition.Repository
	seasons      season.Repository
	clubs        club.Repository
	provider     ReferenceDataProvider
	backfill     *BackfillService
	logger       *logging.Logger
}

func NewSeedService(
	competitions competition.Repository,
	seasons season.Repository,
	clubs club.Repository,
	provider ReferenceDataProvider,
	backfill *BackfillService,
	logger *logging.Logger,
) *SeedService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeedService{
		competitions: competitions,
		seasons:      seasons,
		clubs:        clubs,
		provider:     provider,
		backfill:     backfill,
		logger:       logger.Named("seed"),
	}
}

func (s *SeedService) SeedCompetition(ctx context.Context, input SeedInput) (SeedReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeedService.SeedCompetition")
	defer span.End()

	name := strings.TrimSpace(input.CompetitionName)
	if name == "" {
		return SeedReport{}, fmt.Errorf("%w: competition name is required", ErrInvalidInput)
	}
	seasonCandidate, ok := season.FromLabel(input.SeasonLabel)
	if !ok {
		return SeedReport{}, fmt.Errorf("%w: unparseable season %q", ErrInvalidInput, input.SeasonLabel)
	}
	if s.provider == nil {
		return SeedReport{}, fmt.Errorf("%w: upstream provider is not configured", ErrDependencyUnavailable)
	}

	found, err := s.provider.SearchCompetitions(ctx, name)
	if err != nil {
		return SeedReport{}, fmt.Errorf("search competitions %q: %w", name, err)
	}
	external, ok := pickCompetition(name, found)
	if !ok {
		return SeedReport{}, fmt.Errorf("%w: competition %q", ErrNotFound, name)
	}

	comp, err := s.competitions.Upsert(ctx, competition.Competition{
		ExternalID:       external.ExternalID,
		Name:             external.Name,
		CountryCode:      external.CountryCode,
		ClubCount:        external.ClubCount,
		PlayerCount:      external.PlayerCount,
		TotalMarketValue: external.TotalMarketValue,
	})
	if err != nil {
		return SeedReport{}, fmt.Errorf("%w: upsert competition: %w", ErrPersistence, err)
	}
	seasonItem, err := s.seasons.Upsert(ctx, seasonCandidate)
	if err != nil {
		return SeedReport{}, fmt.Errorf("%w: upsert season: %w", ErrPersistence, err)
	}

	clubs, err := s.provider.ListCompetitionClubs(ctx, comp.ExternalID, seasonItem.ExternalID)
	if err != nil {
		return SeedReport{}, fmt.Errorf("list clubs competition=%s season=%s: %w", comp.ExternalID, seasonItem.ExternalID, err)
	}

	report := SeedReport{
		CompetitionID:   comp.ID,
		CompetitionName: comp.Name,
		SeasonID:        seasonItem.ID,
		SeasonLabel:     seasonItem.Label,
	}

	linked := make([]club.Club, 0, len(clubs))
	for _, item := range clubs {
		saved, err := s.linkClub(ctx, comp, seasonItem, item)
		if err != nil {
			report.ClubsFailed++
			report.Clubs = append(report.Clubs, ClubSeedResult{ClubName: item.Name, Error: err.Error()})
			s.logger.WarnContext(ctx, "club link failed", "club_external_id", item.ExternalID, "error", err)
			continue
		}
		linked = append(linked, saved)
	}
	report.ClubsLinked = len(linked)

	if input.SkipBackfill || s.backfill == nil {
		for _, item := range linked {
			report.Clubs = append(report.Clubs, ClubSeedResult{ClubID: item.ID, ClubName: item.Name})
		}
		return report, nil
	}

	concurrency := input.MaxConcurrency
	if concurrency <= 0 {
		concurrency = defaultSeedConcurrency
	}
	p := pool.NewWithResults[ClubSeedResult]().WithMaxGoroutines(concurrency)
	for _, item := range linked {
		p.Go(func() ClubSeedResult {
			result := ClubSeedResult{ClubID: item.ID, ClubName: item.Name}
			backfillReport, err := s.backfill.ExecutePlan(ctx, BackfillPlan{Club: item, Season: seasonItem})
			if err != nil {
				result.Error = err.Error()
				return result
			}
			result.Backfill = &backfillReport
			return result
		})
	}
	report.Clubs = append(report.Clubs, p.Wait()...)
	sort.SliceStable(report.Clubs, func(i, j int) bool {
		return report.Clubs[i].ClubName < report.Clubs[j].ClubName
	})

	s.logger.InfoContext(ctx, "competition seeded",
		"competition", comp.Name, "season_label", seasonItem.Label,
		"clubs_linked", report.ClubsLinked, "clubs_failed", report.ClubsFailed)
	return report, nil
}

func (s *SeedService) linkClub(ctx context.Context, comp competition.Competition, seasonItem season.Season, item ExternalClub) (club.Club, error) {
	name := strings.TrimSpace(item.Name)
	if item.ExternalID == "" || name == "" {
		return club.Club{}, fmt.Errorf("%w: club without id or name", ErrInvalidInput)
	}

	saved, err := s.clubs.Upsert(ctx, club.Club{
		ExternalID:  item.ExternalID,
		Name:        name,
		Slug:        textnorm.Slug(name),
		CountryCode: comp.CountryCode,
	})
	if err != nil {
		return club.Club{}, fmt.Errorf("%w: upsert club: %w", ErrPersistence, err)
	}
	if _, err := s.clubs.UpsertClubSeason(ctx, club.ClubSeason{
		CompetitionID: comp.ID,
		SeasonID:      seasonItem.ID,
		ClubID:        saved.ID,
	}); err != nil {
		return club.Club{}, fmt.Errorf("%w: upsert club season: %w", ErrPersistence, err)
	}
	return saved, nil
}

// pickCompetition prefers an exact folded name match, else the first result.
func pickCompetition(name string, items []ExternalCompetition) (ExternalCompetition, bool) {
	if len(items) == 0 {
		return ExternalCompetition{}, false
	}
	want := textnorm.Fold(name)
	for _, item := range items {
		if textnorm.Fold(item.Name) == want {
			return item, true
		}
	}
	return items[0], true
}
