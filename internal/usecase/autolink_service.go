package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

const (
	confidenceBase         = 50
	confidenceClubBonus    = 25
	confidenceSeasonBonus  = 15
	confidencePlayersBonus = 10
	confidenceTopBonus     = 10
	topCandidateThreshold  = 90
)

type AutoLinkInput struct {
	ClubText     string
	SeasonText   string
	PlayerName   string
	PlayerNumber string
}

// AutoLinkResult carries zero ids for anything that did not resolve.
type AutoLinkResult struct {
	ClubID      int64             `json:"clubId,omitempty"`
	ClubName    string            `json:"clubName,omitempty"`
	SeasonID    int64             `json:"seasonId,omitempty"`
	SeasonLabel string            `json:"seasonLabel,omitempty"`
	PlayerID    int64             `json:"playerId,omitempty"`
	PlayerName  string            `json:"playerName,omitempty"`
	Players     []PlayerCandidate `json:"players"`
	Confidence  int               `json:"confidence"`
}

// AutoLinkService reconciles free-text jersey attributes with the reference dataset.
type AutoLinkService struct {
	clubs    *ClubResolver
	seasons  *SeasonResolver
	matching *MatchingService
	backfill *BackfillService
	logger   *logging.Logger
}

func NewAutoLinkService(
	clubs *ClubResolver,
	seasons *SeasonResolver,
	matching *MatchingService,
	backfill *BackfillService,
	logger *logging.Logger,
) *AutoLinkService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AutoLinkService{
		clubs:    clubs,
		seasons:  seasons,
		matching: matching,
		backfill: backfill,
		logger:   logger.Named("autolink"),
	}
}

// AutoLink resolves club, season and player. Unresolved parts lower the
// confidence; only infrastructure faults return an error.
func (s *AutoLinkService) AutoLink(ctx context.Context, input AutoLinkInput) (AutoLinkResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AutoLinkService.AutoLink")
	defer span.End()

	result := AutoLinkResult{Players: []PlayerCandidate{}}

	clubItem, found, err := s.clubs.Resolve(ctx, input.ClubText)
	if err != nil {
		return AutoLinkResult{}, err
	}
	if !found {
		return result, nil
	}
	result.ClubID = clubItem.ID
	result.ClubName = clubItem.Name

	seasonItem, seasonFound, err := s.seasons.Resolve(ctx, input.SeasonText)
	if err != nil {
		return AutoLinkResult{}, err
	}
	if seasonFound {
		result.SeasonID = seasonItem.ID
		result.SeasonLabel = seasonItem.Label

		if s.backfill != nil {
			outcome := s.backfill.AutoBackfillIfNeeded(ctx, clubItem.ID, seasonItem.ID, seasonItem.Label)
			s.logger.DebugContext(ctx, "auto backfill outcome",
				"club_id", clubItem.ID, "season_id", seasonItem.ID,
				"status", outcome.Status, "reason", outcome.Reason, "error", outcome.Err)
		}

		if number, ok := parsePlayerNumber(input.PlayerNumber); ok {
			candidates, err := s.matching.MatchPlayers(ctx, MatchPlayersInput{
				ClubID:         clubItem.ID,
				SeasonID:       seasonItem.ID,
				JerseyNumber:   &number,
				PlayerNameHint: input.PlayerName,
			})
			if err != nil {
				return AutoLinkResult{}, err
			}
			result.Players = candidates
			if len(candidates) > 0 {
				result.PlayerID = candidates[0].PlayerID
				result.PlayerName = candidates[0].FullName
			}
		}
	}

	result.Confidence = aggregateConfidence(true, seasonFound, result.Players)
	return result, nil
}

func aggregateConfidence(clubMatched, seasonMatched bool, players []PlayerCandidate) int {
	if !clubMatched {
		return 0
	}
	score := confidenceBase + confidenceClubBonus
	if seasonMatched {
		score += confidenceSeasonBonus
	}
	if len(players) > 0 {
		score += confidencePlayersBonus
		if players[0].ConfidenceScore >= topCandidateThreshold {
			score += confidenceTopBonus
		}
	}
	return min(max(score, 0), 100)
}

// parsePlayerNumber accepts "7", "#7" and " 07 ".
func parsePlayerNumber(raw string) (int, bool) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if trimmed == "" {
		return 0, false
	}
	number, err := strconv.Atoi(trimmed)
	if err != nil || number < 0 || number > 99 {
		return 0, false
	}
	return number, true
}
