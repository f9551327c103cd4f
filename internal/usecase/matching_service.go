package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/platform/textnorm"
	"go.opentelemetry.io/otel/attribute"
)

const (
	confidenceExactMatch   = 100
	confidenceHintMismatch = 70
)

type MatchPlayersInput struct {
	ClubID         int64
	SeasonID       int64
	SeasonLabel    string
	JerseyNumber   *int
	PlayerNameHint string
}

type PlayerCandidate struct {
	PlayerID        int64  `json:"playerId"`
	ExternalID      string `json:"externalId,omitempty"`
	FullName        string `json:"fullName"`
	Position        string `json:"position,omitempty"`
	JerseyNumber    int    `json:"jerseyNumber"`
	ConfidenceScore int    `json:"confidenceScore"`
}

type MatchingService struct {
	contracts contract.Repository
	players   player.Repository
	seasons   *SeasonResolver
}

func NewMatchingService(contracts contract.Repository, players player.Repository, seasons *SeasonResolver) *MatchingService {
	return &MatchingService{
		contracts: contracts,
		players:   players,
		seasons:   seasons,
	}
}

// MatchPlayers returns candidates for a club/season, highest confidence first.
// Unknown clubs, unknown seasons and empty contract sets give an empty list.
func (s *MatchingService) MatchPlayers(ctx context.Context, input MatchPlayersInput) ([]PlayerCandidate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchingService.MatchPlayers",
		attribute.Int64("club.id", input.ClubID),
		attribute.Int64("season.id", input.SeasonID),
	)
	defer span.End()

	if input.ClubID <= 0 {
		return []PlayerCandidate{}, nil
	}
	if input.JerseyNumber != nil && *input.JerseyNumber < 0 {
		return nil, fmt.Errorf("%w: jersey number must not be negative", ErrInvalidInput)
	}

	seasonID := input.SeasonID
	if seasonID <= 0 {
		if strings.TrimSpace(input.SeasonLabel) == "" {
			return []PlayerCandidate{}, nil
		}
		item, found, err := s.seasons.Resolve(ctx, input.SeasonLabel)
		if err != nil {
			return nil, err
		}
		if !found {
			return []PlayerCandidate{}, nil
		}
		seasonID = item.ID
	}

	contracts, err := s.contracts.ListByClubSeason(ctx, input.ClubID, seasonID, input.JerseyNumber)
	if err != nil {
		return nil, fmt.Errorf("list contracts club=%d season=%d: %w", input.ClubID, seasonID, err)
	}
	if len(contracts) == 0 {
		return []PlayerCandidate{}, nil
	}
	if input.JerseyNumber == nil {
		contracts = distinctPlayers(contracts)
	}

	playerIDs := make([]int64, 0, len(contracts))
	for _, c := range contracts {
		playerIDs = append(playerIDs, c.PlayerID)
	}
	players, err := s.players.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}
	byID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	hint := strings.TrimSpace(input.PlayerNameHint)
	out := make([]PlayerCandidate, 0, len(contracts))
	for _, c := range contracts {
		p, ok := byID[c.PlayerID]
		if !ok {
			continue
		}
		out = append(out, PlayerCandidate{
			PlayerID:        p.ID,
			ExternalID:      p.ExternalID,
			FullName:        p.FullName,
			Position:        p.Position,
			JerseyNumber:    c.JerseyNumber,
			ConfidenceScore: scoreCandidate(p.FullName, hint),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConfidenceScore > out[j].ConfidenceScore
	})
	return out, nil
}

// distinctPlayers keeps the first contract seen per player.
func distinctPlayers(items []contract.Contract) []contract.Contract {
	seen := make(map[int64]struct{}, len(items))
	out := make([]contract.Contract, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.PlayerID]; ok {
			continue
		}
		seen[item.PlayerID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func scoreCandidate(fullName, hint string) int {
	if hint == "" || textnorm.ContainsEither(fullName, hint) {
		return confidenceExactMatch
	}
	return confidenceHintMismatch
}
