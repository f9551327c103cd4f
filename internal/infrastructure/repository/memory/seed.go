package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
)

const (
	CompetitionExternalIDSuperliga = "DK1"
	ClubExternalIDCopenhagen       = "190"
	ClubExternalIDBrondby          = "206"
)

func SeedCompetitions() []competition.Competition {
	return []competition.Competition{
		{ExternalID: CompetitionExternalIDSuperliga, Name: "Superliga", CountryCode: "DK", ClubCount: 12, PlayerCount: 310},
	}
}

func SeedSeasons() []season.Season {
	return []season.Season{
		season.FromStartYear(2018),
		season.FromStartYear(2019),
		season.FromStartYear(2020),
	}
}

func SeedClubs() []club.Club {
	return []club.Club{
		{
			ExternalID:     ClubExternalIDCopenhagen,
			Name:           "FC Copenhagen",
			OfficialName:   "Football Club København",
			Slug:           "fc-copenhagen",
			CountryCode:    "DK",
			PrimaryColor:   "#FFFFFF",
			SecondaryColor: "#001B5E",
		},
		{
			ExternalID:  ClubExternalIDBrondby,
			Name:        "Brøndby IF",
			Slug:        "brondby-if",
			CountryCode: "DK",
		},
	}
}

type seedContract struct {
	playerExternalID string
	clubExternalID   string
	seasonLabel      string
	jerseyNumber     int
}

func seedPlayers() []player.Player {
	return []player.Player{
		{ExternalID: "245510", FullName: "Jonas Wind", Nationality: "Denmark", Position: "Centre-Forward", ShirtNumber: 23},
		{ExternalID: "126578", FullName: "Pep Biel", Nationality: "Spain", Position: "Attacking Midfield", ShirtNumber: 10},
		{ExternalID: "78946", FullName: "Rasmus Falk", Nationality: "Denmark", Position: "Central Midfield", ShirtNumber: 33},
	}
}

func seedContracts() []seedContract {
	return []seedContract{
		{playerExternalID: "245510", clubExternalID: ClubExternalIDCopenhagen, seasonLabel: "19/20", jerseyNumber: 23},
		{playerExternalID: "78946", clubExternalID: ClubExternalIDCopenhagen, seasonLabel: "19/20", jerseyNumber: 33},
		{playerExternalID: "126578", clubExternalID: ClubExternalIDCopenhagen, seasonLabel: "20/21", jerseyNumber: 10},
	}
}

// NewSeededStore returns a store with a small Danish dataset for local runs.
func NewSeededStore(ctx context.Context) (*Store, error) {
	store := NewStore()

	for _, item := range SeedCompetitions() {
		if _, err := store.Competitions.Upsert(ctx, item); err != nil {
			return nil, fmt.Errorf("seed competition: %w", err)
		}
	}
	for _, item := range SeedSeasons() {
		if _, err := store.Seasons.Upsert(ctx, item); err != nil {
			return nil, fmt.Errorf("seed season: %w", err)
		}
	}

	clubIDs := make(map[string]int64)
	for _, item := range SeedClubs() {
		saved, err := store.Clubs.Upsert(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("seed club: %w", err)
		}
		clubIDs[saved.ExternalID] = saved.ID
	}

	playerIDs := make(map[string]int64)
	for _, item := range seedPlayers() {
		item.CurrentClubID = clubIDs[ClubExternalIDCopenhagen]
		saved, err := store.Players.Upsert(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("seed player: %w", err)
		}
		playerIDs[saved.ExternalID] = saved.ID
	}

	for _, item := range seedContracts() {
		seasonItem, ok, err := store.Seasons.GetByLabel(ctx, item.seasonLabel)
		if err != nil || !ok {
			return nil, fmt.Errorf("seed contract season %s not found", item.seasonLabel)
		}
		if _, err := store.Contracts.Upsert(ctx, contract.Contract{
			PlayerID:     playerIDs[item.playerExternalID],
			ClubID:       clubIDs[item.clubExternalID],
			SeasonID:     seasonItem.ID,
			JerseyNumber: item.jerseyNumber,
		}); err != nil {
			return nil, fmt.Errorf("seed contract: %w", err)
		}
	}

	return store, nil
}
