package usecase

import "context"

// ReferenceDataProvider is the read-only upstream football catalogue.
// Identifiers are the provider's own string ids; season ids are start years.
type ReferenceDataProvider interface {
	SearchCompetitions(ctx context.Context, name string) ([]ExternalCompetition, error)
	ListCompetitionClubs(ctx context.Context, competitionID, seasonID string) ([]ExternalClub, error)
	ListClubPlayers(ctx context.Context, clubID, seasonID string) ([]ExternalPlayer, error)
	ListJerseyNumbers(ctx context.Context, playerID string) ([]ExternalJerseyNumber, error)
	GetClubProfile(ctx context.Context, clubID string) (ExternalClubProfile, error)
}

type ExternalCompetition struct {
	ExternalID       string
	Name             string
	CountryCode      string
	ClubCount        int
	PlayerCount      int
	TotalMarketValue int64
}

type ExternalClub struct {
	ExternalID string
	Name       string
}

type ExternalPlayer struct {
	ExternalID  string
	Name        string
	Nationality string
	Position    string
	ShirtNumber int
}

// ExternalJerseyNumber is one row of a player's jersey history.
type ExternalJerseyNumber struct {
	SeasonID       string
	ClubExternalID string
	JerseyNumber   int
}

type ExternalClubProfile struct {
	ExternalID     string
	Name           string
	OfficialName   string
	CountryCode    string
	CrestURL       string
	PrimaryColor   string
	SecondaryColor string
}

// BackfillDispatcher hands a club/season backfill to the asynchronous worker.
// A worker reply with reason seasonNotFound is reported as ErrSeasonNotFound.
type BackfillDispatcher interface {
	Dispatch(ctx context.Context, req BackfillRequest) error
}

// BackfillRequest identifies the club/season to backfill. SeasonID zero means
// the worker resolves the season from SeasonLabel.
type BackfillRequest struct {
	ClubID      int64
	SeasonID    int64
	SeasonLabel string
}
