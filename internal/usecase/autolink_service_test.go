package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/memory"
	seasonmock "github.com/riskibarqy/jersey-metadata/internal/mocks/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addContract(t *testing.T, env *testEnv, externalID, name string, clubID, seasonID int64, jersey int) player.Player {
	t.Helper()
	ctx := context.Background()

	saved, err := env.store.Players.Upsert(ctx, player.Player{ExternalID: externalID, FullName: name, CurrentClubID: clubID})
	require.NoError(t, err)
	_, err = env.store.Contracts.Upsert(ctx, contract.Contract{PlayerID: saved.ID, ClubID: clubID, SeasonID: seasonID, JerseyNumber: jersey})
	require.NoError(t, err)
	return saved
}

func TestAutoLink_ScenarioA_DanishNameResolvesClubAndSeason(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	copenhagen := env.club(t, memory.ClubExternalIDCopenhagen)

	result, err := env.autoLink.AutoLink(context.Background(), AutoLinkInput{
		ClubText:   "FC København",
		SeasonText: "19/20",
	})
	require.NoError(t, err)

	assert.Equal(t, copenhagen.ID, result.ClubID)
	assert.Equal(t, "FC Copenhagen", result.ClubName)
	assert.Equal(t, "19/20", result.SeasonLabel)
	assert.Empty(t, result.Players)
	assert.Equal(t, 90, result.Confidence)

	calls := env.dispatcher.calls()
	require.Len(t, calls, 1, "two seeded contracts are below the coverage threshold")
	assert.Equal(t, BackfillRequest{ClubID: copenhagen.ID, SeasonID: result.SeasonID, SeasonLabel: "19/20"}, calls[0])
}

func TestAutoLink_ScenarioB_UnknownClubStopsResolution(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	// No expectations: any season lookup fails the test.
	seasons := seasonmock.NewRepository(t)
	service := NewAutoLinkService(
		env.clubs,
		NewSeasonResolver(seasons),
		env.matching,
		env.backfill,
		logging.NewNop(),
	)

	result, err := service.AutoLink(context.Background(), AutoLinkInput{
		ClubText:     "Unknown FC",
		SeasonText:   "19/20",
		PlayerNumber: "7",
	})
	require.NoError(t, err)

	assert.Zero(t, result.Confidence)
	assert.Zero(t, result.ClubID)
	assert.Zero(t, result.SeasonID)
	assert.Empty(t, result.Players)
	assert.Empty(t, env.dispatcher.calls())
}

func TestAutoLink_ScenarioC_NoContractForNumber(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	result, err := env.autoLink.AutoLink(context.Background(), AutoLinkInput{
		ClubText:     "FC Copenhagen",
		SeasonText:   "2019/20",
		PlayerNumber: "10",
	})
	require.NoError(t, err)

	assert.NotNil(t, result.Players)
	assert.Empty(t, result.Players)
	assert.Zero(t, result.PlayerID)
	assert.Equal(t, 90, result.Confidence)
}

func TestAutoLink_ScenarioD_HintMismatchScores70(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	copenhagen := env.club(t, memory.ClubExternalIDCopenhagen)
	claesson := addContract(t, env, "99001", "Viktor Claesson", copenhagen.ID, env.seasonID(t, "19/20"), 7)

	result, err := env.autoLink.AutoLink(context.Background(), AutoLinkInput{
		ClubText:     "FC Copenhagen",
		SeasonText:   "19/20",
		PlayerName:   "Wind",
		PlayerNumber: "7",
	})
	require.NoError(t, err)

	require.Len(t, result.Players, 1)
	assert.Equal(t, claesson.ID, result.Players[0].PlayerID)
	assert.Equal(t, 70, result.Players[0].ConfidenceScore)
	assert.Equal(t, claesson.ID, result.PlayerID)
	assert.Equal(t, 100, result.Confidence)
}

func TestAutoLink_TopCandidateBonusIsClamped(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	result, err := env.autoLink.AutoLink(context.Background(), AutoLinkInput{
		ClubText:     "  fc   copenhagen ",
		SeasonText:   "2019-2020",
		PlayerName:   "jonas",
		PlayerNumber: "#23",
	})
	require.NoError(t, err)

	require.Len(t, result.Players, 1)
	assert.Equal(t, "Jonas Wind", result.PlayerName)
	assert.Equal(t, 100, result.Players[0].ConfidenceScore)
	assert.Equal(t, 100, result.Confidence)
}

func TestAutoLink_ClubOnlyWhenSeasonUnknown(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	result, err := env.autoLink.AutoLink(context.Background(), AutoLinkInput{
		ClubText:     "Brøndby",
		SeasonText:   "not a season",
		PlayerNumber: "23",
	})
	require.NoError(t, err)

	assert.Equal(t, "Brøndby IF", result.ClubName)
	assert.Zero(t, result.SeasonID)
	assert.Empty(t, result.Players)
	assert.Equal(t, 75, result.Confidence)
	assert.Empty(t, env.dispatcher.calls())
}

func TestAutoLink_DispatchFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.dispatcher.respond = func(BackfillRequest) error { return ErrDependencyUnavailable }

	result, err := env.autoLink.AutoLink(context.Background(), AutoLinkInput{
		ClubText:   "FC Copenhagen",
		SeasonText: "19/20",
	})
	require.NoError(t, err)
	assert.Equal(t, 90, result.Confidence)
	assert.Len(t, env.dispatcher.calls(), 1)
}

func TestAggregateConfidence(t *testing.T) {
	t.Parallel()

	top := []PlayerCandidate{{ConfidenceScore: 100}}
	weak := []PlayerCandidate{{ConfidenceScore: 70}}

	cases := []struct {
		name    string
		club    bool
		season  bool
		players []PlayerCandidate
		want    int
	}{
		{name: "nothing", want: 0},
		{name: "club only", club: true, want: 75},
		{name: "club and season", club: true, season: true, want: 90},
		{name: "weak player", club: true, season: true, players: weak, want: 100},
		{name: "strong player clamps", club: true, season: true, players: top, want: 100},
		{name: "players without season", club: true, players: top, want: 95},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, aggregateConfidence(tc.club, tc.season, tc.players), tc.name)
	}
}

func TestParsePlayerNumber(t *testing.T) {
	t.Parallel()

	valid := map[string]int{"7": 7, "#7": 7, " 07 ": 7, "0": 0, "99": 99}
	for raw, want := range valid {
		got, ok := parsePlayerNumber(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "#", "seven", "-1", "100", "7a"} {
		_, ok := parsePlayerNumber(raw)
		assert.False(t, ok, raw)
	}
}
