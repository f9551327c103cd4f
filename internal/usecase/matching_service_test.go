package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/memory"
	contractmock "github.com/riskibarqy/jersey-metadata/internal/mocks/domain/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestMatchPlayers_LabelFormsResolveToSameSeason(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	clubID := env.club(t, memory.ClubExternalIDCopenhagen).ID

	short, err := env.matching.MatchPlayers(context.Background(), MatchPlayersInput{ClubID: clubID, SeasonLabel: "19/20"})
	require.NoError(t, err)
	long, err := env.matching.MatchPlayers(context.Background(), MatchPlayersInput{ClubID: clubID, SeasonLabel: "2019/20"})
	require.NoError(t, err)

	require.NotEmpty(t, short)
	assert.Equal(t, short, long)
}

func TestMatchPlayers_ByJerseyNumber(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	clubID := env.club(t, memory.ClubExternalIDCopenhagen).ID

	got, err := env.matching.MatchPlayers(context.Background(), MatchPlayersInput{
		ClubID:       clubID,
		SeasonID:     env.seasonID(t, "19/20"),
		JerseyNumber: intPtr(23),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Jonas Wind", got[0].FullName)
	assert.Equal(t, 23, got[0].JerseyNumber)
	assert.Equal(t, 100, got[0].ConfidenceScore)
}

func TestMatchPlayers_DistinctPlayersKeepFirstJersey(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	clubID := env.club(t, memory.ClubExternalIDCopenhagen).ID
	seasonID := env.seasonID(t, "19/20")
	addContract(t, env, "245510", "Jonas Wind", clubID, seasonID, 9)

	got, err := env.matching.MatchPlayers(context.Background(), MatchPlayersInput{ClubID: clubID, SeasonID: seasonID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Jonas Wind", got[0].FullName)
	assert.Equal(t, 23, got[0].JerseyNumber)
	assert.Equal(t, "Rasmus Falk", got[1].FullName)
}

func TestMatchPlayers_HintRanksMatchesFirst(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	clubID := env.club(t, memory.ClubExternalIDCopenhagen).ID

	got, err := env.matching.MatchPlayers(context.Background(), MatchPlayersInput{
		ClubID:         clubID,
		SeasonLabel:    "19/20",
		PlayerNameHint: "FALK",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rasmus Falk", got[0].FullName)
	assert.Equal(t, 100, got[0].ConfidenceScore)
	assert.Equal(t, 70, got[1].ConfidenceScore)
}

func TestMatchPlayers_HintFoldsDiacritics(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	clubID := env.club(t, memory.ClubExternalIDCopenhagen).ID
	addContract(t, env, "99002", "Zeca Ørsted", clubID, env.seasonID(t, "19/20"), 6)

	got, err := env.matching.MatchPlayers(context.Background(), MatchPlayersInput{
		ClubID:         clubID,
		SeasonLabel:    "19/20",
		JerseyNumber:   intPtr(6),
		PlayerNameHint: "orsted",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 100, got[0].ConfidenceScore)
}

func TestMatchPlayers_EmptyWithoutError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	copenhagen := env.club(t, memory.ClubExternalIDCopenhagen).ID
	brondby := env.club(t, memory.ClubExternalIDBrondby).ID

	cases := map[string]MatchPlayersInput{
		"unknown club":         {ClubID: 9999, SeasonLabel: "19/20"},
		"missing club":         {SeasonLabel: "19/20"},
		"unknown season":       {ClubID: copenhagen, SeasonLabel: "1999/00"},
		"no season":            {ClubID: copenhagen},
		"no contracts":         {ClubID: brondby, SeasonLabel: "19/20"},
		"no matching number":   {ClubID: copenhagen, SeasonLabel: "19/20", JerseyNumber: intPtr(10)},
		"unparseable season":   {ClubID: copenhagen, SeasonLabel: "next year"},
		"unknown season by id": {ClubID: copenhagen, SeasonID: 9999},
	}
	for name, input := range cases {
		got, err := env.matching.MatchPlayers(context.Background(), input)
		require.NoError(t, err, name)
		assert.NotNil(t, got, name)
		assert.Empty(t, got, name)
	}
}

func TestMatchPlayers_RejectsNegativeJersey(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.matching.MatchPlayers(context.Background(), MatchPlayersInput{ClubID: 1, SeasonID: 1, JerseyNumber: intPtr(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMatchPlayers_PropagatesRepositoryFaults(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	contracts := contractmock.NewRepository(t)
	contracts.
		On("ListByClubSeason", mock.Anything, int64(1), int64(2), (*int)(nil)).
		Return([]contract.Contract(nil), errors.New("connection refused")).
		Once()

	service := NewMatchingService(contracts, env.store.Players, env.seasons)
	_, err := service.MatchPlayers(context.Background(), MatchPlayersInput{ClubID: 1, SeasonID: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
