package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_UpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPlayerRepository(nil)

	first, err := repo.Upsert(ctx, player.Player{ExternalID: "8198", FullName: "Cristiano Ronaldo", Position: "Winger"})
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, player.Player{ExternalID: "8198", FullName: "Cristiano Ronaldo dos Santos", ShirtNumber: 7})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Cristiano Ronaldo dos Santos", second.FullName)
	assert.Equal(t, "Winger", second.Position)
	assert.Equal(t, 7, second.ShirtNumber)
	assert.Len(t, repo.rows, 1)
}

func TestClubRepository_UpsertKeepsBranding(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewClubRepository(nil)

	_, err := repo.Upsert(ctx, club.Club{ExternalID: "190", Name: "FC Copenhagen", Slug: "fc-copenhagen", CrestURL: "https://img/190.png"})
	require.NoError(t, err)
	saved, err := repo.Upsert(ctx, club.Club{ExternalID: "190", Name: "F.C. Copenhagen"})
	require.NoError(t, err)

	assert.Equal(t, "F.C. Copenhagen", saved.Name)
	assert.Equal(t, "https://img/190.png", saved.CrestURL)
	assert.Equal(t, "fc-copenhagen", saved.Slug)
	assert.Len(t, repo.rows, 1)

	_, err = repo.Upsert(ctx, club.Club{ExternalID: "206", Name: "Brøndby", Slug: "fc-copenhagen"})
	assert.Error(t, err)
}

func TestClubRepository_SearchAndExact(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewClubRepository(SeedClubs())

	hits, err := repo.SearchByName(ctx, "copen", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "FC Copenhagen", hits[0].Name)

	hits, err = repo.SearchByName(ctx, "KØBENHAVN", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1, "official name is searched too")

	found, ok, err := repo.FindByExactName(ctx, "  Brøndby IF ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "206", found.ExternalID)

	link, err := repo.UpsertClubSeason(ctx, club.ClubSeason{CompetitionID: 1, SeasonID: 2, ClubID: found.ID})
	require.NoError(t, err)
	again, err := repo.UpsertClubSeason(ctx, club.ClubSeason{CompetitionID: 1, SeasonID: 2, ClubID: found.ID})
	require.NoError(t, err)
	assert.Equal(t, link.ID, again.ID)
}

func TestClubRepository_SearchRanksExactBeforeSubstring(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewClubRepository([]club.Club{
		{ExternalID: "1", Name: "AC Milan Primavera"},
		{ExternalID: "2", Name: "AAA Milan Fans"},
		{ExternalID: "3", Name: "Milan"},
		{ExternalID: "4", Name: "Milan Futuro"},
	})

	hits, err := repo.SearchByName(ctx, "milan", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Milan", hits[0].Name)
	assert.Equal(t, "Milan Futuro", hits[1].Name)
}

func TestClubRepository_UpdateProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewClubRepository(nil)
	saved, err := repo.Upsert(ctx, club.Club{ExternalID: "206", Name: "Brøndby", CountryCode: "DK", PrimaryColor: "#FFD700"})
	require.NoError(t, err)

	updated, found, err := repo.UpdateProfile(ctx, saved.ID, club.Profile{
		OfficialName: "Brøndby Idrætsforening",
		CrestURL:     "https://img/206.png",
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Brøndby Idrætsforening", updated.OfficialName)
	assert.Equal(t, "https://img/206.png", updated.CrestURL)
	assert.Equal(t, "DK", updated.CountryCode, "empty profile values keep the stored ones")
	assert.Equal(t, "#FFD700", updated.PrimaryColor)
	assert.Equal(t, "Brøndby", updated.Name)

	_, found, err = repo.UpdateProfile(ctx, 999, club.Profile{CrestURL: "x"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSeasonRepository_GetByExternalIDOrLabel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository([]season.Season{{Label: "19/20"}})

	byLabel, ok, err := repo.GetByExternalIDOrLabel(ctx, "2019", "19/20")
	require.NoError(t, err)
	require.True(t, ok)

	updated, err := repo.Upsert(ctx, season.FromStartYear(2019))
	require.NoError(t, err)
	assert.Equal(t, byLabel.ID, updated.ID)
	assert.Equal(t, "2019", updated.ExternalID)

	byExternal, ok, err := repo.GetByExternalIDOrLabel(ctx, "2019", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, updated.ID, byExternal.ID)

	_, ok, err = repo.GetByExternalIDOrLabel(ctx, "1990", "90/91")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContractRepository_RejectsMissingReferences(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	seasonItem, err := store.Seasons.Upsert(ctx, season.FromStartYear(2019))
	require.NoError(t, err)
	clubItem, err := store.Clubs.Upsert(ctx, club.Club{ExternalID: "190", Name: "FC Copenhagen"})
	require.NoError(t, err)
	p, err := store.Players.Upsert(ctx, player.Player{ExternalID: "1", FullName: "Jonas Wind"})
	require.NoError(t, err)

	_, err = store.Contracts.Upsert(ctx, contract.Contract{PlayerID: p.ID, ClubID: clubItem.ID + 100, SeasonID: seasonItem.ID, JerseyNumber: 23})
	assert.ErrorIs(t, err, contract.ErrMissingReference)

	first, err := store.Contracts.Upsert(ctx, contract.Contract{PlayerID: p.ID, ClubID: clubItem.ID, SeasonID: seasonItem.ID, JerseyNumber: 23})
	require.NoError(t, err)
	second, err := store.Contracts.Upsert(ctx, contract.Contract{PlayerID: p.ID, ClubID: clubItem.ID, SeasonID: seasonItem.ID, JerseyNumber: 23})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := store.Contracts.CountByClubSeason(ctx, clubItem.ID, seasonItem.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestContractRepository_ConcurrentUpsertsOfSameKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewSeededStore(ctx)
	require.NoError(t, err)

	clubItem, _, _ := store.Clubs.GetByExternalID(ctx, ClubExternalIDCopenhagen)
	seasonItem, _, _ := store.Seasons.GetByLabel(ctx, "18/19")
	p, _, _ := store.Players.GetByExternalID(ctx, "245510")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Contracts.Upsert(ctx, contract.Contract{PlayerID: p.ID, ClubID: clubItem.ID, SeasonID: seasonItem.ID, JerseyNumber: 9})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	jersey := 9
	rows, err := store.Contracts.ListByClubSeason(ctx, clubItem.ID, seasonItem.ID, &jersey)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
