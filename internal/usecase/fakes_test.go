package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu sync.Mutex

	competitions []ExternalCompetition
	clubs        map[string][]ExternalClub
	rosters      map[string][]ExternalPlayer
	histories    map[string][]ExternalJerseyNumber
	historyErrs  map[string]error
	profiles     map[string]ExternalClubProfile
	rosterErr    error

	rosterCalls []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		clubs:       map[string][]ExternalClub{},
		rosters:     map[string][]ExternalPlayer{},
		histories:   map[string][]ExternalJerseyNumber{},
		historyErrs: map[string]error{},
		profiles:    map[string]ExternalClubProfile{},
	}
}

func (p *fakeProvider) SearchCompetitions(_ context.Context, _ string) ([]ExternalCompetition, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.competitions, nil
}

func (p *fakeProvider) ListCompetitionClubs(_ context.Context, competitionID, seasonID string) ([]ExternalClub, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clubs[competitionID+"|"+seasonID], nil
}

func (p *fakeProvider) ListClubPlayers(_ context.Context, clubID, seasonID string) ([]ExternalPlayer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rosterCalls = append(p.rosterCalls, clubID+"|"+seasonID)
	if p.rosterErr != nil {
		return nil, p.rosterErr
	}
	return p.rosters[clubID+"|"+seasonID], nil
}

func (p *fakeProvider) ListJerseyNumbers(_ context.Context, playerID string) ([]ExternalJerseyNumber, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.historyErrs[playerID]; err != nil {
		return nil, err
	}
	return p.histories[playerID], nil
}

func (p *fakeProvider) GetClubProfile(_ context.Context, clubID string) (ExternalClubProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profiles[clubID], nil
}

func (p *fakeProvider) rosterRequests() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.rosterCalls...)
}

// failingPlayers fails the upsert of one external id and delegates the rest.
type failingPlayers struct {
	player.Repository
	externalID string
}

func (r *failingPlayers) Upsert(ctx context.Context, item player.Player) (player.Player, error) {
	if item.ExternalID == r.externalID {
		return player.Player{}, errors.New("connection reset by peer")
	}
	return r.Repository.Upsert(ctx, item)
}

// failingContracts fails every upsert of one jersey number.
type failingContracts struct {
	contract.Repository
	jerseyNumber int
}

func (r *failingContracts) Upsert(ctx context.Context, item contract.Contract) (contract.Contract, error) {
	if item.JerseyNumber == r.jerseyNumber {
		return contract.Contract{}, errors.New("deadlock detected")
	}
	return r.Repository.Upsert(ctx, item)
}

type recordingDispatcher struct {
	mu       sync.Mutex
	requests []BackfillRequest
	respond  func(req BackfillRequest) error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, req BackfillRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	if d.respond != nil {
		return d.respond(req)
	}
	return nil
}

func (d *recordingDispatcher) calls() []BackfillRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]BackfillRequest(nil), d.requests...)
}

type testEnv struct {
	store      *memory.Store
	provider   *fakeProvider
	dispatcher *recordingDispatcher
	seasons    *SeasonResolver
	clubs      *ClubResolver
	matching   *MatchingService
	backfill   *BackfillService
	autoLink   *AutoLinkService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := memory.NewSeededStore(context.Background())
	require.NoError(t, err)

	env := &testEnv{
		store:      store,
		provider:   newFakeProvider(),
		dispatcher: &recordingDispatcher{},
	}
	logger := logging.NewNop()
	aliases := club.NewAliasTable(map[string]string{"FC København": "FC Copenhagen"})

	env.seasons = NewSeasonResolver(store.Seasons)
	env.clubs = NewClubResolver(store.Clubs, aliases)
	env.matching = NewMatchingService(store.Contracts, store.Players, env.seasons)
	env.backfill = NewBackfillService(store.Seasons, store.Clubs, store.Players, store.Contracts,
		env.provider, env.dispatcher, BackfillConfig{MaxWorkers: 2}, logger)
	env.autoLink = NewAutoLinkService(env.clubs, env.seasons, env.matching, env.backfill, logger)
	return env
}

func (e *testEnv) club(t *testing.T, externalID string) club.Club {
	t.Helper()
	item, found, err := e.store.Clubs.GetByExternalID(context.Background(), externalID)
	require.NoError(t, err)
	require.True(t, found, "club %s not seeded", externalID)
	return item
}

func (e *testEnv) seasonID(t *testing.T, label string) int64 {
	t.Helper()
	item, found, err := e.store.Seasons.GetByLabel(context.Background(), label)
	require.NoError(t, err)
	require.True(t, found, "season %s not seeded", label)
	return item.ID
}
