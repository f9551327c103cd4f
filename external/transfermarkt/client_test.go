package transfermarkt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/platform/resilience"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, breaker resilience.CircuitBreakerConfig) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL + "/",
		Token:          "secret-token",
		Timeout:        time.Second,
		Retry:          resilience.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond},
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestClient_SearchCompetitions_ResultsEnvelope(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/competitions/search/Superliga", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"query":"Superliga","results":[
			{"id":"DK1","name":"Superliga","country":"Denmark","clubs":12,"players":"298","totalMarketValue":"245000000"},
			{"id":"","name":"ignored"}
		]}`))
	}), resilience.CircuitBreakerConfig{})

	items, err := client.SearchCompetitions(context.Background(), " Superliga ")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, usecase.ExternalCompetition{
		ExternalID:       "DK1",
		Name:             "Superliga",
		CountryCode:      "Denmark",
		ClubCount:        12,
		PlayerCount:      298,
		TotalMarketValue: 245000000,
	}, items[0])
}

func TestClient_ListCompetitionClubs_PassesSeason(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/competitions/DK1/clubs", r.URL.Path)
		assert.Equal(t, "2019", r.URL.Query().Get("season_id"))
		_, _ = w.Write([]byte(`{"id":"DK1","clubs":[{"id":190,"name":"FC Copenhagen"},{"id":"206","name":"Brøndby IF"}]}`))
	}), resilience.CircuitBreakerConfig{})

	clubs, err := client.ListCompetitionClubs(context.Background(), "DK1", "2019")
	require.NoError(t, err)
	assert.Equal(t, []usecase.ExternalClub{
		{ExternalID: "190", Name: "FC Copenhagen"},
		{ExternalID: "206", Name: "Brøndby IF"},
	}, clubs)
}

func TestClient_ListClubPlayers_BareArrayAndNationalityList(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"245510","name":"Jonas Wind","position":"Centre-Forward","nationality":["Denmark","Poland"],"shirtNumber":"23"}]`))
	}), resilience.CircuitBreakerConfig{})

	players, err := client.ListClubPlayers(context.Background(), "190", "2019")
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Denmark", players[0].Nationality)
	assert.Equal(t, 23, players[0].ShirtNumber)
}

func TestClient_ListJerseyNumbers(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/245510/jersey_numbers", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"245510","jerseyNumbers":[
			{"season":"19/20","club":"190","jerseyNumber":23},
			{"season":"2020","club":190,"jerseyNumber":"9"},
			{"season":"","club":"190","jerseyNumber":1}
		]}`))
	}), resilience.CircuitBreakerConfig{})

	history, err := client.ListJerseyNumbers(context.Background(), "245510")
	require.NoError(t, err)
	assert.Equal(t, []usecase.ExternalJerseyNumber{
		{SeasonID: "19/20", ClubExternalID: "190", JerseyNumber: 23},
		{SeasonID: "2020", ClubExternalID: "190", JerseyNumber: 9},
	}, history)
}

func TestClient_GetClubProfile(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"190","name":"FC Copenhagen","officialName":"Football Club København","image":"https://img/190.png","colors":["#FFFFFF","#1E3C78"]}`))
	}), resilience.CircuitBreakerConfig{})

	profile, err := client.GetClubProfile(context.Background(), "190")
	require.NoError(t, err)
	assert.Equal(t, "Football Club København", profile.OfficialName)
	assert.Equal(t, "https://img/190.png", profile.CrestURL)
	assert.Equal(t, "#FFFFFF", profile.PrimaryColor)
	assert.Equal(t, "#1E3C78", profile.SecondaryColor)
}

func TestClient_RetriesRateLimitThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"clubs":[{"id":"190","name":"FC Copenhagen"}]}`))
	}), resilience.CircuitBreakerConfig{})

	clubs, err := client.ListCompetitionClubs(context.Background(), "DK1", "2019")
	require.NoError(t, err)
	assert.Len(t, clubs, 1)
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_ExhaustedRetriesMarkUpstreamUnavailable(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom secret-token", http.StatusBadGateway)
	}), resilience.CircuitBreakerConfig{})

	_, err := client.ListClubPlayers(context.Background(), "190", "2019")
	require.Error(t, err)
	assert.True(t, crerr.Is(err, usecase.ErrUpstreamUnavailable))
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_NotFoundIsEmptyWithoutRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}), resilience.CircuitBreakerConfig{})

	history, err := client.ListJerseyNumbers(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_CircuitOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}), resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	_, err := client.ListClubPlayers(context.Background(), "190", "2019")
	require.Error(t, err)
	before := calls.Load()

	_, err = client.ListClubPlayers(context.Background(), "190", "2019")
	require.Error(t, err)
	assert.True(t, crerr.Is(err, resilience.ErrCircuitOpen))
	assert.True(t, crerr.Is(err, usecase.ErrUpstreamUnavailable))
	assert.Equal(t, before, calls.Load())
}

func TestClient_CoalescesConcurrentIdenticalRequests(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"players":[{"id":"1","name":"A"}]}`))
	}), resilience.CircuitBreakerConfig{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			players, err := client.ListClubPlayers(context.Background(), "190", "2019")
			assert.NoError(t, err)
			assert.Len(t, players, 1)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_RejectsEmptyIDs(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := client.ListClubPlayers(context.Background(), " ", "2019")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
	_, err = client.SearchCompetitions(context.Background(), "")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}
