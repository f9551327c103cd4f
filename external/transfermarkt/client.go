// Package transfermarkt is the read-only client for the upstream football catalogue.
package transfermarkt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/platform/resilience"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 6 << 20
)

var (
	errTransient = crerr.New("transfermarkt transient failure")
	errNotFound  = crerr.New("transfermarkt resource not found")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Retry          resilience.RetryPolicy
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	timeout    time.Duration
	retry      resilience.RetryPolicy
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.Group[[]byte]
}

var _ usecase.ReferenceDataProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	retry := cfg.Retry
	if retry.MaxAttempts == 0 && retry.BaseDelay == 0 {
		retry = resilience.DefaultRetryPolicy()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:      strings.TrimSpace(cfg.Token),
		timeout:    timeout,
		retry:      retry.Normalize(),
		logger:     logger.Named("transfermarkt"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

func (c *Client) SearchCompetitions(ctx context.Context, name string) ([]usecase.ExternalCompetition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: competition name is required", usecase.ErrInvalidInput)
	}

	var payload envelope[competitionItem]
	found, err := c.getJSON(ctx, "/competitions/search/"+url.PathEscape(name), nil, &payload)
	if err != nil || !found {
		return []usecase.ExternalCompetition{}, err
	}

	out := make([]usecase.ExternalCompetition, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID == "" {
			continue
		}
		out = append(out, usecase.ExternalCompetition{
			ExternalID:       string(item.ID),
			Name:             strings.TrimSpace(item.Name),
			CountryCode:      firstNonEmpty(item.CountryCode, item.Country),
			ClubCount:        int(item.Clubs),
			PlayerCount:      int(item.Players),
			TotalMarketValue: int64(item.TotalMarketValue),
		})
	}
	return out, nil
}

func (c *Client) ListCompetitionClubs(ctx context.Context, competitionID, seasonID string) ([]usecase.ExternalClub, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("%w: competition id is required", usecase.ErrInvalidInput)
	}

	var payload envelope[clubItem]
	found, err := c.getJSON(ctx, "/competitions/"+url.PathEscape(competitionID)+"/clubs", seasonQuery(seasonID), &payload)
	if err != nil || !found {
		return []usecase.ExternalClub{}, err
	}

	out := make([]usecase.ExternalClub, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID == "" {
			continue
		}
		out = append(out, usecase.ExternalClub{
			ExternalID: string(item.ID),
			Name:       strings.TrimSpace(item.Name),
		})
	}
	return out, nil
}

func (c *Client) ListClubPlayers(ctx context.Context, clubID, seasonID string) ([]usecase.ExternalPlayer, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: club id is required", usecase.ErrInvalidInput)
	}

	var payload envelope[playerItem]
	found, err := c.getJSON(ctx, "/clubs/"+url.PathEscape(clubID)+"/players", seasonQuery(seasonID), &payload)
	if err != nil || !found {
		return []usecase.ExternalPlayer{}, err
	}

	out := make([]usecase.ExternalPlayer, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID == "" {
			continue
		}
		out = append(out, usecase.ExternalPlayer{
			ExternalID:  string(item.ID),
			Name:        strings.TrimSpace(item.Name),
			Nationality: item.Nationality.first(),
			Position:    strings.TrimSpace(item.Position),
			ShirtNumber: int(item.ShirtNumber),
		})
	}
	return out, nil
}

func (c *Client) ListJerseyNumbers(ctx context.Context, playerID string) ([]usecase.ExternalJerseyNumber, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", usecase.ErrInvalidInput)
	}

	var payload envelope[jerseyNumberItem]
	found, err := c.getJSON(ctx, "/players/"+url.PathEscape(playerID)+"/jersey_numbers", nil, &payload)
	if err != nil || !found {
		return []usecase.ExternalJerseyNumber{}, err
	}

	out := make([]usecase.ExternalJerseyNumber, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.Season == "" || item.Club == "" || item.JerseyNumber < 0 {
			continue
		}
		out = append(out, usecase.ExternalJerseyNumber{
			SeasonID:       string(item.Season),
			ClubExternalID: string(item.Club),
			JerseyNumber:   int(item.JerseyNumber),
		})
	}
	return out, nil
}

func (c *Client) GetClubProfile(ctx context.Context, clubID string) (usecase.ExternalClubProfile, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return usecase.ExternalClubProfile{}, fmt.Errorf("%w: club id is required", usecase.ErrInvalidInput)
	}

	var payload clubProfile
	found, err := c.getJSON(ctx, "/clubs/"+url.PathEscape(clubID)+"/profile", nil, &payload)
	if err != nil || !found {
		return usecase.ExternalClubProfile{}, err
	}

	return usecase.ExternalClubProfile{
		ExternalID:     firstNonEmpty(string(payload.ID), clubID),
		Name:           strings.TrimSpace(payload.Name),
		OfficialName:   strings.TrimSpace(payload.OfficialName),
		CountryCode:    strings.TrimSpace(payload.CountryCode),
		CrestURL:       strings.TrimSpace(payload.Image),
		PrimaryColor:   payload.Colors.at(0),
		SecondaryColor: payload.Colors.at(1),
	}, nil
}

// getJSON reports found=false on a 404 without an error.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) (bool, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, _, err := c.flight.Do(fullURL, func() ([]byte, error) {
		var body []byte
		execErr := c.breaker.Execute(ctx, func(ctx context.Context) error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isCircuitFailure)
		return body, execErr
	})
	if err != nil {
		if crerr.Is(err, errNotFound) {
			return false, nil
		}
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "transfermarkt circuit breaker rejected request", "path", path, "state", c.breaker.State())
		}
		return false, crerr.Mark(crerr.Wrapf(err, "transfermarkt GET %s", path), usecase.ErrUpstreamUnavailable)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return false, crerr.Mark(crerr.Wrapf(err, "decode transfermarkt payload %s", path), usecase.ErrUpstreamUnavailable)
	}
	return true, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		raw, err := c.doOnce(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		if crerr.Is(err, errNotFound) {
			return nil, err
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt == c.retry.MaxAttempts {
			break
		}
		delay := c.retry.Delay(attempt)
		c.logger.DebugContext(ctx, "transfermarkt request retry", "attempt", attempt, "delay", delay, "error", err)
		if err := resilience.Sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "transfermarkt request failed", "url", fullURL, "attempts", c.retry.MaxAttempts, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, fullURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Mark(crerr.Newf("send request: %s", sanitizeSensitiveText(err.Error(), c.token)), errTransient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "read response body"), errTransient)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotFound
	case isTransientStatus(resp.StatusCode):
		return nil, crerr.Mark(crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errTransient)
	default:
		return nil, crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
}

func seasonQuery(seasonID string) url.Values {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil
	}
	return url.Values{"season_id": []string{seasonID}}
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
