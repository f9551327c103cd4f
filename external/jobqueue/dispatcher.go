// Package jobqueue dispatches backfill jobs to the asynchronous metadata worker.
package jobqueue

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/platform/resilience"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	backfillPath   = "/backfill-metadata"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4096
)

var errWorkerTransient = crerr.New("backfill worker transient failure")

type DispatcherConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Retry          resilience.RetryPolicy
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Dispatcher posts backfill requests to {BaseURL}/backfill-metadata.
type Dispatcher struct {
	client  *fasthttp.Client
	baseURL string
	token   string
	timeout time.Duration
	retry   resilience.RetryPolicy
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

var _ usecase.BackfillDispatcher = (*Dispatcher)(nil)

type backfillPayload struct {
	ClubID      int64  `json:"clubId"`
	SeasonID    int64  `json:"seasonId,omitempty"`
	SeasonLabel string `json:"seasonLabel,omitempty"`
}

type errorEnvelope struct {
	Reason string `json:"reason"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

func NewDispatcher(cfg DispatcherConfig, logger *logging.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = logging.Default()
	}

	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid BACKFILL_WORKER_URL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 && retry.BaseDelay == 0 {
		retry = resilience.DefaultRetryPolicy()
	}

	return &Dispatcher{
		client: &fasthttp.Client{
			Name:         "jersey-metadata-dispatcher",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		retry:   retry.Normalize(),
		logger:  logger.Named("dispatcher"),
		breaker: resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}, nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, req usecase.BackfillRequest) error {
	if req.ClubID <= 0 {
		return fmt.Errorf("%w: club id is required", usecase.ErrInvalidInput)
	}
	if req.SeasonID <= 0 && strings.TrimSpace(req.SeasonLabel) == "" {
		return fmt.Errorf("%w: season id or label is required", usecase.ErrInvalidInput)
	}

	payload := backfillPayload{
		ClubID:      req.ClubID,
		SeasonID:    req.SeasonID,
		SeasonLabel: strings.TrimSpace(req.SeasonLabel),
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Int64("backfill.club_id", payload.ClubID),
			attribute.Int64("backfill.season_id", payload.SeasonID),
			attribute.String("backfill.season_label", payload.SeasonLabel),
		)
	}

	err := d.breaker.Execute(ctx, func(ctx context.Context) error {
		return d.postWithRetry(ctx, payload)
	}, isCircuitFailure)
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			d.logger.WarnContext(ctx, "backfill worker circuit breaker rejected request", "state", d.breaker.State())
			return fmt.Errorf("%w: backfill worker is temporarily unavailable: %w", usecase.ErrDependencyUnavailable, err)
		}
		return err
	}

	d.logger.InfoContext(ctx, "backfill job dispatched",
		"club_id", payload.ClubID,
		"season_id", payload.SeasonID,
		"season_label", payload.SeasonLabel,
	)
	return nil
}

// postWithRetry repeats transient failures only. A missing season or any
// other rejection by the worker is returned after the first attempt.
func (d *Dispatcher) postWithRetry(ctx context.Context, payload backfillPayload) error {
	var lastErr error
	for attempt := 1; attempt <= d.retry.MaxAttempts; attempt++ {
		err := d.post(ctx, payload)
		if err == nil {
			return nil
		}
		if !crerr.Is(err, errWorkerTransient) {
			return err
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt == d.retry.MaxAttempts {
			break
		}
		delay := d.retry.Delay(attempt)
		d.logger.DebugContext(ctx, "backfill dispatch retry", "attempt", attempt, "delay", delay, "error", err)
		if err := resilience.Sleep(ctx, delay); err != nil {
			return err
		}
	}

	d.logger.WarnContext(ctx, "backfill dispatch failed",
		"club_id", payload.ClubID,
		"attempts", d.retry.MaxAttempts,
		"error", lastErr,
	)
	return lastErr
}

func (d *Dispatcher) post(ctx context.Context, payload backfillPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return crerr.Wrap(err, "marshal backfill payload")
	}

	request := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(request)
	response := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(response)

	target := d.baseURL + backfillPath
	request.SetRequestURI(target)
	request.Header.SetMethod(fasthttp.MethodPost)
	request.Header.SetContentType("application/json")
	request.Header.Set("Accept", "application/json")
	if d.token != "" {
		request.Header.Set("Authorization", "Bearer "+d.token)
	}
	request.SetBody(buf.B)

	if err := d.client.DoDeadline(request, response, d.deadline(ctx)); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "post %s", target), errWorkerTransient)
	}

	status := response.StatusCode()
	if status/100 == 2 {
		return nil
	}

	body := response.Body()
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	reason, message := parseErrorEnvelope(body)

	if isSeasonNotFound(reason) {
		return fmt.Errorf("%w: worker status=%d reason=%s message=%s", usecase.ErrSeasonNotFound, status, reason, message)
	}

	callErr := crerr.Newf("backfill worker status=%d reason=%s body=%s", status, reason, strings.TrimSpace(string(body)))
	if isRetryableStatus(status) {
		return crerr.Mark(callErr, errWorkerTransient)
	}
	return callErr
}

func (d *Dispatcher) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(d.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

func parseErrorEnvelope(body []byte) (string, string) {
	var envelope errorEnvelope
	if len(body) == 0 || sonic.Unmarshal(body, &envelope) != nil {
		return "", ""
	}

	reason := strings.TrimSpace(envelope.Reason)
	message := ""
	if envelope.Error != nil {
		message = strings.TrimSpace(envelope.Error.Message)
		for _, item := range envelope.Error.Errors {
			if reason == "" {
				reason = strings.TrimSpace(item.Reason)
			}
			if message == "" {
				message = strings.TrimSpace(item.Message)
			}
		}
	}
	return reason, message
}

// isSeasonNotFound accepts seasonNotFound and season_not_found.
func isSeasonNotFound(reason string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(reason), "_", ""))
	return normalized == strings.ToLower(usecase.ReasonSeasonNotFound)
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errWorkerTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
