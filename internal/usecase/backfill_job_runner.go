package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/jersey-metadata/internal/platform/id"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

const defaultBackfillJobTimeout = 5 * time.Minute

type BackfillJobConfig struct {
	Workers int
	Timeout time.Duration
}

// BackfillJobRunner executes accepted worker jobs in the background on a
// bounded, non-blocking ants pool.
type BackfillJobRunner struct {
	backfill *BackfillService
	ids      id.Generator
	pool     *ants.Pool
	timeout  time.Duration
	logger   *logging.Logger
	inFlight sync.WaitGroup
}

func NewBackfillJobRunner(backfill *BackfillService, ids id.Generator, cfg BackfillJobConfig, logger *logging.Logger) (*BackfillJobRunner, error) {
	if backfill == nil {
		return nil, fmt.Errorf("backfill service is required")
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultBackfillJobTimeout
	}

	pool, err := ants.NewPool(cfg.Workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create backfill job pool: %w", err)
	}

	return &BackfillJobRunner{
		backfill: backfill,
		ids:      ids,
		pool:     pool,
		timeout:  cfg.Timeout,
		logger:   logger.Named("backfill-jobs"),
	}, nil
}

// Enqueue schedules plan for execution and returns the job id. The job
// outlives the request context but keeps its trace.
func (r *BackfillJobRunner) Enqueue(ctx context.Context, plan BackfillPlan) (string, error) {
	jobID, err := r.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate job id: %w", err)
	}

	jobCtx := context.WithoutCancel(ctx)
	r.inFlight.Add(1)
	err = r.pool.Submit(func() {
		defer r.inFlight.Done()
		r.run(jobCtx, jobID, plan)
	})
	if err != nil {
		r.inFlight.Done()
		if errors.Is(err, ants.ErrPoolOverload) || errors.Is(err, ants.ErrPoolClosed) {
			return "", fmt.Errorf("%w: backfill queue is full", ErrDependencyUnavailable)
		}
		return "", fmt.Errorf("submit backfill job: %w", err)
	}

	r.logger.InfoContext(ctx, "backfill job accepted",
		"job_id", jobID, "club_id", plan.Club.ID, "season_id", plan.Season.ID, "season_label", plan.Season.Label)
	return jobID, nil
}

func (r *BackfillJobRunner) run(ctx context.Context, jobID string, plan BackfillPlan) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorContext(ctx, "backfill job panicked", "job_id", jobID, "panic", rec)
		}
	}()

	report, err := r.backfill.ExecutePlan(ctx, plan)
	if err != nil {
		r.logger.WarnContext(ctx, "backfill job failed", "job_id", jobID, "club_id", plan.Club.ID, "error", err)
		return
	}
	r.logger.InfoContext(ctx, "backfill job finished",
		"job_id", jobID,
		"club_id", report.ClubID,
		"players_upserted", report.PlayersUpserted,
		"contracts_upserted", report.ContractsUpserted,
	)
}

// Wait blocks until every accepted job has finished.
func (r *BackfillJobRunner) Wait() {
	r.inFlight.Wait()
}

// Shutdown stops accepting jobs and waits for running ones until ctx expires.
func (r *BackfillJobRunner) Shutdown(ctx context.Context) error {
	timeout := 30 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := r.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("release backfill job pool: %w", err)
	}
	return nil
}
