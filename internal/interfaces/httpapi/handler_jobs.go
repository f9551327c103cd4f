package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

// RunBackfillJob is the worker side of the backfill dispatch. With a job
// runner the plan is validated synchronously and executed in the background.
func (h *Handler) RunBackfillJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBackfillJob")
	defer span.End()

	if h.backfill == nil {
		writeError(ctx, w, fmt.Errorf("%w: backfill service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req backfillJobRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	plan, err := h.backfill.PlanClubSeason(ctx, usecase.BackfillOptions{
		ClubID:            req.ClubID,
		SeasonID:          req.SeasonID,
		SeasonLabel:       req.SeasonLabel,
		PlayerExternalIDs: req.PlayerIDs,
		Players:           req.players(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "backfill job rejected",
			"club_id", req.ClubID, "season_id", req.SeasonID, "season_label", req.SeasonLabel, "error", err)
		writeJobError(ctx, w, err)
		return
	}

	if h.jobs == nil {
		report, err := h.backfill.ExecutePlan(ctx, plan)
		if err != nil {
			h.logger.WarnContext(ctx, "backfill job failed", "club_id", req.ClubID, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, report)
		return
	}

	jobID, err := h.jobs.Enqueue(ctx, plan)
	if err != nil {
		h.logger.WarnContext(ctx, "backfill job enqueue failed", "club_id", req.ClubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, backfillJobAcceptedDTO{
		JobID:         jobID,
		ClubID:        plan.Club.ID,
		SeasonID:      plan.Season.ID,
		SeasonLabel:   plan.Season.Label,
		SeasonCreated: plan.SeasonCreated,
	})
}

func writeJobError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(ctx, err)
	if isClubNotFound(err) {
		mapped.Reason = usecase.ReasonClubNotFound
	}
	writeMappedError(ctx, w, err, mapped)
}
