package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	autoLink  *usecase.AutoLinkService
	matching  *usecase.MatchingService
	backfill  *usecase.BackfillService
	jobs      *usecase.BackfillJobRunner
	logger    *logging.Logger
	validator *validator.Validate
}

// NewHandler wires the HTTP surface. jobs may be nil, in which case worker
// requests run the backfill inline and answer with the report.
func NewHandler(
	autoLink *usecase.AutoLinkService,
	matching *usecase.MatchingService,
	backfill *usecase.BackfillService,
	jobs *usecase.BackfillJobRunner,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		autoLink:  autoLink,
		matching:  matching,
		backfill:  backfill,
		jobs:      jobs,
		logger:    logger.Named("handler"),
		validator: validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSONBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}
	if err := sonic.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type autoLinkRequest struct {
	Club         string `json:"club" validate:"required,max=200"`
	Season       string `json:"season" validate:"omitempty,max=50"`
	PlayerName   string `json:"playerName" validate:"omitempty,max=200"`
	PlayerNumber string `json:"playerNumber" validate:"omitempty,max=8"`
}

// backfillJobRequest is the worker contract posted by the dispatcher.
type backfillJobRequest struct {
	ClubID      int64                   `json:"clubId" validate:"required,gt=0"`
	SeasonID    int64                   `json:"seasonId" validate:"required_without=SeasonLabel,gte=0"`
	SeasonLabel string                  `json:"seasonLabel" validate:"required_without=SeasonID,max=20"`
	PlayerIDs   []string                `json:"playerIds" validate:"omitempty,max=200,dive,required"`
	Players     []backfillPlayerRequest `json:"players" validate:"omitempty,max=200,dive"`
}

// backfillPlayerRequest is one player of an explicit subset; the worker skips the roster fetch.
type backfillPlayerRequest struct {
	ExternalID  string `json:"externalId" validate:"required,max=32"`
	Name        string `json:"name" validate:"required,max=200"`
	Position    string `json:"position" validate:"omitempty,max=100"`
	Nationality string `json:"nationality" validate:"omitempty,max=100"`
	ShirtNumber int    `json:"shirtNumber" validate:"gte=0,lte=99"`
}

func (r backfillJobRequest) players() []usecase.ExternalPlayer {
	if len(r.Players) == 0 {
		return nil
	}
	out := make([]usecase.ExternalPlayer, 0, len(r.Players))
	for _, item := range r.Players {
		out = append(out, usecase.ExternalPlayer{
			ExternalID:  strings.TrimSpace(item.ExternalID),
			Name:        strings.TrimSpace(item.Name),
			Position:    item.Position,
			Nationality: item.Nationality,
			ShirtNumber: item.ShirtNumber,
		})
	}
	return out
}

type backfillJobAcceptedDTO struct {
	JobID         string `json:"jobId"`
	ClubID        int64  `json:"clubId"`
	SeasonID      int64  `json:"seasonId"`
	SeasonLabel   string `json:"seasonLabel"`
	SeasonCreated bool   `json:"seasonCreated"`
}

func isClubNotFound(err error) bool {
	return errors.Is(err, usecase.ErrNotFound) && !errors.Is(err, usecase.ErrSeasonNotFound)
}
