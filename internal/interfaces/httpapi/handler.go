package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) AutoLink(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AutoLink")
	defer span.End()

	var req autoLinkRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.autoLink.AutoLink(ctx, usecase.AutoLinkInput{
		ClubText:     req.Club,
		SeasonText:   req.Season,
		PlayerName:   req.PlayerName,
		PlayerNumber: req.PlayerNumber,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "auto link failed", "club", req.Club, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// ListClubSeasonPlayers accepts the season in any resolvable form; "19/20"
// must be sent escaped as 19%2F20.
func (h *Handler) ListClubSeasonPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubSeasonPlayers")
	defer span.End()

	clubID, err := strconv.ParseInt(r.PathValue("clubID"), 10, 64)
	if err != nil || clubID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: club id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	input := usecase.MatchPlayersInput{
		ClubID:         clubID,
		SeasonLabel:    r.PathValue("season"),
		PlayerNameHint: strings.TrimSpace(r.URL.Query().Get("name")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("jersey")); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: jersey must be an integer", usecase.ErrInvalidInput))
			return
		}
		input.JerseyNumber = &number
	}

	candidates, err := h.matching.MatchPlayers(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "match players failed", "club_id", clubID, "season", input.SeasonLabel, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, candidates)
}
