package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/borderville/season-stats/internal/domain/player"
	"github.com/borderville/season-stats/internal/domain/season"
	"github.com/borderville/season-stats/internal/usecase"
)

type Handler struct {
	statsService *usecase.StatsService
	logger       *slog.Logger
	validator    *validator.Validate
}

func NewHandler(statsService *usecase.StatsService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		statsService: statsService,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetSnapshot returns the full aggregated season document.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSnapshot")
	defer span.End()

	snap, err := h.statsService.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get snapshot failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snap)
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	query := r.URL.Query()
	req := listPlayersRequest{
		Position: strings.ToUpper(strings.TrimSpace(query.Get("position"))),
		MinCaps:  0,
	}
	if raw := strings.TrimSpace(query.Get("minCaps")); raw != "" {
		minCaps, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: minCaps must be an integer", usecase.ErrInvalidInput))
			return
		}
		req.MinCaps = minCaps
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.statsService.Players(ctx, usecase.PlayerFilter{
		Position: player.Position(req.Position),
		MinCaps:  req.MinCaps,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "position", req.Position, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerSummaryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, playerEntryToSummaryDTO(ctx, entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// Refresh recomputes the snapshot on demand, replacing the cached copy.
// The body is optional; when present it may carry a reason for audit logs.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Refresh")
	defer span.End()

	var req refreshRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if reason := strings.TrimSpace(req.Reason); reason != "" {
		h.logger.InfoContext(ctx, "manual refresh requested", "reason", reason)
	}

	snap, err := h.statsService.Refresh(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "refresh failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refreshResultDTO{
		GeneratedAt:   snap.Meta.GeneratedAt,
		Year:          snap.Meta.Year,
		Players:       len(snap.Players),
		MatchesInYear: snap.Meta.MatchesInYear,
		GoalsIncluded: snap.Meta.GoalsIncluded,
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type listPlayersRequest struct {
	Position string `validate:"omitempty,oneof=GK DEF MID FWD"`
	MinCaps  int    `validate:"gte=0"`
}

type refreshRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

type refreshResultDTO struct {
	GeneratedAt   string `json:"generatedAt"`
	Year          int    `json:"year"`
	Players       int    `json:"players"`
	MatchesInYear int    `json:"matchesInYear"`
	GoalsIncluded int    `json:"goalsIncluded"`
}

type playerSummaryDTO struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Position       string             `json:"position,omitempty"`
	Caps           int                `json:"caps"`
	CapsSeason     int                `json:"capsSeason"`
	Goals          int                `json:"goals"`
	Assists        int                `json:"assists"`
	MOTMSeason     int                `json:"motmSeason"`
	Form           []season.FormToken `json:"form"`
	RatingCombined float64            `json:"ratingCombined"`
	Overall        int                `json:"overall"`
}

func playerEntryToSummaryDTO(ctx context.Context, entry *season.PlayerEntry) playerSummaryDTO {
	ctx, span := startSpan(ctx, "httpapi.playerEntryToSummaryDTO")
	defer span.End()

	return playerSummaryDTO{
		ID:             entry.ID,
		Name:           entry.Name,
		Position:       string(entry.Meta.Position),
		Caps:           entry.Stats.Caps,
		CapsSeason:     entry.Stats.CapsSeason,
		Goals:          entry.Stats.Goals,
		Assists:        entry.Stats.Assists,
		MOTMSeason:     entry.Stats.MOTMSeason,
		Form:           append([]season.FormToken(nil), entry.Stats.Form...),
		RatingCombined: entry.Stats.RatingCombined,
		Overall:        entry.Stats.Overall,
	}
}
