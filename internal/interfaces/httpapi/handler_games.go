package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

const (
	defaultLeadersLimit = 500
	maxLeadersLimit     = 1000
)

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	day, err := h.dayFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.aggregator.Schedule(ctx, day)
	if err != nil {
		h.logger.ErrorContext(ctx, "list games failed", "date", day.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesDTO{Date: day, Games: games})
}

func (h *Handler) TodayPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TodayPlayers")
	defer span.End()

	day, err := h.dayFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	u, err := h.tracker.UniverseFor(ctx, day)
	if err != nil {
		h.logger.ErrorContext(ctx, "load player universe failed", "date", day.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(u.Snapshot()))
}

func (h *Handler) LiveScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LiveScores")
	defer span.End()

	day, err := h.dayFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	u, err := h.tracker.UniverseFor(ctx, day)
	if err != nil {
		h.logger.ErrorContext(ctx, "load player universe failed", "date", day.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	scores, err := h.reconciler.LiveScores(ctx, u, splitCSV(r.URL.Query().Get("games")))
	if err != nil {
		h.logger.ErrorContext(ctx, "live scores failed", "date", day.String(), "error", err)
		writeError(ctx, w, err)
		return
	}
	if scores == nil {
		scores = []usecase.GameLiveScore{}
	}

	writeSuccess(ctx, w, http.StatusOK, liveScoresDTO{Date: day, Scores: scores})
}

func (h *Handler) GetBoxScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoxScore")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	box, err := h.reconciler.BoxScore(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get box score failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boxScoreToDTO(box))
}

func (h *Handler) GetTeamAverages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamAverages")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	averages, err := h.aggregator.TeamAverages(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team averages failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if averages == nil {
		averages = usecase.ExternalSeasonAverages{}
	}

	writeSuccess(ctx, w, http.StatusOK, teamAveragesDTO{TeamID: teamID, Averages: averages})
}

func (h *Handler) ListScoringLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScoringLeaders")
	defer span.End()

	limit := defaultLeadersLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxLeadersLimit {
			writeError(ctx, w, fmt.Errorf("%w: limit must be between 1 and %d", usecase.ErrInvalidInput, maxLeadersLimit))
			return
		}
		limit = parsed
	}

	leaders, err := h.aggregator.ScoringLeaders(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list scoring leaders failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leadersToDTO(leaders))
}
