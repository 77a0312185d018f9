package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/dirty-thirty/internal/domain/leaderboard"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterUser")
	defer span.End()

	var req registerUserRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.users.Register(ctx, req.Name, req.Email)
	if err != nil {
		h.logger.WarnContext(ctx, "register user failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}

func (h *Handler) GetPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing user principal", usecase.ErrUnauthorized))
		return
	}
	day, err := h.dayFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.picks.Get(ctx, principal.ID, day)
	if err != nil {
		h.logger.WarnContext(ctx, "get pick failed", "user_id", principal.ID, "date", day.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) SavePick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing user principal", usecase.ErrUnauthorized))
		return
	}
	day, err := h.dayFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req savePickRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.picks.Save(ctx, usecase.SavePickInput{
		UserID:        principal.ID,
		Date:          day,
		Slot1PlayerID: req.Slot1PlayerID,
		Slot2PlayerID: req.Slot2PlayerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save pick failed", "user_id", principal.ID, "date", day.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) TogglePick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TogglePick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing user principal", usecase.ErrUnauthorized))
		return
	}
	day, err := h.dayFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req togglePickRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.picks.Toggle(ctx, principal.ID, day, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "toggle pick failed", "user_id", principal.ID, "date", day.String(), "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	day, err := h.dayFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.leaderboard.Standings(ctx, day)
	if err != nil {
		h.logger.ErrorContext(ctx, "load leaderboard failed", "date", day.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardDTO{
		Date:      day,
		Target:    leaderboard.Target,
		Standings: standings,
	})
}

func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetResults")
	defer span.End()

	day, err := h.dayFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.leaderboard.Results(ctx, day)
	if err != nil {
		h.logger.ErrorContext(ctx, "load results failed", "date", day.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultsDTO{
		Date:      day,
		Target:    leaderboard.Target,
		Standings: results.Standings,
		Winner:    results.Winner,
	})
}
