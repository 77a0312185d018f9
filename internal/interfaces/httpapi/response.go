package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

type responseEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, responseEnvelope{
		Success: true,
		Data:    data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, responseEnvelope{
		Success: false,
		Error:   err.Error(),
		Reason:  mapped.Reason,
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, responseEnvelope{
		Success: false,
		Error:   "internal server error",
		Reason:  "internalError",
	})
}

func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound"}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized"}
	case errors.Is(err, usecase.ErrPlayerLocked):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "playerLocked"}
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "storeUnavailable"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable"}
	case errors.Is(err, usecase.ErrUpstreamTimeout):
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "upstreamTimeout"}
	case errors.Is(err, usecase.ErrUpstreamBadStatus):
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "upstreamBadStatus"}
	case errors.Is(err, usecase.ErrUpstreamMalformed):
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "upstreamMalformed"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError"}
	}
}
