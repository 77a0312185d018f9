package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

// GameDayTracker serves the universe of any game day and knows which day is current.
type GameDayTracker interface {
	usecase.UniverseProvider
	Today() gameday.Day
}

type Handler struct {
	aggregator  *usecase.AggregatorService
	reconciler  *usecase.ReconcilerService
	tracker     GameDayTracker
	picks       *usecase.PickService
	users       *usecase.UserService
	leaderboard *usecase.LeaderboardService
	logger      *logging.Logger
	validator   *validator.Validate
	now         func() time.Time
}

func NewHandler(
	aggregator *usecase.AggregatorService,
	reconciler *usecase.ReconcilerService,
	tracker GameDayTracker,
	picks *usecase.PickService,
	users *usecase.UserService,
	leaderboard *usecase.LeaderboardService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		aggregator:  aggregator,
		reconciler:  reconciler,
		tracker:     tracker,
		picks:       picks,
		users:       users,
		leaderboard: leaderboard,
		logger:      logger.Named("httpapi"),
		validator:   validator.New(),
		now:         time.Now,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, healthDTO{
		Status: "ok",
		Time:   h.now().UTC(),
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

// dayFromQuery reads ?date=, defaulting to the tracked game day.
func (h *Handler) dayFromQuery(r *http.Request) (gameday.Day, error) {
	return h.parseDay(r.URL.Query().Get("date"))
}

func (h *Handler) dayFromPath(r *http.Request) (gameday.Day, error) {
	return h.parseDay(r.PathValue("date"))
}

func (h *Handler) parseDay(raw string) (gameday.Day, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "today") {
		return h.tracker.Today(), nil
	}
	day, err := gameday.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return day, nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
