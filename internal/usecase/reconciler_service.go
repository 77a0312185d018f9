package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/dirty-thirty/internal/domain/game"
	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/universe"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
	"github.com/riskibarqy/dirty-thirty/internal/platform/resilience"
)

const defaultReconcileWorkers = 8

// reconcileCycleTimeout bounds one cycle below the default tick interval.
const reconcileCycleTimeout = 45 * time.Second

const (
	reconcileOutcomeOK      = "ok"
	reconcileOutcomePartial = "partial"
	reconcileOutcomeFailed  = "feed_lost"
	reconcileOutcomeIdle    = "idle"
	reconcileOutcomeSkipped = "skipped"
)

// PickRefresher copies fresh player points into the saved picks of a day.
type PickRefresher interface {
	RefreshPoints(ctx context.Context, day gameday.Day, snap universe.Snapshot) (int, error)
}

type ReconcilerConfig struct {
	Workers int
	Picks   PickRefresher
	Logger  *logging.Logger
	Metrics ServiceMetrics
}

// GameLiveScore is one game's state after a cycle.
type GameLiveScore struct {
	GameID  string         `json:"gameId"`
	Status  string         `json:"status"`
	Clock   string         `json:"clock"`
	Period  int            `json:"period"`
	Players map[string]int `json:"players"`
}

type ReconcileReport struct {
	Day            gameday.Day     `json:"date"`
	Sequence       uint64          `json:"sequence"`
	Requested      int             `json:"requested"`
	Applied        int             `json:"applied"`
	Stale          int             `json:"stale"`
	Failed         int             `json:"failed"`
	Locked         int             `json:"locked"`
	UpdatedPlayers int             `json:"updatedPlayers"`
	UpdatedPicks   int             `json:"updatedPicks"`
	LiveGames      int             `json:"liveGames"`
	Joined         bool            `json:"joined"`
	Scores         []GameLiveScore `json:"scores"`
	StartedAt      time.Time       `json:"startedAt"`
	FinishedAt     time.Time       `json:"finishedAt"`
}

// ReconcilerService merges live box scores into a universe. Cycles are single-flight per day.
type ReconcilerService struct {
	feed    FeedClient
	picks   PickRefresher
	workers int
	logger  *logging.Logger
	metrics ServiceMetrics
	flight  resilience.SingleFlight
	seq     atomic.Uint64
	now     func() time.Time
}

func NewReconcilerService(feed FeedClient, cfg ReconcilerConfig) *ReconcilerService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultReconcileWorkers
	}

	return &ReconcilerService{
		feed:    feed,
		picks:   cfg.Picks,
		workers: workers,
		logger:  logger.Named("reconciler"),
		metrics: metrics,
		now:     time.Now,
	}
}

// Reconcile runs one cycle, or joins the cycle already in flight for the same day and shares its report.
// The shared cycle outlives the caller that started it, so a disconnecting client does not fail the joiners.
func (s *ReconcilerService) Reconcile(ctx context.Context, u *universe.Universe) (ReconcileReport, error) {
	if u == nil {
		return ReconcileReport{}, fmt.Errorf("%w: universe is required", ErrInvalidInput)
	}

	cycleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconcileCycleTimeout)
	defer cancel()

	out, err, shared := s.flight.Do(flightKey(u.Day()), func() (any, error) {
		return s.cycle(cycleCtx, u)
	})
	if err != nil {
		return ReconcileReport{}, err
	}
	report, ok := out.(ReconcileReport)
	if !ok {
		return ReconcileReport{}, fmt.Errorf("unexpected reconcile result type %T", out)
	}
	report.Joined = shared
	return report, nil
}

// ReconcileIfIdle runs a cycle unless one is in flight. ran is false when the cycle was skipped.
func (s *ReconcilerService) ReconcileIfIdle(ctx context.Context, u *universe.Universe) (report ReconcileReport, ran bool, err error) {
	if u == nil {
		return ReconcileReport{}, false, fmt.Errorf("%w: universe is required", ErrInvalidInput)
	}

	cycleCtx, cancel := context.WithTimeout(ctx, reconcileCycleTimeout)
	defer cancel()

	out, err := s.flight.TryDo(flightKey(u.Day()), func() (any, error) {
		return s.cycle(cycleCtx, u)
	})
	if errors.Is(err, resilience.ErrInFlight) {
		s.logger.DebugContext(ctx, "reconcile skipped, previous cycle still running", "date", u.Day().String())
		s.metrics.ObserveReconcile(reconcileOutcomeSkipped, 0, 0, 0, 0)
		return ReconcileReport{}, false, nil
	}
	if err != nil {
		return ReconcileReport{}, true, err
	}
	report, ok := out.(ReconcileReport)
	if !ok {
		return ReconcileReport{}, true, fmt.Errorf("unexpected reconcile result type %T", out)
	}
	return report, true, nil
}

// LiveScores runs a cycle and returns the scores of the requested games, or every game when none are named.
func (s *ReconcilerService) LiveScores(ctx context.Context, u *universe.Universe, gameIDs []string) ([]GameLiveScore, error) {
	report, err := s.Reconcile(ctx, u)
	if err != nil {
		return nil, err
	}
	if len(gameIDs) == 0 {
		return report.Scores, nil
	}

	wanted := make(map[string]struct{}, len(gameIDs))
	for _, id := range gameIDs {
		wanted[id] = struct{}{}
	}
	out := make([]GameLiveScore, 0, len(gameIDs))
	for _, score := range report.Scores {
		if _, ok := wanted[score.GameID]; ok {
			out = append(out, score)
		}
	}
	return out, nil
}

// BoxScore fetches one game's parsed box score without touching any universe.
func (s *ReconcilerService) BoxScore(ctx context.Context, gameID string) (game.BoxScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcilerService.BoxScore")
	defer span.End()

	if gameID == "" {
		return game.BoxScore{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	box, err := s.feed.FetchBoxScore(ctx, gameID)
	if err != nil {
		return game.BoxScore{}, fmt.Errorf("fetch box score: %w", err)
	}
	return box, nil
}

func (s *ReconcilerService) cycle(ctx context.Context, u *universe.Universe) (ReconcileReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcilerService.cycle")
	defer span.End()

	seq := s.seq.Add(1)
	report := ReconcileReport{
		Day:       u.Day(),
		Sequence:  seq,
		StartedAt: s.now(),
	}
	report.Locked = u.LockStarted(report.StartedAt)

	gameIDs := u.GameIDs()
	report.Requested = len(gameIDs)
	if len(gameIDs) == 0 {
		report.FinishedAt = s.now()
		s.metrics.ObserveReconcile(reconcileOutcomeIdle, 0, 0, 0, report.FinishedAt.Sub(report.StartedAt))
		return report, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(gameIDs)))
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("create reconcile worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		workers sync.WaitGroup
		updated = make(map[string]struct{})
	)
	record := func(fn func()) {
		mu.Lock()
		fn()
		mu.Unlock()
	}

	for _, gameID := range gameIDs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			box, fetchErr := s.feed.FetchBoxScore(ctx, gameID)
			if fetchErr != nil {
				s.logger.WarnContext(ctx, "fetch box score failed, game keeps previous state", "game_id", gameID, "error", fetchErr)
				record(func() { report.Failed++ })
				return
			}

			res := u.ApplyBoxScore(seq, box, s.now())
			record(func() {
				switch {
				case res.Stale:
					report.Stale++
				case res.Applied:
					report.Applied++
					for _, id := range res.Changed {
						updated[id] = struct{}{}
					}
				}
			})
		}); err != nil {
			workers.Done()
			s.logger.WarnContext(ctx, "submit box score fetch failed", "game_id", gameID, "error", err)
			record(func() { report.Failed++ })
		}
	}
	workers.Wait()

	report.UpdatedPlayers = len(updated)
	snap := u.Snapshot()
	report.LiveGames = snap.LiveCount
	report.Scores = liveScores(snap)

	if s.picks != nil && report.Applied > 0 {
		refreshed, refreshErr := s.picks.RefreshPoints(ctx, u.Day(), snap)
		if refreshErr != nil {
			s.logger.ErrorContext(ctx, "refresh pick points failed", "date", u.Day().String(), "error", refreshErr)
		}
		report.UpdatedPicks = refreshed
	}

	report.FinishedAt = s.now()
	outcome := reconcileOutcomeOK
	switch {
	case report.Failed == report.Requested:
		outcome = reconcileOutcomeFailed
		s.logger.WarnContext(ctx, "live feed unavailable for every game, state left unchanged", "date", u.Day().String(), "games", report.Requested)
	case report.Failed > 0:
		outcome = reconcileOutcomePartial
	}
	s.metrics.ObserveReconcile(outcome, report.Applied, report.Stale, report.Failed, report.FinishedAt.Sub(report.StartedAt))
	s.metrics.SetLiveGames(report.LiveGames)

	s.logger.DebugContext(ctx, "reconcile cycle finished",
		"date", u.Day().String(),
		"sequence", seq,
		"applied", report.Applied,
		"stale", report.Stale,
		"failed", report.Failed,
		"updated_players", report.UpdatedPlayers,
		"updated_picks", report.UpdatedPicks,
	)
	return report, nil
}

func liveScores(snap universe.Snapshot) []GameLiveScore {
	byGame := make(map[string]map[string]int, len(snap.Games))
	for _, p := range snap.Players {
		if p.Points == nil {
			continue
		}
		points, ok := byGame[p.GameID]
		if !ok {
			points = make(map[string]int)
			byGame[p.GameID] = points
		}
		points[p.AthleteID] = *p.Points
	}

	out := make([]GameLiveScore, 0, len(snap.Games))
	for _, g := range snap.Games {
		players := byGame[g.ID]
		if players == nil {
			players = map[string]int{}
		}
		out = append(out, GameLiveScore{
			GameID:  g.ID,
			Status:  g.StatusName,
			Clock:   g.ClockDisplay,
			Period:  g.Period,
			Players: players,
		})
	}
	return out
}

func flightKey(day gameday.Day) string {
	return "reconcile:" + day.String()
}
