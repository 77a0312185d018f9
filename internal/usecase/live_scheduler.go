package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/universe"
	"github.com/riskibarqy/dirty-thirty/internal/platform/cache"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
	"github.com/riskibarqy/dirty-thirty/internal/platform/resilience"
)

const (
	defaultReconcileInterval = 60 * time.Second
	defaultRolloverSpec      = "5 0 * * *"
	rolloverTimeout          = 2 * time.Minute
)

type universeAggregator interface {
	Aggregate(ctx context.Context, day gameday.Day) (*universe.Universe, error)
}

type liveReconciler interface {
	Reconcile(ctx context.Context, u *universe.Universe) (ReconcileReport, error)
	ReconcileIfIdle(ctx context.Context, u *universe.Universe) (ReconcileReport, bool, error)
}

type LiveSchedulerConfig struct {
	Interval time.Duration
	// RolloverSpec is a five-field cron expression evaluated in Location.
	RolloverSpec string
	Location     *time.Location
	// PastDays caches universes of days other than the tracked one; nil aggregates on every request.
	PastDays *cache.Store[*universe.Universe]
	Logger   *logging.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// LiveScheduler tracks the current game day's universe and keeps it reconciled.
type LiveScheduler struct {
	aggregator universeAggregator
	reconciler liveReconciler
	interval   time.Duration
	spec       string
	loc        *time.Location
	pastDays   *cache.Store[*universe.Universe]
	logger     *logging.Logger
	flight     resilience.SingleFlight
	now        func() time.Time

	mu      sync.RWMutex
	current *universe.Universe
	// previous is the day handed off at rollover. It keeps being reconciled until all of its games are over.
	previous *universe.Universe
	cron     *cron.Cron
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewLiveScheduler(aggregator universeAggregator, reconciler liveReconciler, cfg LiveSchedulerConfig) *LiveScheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	spec := cfg.RolloverSpec
	if spec == "" {
		spec = defaultRolloverSpec
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &LiveScheduler{
		aggregator: aggregator,
		reconciler: reconciler,
		interval:   interval,
		spec:       spec,
		loc:        loc,
		pastDays:   cfg.PastDays,
		logger:     logger.Named("scheduler"),
		now:        now,
	}
}

// Today is the game day the scheduler tracks right now.
func (s *LiveScheduler) Today() gameday.Day {
	return gameday.FromTime(s.now(), s.loc)
}

// Current returns the tracked universe, or nil before the first aggregation succeeds.
func (s *LiveScheduler) Current() *universe.Universe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Previous returns the handed-off game day while it still has games to finish.
func (s *LiveScheduler) Previous() *universe.Universe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previous
}

// UniverseFor serves the tracked universe for today and aggregates other days on demand.
func (s *LiveScheduler) UniverseFor(ctx context.Context, day gameday.Day) (*universe.Universe, error) {
	if day.IsZero() {
		day = s.Today()
	}
	if u := s.Current(); u != nil && u.Day() == day {
		return u, nil
	}
	if u := s.Previous(); u != nil && u.Day() == day {
		return u, nil
	}
	if day == s.Today() {
		return s.Refresh(ctx)
	}
	if s.pastDays == nil {
		return s.aggregate(ctx, day)
	}
	return s.pastDays.GetOrLoad(ctx, day.String(), func(ctx context.Context) (*universe.Universe, error) {
		return s.aggregate(ctx, day)
	})
}

// Refresh re-aggregates today and installs the result as the tracked universe.
func (s *LiveScheduler) Refresh(ctx context.Context) (*universe.Universe, error) {
	u, err := s.aggregate(ctx, s.Today())
	if err != nil {
		return nil, err
	}
	s.install(ctx, u)
	return u, nil
}

// Start aggregates today, runs one eager cycle when a game is live and begins ticking. Stop must be called to release it.
func (s *LiveScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return fmt.Errorf("live scheduler already started")
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	u, err := s.Refresh(runCtx)
	if err != nil {
		s.logger.ErrorContext(ctx, "initial aggregation failed, retrying on next tick", "date", s.Today().String(), "error", err)
	} else if u.LiveCount() > 0 {
		if _, err := s.reconciler.Reconcile(runCtx, u); err != nil {
			s.logger.WarnContext(ctx, "eager reconcile failed", "date", u.Day().String(), "error", err)
		}
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.spec, func() { s.rollover(runCtx) }); err != nil {
		cancel()
		close(s.done)
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
		return fmt.Errorf("%w: rollover schedule %q: %v", ErrInvalidInput, s.spec, err)
	}
	c.Start()

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()

	go s.loop(runCtx)
	s.logger.InfoContext(ctx, "live scheduler started", "interval", s.interval.String(), "rollover", s.spec, "timezone", s.loc.String())
	return nil
}

// Stop halts the ticker and the rollover job and waits for the loop to exit.
func (s *LiveScheduler) Stop() {
	s.mu.Lock()
	cancel, c, done := s.cancel, s.cron, s.done
	s.cancel, s.cron = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if c != nil {
		<-c.Stop().Done()
	}
	<-done
}

func (s *LiveScheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *LiveScheduler) tick(ctx context.Context) {
	s.reconcilePrevious(ctx)

	u := s.Current()
	if u == nil || u.Day() != s.Today() {
		var err error
		if u, err = s.Refresh(ctx); err != nil {
			s.logger.WarnContext(ctx, "aggregation retry failed", "date", s.Today().String(), "error", err)
			return
		}
	}
	if !u.HasTrackableGame() {
		return
	}
	if _, _, err := s.reconciler.ReconcileIfIdle(ctx, u); err != nil {
		s.logger.WarnContext(ctx, "scheduled reconcile failed", "date", u.Day().String(), "error", err)
	}
}

func (s *LiveScheduler) reconcilePrevious(ctx context.Context) {
	prev := s.Previous()
	if prev == nil {
		return
	}
	if !prev.HasTrackableGame() {
		s.mu.Lock()
		if s.previous == prev {
			s.previous = nil
		}
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "previous game day finished", "date", prev.Day().String())
		return
	}
	if _, _, err := s.reconciler.ReconcileIfIdle(ctx, prev); err != nil {
		s.logger.WarnContext(ctx, "previous day reconcile failed", "date", prev.Day().String(), "error", err)
	}
}

// rollover is a safety net for the ticker; it does nothing once today is already tracked.
func (s *LiveScheduler) rollover(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, rolloverTimeout)
	defer cancel()

	today := s.Today()
	if u := s.Current(); u != nil && u.Day() == today {
		s.logger.DebugContext(ctx, "game day already tracked", "date", today.String())
		return
	}
	u, err := s.Refresh(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "game day rollover failed", "date", today.String(), "error", err)
		return
	}
	s.logger.InfoContext(ctx, "game day rolled over", "date", u.Day().String(), "games", len(u.GameIDs()))
}

func (s *LiveScheduler) aggregate(ctx context.Context, day gameday.Day) (*universe.Universe, error) {
	out, err, _ := s.flight.Do("aggregate:"+day.String(), func() (any, error) {
		return s.aggregator.Aggregate(ctx, day)
	})
	if err != nil {
		return nil, err
	}
	u, ok := out.(*universe.Universe)
	if !ok {
		return nil, fmt.Errorf("unexpected aggregate result type %T", out)
	}
	return u, nil
}

// install tracks u. When the day changes the old universe is handed off to pastDays and kept as previous.
func (s *LiveScheduler) install(ctx context.Context, u *universe.Universe) {
	s.mu.Lock()
	old := s.current
	s.current = u
	handoff := old != nil && old.Day() != u.Day()
	if handoff {
		s.previous = old
	}
	s.mu.Unlock()

	if !handoff {
		return
	}
	if s.pastDays != nil {
		s.pastDays.Set(ctx, old.Day().String(), old)
	}
	s.logger.InfoContext(ctx, "game day handed off", "from", old.Day().String(), "to", u.Day().String(), "unfinished", old.HasTrackableGame())
}
