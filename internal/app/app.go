package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/dirty-thirty/external/espn"
	"github.com/riskibarqy/dirty-thirty/internal/config"
	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/universe"
	"github.com/riskibarqy/dirty-thirty/internal/domain/user"
	cacherepo "github.com/riskibarqy/dirty-thirty/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/dirty-thirty/internal/infrastructure/repository/kvrepo"
	"github.com/riskibarqy/dirty-thirty/internal/interfaces/httpapi"
	"github.com/riskibarqy/dirty-thirty/internal/observability"
	basecache "github.com/riskibarqy/dirty-thirty/internal/platform/cache"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
	"github.com/riskibarqy/dirty-thirty/internal/platform/resilience"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

// App is the wired service graph shared by the API server and the CLI.
type App struct {
	Config      config.Config
	Logger      *logging.Logger
	Metrics     *observability.Metrics
	Feed        *espn.Client
	Aggregator  *usecase.AggregatorService
	Reconciler  *usecase.ReconcilerService
	Scheduler   *usecase.LiveScheduler
	Picks       *usecase.PickService
	Users       *usecase.UserService
	Leaderboard *usecase.LeaderboardService

	closers []func() error
}

// schedulerUniverses defers to the scheduler, which is built after the pick service it feeds.
type schedulerUniverses struct {
	scheduler *usecase.LiveScheduler
}

func (s *schedulerUniverses) UniverseFor(ctx context.Context, day gameday.Day) (*universe.Universe, error) {
	if s.scheduler == nil {
		return nil, fmt.Errorf("%w: live scheduler is not ready", usecase.ErrDependencyUnavailable)
	}
	return s.scheduler.UniverseFor(ctx, day)
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	var (
		serviceMetrics usecase.ServiceMetrics
		feedObserver   espn.RequestObserver
	)
	if cfg.MetricsEnabled {
		a.Metrics = observability.NewMetrics()
		serviceMetrics = a.Metrics
		feedObserver = a.Metrics
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	a.Feed = espn.NewClient(espn.ClientConfig{
		BaseURL:         cfg.ESPNBaseURL,
		StatsBaseURL:    cfg.ESPNStatsBaseURL,
		Timeout:         cfg.ESPNTimeout,
		MaxRetries:      cfg.ESPNMaxRetries,
		RateLimitRPS:    cfg.ESPNRateLimitRPS,
		RateLimitBurst:  cfg.ESPNRateLimitBurst,
		TournamentGroup: cfg.GameTournamentGroup,
		ScheduleLimit:   cfg.GameScheduleLimit,
		Logger:          logger,
		Observer:        feedObserver,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		}.Normalize(),
	})

	var (
		averagesCache *basecache.Store[usecase.ExternalSeasonAverages]
		pastDays      *basecache.Store[*universe.Universe]
		users         user.Repository = kvrepo.NewUserRepository(store)
	)
	if cfg.CacheEnabled {
		averagesCache = basecache.NewStore[usecase.ExternalSeasonAverages](cfg.CacheTTL)
		pastDays = basecache.NewStore[*universe.Universe](cfg.CacheTTL)
		users = cacherepo.NewUserRepository(users, basecache.NewStore[cacherepo.CachedUser](cfg.CacheTTL))
	}

	universes := &schedulerUniverses{}
	a.Picks = usecase.NewPickService(kvrepo.NewPickRepository(store), users, universes, logger)
	a.Users = usecase.NewUserService(users)
	a.Leaderboard = usecase.NewLeaderboardService(a.Picks)

	a.Aggregator = usecase.NewAggregatorService(a.Feed, usecase.AggregatorConfig{
		Concurrency:   cfg.GameFanoutConcurrency,
		AveragesCache: averagesCache,
		Logger:        logger,
		Metrics:       serviceMetrics,
	})
	a.Reconciler = usecase.NewReconcilerService(a.Feed, usecase.ReconcilerConfig{
		Workers: cfg.LiveReconcileWorkers,
		Picks:   a.Picks,
		Logger:  logger,
		Metrics: serviceMetrics,
	})
	a.Scheduler = usecase.NewLiveScheduler(a.Aggregator, a.Reconciler, usecase.LiveSchedulerConfig{
		Interval:     cfg.LiveReconcileInterval,
		RolloverSpec: cfg.LiveRolloverCron,
		Location:     cfg.GameDayLocation,
		PastDays:     pastDays,
		Logger:       logger,
	})
	universes.scheduler = a.Scheduler

	return a, nil
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	opts := httpapi.RouterOptions{
		SwaggerEnabled:     a.Config.SwaggerEnabled,
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
	}
	if a.Metrics != nil {
		opts.Metrics = a.Metrics
		opts.MetricsHandler = a.Metrics.Handler()
	}

	handler := httpapi.NewHandler(a.Aggregator, a.Reconciler, a.Scheduler, a.Picks, a.Users, a.Leaderboard, a.Logger)
	router := httpapi.NewRouter(handler, a.Users, a.Logger, opts)

	return &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}

// Close releases the store. It does not stop the scheduler.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
