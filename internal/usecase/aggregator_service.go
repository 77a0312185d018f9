package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/dirty-thirty/internal/domain/game"
	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/player"
	"github.com/riskibarqy/dirty-thirty/internal/domain/universe"
	"github.com/riskibarqy/dirty-thirty/internal/platform/cache"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
)

const (
	defaultFanoutConcurrency = 8
	averagesCacheKeyPrefix   = "avg:"
)

type AggregatorConfig struct {
	// Concurrency bounds the in-flight roster and averages calls.
	Concurrency int
	// AveragesCache is optional; nil fetches season averages on every aggregation.
	AveragesCache *cache.Store[ExternalSeasonAverages]
	Logger        *logging.Logger
	Metrics       ServiceMetrics
}

// AggregatorService builds a game day's player universe from the schedule, rosters and season averages.
type AggregatorService struct {
	feed        FeedClient
	averages    *cache.Store[ExternalSeasonAverages]
	concurrency int
	logger      *logging.Logger
	metrics     ServiceMetrics
	now         func() time.Time
}

func NewAggregatorService(feed FeedClient, cfg AggregatorConfig) *AggregatorService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultFanoutConcurrency
	}

	return &AggregatorService{
		feed:        feed,
		averages:    cfg.AveragesCache,
		concurrency: concurrency,
		logger:      logger.Named("aggregator"),
		metrics:     metrics,
		now:         time.Now,
	}
}

type teamFetch struct {
	roster   []ExternalAthlete
	averages ExternalSeasonAverages
	failed   int
}

// Aggregate resolves the day's games and assembles one player per (game, athlete).
// Only a schedule failure is returned; roster and averages failures shrink the result.
func (s *AggregatorService) Aggregate(ctx context.Context, day gameday.Day) (*universe.Universe, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregatorService.Aggregate")
	defer span.End()

	if day.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	started := s.now()
	games, err := s.feed.FetchSchedule(ctx, day)
	if err != nil {
		s.logger.ErrorContext(ctx, "fetch schedule failed", "date", day.String(), "error", err)
		return nil, fmt.Errorf("aggregate date=%s: %w", day, err)
	}
	if len(games) == 0 {
		s.logger.InfoContext(ctx, "no games scheduled", "date", day.String())
		s.metrics.ObserveAggregation(day.String(), 0, 0, 0, time.Since(started))
		return universe.New(day, nil, nil, 0, s.now()), nil
	}

	teamIDs := uniqueTeamIDs(games)
	fetched := s.fetchTeams(ctx, teamIDs)

	now := s.now()
	players := make([]player.Player, 0, len(teamIDs)*15)
	failedUnits := 0
	for _, teamID := range teamIDs {
		failedUnits += fetched[teamID].failed
	}
	for _, item := range games {
		players = append(players, buildGamePlayers(item, fetched, now)...)
	}

	s.logger.InfoContext(ctx, "aggregated game day",
		"date", day.String(),
		"games", len(games),
		"teams", len(teamIDs),
		"players", len(players),
		"failed_units", failedUnits,
	)
	s.metrics.ObserveAggregation(day.String(), len(teamIDs), len(players), failedUnits, time.Since(started))
	return universe.New(day, games, players, len(teamIDs), now), nil
}

// Schedule returns the day's normalized games without rosters.
func (s *AggregatorService) Schedule(ctx context.Context, day gameday.Day) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregatorService.Schedule")
	defer span.End()

	if day.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	games, err := s.feed.FetchSchedule(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule date=%s: %w", day, err)
	}
	return games, nil
}

// TeamAverages returns one team's season points per game, served from cache when configured.
func (s *AggregatorService) TeamAverages(ctx context.Context, teamID string) (ExternalSeasonAverages, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregatorService.TeamAverages")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	return s.loadAverages(ctx, teamID)
}

func (s *AggregatorService) ScoringLeaders(ctx context.Context, limit int) ([]ExternalScoringLeader, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregatorService.ScoringLeaders")
	defer span.End()

	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}
	leaders, err := s.feed.FetchScoringLeaders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch scoring leaders: %w", err)
	}
	return leaders, nil
}

func (s *AggregatorService) fetchTeams(ctx context.Context, teamIDs []string) map[string]*teamFetch {
	out := make(map[string]*teamFetch, len(teamIDs))
	for _, teamID := range teamIDs {
		out[teamID] = &teamFetch{}
	}

	// Each task writes only its own field of its own team entry.
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for _, teamID := range teamIDs {
		entry := out[teamID]
		p.Go(func() {
			roster, err := s.feed.FetchRoster(ctx, teamID)
			if err != nil {
				s.logger.WarnContext(ctx, "fetch roster failed, team contributes no players", "team_id", teamID, "error", err)
				entry.failed++
				return
			}
			entry.roster = roster
		})
		p.Go(func() {
			averages, err := s.loadAverages(ctx, teamID)
			if err != nil {
				s.logger.WarnContext(ctx, "fetch season averages failed, averages left empty", "team_id", teamID, "error", err)
				return
			}
			entry.averages = averages
		})
	}
	p.Wait()

	return out
}

func (s *AggregatorService) loadAverages(ctx context.Context, teamID string) (ExternalSeasonAverages, error) {
	if s.averages == nil {
		return s.feed.FetchSeasonAverages(ctx, teamID)
	}
	return s.averages.GetOrLoad(ctx, averagesCacheKeyPrefix+teamID, func(ctx context.Context) (ExternalSeasonAverages, error) {
		return s.feed.FetchSeasonAverages(ctx, teamID)
	})
}

func uniqueTeamIDs(games []game.Game) []string {
	seen := make(map[string]struct{}, len(games)*2)
	out := make([]string, 0, len(games)*2)
	for _, item := range games {
		for _, team := range item.Teams {
			if team.ID == "" {
				continue
			}
			if _, ok := seen[team.ID]; ok {
				continue
			}
			seen[team.ID] = struct{}{}
			out = append(out, team.ID)
		}
	}
	return out
}

func buildGamePlayers(item game.Game, fetched map[string]*teamFetch, now time.Time) []player.Player {
	matchup := item.Matchup()
	locked := item.StartedBy(now) || game.IsLockedStatus(item.StatusName)

	out := make([]player.Player, 0, 30)
	for _, team := range item.Teams {
		entry, ok := fetched[team.ID]
		if !ok {
			continue
		}
		summary := player.TeamSummary{
			ID:           team.ID,
			Abbreviation: team.Abbreviation,
			DisplayName:  team.DisplayName,
			LogoURL:      team.LogoURL,
		}
		for _, athlete := range entry.roster {
			if athlete.ID == "" {
				continue
			}
			p := player.Player{
				ID:           player.ComposeID(item.ID, athlete.ID),
				AthleteID:    athlete.ID,
				DisplayName:  athlete.DisplayName,
				ShortName:    athlete.ShortName,
				HeadshotURL:  athlete.HeadshotURL,
				Position:     athlete.Position,
				JerseyNumber: athlete.JerseyNumber,
				Team:         summary,
				MatchupLabel: matchup,
				GameID:       item.ID,
				GameStart:    item.ScheduledStart,
				IsLocked:     locked,
				IsLive:       item.IsLive(),
				IsOver:       item.IsOver(),
			}
			if p.HeadshotURL == "" {
				p.HeadshotURL = player.DefaultHeadshotURL(athlete.ID)
			}
			if p.Position == "" {
				p.Position = player.DefaultPosition
			}
			if avg := entry.averages[athlete.ID]; avg != nil {
				v := *avg
				p.AvgPoints = &v
			}
			out = append(out, p)
		}
	}
	return out
}
