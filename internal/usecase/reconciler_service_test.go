package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/dirty-thirty/internal/domain/game"
	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/player"
	"github.com/riskibarqy/dirty-thirty/internal/domain/universe"
	feedmock "github.com/riskibarqy/dirty-thirty/internal/mocks/usecase/feed"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

type recordingRefresher struct {
	mu    sync.Mutex
	calls int
	last  universe.Snapshot
}

func (r *recordingRefresher) RefreshPoints(_ context.Context, _ gameday.Day, snap universe.Snapshot) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.last = snap
	return 0, nil
}

func liveUniverse() *universe.Universe {
	start := time.Now().Add(-30 * time.Minute)
	games := []game.Game{
		scheduledGame("401", start, "A", "B"),
		scheduledGame("402", start.Add(time.Hour*3), "C", "D"),
	}
	players := []player.Player{
		{ID: "401_1", AthleteID: "1", GameID: "401", GameStart: start},
		{ID: "401_2", AthleteID: "2", GameID: "401", GameStart: start},
		{ID: "402_3", AthleteID: "3", GameID: "402", GameStart: start.Add(3 * time.Hour)},
	}
	return universe.New(testDay, games, players, 4, time.Now())
}

func TestReconcilerService_Reconcile_AppliesAndIsIdempotent(t *testing.T) {
	t.Parallel()

	feed := feedmock.NewFeedClient(t)
	feed.On("FetchBoxScore", mock.Anything, "401").Return(game.BoxScore{
		GameID:     "401",
		StatusName: game.ProviderStatusInProgress,
		Clock:      "8:12",
		Period:     1,
		TeamScores: map[string]int{"A": 20, "B": 18},
		Points:     map[string]int{"1": 9, "2": 4},
	}, nil).Twice()
	feed.On("FetchBoxScore", mock.Anything, "402").Return(game.BoxScore{
		GameID:     "402",
		StatusName: game.ProviderStatusScheduled,
	}, nil).Twice()

	picks := &recordingRefresher{}
	svc := usecase.NewReconcilerService(feed, usecase.ReconcilerConfig{Workers: 2, Picks: picks})
	u := liveUniverse()

	first, err := svc.Reconcile(context.Background(), u)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if first.Applied != 2 || first.Failed != 0 || first.LiveGames != 1 {
		t.Fatalf("unexpected first report %+v", first)
	}
	if first.UpdatedPlayers != 2 {
		t.Fatalf("expected both 401 players updated, got %d", first.UpdatedPlayers)
	}
	p, _ := u.Player("401_1")
	if p.Points == nil || *p.Points != 9 || !p.IsLive || !p.IsLocked {
		t.Fatalf("unexpected player %+v", p)
	}
	later, _ := u.Player("402_3")
	if later.IsLocked {
		t.Fatalf("scheduled later game must stay open")
	}

	second, err := svc.Reconcile(context.Background(), u)
	if err != nil {
		t.Fatalf("reconcile again: %v", err)
	}
	if second.UpdatedPlayers != 0 {
		t.Fatalf("unchanged feed must not change players, got %d", second.UpdatedPlayers)
	}
	if second.Sequence <= first.Sequence {
		t.Fatalf("sequence must increase")
	}
	if picks.calls != 2 {
		t.Fatalf("expected pick refresh each applied cycle, got %d", picks.calls)
	}
}

func TestReconcilerService_Reconcile_FeedLossKeepsPoints(t *testing.T) {
	t.Parallel()

	feed := feedmock.NewFeedClient(t)
	feed.On("FetchBoxScore", mock.Anything, "401").Return(game.BoxScore{
		GameID:     "401",
		StatusName: game.ProviderStatusInProgress,
		Points:     map[string]int{"1": 11},
	}, nil).Once()
	feed.On("FetchBoxScore", mock.Anything, "402").Return(game.BoxScore{GameID: "402"}, nil).Once()
	feed.On("FetchBoxScore", mock.Anything, mock.Anything).Return(game.BoxScore{}, usecase.ErrUpstreamTimeout).Twice()

	picks := &recordingRefresher{}
	svc := usecase.NewReconcilerService(feed, usecase.ReconcilerConfig{Picks: picks})
	u := liveUniverse()

	if _, err := svc.Reconcile(context.Background(), u); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	report, err := svc.Reconcile(context.Background(), u)
	if err != nil {
		t.Fatalf("feed loss must not fail the cycle: %v", err)
	}
	if report.Failed != 2 || report.Applied != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	p, _ := u.Player("401_1")
	if p.Points == nil || *p.Points != 11 {
		t.Fatalf("known points must survive feed loss, got %+v", p.Points)
	}
	if picks.calls != 1 {
		t.Fatalf("feed loss cycle must not refresh picks, got %d calls", picks.calls)
	}
}

func TestReconcilerService_ReconcileIfIdle_SkipsWhileInFlight(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	feed := feedmock.NewFeedClient(t)
	feed.On("FetchBoxScore", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			once.Do(func() { close(started) })
			<-release
		}).
		Return(game.BoxScore{}, usecase.ErrUpstreamTimeout)

	svc := usecase.NewReconcilerService(feed, usecase.ReconcilerConfig{Workers: 2})
	u := liveUniverse()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, _, err := svc.ReconcileIfIdle(context.Background(), u); err != nil {
			t.Errorf("first cycle: %v", err)
		}
	}()

	<-started
	_, ran, err := svc.ReconcileIfIdle(context.Background(), u)
	if err != nil {
		t.Fatalf("skip path must not error: %v", err)
	}
	if ran {
		t.Fatalf("second tick must be skipped while the first is in flight")
	}

	close(release)
	<-done

	_, ran, err = svc.ReconcileIfIdle(context.Background(), u)
	if err != nil || !ran {
		t.Fatalf("idle reconciler must run, ran=%v err=%v", ran, err)
	}
}

func TestReconcilerService_LiveScoresFiltersGames(t *testing.T) {
	t.Parallel()

	feed := feedmock.NewFeedClient(t)
	feed.On("FetchBoxScore", mock.Anything, "401").Return(game.BoxScore{
		GameID:     "401",
		StatusName: game.ProviderStatusFinal,
		Points:     map[string]int{"1": 21},
	}, nil).Once()
	feed.On("FetchBoxScore", mock.Anything, "402").Return(game.BoxScore{GameID: "402"}, nil).Once()

	svc := usecase.NewReconcilerService(feed, usecase.ReconcilerConfig{})
	scores, err := svc.LiveScores(context.Background(), liveUniverse(), []string{"401"})
	if err != nil {
		t.Fatalf("live scores: %v", err)
	}
	if len(scores) != 1 || scores[0].GameID != "401" || scores[0].Players["1"] != 21 {
		t.Fatalf("unexpected scores %+v", scores)
	}
	if scores[0].Status != game.ProviderStatusFinal {
		t.Fatalf("unexpected status %q", scores[0].Status)
	}
}

func TestReconcilerService_EmptyUniverseIsIdle(t *testing.T) {
	t.Parallel()

	feed := feedmock.NewFeedClient(t)
	svc := usecase.NewReconcilerService(feed, usecase.ReconcilerConfig{})
	report, err := svc.Reconcile(context.Background(), universe.New(testDay, nil, nil, 0, time.Now()))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if report.Requested != 0 || len(report.Scores) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestReconcilerService_Reconcile_SurvivesCallerCancellation(t *testing.T) {
	t.Parallel()

	feed := feedmock.NewFeedClient(t)
	feed.On("FetchBoxScore", mock.Anything, mock.Anything).Return(func(ctx context.Context, gameID string) (game.BoxScore, error) {
		if err := ctx.Err(); err != nil {
			return game.BoxScore{}, err
		}
		return game.BoxScore{GameID: gameID, StatusName: game.ProviderStatusInProgress}, nil
	}).Twice()

	svc := usecase.NewReconcilerService(feed, usecase.ReconcilerConfig{Picks: &recordingRefresher{}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.Reconcile(ctx, liveUniverse())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if report.Applied != report.Requested || report.Failed != 0 {
		t.Fatalf("a cancelled caller must not fail the shared cycle, got %+v", report)
	}
}
