package universe

import (
	"testing"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/domain/game"
	"github.com/riskibarqy/dirty-thirty/internal/domain/player"
)

var tipoff = time.Date(2026, 3, 20, 18, 0, 0, 0, time.UTC)

func fixture() *Universe {
	games := []game.Game{
		{
			ID:             "401",
			ScheduledStart: tipoff,
			Status:         game.StatusScheduled,
			StatusName:     game.ProviderStatusScheduled,
			Teams:          []game.Team{{ID: "150", Abbreviation: "DUKE"}, {ID: "153", Abbreviation: "UNC"}},
		},
		{
			ID:             "402",
			ScheduledStart: tipoff.Add(3 * time.Hour),
			Status:         game.StatusScheduled,
			StatusName:     game.ProviderStatusScheduled,
			Teams:          []game.Team{{ID: "2", Abbreviation: "AUB"}, {ID: "8", Abbreviation: "ARK"}},
		},
	}
	players := []player.Player{
		{ID: "401_1", AthleteID: "1", GameID: "401", GameStart: tipoff},
		{ID: "401_2", AthleteID: "2", GameID: "401", GameStart: tipoff},
		{ID: "402_3", AthleteID: "3", GameID: "402", GameStart: tipoff.Add(3 * time.Hour)},
		{ID: "999_4", AthleteID: "4", GameID: "999"},
	}
	return New("2026-03-20", games, players, 4, tipoff.Add(-time.Hour))
}

func TestNewDropsPlayersWithoutGame(t *testing.T) {
	t.Parallel()

	snap := fixture().Snapshot()
	if len(snap.Players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(snap.Players))
	}
	if snap.NoGames {
		t.Fatalf("expected games")
	}
	if snap.TeamCount != 4 {
		t.Fatalf("unexpected team count %d", snap.TeamCount)
	}
}

func TestEmptyUniverse(t *testing.T) {
	t.Parallel()

	u := New("2026-03-21", nil, nil, 0, tipoff)
	snap := u.Snapshot()
	if !snap.NoGames || !u.IsEmpty() {
		t.Fatalf("expected empty universe")
	}
	if len(snap.Players) != 0 || len(snap.Games) != 0 {
		t.Fatalf("expected no players and games")
	}
}

func TestLockStartedIsMonotonic(t *testing.T) {
	t.Parallel()

	u := fixture()
	if n := u.LockStarted(tipoff.Add(-time.Minute)); n != 0 {
		t.Fatalf("nothing should lock before tipoff, got %d", n)
	}
	if n := u.LockStarted(tipoff); n != 2 {
		t.Fatalf("expected 2 locked at tipoff, got %d", n)
	}
	if n := u.LockStarted(tipoff.Add(time.Minute)); n != 0 {
		t.Fatalf("already locked players must not count again, got %d", n)
	}

	// Moving the clock back never unlocks.
	u.LockStarted(tipoff.Add(-time.Hour))
	p, _ := u.Player("401_1")
	if !p.IsLocked {
		t.Fatalf("lock must be monotonic")
	}
	other, _ := u.Player("402_3")
	if other.IsLocked {
		t.Fatalf("later game must stay unlocked")
	}
}

func TestApplyBoxScore(t *testing.T) {
	t.Parallel()

	u := fixture()
	res := u.ApplyBoxScore(1, game.BoxScore{
		GameID:     "401",
		StatusName: game.ProviderStatusInProgress,
		Clock:      "12:01",
		Period:     1,
		TeamScores: map[string]int{"150": 10, "153": 8},
		Points:     map[string]int{"1": 7},
	}, tipoff.Add(-5*time.Minute))
	if !res.Applied || res.Stale {
		t.Fatalf("expected applied result, got %+v", res)
	}
	if len(res.Changed) != 2 {
		t.Fatalf("expected both players changed, got %v", res.Changed)
	}

	p1, _ := u.Player("401_1")
	if p1.Points == nil || *p1.Points != 7 || !p1.IsLive || !p1.IsLocked {
		t.Fatalf("unexpected player state %+v", p1)
	}
	p2, _ := u.Player("401_2")
	if p2.Points != nil {
		t.Fatalf("absent athlete must keep nil points")
	}
	g, _ := u.Game("401")
	if g.Status != game.StatusInProgress || g.Teams[0].LiveScore == nil || *g.Teams[0].LiveScore != 10 {
		t.Fatalf("unexpected game state %+v", g)
	}
	if u.LiveCount() != 1 {
		t.Fatalf("expected one live game")
	}

	// A missing athlete keeps previous points.
	u.ApplyBoxScore(2, game.BoxScore{GameID: "401", StatusName: game.ProviderStatusFinal, Points: map[string]int{"2": 4}}, tipoff.Add(2*time.Hour))
	p1, _ = u.Player("401_1")
	if p1.Points == nil || *p1.Points != 7 || !p1.IsOver || p1.IsLive {
		t.Fatalf("unexpected player after final %+v", p1)
	}
}

func TestApplyBoxScoreDiscardsStale(t *testing.T) {
	t.Parallel()

	u := fixture()
	u.ApplyBoxScore(5, game.BoxScore{GameID: "401", StatusName: game.ProviderStatusInProgress, Points: map[string]int{"1": 12}}, tipoff)
	res := u.ApplyBoxScore(4, game.BoxScore{GameID: "401", StatusName: game.ProviderStatusInProgress, Points: map[string]int{"1": 9}}, tipoff)
	if !res.Stale || res.Applied {
		t.Fatalf("expected stale result, got %+v", res)
	}
	p, _ := u.Player("401_1")
	if *p.Points != 12 {
		t.Fatalf("stale result must not overwrite points, got %d", *p.Points)
	}

	// Sequences are tracked per game.
	res = u.ApplyBoxScore(1, game.BoxScore{GameID: "402", StatusName: game.ProviderStatusScheduled}, tipoff)
	if !res.Applied {
		t.Fatalf("other game must accept its first sequence")
	}
}

func TestScheduledBoxScoreBeforeTipoffDoesNotLock(t *testing.T) {
	t.Parallel()

	u := fixture()
	u.ApplyBoxScore(1, game.BoxScore{GameID: "402", StatusName: game.ProviderStatusScheduled}, tipoff)
	p, _ := u.Player("402_3")
	if p.IsLocked {
		t.Fatalf("scheduled game before tipoff must stay open")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	u := fixture()
	u.ApplyBoxScore(1, game.BoxScore{GameID: "401", StatusName: game.ProviderStatusInProgress, Points: map[string]int{"1": 3}}, tipoff)
	snap := u.Snapshot()
	*snap.Players[0].Points = 99
	p, _ := u.Player("401_1")
	if *p.Points != 3 {
		t.Fatalf("snapshot mutation leaked into universe")
	}
}
