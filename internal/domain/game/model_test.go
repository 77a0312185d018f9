package game

import (
	"testing"
	"time"
)

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]Status{
		"STATUS_SCHEDULED":   StatusScheduled,
		"status_in_progress": StatusInProgress,
		"STATUS_HALFTIME":    StatusInProgress,
		"STATUS_END_PERIOD":  StatusInProgress,
		"STATUS_FINAL":       StatusFinal,
		"STATUS_POSTPONED":   StatusScheduled,
		"":                   StatusScheduled,
	}
	for raw, want := range cases {
		if got := NormalizeStatus(raw); got != want {
			t.Fatalf("NormalizeStatus(%q)=%s want %s", raw, got, want)
		}
	}
}

func TestIsLockedStatus(t *testing.T) {
	t.Parallel()

	if IsLockedStatus("STATUS_SCHEDULED") {
		t.Fatalf("scheduled must not lock")
	}
	if IsLockedStatus("") {
		t.Fatalf("missing status must not lock")
	}
	for _, raw := range []string{"STATUS_IN_PROGRESS", "STATUS_FINAL", "STATUS_DELAYED"} {
		if !IsLockedStatus(raw) {
			t.Fatalf("expected %s to lock", raw)
		}
	}
}

func TestGame_MatchupAndStart(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 19, 16, 15, 0, 0, time.UTC)
	g := Game{
		ID:             "401745972",
		ScheduledStart: start,
		Teams: []Team{
			{ID: "150", Abbreviation: "DUKE"},
			{ID: "2", DisplayName: "Auburn Tigers"},
		},
	}

	if got := g.Matchup(); got != "DUKE vs Auburn Tigers" {
		t.Fatalf("unexpected matchup: %q", got)
	}
	if g.StartedBy(start.Add(-time.Second)) {
		t.Fatalf("game must not be started before tip-off")
	}
	if !g.StartedBy(start) {
		t.Fatalf("game must be started at tip-off")
	}
	if (Game{}).StartedBy(start) {
		t.Fatalf("zero start must never count as started")
	}
}
