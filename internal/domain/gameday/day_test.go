package gameday

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"2026-03-19", "20260319", " 20260319 "} {
		day, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		if day != "2026-03-19" || day.Feed() != "20260319" {
			t.Fatalf("unexpected day for %q: %s / %s", raw, day, day.Feed())
		}
	}

	if _, err := Parse("19/03/2026"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}

func TestFromTime_UsesLocation(t *testing.T) {
	t.Parallel()

	instant := time.Date(2026, 3, 20, 2, 30, 0, 0, time.UTC)
	eastern := time.FixedZone("EDT", -4*60*60)

	if got := FromTime(instant, time.UTC); got != "2026-03-20" {
		t.Fatalf("unexpected UTC day: %s", got)
	}
	if got := FromTime(instant, eastern); got != "2026-03-19" {
		t.Fatalf("unexpected eastern day: %s", got)
	}
}
