package pick

import (
	"testing"
	"time"
)

func TestRecordRoundTripKeepsPlayerIDs(t *testing.T) {
	t.Parallel()

	pts := 12
	in := Pick{
		UserID:    "user_a",
		UserName:  "A",
		Date:      "2026-03-20",
		Slot1:     &Slot{PlayerID: "401_1", PlayerName: "One", Points: &pts},
		Slot2:     &Slot{PlayerID: "402_9", PlayerName: "Nine"},
		UpdatedAt: time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC),
	}

	out := FromRecord(in.ToRecord())
	if out.Slot1 == nil || out.Slot1.PlayerID != "401_1" || *out.Slot1.Points != 12 {
		t.Fatalf("slot1 mismatch: %+v", out.Slot1)
	}
	if out.Slot2 == nil || out.Slot2.PlayerID != "402_9" || out.Slot2.Points != nil {
		t.Fatalf("slot2 mismatch: %+v", out.Slot2)
	}
	if out.Date != in.Date || out.UserName != "A" {
		t.Fatalf("header mismatch: %+v", out)
	}
}

func TestEmptySlotsSurviveRecord(t *testing.T) {
	t.Parallel()

	out := FromRecord(Pick{UserID: "u", Date: "2026-03-20", Slot2: &Slot{PlayerID: "1_2"}}.ToRecord())
	if out.Slot1 != nil {
		t.Fatalf("expected empty slot1")
	}
	if out.FirstFree() != 0 || out.SlotOf("1_2") != 1 {
		t.Fatalf("unexpected slot lookup")
	}
}

func TestKeys(t *testing.T) {
	t.Parallel()

	key := Key("user_a", "2026-03-20")
	if key != "picks:user_a:2026-03-20" {
		t.Fatalf("unexpected key %q", key)
	}
	if !MatchesDay(key, "2026-03-20") {
		t.Fatalf("key should match its day")
	}
	if MatchesDay(key, "2026-03-21") || MatchesDay("users:user_a:2026-03-20", "2026-03-20") {
		t.Fatalf("unexpected match")
	}
}
