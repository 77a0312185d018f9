package leaderboard

import "testing"

func intPtr(v int) *int {
	return &v
}

func entryWithTotal(id string, total *int) Entry {
	if total == nil {
		return NewEntry(id, id, "a", intPtr(10), "b", nil)
	}
	return NewEntry(id, id, "a", intPtr(*total), "b", intPtr(0))
}

func totals(standings []Standing) []*int {
	out := make([]*int, 0, len(standings))
	for _, s := range standings {
		out = append(out, s.Total)
	}
	return out
}

func TestRankOrdersValidBustPending(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		entryWithTotal("u28", intPtr(28)),
		entryWithTotal("u31", intPtr(31)),
		entryWithTotal("u30", intPtr(30)),
		entryWithTotal("pending", nil),
	}

	got := Rank(entries)
	wantIDs := []string{"u30", "u28", "u31", "pending"}
	for i, want := range wantIDs {
		if got[i].UserID != want {
			t.Fatalf("position %d: got %s want %s (totals %v)", i, got[i].UserID, want, totals(got))
		}
		if got[i].Position != i+1 {
			t.Fatalf("position %d: unexpected Position %d", i, got[i].Position)
		}
	}
	if !got[0].Perfect || got[0].Outcome != OutcomeValid {
		t.Fatalf("expected perfect valid head, got %+v", got[0])
	}
	if got[2].Outcome != OutcomeBust || got[2].Rank != 0 {
		t.Fatalf("expected unranked bust, got %+v", got[2])
	}
	if got[3].Outcome != OutcomePending || got[3].Total != nil {
		t.Fatalf("expected pending tail, got %+v", got[3])
	}
}

func TestRankTiesKeepInsertionOrderAndShareRank(t *testing.T) {
	t.Parallel()

	got := Rank([]Entry{
		entryWithTotal("first", intPtr(29)),
		entryWithTotal("second", intPtr(29)),
		entryWithTotal("third", intPtr(25)),
	})
	if got[0].UserID != "first" || got[1].UserID != "second" {
		t.Fatalf("tie must keep insertion order, got %s,%s", got[0].UserID, got[1].UserID)
	}
	if got[0].Rank != 1 || got[1].Rank != 1 || got[2].Rank != 3 {
		t.Fatalf("unexpected ranks %d,%d,%d", got[0].Rank, got[1].Rank, got[2].Rank)
	}
}

func TestRankEmpty(t *testing.T) {
	t.Parallel()

	if got := Rank(nil); len(got) != 0 {
		t.Fatalf("expected empty standings")
	}
}

func TestNewEntryTotal(t *testing.T) {
	t.Parallel()

	if e := NewEntry("u", "U", "a", intPtr(12), "b", intPtr(0)); e.Total == nil || *e.Total != 12 {
		t.Fatalf("zero points still count toward total")
	}
	if e := NewEntry("u", "U", "a", intPtr(12), "", nil); e.Total != nil {
		t.Fatalf("missing slot points must leave total nil")
	}
}

func TestFinalResults(t *testing.T) {
	t.Parallel()

	res := FinalResults([]Entry{
		entryWithTotal("pending", nil),
		entryWithTotal("bust", intPtr(33)),
		entryWithTotal("close", intPtr(27)),
	})
	if len(res.Standings) != 2 {
		t.Fatalf("pending entries must be dropped, got %d", len(res.Standings))
	}
	if res.Winner == nil || res.Winner.UserID != "close" {
		t.Fatalf("unexpected winner %+v", res.Winner)
	}

	res = FinalResults([]Entry{entryWithTotal("bust", intPtr(40))})
	if res.Winner != nil {
		t.Fatalf("all-bust day has no winner")
	}
}
