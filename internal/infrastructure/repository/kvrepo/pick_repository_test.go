package kvrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/pick"
	"github.com/riskibarqy/dirty-thirty/internal/infrastructure/repository/kvrepo"
	"github.com/riskibarqy/dirty-thirty/internal/infrastructure/repository/memory"
	kvmock "github.com/riskibarqy/dirty-thirty/internal/mocks/domain/kv"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

func intPtr(v int) *int {
	return &v
}

func TestPickRepository_SaveGetListByDay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewKVStore()
	repo := kvrepo.NewPickRepository(store)

	day := gameday.Day("2026-03-20")
	items := []pick.Pick{
		{UserID: "user_b", UserName: "B", Date: day, Slot1: &pick.Slot{PlayerID: "401_1", PlayerName: "One", Points: intPtr(12)}},
		{UserID: "user_a", UserName: "A", Date: day, Slot2: &pick.Slot{PlayerID: "401_2", PlayerName: "Two"}},
		{UserID: "user_a", UserName: "A", Date: gameday.Day("2026-03-21"), Slot1: &pick.Slot{PlayerID: "402_3"}},
	}
	for _, item := range items {
		item.UpdatedAt = time.Date(2026, 3, 20, 18, 0, 0, 0, time.UTC)
		if err := repo.Save(ctx, item); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, found, err := repo.Get(ctx, "user_b", day)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if got.Slot1 == nil || got.Slot1.Points == nil || *got.Slot1.Points != 12 || got.Slot2 != nil {
		t.Fatalf("unexpected pick %+v", got)
	}

	listed, err := repo.ListByDay(ctx, day)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].UserID != "user_a" || listed[1].UserID != "user_b" {
		t.Fatalf("unexpected listing %+v", listed)
	}
	if listed[0].Slot1 != nil || listed[0].Slot2 == nil || listed[0].Slot2.Points != nil {
		t.Fatalf("slot layout must round trip, got %+v", listed[0])
	}
}

func TestPickRepository_SkipsUnreadableRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewKVStore()
	day := gameday.Day("2026-03-20")
	if err := store.Set(ctx, pick.Key("user_x", day), []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	listed, err := kvrepo.NewPickRepository(store).ListByDay(ctx, day)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected unreadable record to be skipped, got %+v", listed)
	}
}

func TestPickRepository_StoreFailureIsStoreUnavailable(t *testing.T) {
	t.Parallel()

	store := kvmock.NewStore(t)
	store.On("List", mock.Anything, "picks:").Return(nil, errors.New("connection refused")).Once()
	store.On("Set", mock.Anything, "picks:user_a:2026-03-20", mock.Anything).Return(errors.New("connection refused")).Once()

	repo := kvrepo.NewPickRepository(store)
	if _, err := repo.ListByDay(context.Background(), gameday.Day("2026-03-20")); !errors.Is(err, usecase.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable on list, got %v", err)
	}
	err := repo.Save(context.Background(), pick.Pick{UserID: "user_a", Date: gameday.Day("2026-03-20")})
	if !errors.Is(err, usecase.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable on save, got %v", err)
	}
}
