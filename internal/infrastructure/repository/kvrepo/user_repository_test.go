package kvrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/domain/user"
	"github.com/riskibarqy/dirty-thirty/internal/infrastructure/repository/kvrepo"
	"github.com/riskibarqy/dirty-thirty/internal/infrastructure/repository/memory"
)

func TestUserRepository_SaveGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := kvrepo.NewUserRepository(memory.NewKVStore())

	if _, found, err := repo.Get(ctx, "user_missing"); err != nil || found {
		t.Fatalf("expected miss, found=%v err=%v", found, err)
	}

	joined := time.Date(2026, 3, 19, 12, 0, 0, 0, time.UTC)
	if err := repo.Save(ctx, user.User{ID: "user_a_example_com", Name: "A", Email: "a@example.com", JoinedAt: joined}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, found, err := repo.Get(ctx, "user_a_example_com")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if got.Name != "A" || got.Email != "a@example.com" || !got.JoinedAt.Equal(joined) {
		t.Fatalf("unexpected user %+v", got)
	}
}
