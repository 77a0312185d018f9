package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/domain/user"
	basecache "github.com/riskibarqy/dirty-thirty/internal/platform/cache"
)

type countingUsers struct {
	gets  int
	items map[string]user.User
}

func (c *countingUsers) Get(_ context.Context, userID string) (user.User, bool, error) {
	c.gets++
	item, ok := c.items[userID]
	return item, ok, nil
}

func (c *countingUsers) Save(_ context.Context, item user.User) error {
	c.items[item.ID] = item
	return nil
}

func TestUserRepository_CachesAndInvalidatesOnSave(t *testing.T) {
	ctx := context.Background()
	next := &countingUsers{items: map[string]user.User{}}
	repo := NewUserRepository(next, basecache.NewStore[CachedUser](time.Minute))

	if _, found, err := repo.Get(ctx, "user_a"); err != nil || found {
		t.Fatalf("expected miss, found=%v err=%v", found, err)
	}
	if _, _, err := repo.Get(ctx, "user_a"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if next.gets != 1 {
		t.Fatalf("expected cached miss, got %d loads", next.gets)
	}

	if err := repo.Save(ctx, user.User{ID: "user_a", Name: "A"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, found, err := repo.Get(ctx, "user_a")
	if err != nil || !found || got.Name != "A" {
		t.Fatalf("expected fresh user after save, got %+v found=%v err=%v", got, found, err)
	}
	if next.gets != 2 {
		t.Fatalf("save must invalidate the cached entry, got %d loads", next.gets)
	}
}
