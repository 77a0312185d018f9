package cache

import (
	"context"

	"github.com/riskibarqy/dirty-thirty/internal/domain/user"
	basecache "github.com/riskibarqy/dirty-thirty/internal/platform/cache"
)

// UserRepository caches user lookups in front of the store. Save writes through and drops the cached entry.
type UserRepository struct {
	next  user.Repository
	cache *basecache.Store[CachedUser]
}

// CachedUser is a cached lookup result, including misses.
type CachedUser struct {
	value  user.User
	exists bool
}

func NewUserRepository(next user.Repository, cache *basecache.Store[CachedUser]) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) Get(ctx context.Context, userID string) (user.User, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, user.Key(userID), func(ctx context.Context) (CachedUser, error) {
		item, exists, err := r.next.Get(ctx, userID)
		if err != nil {
			return CachedUser{}, err
		}
		return CachedUser{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.User{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *UserRepository) Save(ctx context.Context, item user.User) error {
	if err := r.next.Save(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, user.Key(item.ID))
	return nil
}
