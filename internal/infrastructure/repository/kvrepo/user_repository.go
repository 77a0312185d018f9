package kvrepo

import (
	"context"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/dirty-thirty/internal/domain/kv"
	"github.com/riskibarqy/dirty-thirty/internal/domain/user"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

type UserRepository struct {
	store kv.Store
}

func NewUserRepository(store kv.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Get(ctx context.Context, userID string) (user.User, bool, error) {
	key := user.Key(userID)
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return user.User{}, false, crerr.Wrapf(usecase.ErrStoreUnavailable, "get %s: %v", key, err)
	}
	if !found {
		return user.User{}, false, nil
	}

	var out user.User
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return user.User{}, false, crerr.Wrapf(err, "decode %s", key)
	}
	return out, true, nil
}

func (r *UserRepository) Save(ctx context.Context, item user.User) error {
	key := user.Key(item.ID)
	raw, err := sonic.Marshal(item)
	if err != nil {
		return crerr.Wrapf(err, "encode %s", key)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return crerr.Wrapf(usecase.ErrStoreUnavailable, "set %s: %v", key, err)
	}
	return nil
}
