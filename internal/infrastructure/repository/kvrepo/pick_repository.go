package kvrepo

import (
	"context"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/kv"
	"github.com/riskibarqy/dirty-thirty/internal/domain/pick"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

// PickRepository stores picks as flat JSON records under "picks:{userId}:{date}".
type PickRepository struct {
	store kv.Store
}

func NewPickRepository(store kv.Store) *PickRepository {
	return &PickRepository{store: store}
}

func (r *PickRepository) Get(ctx context.Context, userID string, day gameday.Day) (pick.Pick, bool, error) {
	key := pick.Key(userID, day)
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return pick.Pick{}, false, crerr.Wrapf(usecase.ErrStoreUnavailable, "get %s: %v", key, err)
	}
	if !found {
		return pick.Pick{}, false, nil
	}

	item, err := decodePick(raw)
	if err != nil {
		return pick.Pick{}, false, crerr.Wrapf(err, "decode %s", key)
	}
	return item, true, nil
}

func (r *PickRepository) Save(ctx context.Context, item pick.Pick) error {
	key := pick.Key(item.UserID, item.Date)
	raw, err := sonic.Marshal(item.ToRecord())
	if err != nil {
		return crerr.Wrapf(err, "encode %s", key)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return crerr.Wrapf(usecase.ErrStoreUnavailable, "set %s: %v", key, err)
	}
	return nil
}

// ListByDay returns the day's picks in key order. Unreadable records are skipped.
func (r *PickRepository) ListByDay(ctx context.Context, day gameday.Day) ([]pick.Pick, error) {
	keys, err := r.store.List(ctx, pick.KeyPrefix())
	if err != nil {
		return nil, crerr.Wrapf(usecase.ErrStoreUnavailable, "list picks: %v", err)
	}

	out := make([]pick.Pick, 0, len(keys))
	for _, key := range keys {
		if !pick.MatchesDay(key, day) {
			continue
		}
		raw, found, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, crerr.Wrapf(usecase.ErrStoreUnavailable, "get %s: %v", key, err)
		}
		if !found {
			continue
		}
		item, err := decodePick(raw)
		if err != nil {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func decodePick(raw []byte) (pick.Pick, error) {
	var rec pick.Record
	if err := sonic.Unmarshal(raw, &rec); err != nil {
		return pick.Pick{}, err
	}
	return pick.FromRecord(rec), nil
}
