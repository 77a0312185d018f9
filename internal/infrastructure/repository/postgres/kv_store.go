package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	qb "github.com/riskibarqy/dirty-thirty/internal/platform/querybuilder"
)

// KVStore keeps string values in the kv_entries table.
type KVStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewKVStore(db *sqlx.DB) *KVStore {
	return &KVStore{db: db, now: time.Now}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := qb.Select("key", "value", "updated_at").
		From(kvEntriesTable).
		Where(qb.Eq("key", key)).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build get kv entry query: %w", err)
	}

	var row kvEntryTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return s.getLiteral(ctx, key)
		}
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get kv entry: %w", err)
	}

	return []byte(row.Value), true, nil
}

func (s *KVStore) getLiteral(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := qb.Select("key", "value", "updated_at").
		From(kvEntriesTable).
		Where(qb.EqLiteral("key", key)).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build get kv entry literal fallback query: %w", err)
	}

	var row kvEntryTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get kv entry literal fallback: %w", err)
	}

	return []byte(row.Value), true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := qb.UpsertModel(kvEntriesTable, kvEntryTableModel{
		Key:       key,
		Value:     string(value),
		UpdatedAt: s.now().UTC(),
	}, "key")
	if err != nil {
		return fmt.Errorf("build kv upsert query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert kv entry: %w", err)
	}
	return nil
}

func (s *KVStore) List(ctx context.Context, prefix string) ([]string, error) {
	query, args, err := qb.Select("key").
		From(kvEntriesTable).
		Where(qb.HasPrefix("key", prefix)).
		OrderBy("key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list kv keys query: %w", err)
	}

	var keys []string
	if err := s.db.SelectContext(ctx, &keys, query, args...); err != nil {
		return nil, fmt.Errorf("list kv keys: %w", err)
	}
	return keys, nil
}
