package kv

import "context"

// Store is a flat key/value store. Values are opaque JSON documents.
type Store interface {
	// Get returns found=false for a missing key; err is reserved for store failures.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// List returns every key with the given prefix, sorted ascending.
	List(ctx context.Context, prefix string) ([]string, error)
}
