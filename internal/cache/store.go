// Package cache persists last-known-good copies of API list responses so
// views render instantly on mount. The store is read-through and best
// effort: it is never a source of truth and every write path re-syncs from
// the API rather than trusting a cached value.
package cache

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrMiss is returned when a key is absent.
var ErrMiss = errors.New("cache: miss")

// SnapshotStore persists raw snapshot blobs under fixed per-view keys.
type SnapshotStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// ReadJSON reads and decodes a snapshot. A malformed entry is treated
// exactly like a miss: the stale blob is dropped and the caller falls back
// to the network.
func ReadJSON[T any](ctx context.Context, store SnapshotStore, key string, out *T) error {
	data, err := store.Read(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		_ = store.Delete(ctx, key)
		return ErrMiss
	}
	return nil
}

// WriteJSON encodes and stores a snapshot.
func WriteJSON[T any](ctx context.Context, store SnapshotStore, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Write(ctx, key, data)
}
