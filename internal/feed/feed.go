// Package feed implements the portal's recurring list pattern: render the
// last snapshot immediately, fetch the full collection from the API, keep it
// fresh on a fixed timer, and never let a failed or stale refresh erase data
// that is already on screen.
package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/cache"
	"github.com/spec-kit/helpdesk-portal/internal/observability"
)

// FetchFunc loads the authoritative value from the remote API.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// State describes what a view should render alongside the value.
type State struct {
	HasData     bool
	Loading     bool
	Err         error
	LastUpdated time.Time
}

// Feed holds one view's collection: a snapshot-cache-backed value refreshed
// by an initial fetch plus a silent polling loop. Refreshes carry generation
// numbers so a slow stale response can never overwrite a newer one.
type Feed[T any] struct {
	key      string
	store    cache.SnapshotStore
	fetch    FetchFunc[T]
	interval time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics

	mu          sync.Mutex
	value       T
	hasData     bool
	loading     bool
	lastErr     error
	lastUpdated time.Time
	issuedGen   uint64
	appliedGen  uint64
	cancel      context.CancelFunc
	started     bool
}

// Options bundle the feed dependencies.
type Options struct {
	Key      string
	Store    cache.SnapshotStore
	Interval time.Duration
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// New builds a feed. Start must be called before use.
func New[T any](opts Options, fetch FetchFunc[T]) *Feed[T] {
	return &Feed[T]{
		key:      opts.Key,
		store:    opts.Store,
		fetch:    fetch,
		interval: opts.Interval,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// Start eagerly loads the snapshot cache, then launches the initial fetch
// and the polling loop. The loop stops when ctx is cancelled, which ties the
// feed's lifetime to its owning session.
func (f *Feed[T]) Start(ctx context.Context) {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return
	}
	f.started = true

	var cached T
	if err := cache.ReadJSON(ctx, f.store, f.key, &cached); err == nil {
		f.value = cached
		f.hasData = true
		f.metrics.RecordCacheHit(f.key)
	} else {
		if !errors.Is(err, cache.ErrMiss) {
			f.logger.Warn("snapshot read failed", zap.String("key", f.key), zap.Error(err))
		}
		f.metrics.RecordCacheMiss(f.key)
	}

	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()

	go f.run(runCtx)
}

// Stop cancels the polling loop. In-flight fetches are not aborted; their
// results are discarded by the generation guard if they land late.
func (f *Feed[T]) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.started = false
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (f *Feed[T]) run(ctx context.Context) {
	_ = f.Refresh(ctx, false)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = f.Refresh(ctx, true)
		}
	}
}

// Refresh fetches the authoritative value. A silent refresh never toggles
// the loading flag once any data has been shown and never surfaces an error
// over existing data. The slowest of two racing refreshes loses: only the
// highest issued generation may apply its result.
func (f *Feed[T]) Refresh(ctx context.Context, silent bool) error {
	f.mu.Lock()
	f.issuedGen++
	gen := f.issuedGen
	if !silent {
		f.lastErr = nil
		if !f.hasData {
			f.loading = true
		}
	}
	f.mu.Unlock()

	value, err := f.fetch(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen <= f.appliedGen {
		// A newer refresh already landed.
		return nil
	}

	if err != nil {
		f.metrics.RecordRefreshFailure(f.key)
		f.logger.Debug("feed refresh failed", zap.String("key", f.key), zap.Bool("silent", silent), zap.Error(err))
		if !silent {
			f.loading = false
		}
		if !f.hasData {
			f.lastErr = err
		}
		return err
	}

	f.appliedGen = gen
	f.value = value
	f.hasData = true
	f.lastErr = nil
	f.loading = false
	f.lastUpdated = time.Now()

	if werr := cache.WriteJSON(ctx, f.store, f.key, value); werr != nil {
		f.logger.Warn("snapshot write failed", zap.String("key", f.key), zap.Error(werr))
	}
	return nil
}

// Invalidate schedules an immediate silent refresh, used after a mutation
// acknowledged by the API.
func (f *Feed[T]) Invalidate(ctx context.Context) {
	go func() {
		_ = f.Refresh(ctx, true)
	}()
}

// Get returns the current value and render state.
func (f *Feed[T]) Get() (T, State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, State{
		HasData:     f.hasData,
		Loading:     f.loading,
		Err:         f.lastErr,
		LastUpdated: f.lastUpdated,
	}
}

// Patch applies a local mutation to the cached value and rewrites the
// snapshot. Used for acknowledged mutations (finished tickets, attachment
// add/remove) so the view reflects the change before the next poll. The
// next successful refresh replaces the patched value wholesale.
func (f *Feed[T]) Patch(ctx context.Context, mutate func(T) T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasData {
		return
	}
	f.value = mutate(f.value)
	if err := cache.WriteJSON(ctx, f.store, f.key, f.value); err != nil {
		f.logger.Warn("snapshot write failed", zap.String("key", f.key), zap.Error(err))
	}
}
