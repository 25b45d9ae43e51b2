// Package worker hosts the portal's background loops.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/session"
)

// StartSessionJanitor periodically evicts expired sessions so their polling
// feeds stop instead of refreshing against a dead token. The loop ends when
// ctx is cancelled.
func StartSessionJanitor(ctx context.Context, manager *session.Manager, interval time.Duration, logger *zap.Logger) {
	if manager == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if evicted := manager.EvictExpired(time.Now()); evicted > 0 {
					logger.Info("expired sessions evicted", zap.Int("count", evicted))
				}
			}
		}
	}()
}
