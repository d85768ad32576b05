// Package backoff provides the polling and reconnect helpers shared by the
// pipeline workers.
package backoff

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx is cancelled, whichever comes first.
// It reports whether the full duration elapsed.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Next doubles the current delay, capped at max.
func Next(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}
