// Package retry provides a generic bounded-retry combinator for upstream
// calls. Failure after the final attempt is returned as an ordinary error so
// callers can treat "data unavailable" without exception-style control flow.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy controls attempt count and backoff.
// Backoff is linear: the wait after attempt n is BaseDelay * n.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultPolicy matches the upstream-call policy used across the screener.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 1 * time.Second}
}

// Do runs fn up to p.MaxAttempts times, waiting BaseDelay*attempt between
// tries. It returns the first successful result, or the last error once
// attempts are exhausted. A cancelled context stops retrying immediately.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == p.MaxAttempts {
			break
		}

		wait := p.BaseDelay * time.Duration(attempt)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}

	return zero, fmt.Errorf("all %d attempts failed: %w", p.MaxAttempts, lastErr)
}
