package github

import (
	"context"
	"time"

	"github.com/allthriveai/showcase/internal/logger"
)

// RetryPolicy encapsulates the retry behaviour applied to every network
// call made by the repository service. Keeping it a value makes the policy
// independently testable and reusable across the readme, tree and manifest
// fetches.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget, first try included.
	MaxAttempts int

	// BaseDelay is the delay before the second attempt; it doubles on
	// every subsequent attempt.
	BaseDelay time.Duration

	// PerCallTimeout bounds each individual attempt. A per-call timeout
	// triggers another attempt; only the caller's overall deadline aborts
	// the operation outright.
	PerCallTimeout time.Duration
}

// DefaultRetryPolicy matches the production configuration: 3 attempts,
// exponential backoff from 2s, 10s per call.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      2 * time.Second,
		PerCallTimeout: 10 * time.Second,
	}
}

// Do runs op under the policy. Only transient failures are retried; a 404
// or a plain 403 returns immediately so an optional resource reads as
// absent, and an exhausted rate limit abandons the remaining attempts
// rather than burning the budget uselessly.
func (p RetryPolicy) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	delay := p.BaseDelay
	var err error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if p.PerCallTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.PerCallTimeout)
		}
		err = op(attemptCtx)
		if cancel != nil {
			cancel()
		}

		if err == nil {
			return nil
		}
		// The caller's deadline takes precedence over per-call retries.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !IsTransient(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}

		logger.Debug("%s failed (attempt %d/%d), retrying in %s: %v", name, attempt, p.MaxAttempts, delay, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return err
}
