// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
	"math/rand/v2"
	"time"
)

// A RetryPredicate determines whether a failed step should be retried.
//
// It receives the context, the number of attempts so far, and the error
// from the last attempt. It returns true to retry, false to stop.
type RetryPredicate = func(context.Context, int, error) bool

// BackoffOption configures backoff behavior for retry predicates.
type BackoffOption func(*backoffConfig)

type backoffConfig struct {
	fullJitter bool
	maxDelay   time.Duration // 0 means no max delay
}

// WithFullJitter randomizes each backoff delay between 0 and the calculated
// delay, desynchronizing retries across concurrent branches.
func WithFullJitter() BackoffOption {
	return func(c *backoffConfig) {
		c.fullJitter = true
	}
}

// WithMaxDelay caps the backoff delay, preventing exponential backoff from
// growing unbounded.
func WithMaxDelay(max time.Duration) BackoffOption {
	return func(c *backoffConfig) {
		c.maxDelay = max
	}
}

// Retry wraps a step so that failed attempts are retried according to the
// given predicates.
//
// All predicates must return true for a retry to occur; if any returns
// false, the last error is returned and becomes the step's failure. With no
// predicates, the default is up to 3 attempts with exponential backoff
// starting at 100ms and full jitter.
//
// Retry applies to a single step before it is lifted; Exec itself never
// retries.
func Retry[S, T any](step Step[S, T], predicates ...RetryPredicate) Step[S, T] {
	if len(predicates) == 0 {
		predicates = []RetryPredicate{
			UpTo(3),
			ExponentialBackoff(100*time.Millisecond, WithFullJitter()),
		}
	}
	return func(ctx context.Context, in S) (T, error) {
		attempts := 0
		for {
			v, err := step(ctx, in)
			if err == nil {
				return v, nil
			}
			attempts++
			for _, predicate := range predicates {
				if !predicate(ctx, attempts, err) {
					return v, err
				}
			}
		}
	}
}

// UpTo limits retries to a maximum number of attempts.
func UpTo(maxAttempts int) RetryPredicate {
	return func(_ context.Context, attempts int, _ error) bool {
		return attempts < maxAttempts
	}
}

// FixedBackoff waits for a fixed duration before each retry.
//
// If the context is cancelled during the wait, the predicate returns false
// and the retry is aborted.
func FixedBackoff(delay time.Duration, opts ...BackoffOption) RetryPredicate {
	var cfg backoffConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(ctx context.Context, _ int, _ error) bool {
		return wait(ctx, cfg.clamp(cfg.jitter(delay)))
	}
}

// ExponentialBackoff waits with exponentially increasing delays before each
// retry: the delay for attempt N is base × 2^(N-1).
//
// If the context is cancelled during the wait, the predicate returns false.
//
// Options:
//   - [WithFullJitter] randomizes delay between 0 and the calculated delay
//   - [WithMaxDelay] caps the maximum delay
func ExponentialBackoff(base time.Duration, opts ...BackoffOption) RetryPredicate {
	var cfg backoffConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(ctx context.Context, attempts int, _ error) bool {
		if attempts < 1 {
			attempts = 1
		}
		// #nosec G115 -- attempts >= 1, conversion is safe
		shift := uint(attempts) - 1
		if shift > 62 {
			shift = 62
		}
		delay := base * time.Duration(1<<shift)
		if delay <= 0 {
			delay = base
		}
		return wait(ctx, cfg.clamp(cfg.jitter(delay)))
	}
}

// OnlyIf retries only when the check function returns true for the error.
//
// This is useful for retrying transient errors while failing immediately on
// permanent ones like validation failures.
func OnlyIf(check func(error) bool) RetryPredicate {
	return func(_ context.Context, _ int, err error) bool {
		return check(err)
	}
}

func (c backoffConfig) jitter(delay time.Duration) time.Duration {
	if !c.fullJitter || delay <= 0 {
		return delay
	}
	// math/rand/v2 is auto-seeded ChaCha8, sufficient for backoff jitter.
	// #nosec G404 -- see above
	return time.Duration(rand.Int64N(int64(delay) + 1))
}

func (c backoffConfig) clamp(delay time.Duration) time.Duration {
	if c.maxDelay > 0 && delay > c.maxDelay {
		return c.maxDelay
	}
	return delay
}

func wait(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
