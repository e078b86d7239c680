// Package retry runs an operation again while it fails with an error the
// caller marked as retryable, sleeping between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// Backoff returns the pause before the given (1-based) retry attempt.
type Backoff interface {
	NextBackoff(attempt int) time.Duration
}

// ExponentialBackoff grows the pause by Multiplier on every attempt, adds up
// to JitterFactor of random jitter and caps it at MaxInterval.
type ExponentialBackoff struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	JitterFactor    float64
}

func (b ExponentialBackoff) NextBackoff(attempt int) time.Duration {
	d := float64(b.InitialInterval) * math.Pow(b.Multiplier, float64(attempt-1))
	if b.JitterFactor > 0 {
		d += rand.Float64() * b.JitterFactor * d
	}
	if ceiling := float64(b.MaxInterval); ceiling > 0 && d > ceiling {
		d = ceiling
	}
	return time.Duration(d)
}

// ConstantBackoff always waits Interval. Zero disables waiting.
type ConstantBackoff struct {
	Interval time.Duration
}

func (b ConstantBackoff) NextBackoff(int) time.Duration {
	return b.Interval
}

// DefaultCollisionBackoff is tuned for tracking-code collisions: the other
// writer has already committed, so a short pause is enough.
func DefaultCollisionBackoff() ExponentialBackoff {
	return ExponentialBackoff{
		InitialInterval: 5 * time.Millisecond,
		MaxInterval:     200 * time.Millisecond,
		Multiplier:      2,
		JitterFactor:    0.5,
	}
}

// Config holds the retry policy.
type Config struct {
	MaxAttempts int
	Backoff     Backoff
	// Retryable lists the errors worth another attempt. Anything else is
	// returned immediately.
	Retryable []error
	Logger    zerolog.Logger
}

// ErrExhausted wraps the last error once every attempt failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// Do calls fn until it succeeds, fails with a non-retryable error, ctx is
// done or MaxAttempts is reached. fn receives the 1-based attempt number.
func Do(ctx context.Context, cfg Config, fn func(attempt int) error) error {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}

		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr, cfg.Retryable) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		var wait time.Duration
		if cfg.Backoff != nil {
			wait = cfg.Backoff.NextBackoff(attempt)
		}
		cfg.Logger.Debug().
			Err(lastErr).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Dur("backoff", wait).
			Msg("retrying")

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry cancelled during backoff: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}

func isRetryable(err error, retryable []error) bool {
	for _, r := range retryable {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
