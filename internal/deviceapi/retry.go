package deviceapi

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/muurk/vzug/internal/logging"
	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts is the total number of JSON-call attempts
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the fixed delay between attempts
	DefaultRetryDelay = 2 * time.Second
)

// RetryPolicy is a bounded retry with a fixed delay.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	// Retryable decides whether an error is worth another attempt.
	Retryable func(error) bool
}

// DefaultRetryPolicy retries device-reported and transport errors 3 times, 2 seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultRetryDelay,
		Retryable:   IsRetryable,
	}
}

// Do runs op until it succeeds, returns a non-retryable error, or the attempts
// are used up. The last error is returned unchanged.
func (p RetryPolicy) Do(ctx context.Context, op func(attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(attempts-1)),
		ctx,
	)

	attempt := 0
	operation := func() error {
		attempt++
		err := op(attempt)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logging.Debug("Retrying device call",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	return backoff.RetryNotify(operation, b, notify)
}
