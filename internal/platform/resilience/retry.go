package resilience

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// Retry calls fn until it succeeds, returns an error retryable rejects, or
// MaxAttempts is reached. Delay doubles from BaseDelay up to MaxDelay.
// The last error is returned unchanged so callers can still match it.
func Retry(ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func(ctx context.Context, attempt int) error) error {
	cfg = NormalizeRetryConfig(cfg)

	delay := cfg.BaseDelay
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err = fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if retryable == nil || !retryable(err) || attempt == cfg.MaxAttempts {
			return err
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.WithSecondaryError(ctx.Err(), err)
			case <-timer.C:
			}
			delay *= 2
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		} else if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.WithSecondaryError(ctxErr, err)
		}
	}
	return err
}
