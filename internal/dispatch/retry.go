package dispatch

import (
	"context"
	"log/slog"
	"time"
)

// Retryer wraps a single network call with bounded retry and a fixed
// inter-attempt delay. There is no backoff, no jitter, and no classification
// of failure causes: a malformed-recipient error is retried exactly like a
// transient network error. On exhaustion the last observed error is
// returned, terminal for that recipient only.
type Retryer struct {
	maxAttempts int
	delay       time.Duration
	log         *slog.Logger
	sleep       func(time.Duration)
}

// RetryerOption configures a Retryer.
type RetryerOption func(*Retryer)

// WithSleepFunc overrides the inter-attempt sleep. Tests use this to verify
// delay behavior without real waits.
func WithSleepFunc(fn func(time.Duration)) RetryerOption {
	return func(r *Retryer) {
		r.sleep = fn
	}
}

// NewRetryer builds a Retryer. maxAttempts below 1 is clamped to 1.
func NewRetryer(maxAttempts int, delay time.Duration, log *slog.Logger, opts ...RetryerOption) *Retryer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	r := &Retryer{
		maxAttempts: maxAttempts,
		delay:       delay,
		log:         log,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs op up to maxAttempts times, sleeping the fixed delay between
// attempts but not after the last. The context is passed through to op;
// cancellation is only observed by the operation itself, matching the
// plain-timed-wait suspension model of the pipeline.
func (r *Retryer) Do(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt < r.maxAttempts {
			r.log.Warn("send attempt failed, retrying",
				"attempt", attempt,
				"max_attempts", r.maxAttempts,
				"delay", r.delay.String(),
				"error", lastErr)
			r.sleep(r.delay)
		}
	}
	return lastErr
}
