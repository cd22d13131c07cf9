package shared

import (
	"context"
	"log/slog"
	"time"

	"slot-capacity-engine/internal/pkg/backoff"
	"slot-capacity-engine/internal/pkg/config"
	"slot-capacity-engine/internal/pkg/errs"
)

const (
	DefaultMaxAttempts = 3
	DefaultBackoffBase = 50 * time.Millisecond
)

// Coordinator re-runs an operation when the versioned store reports a conflict.
// Every other error is returned untouched on the first occurrence.
type Coordinator struct {
	maxAttempts int
	backoffBase time.Duration
	delay       func(attempt int, base time.Duration) time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *slog.Logger
}

type CoordinatorOption func(*Coordinator)

func WithMaxAttempts(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithBackoffBase(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d >= 0 {
			c.backoffBase = d
		}
	}
}

// WithSleep replaces the wait between attempts; tests use it to avoid real delays.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) CoordinatorOption {
	return func(c *Coordinator) { c.sleep = fn }
}

func WithRetryLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = l }
}

func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		maxAttempts: DefaultMaxAttempts,
		backoffBase: DefaultBackoffBase,
		delay:       backoff.Exponential,
		sleep:       backoff.Sleep,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewCoordinatorFromConfig(cfg config.Config, logger *slog.Logger) *Coordinator {
	return NewCoordinator(
		WithMaxAttempts(cfg.Retry.MaxAttempts),
		WithBackoffBase(cfg.Retry.BackoffBase),
		WithRetryLogger(logger),
	)
}

func (c *Coordinator) MaxAttempts() int {
	return c.maxAttempts
}

// Do runs op up to MaxAttempts times. op must re-read the resource version on every call.
// attempt starts at 1.
func (c *Coordinator) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		if !errs.Is(err, errs.ErrVersionConflict) {
			return err
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}

		wait := c.delay(attempt-1, c.backoffBase)
		c.logger.Debug("version conflict, retrying",
			"attempt", attempt,
			"wait_ms", wait.Milliseconds())

		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}

	c.logger.Warn("retries exhausted on version conflict",
		"attempts", c.maxAttempts,
		"error", lastErr.Error())
	return errs.Mark(errs.Wrapf(lastErr, "gave up after %d attempts", c.maxAttempts), errs.ErrConcurrency)
}
