package gotalign

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls how RetryableEngine retries failed requests.
//
// Transient failures (rate limits, timeouts, 5xx) are retried after an
// exponential backoff. Malformed answers, where the engine replied with
// tokens that cannot be located in the text, are retried at once and draw
// on their own budget.
type RetryConfig struct {
	MaxRetries          int           // Retries of transient failures
	MaxMalformedRetries int           // Retries of malformed answers
	BaseDelay           time.Duration // First backoff delay
	MaxDelay            time.Duration // Backoff ceiling
}

// DefaultRetryConfig returns the retry policy used by the CLI.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          3,
		MaxMalformedRetries: 1,
		BaseDelay:           1 * time.Second,
		MaxDelay:            30 * time.Second,
	}
}

type failure int

const (
	failFatal failure = iota
	failTransient
	failMalformed
)

func classify(err error) failure {
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		// Defects, boundary errors and context errors
		return failFatal
	}
	switch {
	case providerErr.Malformed:
		return failMalformed
	case providerErr.Retryable:
		return failTransient
	}
	return failFatal
}

// IsRetryable reports whether another attempt at the failed request may
// succeed.
func IsRetryable(err error) bool {
	return err != nil && classify(err) != failFatal
}

// IsMalformed reports whether err is an engine answer that does not fit
// the request's text.
func IsMalformed(err error) bool {
	return err != nil && classify(err) == failMalformed
}

// backoff returns the delay before transient retry number n (from 0).
func (c RetryConfig) backoff(n int) time.Duration {
	delay := c.BaseDelay << n
	if delay > c.MaxDelay || delay <= 0 {
		delay = c.MaxDelay
	}
	return delay
}

// WithRetry calls fn until it succeeds, fails fatally, exhausts the budget
// for its kind of failure or ctx is done.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	transient, malformed := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		var delay time.Duration
		switch classify(err) {
		case failTransient:
			if transient >= cfg.MaxRetries {
				return zero, err
			}
			delay = cfg.backoff(transient)
			transient++
		case failMalformed:
			if malformed >= cfg.MaxMalformedRetries {
				return zero, err
			}
			malformed++
		default:
			return zero, err
		}

		Logger.Debug("retrying translation", "error", err, "delay", delay,
			"transient", transient, "malformed", malformed)
		if delay == 0 {
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// RetryableEngine retries failed requests according to a RetryConfig.
type RetryableEngine struct {
	engine Engine
	config RetryConfig
}

// NewRetryableEngine wraps engine.
func NewRetryableEngine(engine Engine, cfg RetryConfig) *RetryableEngine {
	return &RetryableEngine{
		engine: engine,
		config: cfg,
	}
}

// Translate implements Engine.
func (e *RetryableEngine) Translate(ctx context.Context, req EngineRequest) (*Response, error) {
	return WithRetry(ctx, e.config, func() (*Response, error) {
		return e.engine.Translate(ctx, req)
	})
}

// Verify RetryableEngine implements Engine
var _ Engine = (*RetryableEngine)(nil)
