package gotalign

import (
	"context"
	"sync"
	"time"
)

// DefaultWordsPerToken is the request size covered by one rate-limit token.
const DefaultWordsPerToken = 100

// RateLimitConfig configures a RateLimitedEngine.
//
// A request is charged one token per started block of WordsPerToken words,
// so RequestsPerMinute is the rate of requests of up to WordsPerToken words.
type RateLimitConfig struct {
	RequestsPerMinute int // Token refill rate (default: 60)
	BurstSize         int // Bucket capacity (default: RequestsPerMinute)
	WordsPerToken     int // Words charged per token (default: DefaultWordsPerToken)
}

// RateLimiter is a token bucket that refills continuously up to its burst
// size.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	perSec   float64
	last     time.Time
	now      func() time.Time
}

// NewRateLimiter creates a limiter with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return newRateLimiter(cfg, time.Now)
}

func newRateLimiter(cfg RateLimitConfig, now func() time.Time) *RateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}
	return &RateLimiter{
		tokens:   float64(burst),
		capacity: float64(burst),
		perSec:   float64(rpm) / 60,
		last:     now(),
		now:      now,
	}
}

// reserve takes n tokens if the bucket holds them and otherwise returns
// how long the caller should wait before asking again. A charge above the
// burst size takes a full bucket.
func (r *RateLimiter) reserve(n float64) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.tokens = min(r.capacity, r.tokens+now.Sub(r.last).Seconds()*r.perSec)
	r.last = now

	n = min(n, r.capacity)
	if r.tokens >= n {
		r.tokens -= n
		return true, 0
	}
	wait := time.Duration((n - r.tokens) * float64(time.Second) / r.perSec)
	return false, max(wait, time.Millisecond)
}

// WaitN blocks until n tokens are taken or ctx is done.
func (r *RateLimiter) WaitN(ctx context.Context, n float64) error {
	for {
		ok, wait := r.reserve(n)
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Wait takes a single token.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.WaitN(ctx, 1)
}

// TryAcquireN takes n tokens if they are available right now.
func (r *RateLimiter) TryAcquireN(n float64) bool {
	ok, _ := r.reserve(n)
	return ok
}

// Available returns the tokens currently in the bucket.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return min(r.capacity, r.tokens+r.now().Sub(r.last).Seconds()*r.perSec)
}

// RateLimitedEngine throttles an Engine by the amount of text it is sent.
type RateLimitedEngine struct {
	engine        Engine
	limiter       *RateLimiter
	wordsPerToken int
}

// NewRateLimitedEngine wraps engine.
func NewRateLimitedEngine(engine Engine, cfg RateLimitConfig) *RateLimitedEngine {
	return newRateLimitedEngine(engine, cfg, NewRateLimiter(cfg))
}

func newRateLimitedEngine(engine Engine, cfg RateLimitConfig, limiter *RateLimiter) *RateLimitedEngine {
	words := cfg.WordsPerToken
	if words <= 0 {
		words = DefaultWordsPerToken
	}
	return &RateLimitedEngine{
		engine:        engine,
		limiter:       limiter,
		wordsPerToken: words,
	}
}

// Cost returns the tokens req is charged: one per started block of
// WordsPerToken words, and at least one.
func (e *RateLimitedEngine) Cost(req EngineRequest) int {
	words := countWords(req.Text)
	return max(1, (words+e.wordsPerToken-1)/e.wordsPerToken)
}

// Translate implements Engine.
func (e *RateLimitedEngine) Translate(ctx context.Context, req EngineRequest) (*Response, error) {
	cost := e.Cost(req)
	if err := e.limiter.WaitN(ctx, float64(cost)); err != nil {
		return nil, &ProviderError{
			Message:   "rate limit wait cancelled",
			Cause:     err,
			Retryable: false,
		}
	}
	Logger.Debug("rate limit passed", "tokens", cost, "available", e.limiter.Available())

	return e.engine.Translate(ctx, req)
}

// Limiter returns the underlying limiter.
func (e *RateLimitedEngine) Limiter() *RateLimiter {
	return e.limiter
}

// Verify RateLimitedEngine implements Engine
var _ Engine = (*RateLimitedEngine)(nil)
