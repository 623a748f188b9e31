package gotalign

import (
	"context"
	"encoding/json"
	"sync/atomic"
)

// ResponseCache stores serialised responses by key.
type ResponseCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// CachedEngine serves repeated requests from a cache. Responses are stored
// as JSON under CacheKeyExtended(HashText(text), source, target, model).
type CachedEngine struct {
	engine Engine
	cache  ResponseCache
	model  string
}

// NewCachedEngine wraps engine. Model namespaces the keys so that responses
// of different models never mix.
func NewCachedEngine(engine Engine, cache ResponseCache, model string) *CachedEngine {
	return &CachedEngine{
		engine: engine,
		cache:  cache,
		model:  model,
	}
}

// Translate implements Engine.
func (e *CachedEngine) Translate(ctx context.Context, req EngineRequest) (*Response, error) {
	key := e.key(req)

	if cached, ok := e.cache.Get(key); ok {
		resp, err := DecodeResponse(cached)
		if err == nil {
			Logger.Debug("response cache hit", "key", key)
			markCacheHit(ctx)
			return resp, nil
		}
		// A corrupt entry is treated as a miss and overwritten below
		Logger.Warn("discarding cached response", "key", key, "error", err)
	}

	resp, err := e.engine.Translate(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, &CacheError{Message: "encoding response", Cause: err}
	}
	if err := e.cache.Set(key, string(data)); err != nil {
		Logger.Warn("caching response failed", "key", key, "error", err)
	}

	return resp, nil
}

func (e *CachedEngine) key(req EngineRequest) string {
	source := req.SourceLang
	if source == "" {
		source = "en"
	}
	model := e.model
	if req.Style != "" {
		model += "+" + string(req.Style)
	}
	return CacheKeyExtended(HashText(req.Text), source, req.TargetLang, model)
}

type cacheHitKey struct{}

// withCacheHitFlag returns a context on which CachedEngine reports hits.
func withCacheHitFlag(ctx context.Context) (context.Context, *atomic.Bool) {
	hit := new(atomic.Bool)
	return context.WithValue(ctx, cacheHitKey{}, hit), hit
}

func markCacheHit(ctx context.Context) {
	if hit, ok := ctx.Value(cacheHitKey{}).(*atomic.Bool); ok {
		hit.Store(true)
	}
}

// DecodeResponse parses and validates a JSON-encoded response as stored
// by CachedEngine.
func DecodeResponse(data string) (*Response, error) {
	var resp Response
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, &CacheError{Message: "decoding response", Cause: err}
	}
	if err := resp.Validate(); err != nil {
		return nil, &CacheError{Message: "invalid cached response", Cause: err}
	}
	return &resp, nil
}

// Verify CachedEngine implements Engine
var _ Engine = (*CachedEngine)(nil)
