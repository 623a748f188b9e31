package gotalign

import (
	"context"
	"sync"
	"time"
)

// DefaultConcurrency bounds TranslateAll when no limit is given.
const DefaultConcurrency = 4

// BatchResult is the outcome of one request of TranslateAll.
type BatchResult struct {
	Request     EngineRequest
	Translation *Translation // Nil when Err is set
	Err         error
}

// TranslateAll translates reqs with at most concurrency engine calls in
// flight. Identical requests are sent once and share their Translation.
// Results are returned in request order.
func TranslateAll(ctx context.Context, engine Engine, reqs []EngineRequest, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]BatchResult, len(reqs))
	if len(reqs) == 0 {
		return results
	}

	// Deduplicate requests, remembering every index that shares one
	unique := make(map[EngineRequest][]int)
	var order []EngineRequest
	for i, req := range reqs {
		if _, seen := unique[req]; !seen {
			order = append(order, req)
		}
		unique[req] = append(unique[req], i)
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, req := range order {
		wg.Add(1)
		go func(req EngineRequest) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				fill(results, unique[req], BatchResult{Request: req, Err: ctx.Err()})
				return
			}

			fill(results, unique[req], translateOne(ctx, engine, req))
		}(req)
	}

	wg.Wait()
	return results
}

// fill stores r at each index. Indices are disjoint between goroutines.
func fill(results []BatchResult, indices []int, r BatchResult) {
	for _, i := range indices {
		results[i] = r
	}
}

func translateOne(ctx context.Context, engine Engine, req EngineRequest) BatchResult {
	ctx, cached := withCacheHitFlag(ctx)
	start := time.Now()
	resp, err := engine.Translate(ctx, req)
	if err != nil {
		Logger.Error("batch translation failed", "bytes", len(req.Text), "error", err)
		return BatchResult{Request: req, Err: &TranslationError{Message: "translation failed", Cause: err}}
	}
	if resp == nil {
		return BatchResult{Request: req, Err: &TranslationError{Message: "engine returned no response"}}
	}

	speed := measuredSpeed(countWords(req.Text), time.Since(start), cached.Load())
	return BatchResult{Request: req, Translation: NewTranslation(resp, speed)}
}
