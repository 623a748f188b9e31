package gotalign

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Outcome is the result of one submitted text.
type Outcome struct {
	ID          string       // ID returned by Submit
	Input       string       // Submitted text
	Translation *Translation // Nil when Err is set
	Err         error
}

// Worker runs translations in the background, one at a time. Only the most
// recent submission matters: submitting while a text is pending replaces
// it, and submitting while a translation runs cancels that translation's
// context and discards its outcome.
//
// SetRequest and SetEngine change the settings of later translations. The
// change is applied before the next job runs and the latest input is
// translated again with it.
type Worker struct {
	current settings // owned by the run goroutine, written under mu
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	pending  *job
	next     *settings
	input    *string
	cancel   context.CancelFunc
	closed   bool
	busy     atomic.Bool
	wake     chan struct{}
	results  chan Outcome
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

type job struct {
	id   string
	text string
}

type settings struct {
	engine  Engine
	request EngineRequest
}

// WorkerOption is a functional option for configuring the Worker.
type WorkerOption func(*Worker)

// WithRequest sets the languages, context and style used for submissions
// until SetRequest changes them. Its Text field is ignored.
func WithRequest(req EngineRequest) WorkerOption {
	return func(w *Worker) {
		w.current.request = req
	}
}

// WithLogger sets the worker's logger (default: the package Logger).
func WithLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithResultBuffer sets how many outcomes may wait unread on Results.
func WithResultBuffer(n int) WorkerOption {
	return func(w *Worker) {
		if n >= 0 {
			w.results = make(chan Outcome, n)
		}
	}
}

// withClock replaces time.Now for speed measurement in tests.
func withClock(now func() time.Time) WorkerOption {
	return func(w *Worker) {
		w.now = now
	}
}

// NewWorker creates a worker for engine and starts its goroutine.
func NewWorker(engine Engine, opts ...WorkerOption) *Worker {
	w := &Worker{
		current: settings{engine: engine},
		logger:  Logger,
		now:     time.Now,
		wake:    make(chan struct{}, 1),
		results: make(chan Outcome, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	go w.run()
	return w
}

// Submit queues text for translation and returns the ID its Outcome will carry.
func (w *Worker) Submit(text string) (string, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", ErrWorkerClosed
	}

	id := uuid.NewString()
	if w.pending != nil {
		w.logger.Debug("replacing pending translation", "id", w.pending.id, "by", id)
	}
	w.pending = &job{id: id, text: text}
	w.input = &text
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	w.signal()
	return id, nil
}

// SetRequest replaces the languages, context and style used from the next
// translation on. Its Text field is ignored. A running translation is
// cancelled and the latest input is translated again; the returned ID is
// the one its Outcome will carry, or empty if nothing was submitted yet.
func (w *Worker) SetRequest(req EngineRequest) (string, error) {
	return w.reconfigure(func(s *settings) { s.request = req })
}

// SetEngine replaces the engine used from the next translation on, with
// the same effect on running and pending work as SetRequest.
func (w *Worker) SetEngine(engine Engine) (string, error) {
	return w.reconfigure(func(s *settings) { s.engine = engine })
}

func (w *Worker) reconfigure(change func(*settings)) (string, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", ErrWorkerClosed
	}

	s := w.current
	if w.next != nil {
		s = *w.next
	}
	change(&s)
	w.next = &s

	if w.pending == nil && w.input != nil {
		w.pending = &job{id: uuid.NewString(), text: *w.input}
	}
	var id string
	if w.pending != nil {
		id = w.pending.id
		w.logger.Debug("settings changed, translating again", "id", id)
	}
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	w.signal()
	return id, nil
}

func (w *Worker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Results delivers one Outcome per translation that was not superseded.
// The channel is closed after Close.
func (w *Worker) Results() <-chan Outcome {
	return w.results
}

// Pending reports whether a translation is queued or running.
func (w *Worker) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending != nil || w.busy.Load()
}

// Close cancels any running translation, drops pending input and waits for
// the worker goroutine to exit.
func (w *Worker) Close() error {
	w.mu.Lock()
	w.closed = true
	w.pending = nil
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	w.stopOnce.Do(func() { close(w.done) })
	<-w.stopped
	return nil
}

func (w *Worker) run() {
	defer close(w.stopped)
	defer close(w.results)

	for {
		select {
		case <-w.done:
			return
		case <-w.wake:
		}

		w.mu.Lock()
		if w.next != nil {
			w.current = *w.next
			w.next = nil
		}
		j := w.pending
		w.pending = nil
		if j == nil {
			w.mu.Unlock()
			continue
		}
		ctx, cancel := context.WithCancel(context.Background())
		w.cancel = cancel
		w.busy.Store(true)
		w.mu.Unlock()

		outcome := w.translate(ctx, j)

		w.mu.Lock()
		superseded := w.pending != nil || w.next != nil || w.closed
		w.cancel = nil
		w.busy.Store(false)
		w.mu.Unlock()
		cancel()

		if superseded {
			w.logger.Debug("dropping superseded translation", "id", j.id)
			continue
		}

		select {
		case w.results <- outcome:
		case <-w.done:
			return
		}
	}
}

// translate runs one job and measures its speed in words per second.
// Responses served by a CachedEngine are not timed.
func (w *Worker) translate(ctx context.Context, j *job) Outcome {
	req := w.current.request
	req.Text = j.text

	w.logger.Debug("translating", "id", j.id, "bytes", len(j.text))

	ctx, cached := withCacheHitFlag(ctx)
	start := w.now()
	resp, err := w.current.engine.Translate(ctx, req)
	elapsed := w.now().Sub(start)

	if err != nil {
		w.logger.Error("translation failed", "id", j.id, "error", err)
		return Outcome{ID: j.id, Input: j.text, Err: &TranslationError{Message: "translation failed", Cause: err}}
	}
	if resp == nil {
		return Outcome{ID: j.id, Input: j.text, Err: &TranslationError{Message: "engine returned no response"}}
	}

	speed := measuredSpeed(countWords(j.text), elapsed, cached.Load())
	w.logger.Info("translation ready", "id", j.id, "elapsed", elapsed, "words_per_second", speed, "cached", cached.Load())

	return Outcome{ID: j.id, Input: j.text, Translation: NewTranslation(resp, speed)}
}

// countWords counts whitespace-separated words.
func countWords(text string) int {
	return len(strings.Fields(text))
}

// measuredSpeed is the speed recorded on a Translation: 0 for a cache hit,
// whose elapsed time says nothing about the engine.
func measuredSpeed(words int, elapsed time.Duration, cached bool) int {
	if cached {
		return 0
	}
	return wordsPerSecond(words, elapsed)
}

// wordsPerSecond rounds up; an unmeasurably short run reports the word count.
func wordsPerSecond(words int, elapsed time.Duration) int {
	if elapsed <= 0 {
		return words
	}
	return int(math.Ceil(float64(words) / elapsed.Seconds()))
}
