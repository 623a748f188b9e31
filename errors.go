package gotalign

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBoundary is wrapped by every BoundaryError.
	ErrInvalidBoundary = errors.New("invalid boundary")
	// ErrInternal is wrapped by defects: malformed annotations or responses
	// that break the ordering invariants the mapping relies on.
	ErrInternal = errors.New("internal inconsistency")
	// ErrWorkerClosed is returned when submitting to a closed Worker.
	ErrWorkerClosed = errors.New("worker closed")
)

// BoundaryError reports a position or byte offset that does not fall on a
// valid boundary of the text it indexes.
type BoundaryError struct {
	Kind  string // "position" or "offset"
	Value int    // The rejected value
	Limit int    // Length of the text in the same unit
	Cause string // What is wrong with Value
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("invalid %s %d (length %d): %s", e.Kind, e.Value, e.Limit, e.Cause)
}

func (e *BoundaryError) Unwrap() error {
	return ErrInvalidBoundary
}

// InconsistencyError reports an internal defect. It is not a user error and
// callers should not try to recover from it beyond degrading the display.
type InconsistencyError struct {
	Message string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("internal inconsistency: %s", e.Message)
}

func (e *InconsistencyError) Unwrap() error {
	return ErrInternal
}

// SentenceCountMismatchError indicates that source, target and alignment
// lists of a response do not describe the same number of sentences.
type SentenceCountMismatchError struct {
	Source     int
	Target     int
	Alignments int
}

func (e *SentenceCountMismatchError) Error() string {
	return fmt.Sprintf("sentence count mismatch: source %d, target %d, alignments %d",
		e.Source, e.Target, e.Alignments)
}

func (e *SentenceCountMismatchError) Unwrap() error {
	return ErrInternal
}

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates an engine failure (API error, rate limit, malformed output).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
	Malformed bool // The engine answered, but not with tokens of the request's text
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates an input processing failure (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}
