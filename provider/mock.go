package provider

import (
	"context"
	"strings"
	"sync"

	"github.com/ZaguanLabs/gotalign"
)

// MockEngine is a deterministic engine for tests and offline runs.
// Known texts return their fixture; anything else is "translated" by
// bracketing every word, aligned one to one with probability 1.
type MockEngine struct {
	Responses map[string]*Response // Fixtures by source text
	Err       error                // Returned by every call when set

	mu          sync.Mutex
	callCount   int
	lastRequest *EngineRequest
}

// NewMockEngine creates a new mock engine without fixtures.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		Responses: make(map[string]*Response),
	}
}

// Translate returns the fixture for req.Text or a bracketed translation.
func (m *MockEngine) Translate(ctx context.Context, req EngineRequest) (*Response, error) {
	m.mu.Lock()
	m.callCount++
	m.lastRequest = &req
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if resp, ok := m.Responses[req.Text]; ok {
		return resp, nil
	}
	return BracketResponse(req.Text)
}

// CallCount returns the number of Translate calls.
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the last request received, nil before the first call.
func (m *MockEngine) LastRequest() *EngineRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockEngine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

// BracketResponse builds a response whose translation of every word w is
// "[w]", sentence by sentence, with word i aligned to word i.
func BracketResponse(text string) (*Response, error) {
	sentences := SplitSentences(text)

	var source, target [][]string
	var translated []string
	var alignments [][]gotalign.Point

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		bracketed := make([]string, len(words))
		points := make([]gotalign.Point, len(words))
		for i, w := range words {
			bracketed[i] = "[" + w + "]"
			points[i] = gotalign.Point{Src: i, Tgt: i, Prob: 1}
		}
		source = append(source, words)
		target = append(target, bracketed)
		translated = append(translated, strings.Join(bracketed, " "))
		alignments = append(alignments, points)
	}

	return assemble(text, strings.Join(translated, " "), source, target, alignments)
}

// SplitSentences splits text after '.', '!' or '?' followed by whitespace.
// Blank input yields no sentences.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t') {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					sentences = append(sentences, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// assemble builds and validates a response from per-sentence word lists.
func assemble(sourceText, targetText string, source, target [][]string, alignments [][]gotalign.Point) (*Response, error) {
	srcAnnotation, err := gotalign.BuildAnnotation(sourceText, source)
	if err != nil {
		return nil, err
	}
	tgtAnnotation, err := gotalign.BuildAnnotation(targetText, target)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Source:     gotalign.TextSide{Text: sourceText, Annotation: *srcAnnotation},
		Target:     gotalign.TextSide{Text: targetText, Annotation: *tgtAnnotation},
		Alignments: alignments,
	}
	if resp.Alignments == nil {
		resp.Alignments = [][]gotalign.Point{}
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return resp, nil
}

// Verify MockEngine implements Engine
var _ Engine = (*MockEngine)(nil)
