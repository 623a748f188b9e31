package gotalign

import (
	"cmp"
	"fmt"
	"slices"
)

// WordAlignment is a span of the target text, in code-unit positions, that
// is aligned to the queried selection with probability Prob.
type WordAlignment struct {
	Begin int     `json:"begin"`
	End   int     `json:"end"`
	Prob  float64 `json:"prob"`
}

// Alignments returns the spans of the target text aligned to the selection
// [first, last] of the queried text, where direction decides which text is
// which. Positions are code units and may be given in either order.
//
// The result holds one entry per alignment point whose queried word lies in
// the selection, sorted by Begin ascending and, for equal Begin, by Prob
// descending. A nil response, or a queried text without sentences, yields an
// empty list. Positions outside the queried text return a *BoundaryError;
// responses that break the segmentation invariants return an
// *InconsistencyError.
func Alignments(resp EngineResponse, direction Direction, first, last int) ([]WordAlignment, error) {
	if resp == nil {
		return nil, nil
	}

	v, err := viewFor(resp, direction)
	if err != nil {
		return nil, err
	}
	if v.queried.annotation.NumSentences() == 0 {
		return nil, nil
	}

	if first > last {
		first, last = last, first
	}

	sentenceFirst, wordFirst, err := locate(v.queried, first)
	if err != nil {
		return nil, err
	}
	sentenceLast, wordLast, err := locate(v.queried, last)
	if err != nil {
		return nil, err
	}

	if sentenceFirst > sentenceLast || (sentenceFirst == sentenceLast && wordFirst > wordLast) {
		return nil, &InconsistencyError{Message: fmt.Sprintf("selection resolves backwards: (%d, %d) after (%d, %d)", sentenceFirst, wordFirst, sentenceLast, wordLast)}
	}
	if sentenceLast >= resp.NumAlignments() || sentenceLast >= v.target.annotation.NumSentences() {
		return nil, &InconsistencyError{Message: fmt.Sprintf("sentence %d has no counterpart: %d alignment lists, %d target sentences", sentenceLast, resp.NumAlignments(), v.target.annotation.NumSentences())}
	}

	var alignments []WordAlignment
	for s := sentenceFirst; s <= sentenceLast; s++ {
		lo, hi := 0, v.queried.annotation.NumWords(s)-1
		if s == sentenceFirst {
			lo = wordFirst
		}
		if s == sentenceLast {
			hi = wordLast
		}

		for _, p := range resp.Alignment(s) {
			if w := v.queriedWord(p); w < lo || w > hi {
				continue
			}

			span, err := targetSpan(v.target, s, v.targetWord(p))
			if err != nil {
				return nil, err
			}
			span.Prob = p.Prob
			alignments = append(alignments, span)
		}
	}

	sortAlignments(alignments)
	return alignments, nil
}

// locate resolves a code-unit position of a side to its sentence and word.
func locate(s side, position int) (int, int, error) {
	offset, err := PositionToOffset(s.text, position)
	if err != nil {
		return 0, 0, err
	}
	return FindWordByByteOffset(s.annotation, offset)
}

// targetSpan converts word w of sentence s into a code-unit span.
func targetSpan(s side, sentence, w int) (WordAlignment, error) {
	if w < 0 || w >= s.annotation.NumWords(sentence) {
		return WordAlignment{}, &InconsistencyError{Message: fmt.Sprintf("alignment to word %d of sentence %d with %d words", w, sentence, s.annotation.NumWords(sentence))}
	}

	r := s.annotation.Word(sentence, w)
	begin, err := OffsetToPosition(s.text, r.Begin)
	if err != nil {
		return WordAlignment{}, err
	}
	end, err := OffsetToPosition(s.text, r.End)
	if err != nil {
		return WordAlignment{}, err
	}
	return WordAlignment{Begin: begin, End: end}, nil
}

// sortAlignments orders by Begin ascending, then Prob descending. Entries
// equal on both keep their engine order.
func sortAlignments(alignments []WordAlignment) {
	slices.SortStableFunc(alignments, func(a, b WordAlignment) int {
		if c := cmp.Compare(a.Begin, b.Begin); c != 0 {
			return c
		}
		return cmp.Compare(b.Prob, a.Prob)
	})
}

// Deduplicate drops repeated spans from a sorted alignment list, keeping the
// first, most probable, entry for each [Begin, End). Several queried words
// aligned to the same target word would otherwise be highlighted twice.
func Deduplicate(alignments []WordAlignment) []WordAlignment {
	if len(alignments) == 0 {
		return alignments
	}

	type key struct{ begin, end int }
	seen := make(map[key]bool, len(alignments))
	out := make([]WordAlignment, 0, len(alignments))
	for _, a := range alignments {
		k := key{a.Begin, a.End}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}
