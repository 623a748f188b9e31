package gotalign

import "fmt"

// Point is a soft alignment between word Src of a source sentence and word
// Tgt of the corresponding target sentence.
type Point struct {
	Src  int     `json:"src"`
	Tgt  int     `json:"tgt"`
	Prob float64 `json:"prob"`
}

// EngineResponse is what the mapping layer needs from a completed
// translation. Source and target sentences correspond one to one, and
// Alignment(s) lists the points of sentence s.
type EngineResponse interface {
	SourceText() string
	TargetText() string
	SourceAnnotation() *Annotation
	TargetAnnotation() *Annotation
	Alignment(sentence int) []Point
	NumAlignments() int
}

// TextSide is one of the two texts of a response with its segmentation.
type TextSide struct {
	Text       string     `json:"text"`
	Annotation Annotation `json:"annotation"`
}

// Response is the concrete, serialisable engine response.
type Response struct {
	Source     TextSide  `json:"source"`
	Target     TextSide  `json:"target"`
	Alignments [][]Point `json:"alignments"`
}

// SourceText returns the text that was translated.
func (r *Response) SourceText() string { return r.Source.Text }

// TargetText returns the translation.
func (r *Response) TargetText() string { return r.Target.Text }

// SourceAnnotation returns the segmentation of the source text.
func (r *Response) SourceAnnotation() *Annotation { return &r.Source.Annotation }

// TargetAnnotation returns the segmentation of the translation.
func (r *Response) TargetAnnotation() *Annotation { return &r.Target.Annotation }

// Alignment returns the alignment points of sentence s.
func (r *Response) Alignment(s int) []Point { return r.Alignments[s] }

// NumAlignments returns the number of sentences with alignment lists.
func (r *Response) NumAlignments() int { return len(r.Alignments) }

// Validate checks both annotations against their texts, that both sides and
// the alignment lists agree on the sentence count, and that every point
// indexes existing words.
func (r *Response) Validate() error {
	if err := r.Source.Annotation.Validate(len(r.Source.Text)); err != nil {
		return fmt.Errorf("source annotation: %w", err)
	}
	if err := r.Target.Annotation.Validate(len(r.Target.Text)); err != nil {
		return fmt.Errorf("target annotation: %w", err)
	}

	src, tgt := r.Source.Annotation.NumSentences(), r.Target.Annotation.NumSentences()
	if src != tgt || src != len(r.Alignments) {
		return &SentenceCountMismatchError{Source: src, Target: tgt, Alignments: len(r.Alignments)}
	}

	for s, points := range r.Alignments {
		srcWords, tgtWords := r.Source.Annotation.NumWords(s), r.Target.Annotation.NumWords(s)
		for _, p := range points {
			if p.Src < 0 || p.Src >= srcWords || p.Tgt < 0 || p.Tgt >= tgtWords {
				return &InconsistencyError{Message: fmt.Sprintf("sentence %d: point (%d, %d) outside %d source and %d target words", s, p.Src, p.Tgt, srcWords, tgtWords)}
			}
			if p.Prob < 0 || p.Prob > 1 {
				return &InconsistencyError{Message: fmt.Sprintf("sentence %d: probability %g outside [0, 1]", s, p.Prob)}
			}
		}
	}
	return nil
}

// Verify Response implements EngineResponse
var _ EngineResponse = (*Response)(nil)
