package gotalign

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ByteRange is a half-open byte range [Begin, End) into a UTF-8 text.
type ByteRange struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the range.
func (r ByteRange) Len() int {
	return r.End - r.Begin
}

// Contains reports whether offset lies within [Begin, End).
func (r ByteRange) Contains(offset int) bool {
	return offset >= r.Begin && offset < r.End
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Begin, r.End)
}

// Sentence is one sentence of an annotation and the words partitioning it.
type Sentence struct {
	Range ByteRange   `json:"range"`
	Words []ByteRange `json:"words"`
}

// Annotation is the segmentation of a text into sentences and words.
// Sentences are contiguous and ordered; the words of a sentence partition it.
type Annotation struct {
	Sentences []Sentence `json:"sentences"`
}

// NumSentences returns the number of sentences.
func (a *Annotation) NumSentences() int {
	if a == nil {
		return 0
	}
	return len(a.Sentences)
}

// NumWords returns the number of words in sentence s.
func (a *Annotation) NumWords(s int) int {
	return len(a.Sentences[s].Words)
}

// Sentence returns the byte range of sentence s.
func (a *Annotation) Sentence(s int) ByteRange {
	return a.Sentences[s].Range
}

// Word returns the byte range of word w in sentence s.
func (a *Annotation) Word(s, w int) ByteRange {
	return a.Sentences[s].Words[w]
}

// Validate checks that the annotation covers a text of textLen bytes
// consistently: ranges are well-formed and in bounds, sentences are ordered
// without overlap, and each sentence's words partition it.
func (a *Annotation) Validate(textLen int) error {
	prevEnd := 0
	for s, sentence := range a.Sentences {
		r := sentence.Range
		if r.Begin < prevEnd || r.End < r.Begin || r.End > textLen {
			return &InconsistencyError{Message: fmt.Sprintf("sentence %d range %s out of order or bounds (text length %d)", s, r, textLen)}
		}
		if len(sentence.Words) == 0 {
			return &InconsistencyError{Message: fmt.Sprintf("sentence %d has no words", s)}
		}

		cursor := r.Begin
		for w, word := range sentence.Words {
			if word.Begin != cursor || word.End < word.Begin {
				return &InconsistencyError{Message: fmt.Sprintf("word %d of sentence %d range %s does not continue at %d", w, s, word, cursor)}
			}
			cursor = word.End
		}
		if cursor != r.End {
			return &InconsistencyError{Message: fmt.Sprintf("words of sentence %d end at %d, sentence ends at %d", s, cursor, r.End)}
		}
		prevEnd = r.End
	}
	return nil
}

// FindWordByByteOffset locates the sentence and word holding offset.
//
// Sentences and words use the same boundary rule: the first segment whose
// End >= offset is chosen, so an offset sitting exactly on a boundary
// belongs to the segment ending there. Offsets past the last segment
// saturate to the last segment; offset 0 always resolves to (0, 0).
func FindWordByByteOffset(a *Annotation, offset int) (sentence, word int, err error) {
	n := a.NumSentences()
	if n == 0 {
		return 0, 0, &InconsistencyError{Message: "lookup in empty annotation"}
	}

	sentence = sort.Search(n-1, func(i int) bool {
		return a.Sentences[i].Range.End >= offset
	})

	words := a.Sentences[sentence].Words
	if len(words) == 0 {
		return 0, 0, &InconsistencyError{Message: fmt.Sprintf("sentence %d has no words", sentence)}
	}

	word = sort.Search(len(words)-1, func(i int) bool {
		return words[i].End >= offset
	})

	return sentence, word, nil
}

// BuildAnnotation segments text from the word strings of each sentence, as
// returned by engines that report tokens rather than byte ranges. Words are
// located in order; whitespace before a word is attached to it so that the
// words partition their sentence. The last word of the last sentence extends
// to the end of text.
func BuildAnnotation(text string, sentences [][]string) (*Annotation, error) {
	a := &Annotation{Sentences: make([]Sentence, 0, len(sentences))}
	cursor := 0

	for s, words := range sentences {
		var sentence Sentence
		sentence.Range.Begin = cursor

		for _, w := range words {
			token := strings.TrimFunc(w, unicode.IsSpace)
			if token == "" {
				continue
			}
			idx := strings.Index(text[cursor:], token)
			if idx < 0 {
				return nil, &InconsistencyError{Message: fmt.Sprintf("word %q of sentence %d not found after offset %d", token, s, cursor)}
			}
			end := cursor + idx + len(token)
			sentence.Words = append(sentence.Words, ByteRange{Begin: cursor, End: end})
			cursor = end
		}

		if len(sentence.Words) == 0 {
			return nil, &InconsistencyError{Message: fmt.Sprintf("sentence %d has no words", s)}
		}
		sentence.Range.End = cursor
		a.Sentences = append(a.Sentences, sentence)
	}

	if last := len(a.Sentences) - 1; last >= 0 && cursor < len(text) {
		sentence := &a.Sentences[last]
		sentence.Words[len(sentence.Words)-1].End = len(text)
		sentence.Range.End = len(text)
	}

	return a, nil
}
