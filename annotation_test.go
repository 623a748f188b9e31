package gotalign

import (
	"errors"
	"testing"
)

func TestFindWordByByteOffset(t *testing.T) {
	a := &twoSentenceResponse(t).Source.Annotation

	tests := []struct {
		name     string
		offset   int
		sentence int
		word     int
	}{
		{"start of text", 0, 0, 0},
		{"inside a word", 3, 0, 1},
		{"word boundary belongs to ending word", 6, 0, 1},
		{"first byte after boundary", 7, 0, 2},
		{"sentence boundary belongs to ending sentence", 11, 0, 2},
		{"first byte of second sentence", 12, 1, 0},
		{"end of text", 28, 1, 2},
		{"past end saturates", 100, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, w, err := FindWordByByteOffset(a, tt.offset)
			if err != nil {
				t.Fatalf("FindWordByByteOffset(%d) failed: %v", tt.offset, err)
			}
			if s != tt.sentence || w != tt.word {
				t.Errorf("FindWordByByteOffset(%d) = (%d, %d), want (%d, %d)", tt.offset, s, w, tt.sentence, tt.word)
			}
		})
	}
}

func TestFindWordByByteOffset_SingleWord(t *testing.T) {
	a := &Annotation{Sentences: []Sentence{{Range: ByteRange{0, 3}, Words: []ByteRange{{0, 3}}}}}

	for _, offset := range []int{0, 1, 3} {
		s, w, err := FindWordByByteOffset(a, offset)
		if err != nil || s != 0 || w != 0 {
			t.Errorf("FindWordByByteOffset(%d) = (%d, %d, %v), want (0, 0, nil)", offset, s, w, err)
		}
	}
}

func TestFindWordByByteOffset_Empty(t *testing.T) {
	_, _, err := FindWordByByteOffset(&Annotation{}, 0)
	if !errors.Is(err, ErrInternal) {
		t.Errorf("Expected ErrInternal for empty annotation, got %v", err)
	}

	_, _, err = FindWordByByteOffset(nil, 0)
	if !errors.Is(err, ErrInternal) {
		t.Errorf("Expected ErrInternal for nil annotation, got %v", err)
	}

	noWords := &Annotation{Sentences: []Sentence{{Range: ByteRange{0, 0}}}}
	_, _, err = FindWordByByteOffset(noWords, 0)
	if !errors.Is(err, ErrInternal) {
		t.Errorf("Expected ErrInternal for sentence without words, got %v", err)
	}
}

func TestAnnotation_Validate(t *testing.T) {
	valid := helloResponse().Source.Annotation
	if err := valid.Validate(11); err != nil {
		t.Errorf("Expected valid annotation, got %v", err)
	}

	tests := []struct {
		name       string
		annotation Annotation
		textLen    int
	}{
		{
			name:       "past end of text",
			annotation: valid,
			textLen:    10,
		},
		{
			name: "gap between words",
			annotation: Annotation{Sentences: []Sentence{{
				Range: ByteRange{0, 11},
				Words: []ByteRange{{0, 5}, {6, 11}},
			}}},
			textLen: 11,
		},
		{
			name: "words do not reach sentence end",
			annotation: Annotation{Sentences: []Sentence{{
				Range: ByteRange{0, 11},
				Words: []ByteRange{{0, 5}},
			}}},
			textLen: 11,
		},
		{
			name: "overlapping sentences",
			annotation: Annotation{Sentences: []Sentence{
				{Range: ByteRange{0, 6}, Words: []ByteRange{{0, 6}}},
				{Range: ByteRange{5, 11}, Words: []ByteRange{{5, 11}}},
			}},
			textLen: 11,
		},
		{
			name:       "sentence without words",
			annotation: Annotation{Sentences: []Sentence{{Range: ByteRange{0, 11}}}},
			textLen:    11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.annotation.Validate(tt.textLen)
			if !errors.Is(err, ErrInternal) {
				t.Errorf("Expected ErrInternal, got %v", err)
			}
		})
	}
}

func TestBuildAnnotation(t *testing.T) {
	a, err := BuildAnnotation("  Hello, world!  Bye.", [][]string{{"Hello", ",", "world", "!"}, {"Bye", "."}})
	if err != nil {
		t.Fatalf("BuildAnnotation failed: %v", err)
	}

	expected := []Sentence{
		{Range: ByteRange{0, 15}, Words: []ByteRange{{0, 7}, {7, 8}, {8, 14}, {14, 15}}},
		{Range: ByteRange{15, 21}, Words: []ByteRange{{15, 20}, {20, 21}}},
	}

	if a.NumSentences() != len(expected) {
		t.Fatalf("Expected %d sentences, got %d", len(expected), a.NumSentences())
	}
	for s := range expected {
		if a.Sentence(s) != expected[s].Range {
			t.Errorf("sentence %d: got %v, want %v", s, a.Sentence(s), expected[s].Range)
		}
		if a.NumWords(s) != len(expected[s].Words) {
			t.Fatalf("sentence %d: expected %d words, got %d", s, len(expected[s].Words), a.NumWords(s))
		}
		for w := range expected[s].Words {
			if a.Word(s, w) != expected[s].Words[w] {
				t.Errorf("word (%d, %d): got %v, want %v", s, w, a.Word(s, w), expected[s].Words[w])
			}
		}
	}

	if err := a.Validate(21); err != nil {
		t.Errorf("Built annotation should validate: %v", err)
	}
}

func TestBuildAnnotation_TrailingText(t *testing.T) {
	a, err := BuildAnnotation("Hi there  \n", [][]string{{"Hi", "there"}})
	if err != nil {
		t.Fatalf("BuildAnnotation failed: %v", err)
	}
	if got := a.Word(0, 1); got != (ByteRange{2, 11}) {
		t.Errorf("Last word should extend to end of text, got %v", got)
	}
}

func TestBuildAnnotation_Errors(t *testing.T) {
	if _, err := BuildAnnotation("Hello world", [][]string{{"world", "Hello"}}); !errors.Is(err, ErrInternal) {
		t.Errorf("Expected ErrInternal for out-of-order words, got %v", err)
	}
	if _, err := BuildAnnotation("Hello", [][]string{{" "}}); !errors.Is(err, ErrInternal) {
		t.Errorf("Expected ErrInternal for sentence without words, got %v", err)
	}
}

func TestByteRange(t *testing.T) {
	r := ByteRange{Begin: 2, End: 5}

	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if !r.Contains(2) || !r.Contains(4) || r.Contains(5) {
		t.Error("Contains should treat the range as half-open")
	}
	if r.String() != "[2,5)" {
		t.Errorf("String() = %q", r.String())
	}
}
