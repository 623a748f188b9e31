package gotalign

import (
	"context"
	"testing"
)

// engineFunc adapts a function to Engine.
type engineFunc func(ctx context.Context, req EngineRequest) (*Response, error)

func (f engineFunc) Translate(ctx context.Context, req EngineRequest) (*Response, error) {
	return f(ctx, req)
}

// helloResponse is "Hello world" -> "Bonjour le monde".
//
//	source: "Hello" [0,5)  " world" [5,11)
//	target: "Bonjour" [0,7)  " le" [7,10)  " monde" [10,16)
func helloResponse() *Response {
	return &Response{
		Source: TextSide{
			Text: "Hello world",
			Annotation: Annotation{Sentences: []Sentence{{
				Range: ByteRange{0, 11},
				Words: []ByteRange{{0, 5}, {5, 11}},
			}}},
		},
		Target: TextSide{
			Text: "Bonjour le monde",
			Annotation: Annotation{Sentences: []Sentence{{
				Range: ByteRange{0, 16},
				Words: []ByteRange{{0, 7}, {7, 10}, {10, 16}},
			}}},
		},
		Alignments: [][]Point{{
			{Src: 0, Tgt: 0, Prob: 0.9},
			{Src: 1, Tgt: 2, Prob: 0.8},
			{Src: 1, Tgt: 1, Prob: 0.4},
		}},
	}
}

// buildResponse assembles a validated response from word lists.
func buildResponse(t *testing.T, source, target string, sourceWords, targetWords [][]string, points [][]Point) *Response {
	t.Helper()

	src, err := BuildAnnotation(source, sourceWords)
	if err != nil {
		t.Fatalf("BuildAnnotation(source) failed: %v", err)
	}
	tgt, err := BuildAnnotation(target, targetWords)
	if err != nil {
		t.Fatalf("BuildAnnotation(target) failed: %v", err)
	}

	resp := &Response{
		Source:     TextSide{Text: source, Annotation: *src},
		Target:     TextSide{Text: target, Annotation: *tgt},
		Alignments: points,
	}
	if err := resp.Validate(); err != nil {
		t.Fatalf("fixture does not validate: %v", err)
	}
	return resp
}

// twoSentenceResponse is "I like tea. You like coffee." -> "J'aime le thé. Tu aimes le café."
//
//	source positions: "I" [0,1) " like" [1,6) " tea." [6,11) | " You" [11,15) " like" [15,20) " coffee." [20,28)
//	target positions: "J'aime" [0,6) " le" [6,9) " thé." [9,14) | " Tu" [14,17) " aimes" [17,23) " le" [23,26) " café." [26,32)
func twoSentenceResponse(t *testing.T) *Response {
	return buildResponse(t,
		"I like tea. You like coffee.",
		"J'aime le thé. Tu aimes le café.",
		[][]string{{"I", "like", "tea."}, {"You", "like", "coffee."}},
		[][]string{{"J'aime", "le", "thé."}, {"Tu", "aimes", "le", "café."}},
		[][]Point{
			{{Src: 0, Tgt: 0, Prob: 0.9}, {Src: 1, Tgt: 0, Prob: 0.8}, {Src: 2, Tgt: 2, Prob: 0.95}},
			{{Src: 0, Tgt: 0, Prob: 0.9}, {Src: 1, Tgt: 1, Prob: 0.85}, {Src: 2, Tgt: 3, Prob: 0.9}},
		},
	)
}

// emojiResponse is "Café 😀 ok" -> "Kaffee 😀 gut".
//
//	source positions: "Café" [0,4) " 😀" [4,7) " ok" [7,10)
//	target positions: "Kaffee" [0,6) " 😀" [6,9) " gut" [9,13)
func emojiResponse(t *testing.T) *Response {
	return buildResponse(t,
		"Café 😀 ok",
		"Kaffee 😀 gut",
		[][]string{{"Café", "😀", "ok"}},
		[][]string{{"Kaffee", "😀", "gut"}},
		[][]Point{{{Src: 0, Tgt: 0, Prob: 0.9}, {Src: 1, Tgt: 1, Prob: 1}, {Src: 2, Tgt: 2, Prob: 0.7}}},
	)
}
