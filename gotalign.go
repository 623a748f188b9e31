// Package gotalign maps selections between a text and its machine translation.
//
// A translation engine returns the source text, the translated text, a
// sentence/word segmentation of both (as UTF-8 byte ranges) and soft word
// alignments per sentence. Gotalign turns a selection made in a text widget
// (UTF-16 code-unit positions) in one of the two texts into the aligned spans
// of the other text, ordered for highlighting.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/gotalign"
//	    "github.com/ZaguanLabs/gotalign/provider"
//	)
//
//	func main() {
//	    // Create engine
//	    e := provider.NewOpenAIEngine(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    resp, err := e.Translate(context.Background(), gotalign.EngineRequest{
//	        Text:       "Hello world",
//	        TargetLang: "fr_FR",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Highlight what "Hello" became
//	    t := gotalign.NewTranslation(resp, 0)
//	    spans, err := t.Alignments(gotalign.SourceToTranslation, 0, 5)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, s := range spans {
//	        fmt.Println(s.Begin, s.End, s.Prob)
//	    }
//	}
package gotalign
