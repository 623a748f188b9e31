package gotalign

import "fmt"

// Direction selects which text of a translation is queried and which one
// receives the highlighted spans.
type Direction int

const (
	// SourceToTranslation queries the source text and maps into the translation.
	SourceToTranslation Direction = iota
	// TranslationToSource queries the translation and maps into the source text.
	TranslationToSource
)

func (d Direction) String() string {
	switch d {
	case SourceToTranslation:
		return "source_to_translation"
	case TranslationToSource:
		return "translation_to_source"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == SourceToTranslation {
		return TranslationToSource
	}
	return SourceToTranslation
}

// ParseDirection accepts the String form or the short forms "s2t" and "t2s".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "source_to_translation", "s2t":
		return SourceToTranslation, nil
	case "translation_to_source", "t2s":
		return TranslationToSource, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// side is one text and its segmentation.
type side struct {
	text       string
	annotation *Annotation
}

// view orients a response for one direction: the queried side, the side the
// spans land in, and which index of a Point belongs to each.
type view struct {
	queried     side
	target      side
	queriedWord func(Point) int
	targetWord  func(Point) int
}

func srcWord(p Point) int { return p.Src }
func tgtWord(p Point) int { return p.Tgt }

// views holds both orientations; the second is the first with roles swapped.
var views = map[Direction]func(EngineResponse) view{
	SourceToTranslation: func(r EngineResponse) view {
		return view{
			queried:     side{r.SourceText(), r.SourceAnnotation()},
			target:      side{r.TargetText(), r.TargetAnnotation()},
			queriedWord: srcWord,
			targetWord:  tgtWord,
		}
	},
	TranslationToSource: func(r EngineResponse) view {
		return view{
			queried:     side{r.TargetText(), r.TargetAnnotation()},
			target:      side{r.SourceText(), r.SourceAnnotation()},
			queriedWord: tgtWord,
			targetWord:  srcWord,
		}
	},
}

// viewFor returns the view of r for direction d.
func viewFor(r EngineResponse, d Direction) (view, error) {
	build, ok := views[d]
	if !ok {
		return view{}, fmt.Errorf("unknown direction %v", d)
	}
	return build(r), nil
}
