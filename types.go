package gotalign

import "context"

// TranslationStyle controls the tone and formality of translations.
type TranslationStyle string

const (
	// StyleFormal uses formal, professional language suitable for official documents.
	StyleFormal TranslationStyle = "formal"
	// StyleNeutral uses a neutral, professional tone suitable for general content.
	StyleNeutral TranslationStyle = "neutral"
	// StyleCasual uses casual, conversational language suitable for chat.
	StyleCasual TranslationStyle = "casual"
	// StyleTechnical uses precise, technical language for documentation.
	StyleTechnical TranslationStyle = "technical"
)

// Engine produces an aligned translation of a text.
type Engine interface {
	Translate(ctx context.Context, req EngineRequest) (*Response, error)
}

// EngineRequest contains the parameters for a translation request.
type EngineRequest struct {
	Text       string           // Text to translate
	SourceLang string           // Source language code (default: "en")
	TargetLang string           // Target language code (e.g., "de_DE")
	Context    string           // Optional hint about the content
	Style      TranslationStyle // Register (default: neutral)
}

// IgnoredTags contains HTML tags whose content is not sent for translation.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
	"template": true,
}
