// Package processor turns input documents into the plain text that is sent
// for translation and aligned.
package processor

import "strings"

// TextExtractor produces the plain text of a document.
type TextExtractor interface {
	Text(content string) (string, error)
	ContentType() string
}

// PlainProcessor passes text through with line endings normalised to "\n".
type PlainProcessor struct{}

// Text implements TextExtractor.
func (PlainProcessor) Text(content string) (string, error) {
	return strings.ReplaceAll(content, "\r\n", "\n"), nil
}

// ContentType returns "text".
func (PlainProcessor) ContentType() string {
	return "text"
}

// ForContentType returns the extractor for "html" or "text".
func ForContentType(contentType string) (TextExtractor, bool) {
	switch strings.ToLower(contentType) {
	case "html", "htm":
		return NewHTMLProcessor(), true
	case "text", "txt", "":
		return PlainProcessor{}, true
	}
	return nil, false
}

// Verify PlainProcessor implements TextExtractor
var _ TextExtractor = PlainProcessor{}
