package processor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/gotalign"
	"golang.org/x/net/html"
)

// blockTags start a new line of output.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true,
	"ul": true,
}

// HTMLProcessor extracts the readable text of HTML content.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates an HTML processor that skips gotalign.IgnoredTags.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		ignoredTags: gotalign.IgnoredTags,
	}
}

// NewHTMLProcessorWithIgnoredTags creates an HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// Block is one line of extracted text.
type Block struct {
	Text    string // Whitespace-collapsed text
	Context string // Where the block sits, e.g. `in <p class="intro"> | inside: article`
}

// Extracted is the result of Extract.
type Extracted struct {
	Text   string // Blocks joined by "\n"
	Blocks []Block
}

// Extract parses content and returns its text, one block per line. Text of
// ignored tags and of elements marked data-no-translate is skipped; inline
// elements are merged into the surrounding block.
func (p *HTMLProcessor) Extract(content string) (*Extracted, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &gotalign.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	var (
		blocks  []Block
		current strings.Builder
		holder  *html.Node
	)

	flush := func() {
		text := strings.Join(strings.Fields(current.String()), " ")
		current.Reset()
		if text == "" {
			return
		}
		b := Block{Text: text}
		if holder != nil {
			b.Context = describe(holder)
		}
		blocks = append(blocks, b)
	}

	var walk func(n *html.Node, block *html.Node)
	walk = func(n *html.Node, block *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if p.ignoredTags[strings.ToLower(n.Data)] || hasAttr(n, "data-no-translate") {
				return
			}
			if blockTags[n.Data] {
				flush()
				block = n
			}
		case html.TextNode:
			if current.Len() == 0 {
				holder = block
			}
			current.WriteString(n.Data)
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, block)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] {
			flush()
		}
	}

	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n, nil)
		}
	})
	flush()

	lines := make([]string, len(blocks))
	for i, b := range blocks {
		lines[i] = b.Text
	}

	return &Extracted{Text: strings.Join(lines, "\n"), Blocks: blocks}, nil
}

// Structure lists the distinct block contexts in document order, at most
// limit of them when limit is positive. It is empty when no text sits
// inside a block element.
func (e *Extracted) Structure(limit int) string {
	seen := make(map[string]bool)
	var parts []string
	for _, b := range e.Blocks {
		if b.Context == "" || seen[b.Context] {
			continue
		}
		seen[b.Context] = true
		if limit > 0 && len(parts) == limit {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, b.Context)
	}
	if len(parts) == 0 {
		return ""
	}
	return "HTML blocks: " + strings.Join(parts, "; ")
}

// Text implements TextExtractor.
func (p *HTMLProcessor) Text(content string) (string, error) {
	extracted, err := p.Extract(content)
	if err != nil {
		return "", err
	}
	return extracted.Text, nil
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return "html"
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// describe names a block element and up to three of its ancestors.
func describe(n *html.Node) string {
	var parts []string

	if class := attr(n, "class"); class != "" {
		parts = append(parts, fmt.Sprintf("in <%s class=%q>", n.Data, class))
	} else if id := attr(n, "id"); id != "" {
		parts = append(parts, fmt.Sprintf("in <%s id=%q>", n.Data, id))
	} else {
		parts = append(parts, fmt.Sprintf("in <%s>", n.Data))
	}

	var ancestors []string
	ancestor := n.Parent
	for i := 0; i < 3 && ancestor != nil; i++ {
		if ancestor.Type == html.ElementNode && ancestor.Data != "html" && ancestor.Data != "body" {
			ancestors = append(ancestors, ancestor.Data)
		}
		ancestor = ancestor.Parent
	}
	if len(ancestors) > 0 {
		// Outer to inner
		for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
			ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
		}
		parts = append(parts, "inside: "+strings.Join(ancestors, " > "))
	}

	return strings.Join(parts, " | ")
}

// Verify HTMLProcessor implements TextExtractor
var _ TextExtractor = (*HTMLProcessor)(nil)
