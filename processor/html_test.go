package processor

import (
	"strings"
	"testing"
)

func TestHTMLProcessor_Extract_Basic(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<div><h1>Hello World</h1><p>Welcome to our site.</p></div>`
	extracted, err := p.Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(extracted.Blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(extracted.Blocks))
	}
	if extracted.Blocks[0].Text != "Hello World" || extracted.Blocks[0].Context != "in <h1> | inside: div" {
		t.Errorf("Unexpected first block %+v", extracted.Blocks[0])
	}
	if extracted.Text != "Hello World\nWelcome to our site." {
		t.Errorf("Unexpected text %q", extracted.Text)
	}
}

func TestHTMLProcessor_Extract_IgnoredTags(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<div>
		<p>Translate me</p>
		<script>doNotTranslate();</script>
		<style>.class { color: red; }</style>
		<code>const x = 1;</code>
		<pre>preformatted</pre>
		<textarea>form input</textarea>
	</div>`

	text, err := p.Text(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if text != "Translate me" {
		t.Errorf("Expected 'Translate me', got %q", text)
	}
}

func TestHTMLProcessor_Extract_DataNoTranslate(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<div>
		<p data-no-translate>Keep this</p>
		<p>Translate this</p>
	</div>`

	text, err := p.Text(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if text != "Translate this" {
		t.Errorf("Expected 'Translate this', got %q", text)
	}
}

func TestHTMLProcessor_Extract_InlineElements(t *testing.T) {
	p := NewHTMLProcessor()

	text, err := p.Text(`<p>Hello <b>big</b>
		<a href="#">world</a>.</p>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if text != "Hello big world." {
		t.Errorf("Expected inline elements merged, got %q", text)
	}
}

func TestHTMLProcessor_Extract_NestedBlocks(t *testing.T) {
	p := NewHTMLProcessor()

	extracted, err := p.Extract(`<div>Intro <p>Inner</p> Outro<br>Next line</div>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []string{"Intro", "Inner", "Outro", "Next line"}
	if len(extracted.Blocks) != len(want) {
		t.Fatalf("Expected %d blocks, got %+v", len(want), extracted.Blocks)
	}
	for i, w := range want {
		if extracted.Blocks[i].Text != w {
			t.Errorf("Block %d = %q, want %q", i, extracted.Blocks[i].Text, w)
		}
	}
	if extracted.Blocks[0].Context != "in <div>" || extracted.Blocks[1].Context != "in <p> | inside: div" {
		t.Errorf("Unexpected contexts: %q, %q", extracted.Blocks[0].Context, extracted.Blocks[1].Context)
	}
}

func TestHTMLProcessor_Extract_KeepsRepeatedText(t *testing.T) {
	p := NewHTMLProcessor()

	text, err := p.Text(`<p>Hello</p><p>Hello</p>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if text != "Hello\nHello" {
		t.Errorf("Repeated blocks must all be kept, got %q", text)
	}
}

func TestHTMLProcessor_Extract_Context(t *testing.T) {
	p := NewHTMLProcessor()

	extracted, err := p.Extract(`<ul class="menu"><li id="home">Home</li></ul>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(extracted.Blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(extracted.Blocks))
	}

	ctx := extracted.Blocks[0].Context
	if !strings.Contains(ctx, `<li id="home">`) {
		t.Errorf("Context should mention the li and its id, got: %s", ctx)
	}
	if !strings.Contains(ctx, "inside: ul") {
		t.Errorf("Context should mention the enclosing list, got: %s", ctx)
	}
}

func TestExtracted_Structure(t *testing.T) {
	p := NewHTMLProcessor()

	extracted, err := p.Extract(`<article><h1>Title</h1><p>One.</p><p>Two.</p><p class="note">Three.</p></article>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := `HTML blocks: in <h1> | inside: article; in <p> | inside: article; in <p class="note"> | inside: article`
	if got := extracted.Structure(0); got != want {
		t.Errorf("Structure(0) = %q, want %q", got, want)
	}

	limited := extracted.Structure(1)
	if limited != "HTML blocks: in <h1> | inside: article; ..." {
		t.Errorf("Structure(1) = %q", limited)
	}

	if s := (&Extracted{Blocks: []Block{{Text: "loose"}}}).Structure(5); s != "" {
		t.Errorf("Expected no structure for text outside blocks, got %q", s)
	}
}

func TestHTMLProcessor_CustomIgnoredTags(t *testing.T) {
	p := NewHTMLProcessorWithIgnoredTags([]string{"ASIDE"})

	text, err := p.Text(`<p>Body</p><aside>Note</aside><code>x := 1</code>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if text != "Body\nx := 1" {
		t.Errorf("Expected only aside to be skipped, got %q", text)
	}
}

func TestHTMLProcessor_EmptyContent(t *testing.T) {
	p := NewHTMLProcessor()

	for _, html := range []string{``, `<div></div>`, `<div>   </div>`} {
		extracted, err := p.Extract(html)
		if err != nil {
			t.Fatalf("Extract(%q) failed: %v", html, err)
		}
		if extracted.Text != "" || len(extracted.Blocks) != 0 {
			t.Errorf("Expected no text for %q, got %+v", html, extracted)
		}
	}
}

func TestHTMLProcessor_Unclosed(t *testing.T) {
	p := NewHTMLProcessor()

	text, err := p.Text("<div>unclosed")
	if err != nil {
		t.Fatalf("Lenient parser should accept unclosed tags: %v", err)
	}
	if text != "unclosed" {
		t.Errorf("Expected 'unclosed', got %q", text)
	}
}

func TestProcessors_ContentType(t *testing.T) {
	if NewHTMLProcessor().ContentType() != "html" {
		t.Error("Expected 'html'")
	}
	if (PlainProcessor{}).ContentType() != "text" {
		t.Error("Expected 'text'")
	}
}

func TestPlainProcessor(t *testing.T) {
	text, err := PlainProcessor{}.Text("one\r\ntwo\n")
	if err != nil {
		t.Fatal(err)
	}
	if text != "one\ntwo\n" {
		t.Errorf("Expected normalised line endings, got %q", text)
	}
}

func TestForContentType(t *testing.T) {
	if p, ok := ForContentType("HTML"); !ok || p.ContentType() != "html" {
		t.Error("Expected HTML processor")
	}
	if p, ok := ForContentType(""); !ok || p.ContentType() != "text" {
		t.Error("Expected plain processor by default")
	}
	if _, ok := ForContentType("pdf"); ok {
		t.Error("Expected no processor for pdf")
	}
}
