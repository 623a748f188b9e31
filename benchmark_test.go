package gotalign_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ZaguanLabs/gotalign"
	"github.com/ZaguanLabs/gotalign/cache"
	"github.com/ZaguanLabs/gotalign/processor"
	"github.com/ZaguanLabs/gotalign/provider"
)

// Benchmarks for performance validation

func benchResponse(b *testing.B, sentences int) *gotalign.Response {
	b.Helper()
	text := strings.Repeat("Le café est très bon 😀 aujourd'hui. ", sentences)
	resp, err := provider.BracketResponse(strings.TrimSpace(text))
	if err != nil {
		b.Fatal(err)
	}
	return resp
}

func BenchmarkHashText(b *testing.B) {
	text := "Hello World, this is a sample text for hashing"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gotalign.HashText(text)
	}
}

func BenchmarkPositionToOffset(b *testing.B) {
	text := strings.Repeat("naïve 😀 ", 200)
	pos := gotalign.CodeUnitLen(text) / 2
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gotalign.PositionToOffset(text, pos)
	}
}

func BenchmarkAlignments_Word(b *testing.B) {
	resp := benchResponse(b, 50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gotalign.Alignments(resp, gotalign.SourceToTranslation, 1000, 1002)
	}
}

func BenchmarkAlignments_WholeText(b *testing.B) {
	resp := benchResponse(b, 50)
	end := gotalign.CodeUnitLen(resp.SourceText())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gotalign.Alignments(resp, gotalign.SourceToTranslation, 0, end)
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	c.Set("test-key", "test-value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("test-key")
	}
}

func BenchmarkCachedEngine_Hit(b *testing.B) {
	engine := gotalign.NewCachedEngine(provider.NewMockEngine(), cache.NewInMemoryCache(0), "mock")
	req := gotalign.EngineRequest{Text: "The quick brown fox. It jumps.", TargetLang: "de_DE"}
	ctx := context.Background()
	engine.Translate(ctx, req)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Translate(ctx, req)
	}
}

func BenchmarkHTMLProcessor_Extract(b *testing.B) {
	proc := processor.NewHTMLProcessor()
	html := `<!DOCTYPE html>
<html>
<body>
    <nav><a href="/">Home</a> <a href="/products">Products</a></nav>
    <main>
        <h1>Welcome to Our Store</h1>
        <p>Discover our <b>amazing</b> products at great prices.</p>
        <ul><li>Free shipping</li><li>30-day returns</li></ul>
        <script>track();</script>
    </main>
    <footer><p>© 2024 Our Company</p></footer>
</body>
</html>`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proc.Extract(html)
	}
}

func BenchmarkGetLanguageName(b *testing.B) {
	for i := 0; i < b.N; i++ {
		gotalign.GetLanguageName("ja_JP")
	}
}
