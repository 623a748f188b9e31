// Command gotalign translates text and shows which words of the translation
// correspond to a selection of the source, or the other way round.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ZaguanLabs/gotalign"
	"github.com/ZaguanLabs/gotalign/cache"
	"github.com/ZaguanLabs/gotalign/processor"
	"github.com/ZaguanLabs/gotalign/provider"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = gotalign.Version
	commit    = gotalign.GitCommit
	buildDate = gotalign.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// selection is a parsed --select value.
type selection struct {
	first, last int
}

func parseSelection(s string) (*selection, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("--select must be FIRST:LAST, got %q", s)
	}
	first, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return nil, fmt.Errorf("--select: invalid first position: %w", err)
	}
	last, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return nil, fmt.Errorf("--select: invalid last position: %w", err)
	}
	return &selection{first: first, last: last}, nil
}

// structureLimit bounds the HTML block contexts sent as a translation hint.
const structureLimit = 8

// document is one input after text extraction.
type document struct {
	name      string
	text      string
	structure string // HTML block contexts, empty for plain text
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("gotalign", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	targetLang := fs.String("lang", "", "Target language code (e.g., de_DE, ja_JP)")
	sourceLang := fs.String("source", "en", "Source language code")
	selectStr := fs.String("select", "", "Selection FIRST:LAST in UTF-16 positions to align")
	directionStr := fs.String("direction", "s2t", "Alignment direction: s2t (source to translation) or t2s")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")
	htmlInput := fs.Bool("html", false, "Treat input as HTML (default for .html/.htm files)")
	useMock := fs.Bool("mock", false, "Use the offline mock engine instead of OpenAI")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model to use")
	baseURL := fs.String("base-url", "", "OpenAI-compatible API base URL")
	contextStr := fs.String("context", "", "Translation context (e.g., 'Medical leaflet')")
	style := fs.String("style", "", "Translation style: formal, neutral, casual or technical")
	redisURL := fs.String("redis", "", "Redis URL for the response cache (default: in-memory)")
	cacheTTL := fs.Int("cache-ttl", 3600, "Cache TTL in seconds (0 to disable the in-memory cache)")
	cacheImport := fs.String("cache-import", "", "Load cached responses from a snapshot file")
	cacheExport := fs.String("cache-export", "", "Write cached responses to a snapshot file")
	rpm := fs.Int("rpm", 0, "Maximum engine requests per minute (0 = unlimited)")
	rpmWords := fs.Int("rpm-words", gotalign.DefaultWordsPerToken, "Words counted as one request by --rpm")
	concurrency := fs.Int("concurrency", gotalign.DefaultConcurrency, "Documents translated in parallel")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn or error")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", gotalign.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	logger, err := newLogger(stderr, *logFormat, *logLevel)
	if err != nil {
		return err
	}
	gotalign.SetLogger(logger)

	// Validate required flags
	if *targetLang == "" {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}

	direction, err := gotalign.ParseDirection(*directionStr)
	if err != nil {
		return fmt.Errorf("--direction: %w", err)
	}

	var sel *selection
	if *selectStr != "" {
		if sel, err = parseSelection(*selectStr); err != nil {
			return err
		}
	}

	docs, err := readInputs(fs.Args(), *htmlInput)
	if err != nil {
		return err
	}

	// Engine
	var engine gotalign.Engine
	modelName := *model
	if *useMock {
		engine = provider.NewMockEngine()
		modelName = "mock"
	} else {
		key := *apiKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return fmt.Errorf("OpenAI API key required (--api-key or OPENAI_API_KEY env)")
		}
		engine = provider.NewOpenAIEngine(provider.OpenAIConfig{
			APIKey:  key,
			Model:   *model,
			BaseURL: *baseURL,
		})
	}

	engine = gotalign.NewRetryableEngine(engine, gotalign.DefaultRetryConfig())
	if *rpm > 0 {
		engine = gotalign.NewRateLimitedEngine(engine, gotalign.RateLimitConfig{
			RequestsPerMinute: *rpm,
			WordsPerToken:     *rpmWords,
		})
	}

	// Cache
	store, closeStore, err := openCache(*redisURL, *cacheTTL, *cacheImport != "" || *cacheExport != "", logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if store != nil {
		if *cacheImport != "" {
			result, err := cache.ImportFromFile(*cacheImport, store, checkCachedResponse)
			if err != nil {
				return fmt.Errorf("importing cache: %w", err)
			}
			logger.Info("cache imported", "imported", result.Imported, "rejected", result.Rejected, "failed", result.Failed)
		}
		engine = gotalign.NewCachedEngine(engine, store, modelName)
	}

	// Translate
	reqs := buildRequests(docs, gotalign.EngineRequest{
		SourceLang: *sourceLang,
		TargetLang: *targetLang,
		Context:    *contextStr,
		Style:      gotalign.TranslationStyle(*style),
	})

	if !*quiet {
		fmt.Fprintf(stderr, "Translating %d document(s) to %s...\n", len(docs), *targetLang)
	}

	start := time.Now()
	results := gotalign.TranslateAll(context.Background(), engine, reqs, *concurrency)
	elapsed := time.Since(start)

	outputs := make([]documentOutput, len(docs))
	for i, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%s: %w", docs[i].name, r.Err)
		}
		out, err := buildOutput(docs[i].name, r.Translation, direction, sel)
		if err != nil {
			return fmt.Errorf("%s: %w", docs[i].name, err)
		}
		outputs[i] = out
	}

	if *cacheExport != "" {
		meta := map[string]string{"target_lang": *targetLang, "model": modelName}
		if err := cache.ExportToFile(*cacheExport, store, meta); err != nil {
			return fmt.Errorf("exporting cache: %w", err)
		}
	}

	if *jsonOutput {
		return outputJSON(stdout, outputs, elapsed)
	}

	for i, out := range outputs {
		if len(outputs) > 1 {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "== %s ==\n", out.Input)
		}
		outputText(stdout, out)
	}

	if !*quiet {
		fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
	}

	return nil
}

// newLogger builds the slog logger configured by --log-format and --log-level.
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("--log-format must be text or json, got %q", format)
}

// openCache returns the Redis cache when url is set, otherwise an in-memory
// cache if ttl > 0 or force is set. The returned store may be nil.
func openCache(url string, ttl int, force bool, logger *slog.Logger) (cache.Enumerable, func(), error) {
	if url != "" {
		rc, err := cache.NewRedisCache(cache.RedisConfig{URL: url, TTL: ttl, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return rc, func() { _ = rc.Close() }, nil
	}
	if ttl > 0 || force {
		return cache.NewInMemoryCache(ttl), func() {}, nil
	}
	return nil, func() {}, nil
}

func checkCachedResponse(value string) error {
	_, err := gotalign.DecodeResponse(value)
	return err
}

// readInputs reads the named files, or stdin when there are none, and
// extracts their text.
func readInputs(paths []string, html bool) ([]document, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		doc, err := extract(string(data), html, "")
		if err != nil {
			return nil, err
		}
		doc.name = "stdin"
		return []document{doc}, nil
	}

	docs := make([]document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		doc, err := extract(string(data), html, strings.TrimPrefix(filepath.Ext(path), "."))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		doc.name = filepath.Base(path)
		docs = append(docs, doc)
	}
	return docs, nil
}

func extract(content string, html bool, ext string) (document, error) {
	contentType := "text"
	if html {
		contentType = "html"
	} else if p, ok := processor.ForContentType(ext); ok {
		contentType = p.ContentType()
	}

	if contentType == "html" {
		extracted, err := processor.NewHTMLProcessor().Extract(content)
		if err != nil {
			return document{}, err
		}
		return document{text: extracted.Text, structure: extracted.Structure(structureLimit)}, nil
	}

	p, _ := processor.ForContentType(contentType)
	text, err := p.Text(content)
	return document{text: text}, err
}

// buildRequests makes one request per document from base. A document
// without an explicit context passes its HTML structure instead.
func buildRequests(docs []document, base gotalign.EngineRequest) []gotalign.EngineRequest {
	reqs := make([]gotalign.EngineRequest, len(docs))
	for i, d := range docs {
		reqs[i] = base
		reqs[i].Text = d.text
		if base.Context == "" {
			reqs[i].Context = d.structure
		}
	}
	return reqs
}

// spanOutput is one aligned span with its text.
type spanOutput struct {
	Begin int     `json:"begin"`
	End   int     `json:"end"`
	Prob  float64 `json:"prob"`
	Text  string  `json:"text"`
}

// documentOutput is the result for one input.
type documentOutput struct {
	Input       string       `json:"input"`
	Source      string       `json:"source"`
	Translation string       `json:"translation"`
	Speed       int          `json:"words_per_second"`
	Direction   string       `json:"direction,omitempty"`
	Selection   []int        `json:"selection,omitempty"`
	Alignments  []spanOutput `json:"alignments,omitempty"`
}

func buildOutput(name string, tr *gotalign.Translation, direction gotalign.Direction, sel *selection) (documentOutput, error) {
	out := documentOutput{
		Input:       name,
		Translation: tr.Text(),
		Speed:       tr.Speed(),
	}
	if resp := tr.Response(); resp != nil {
		out.Source = resp.SourceText()
	}
	if sel == nil {
		return out, nil
	}

	out.Direction = direction.String()
	out.Selection = []int{sel.first, sel.last}

	spans, err := tr.Alignments(direction, sel.first, sel.last)
	if err != nil {
		return out, fmt.Errorf("aligning selection %d:%d: %w", sel.first, sel.last, err)
	}

	target := out.Translation
	if direction == gotalign.TranslationToSource {
		target = out.Source
	}
	for _, s := range gotalign.Deduplicate(spans) {
		text, err := slice(target, s.Begin, s.End)
		if err != nil {
			return out, err
		}
		out.Alignments = append(out.Alignments, spanOutput{Begin: s.Begin, End: s.End, Prob: s.Prob, Text: text})
	}
	return out, nil
}

// slice returns the substring of text between two code-unit positions.
func slice(text string, begin, end int) (string, error) {
	b, err := gotalign.PositionToOffset(text, begin)
	if err != nil {
		return "", err
	}
	e, err := gotalign.PositionToOffset(text, end)
	if err != nil {
		return "", err
	}
	return text[b:e], nil
}

func outputText(w io.Writer, out documentOutput) {
	fmt.Fprintln(w, out.Translation)
	if out.Selection == nil {
		return
	}

	fmt.Fprintf(w, "\nAligned to %d:%d (%s):\n", out.Selection[0], out.Selection[1], out.Direction)
	if len(out.Alignments) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, s := range out.Alignments {
		fmt.Fprintf(w, "  [%d,%d) %.2f %q\n", s.Begin, s.End, s.Prob, strings.TrimSpace(s.Text))
	}
}

// jsonResult represents the JSON output format.
type jsonResult struct {
	Documents []documentOutput `json:"documents"`
	ElapsedMs int64            `json:"elapsed_ms"`
}

// outputJSON writes the results as JSON.
func outputJSON(w io.Writer, outputs []documentOutput, elapsed time.Duration) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{Documents: outputs, ElapsedMs: elapsed.Milliseconds()})
}
