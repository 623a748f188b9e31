package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/gotalign"
	"github.com/sashabaranov/go-openai"
)

// OpenAIEngine implements Engine with a chat model that translates sentence
// by sentence and reports soft word alignments.
type OpenAIEngine struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI engine.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key (uses OPENAI_API_KEY env var if empty)
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.2)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIEngine creates a new OpenAI engine.
func NewOpenAIEngine(cfg OpenAIConfig) *OpenAIEngine {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Transport: userAgentTransport{base: http.DefaultTransport}}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &OpenAIEngine{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// userAgentTransport identifies gotalign to the API.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t userAgentTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("User-Agent", gotalign.UserAgent())
	return t.base.RoundTrip(r)
}

// Model returns the model name, e.g. for namespacing cache keys.
func (e *OpenAIEngine) Model() string {
	return e.model
}

// alignedSentence is one sentence of the model's answer.
type alignedSentence struct {
	Source      []string         `json:"source"`
	Translation string           `json:"translation"`
	Target      []string         `json:"target"`
	Alignments  []gotalign.Point `json:"alignments"`
}

// Translate translates req.Text and builds the aligned response.
func (e *OpenAIEngine) Translate(ctx context.Context, req EngineRequest) (*Response, error) {
	if strings.TrimSpace(req.Text) == "" {
		return assemble(req.Text, "", nil, nil, nil)
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: e.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: e.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &gotalign.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &gotalign.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	sentences, err := e.parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return buildResponse(req.Text, sentences)
}

func (e *OpenAIEngine) buildSystemPrompt(req EngineRequest) string {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "en"
	}

	sourceName := gotalign.GetLanguageName(sourceLang)
	targetName := gotalign.GetLanguageName(req.TargetLang)
	styleDesc := gotalign.GetStyleDescription(req.Style)

	contextText := "The text is general content."
	if req.Context != "" {
		contextText = fmt.Sprintf("The text is for: %s.", req.Context)
	}

	return fmt.Sprintf(`# Role
You are a professional translator and word aligner from %s to %s.

# Context
%s

# Register
%s

# Task
Split the user's text into sentences. For each sentence, in order:
1. "source": the words and punctuation tokens of the source sentence, copied exactly as they appear in the text, in order.
2. "translation": the sentence translated into %s.
3. "target": the words and punctuation tokens of your translation, copied exactly as they appear in it, in order.
4. "alignments": for every source token that corresponds to a target token, an object {"src": source token index, "tgt": target token index, "prob": confidence between 0 and 1}. A token may align to several tokens.

# Format
Return a valid JSON object: {"sentences": [{"source": [...], "translation": "...", "target": [...], "alignments": [...]}]}
- Do NOT wrap in Markdown code blocks.
- Do NOT skip, merge or reorder sentences.
- Every token of "source" must appear verbatim in the text, every token of "target" verbatim in "translation".`,
		sourceName, targetName, contextText, styleDesc, targetName)
}

func (e *OpenAIEngine) parseResponse(content string) ([]alignedSentence, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSuffix(content, "```")

	var wrapper struct {
		Sentences []alignedSentence `json:"sentences"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && len(wrapper.Sentences) > 0 {
		return wrapper.Sentences, nil
	}

	// Some models return the bare array
	var sentences []alignedSentence
	if err := json.Unmarshal([]byte(content), &sentences); err == nil && len(sentences) > 0 {
		return sentences, nil
	}

	return nil, &gotalign.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

// buildResponse locates the reported tokens in the source text and in the
// joined translations. Blank tokens are removed, points referring to
// missing tokens are dropped and probabilities are clamped to [0, 1].
func buildResponse(text string, sentences []alignedSentence) (*Response, error) {
	source := make([][]string, len(sentences))
	target := make([][]string, len(sentences))
	translations := make([]string, len(sentences))
	alignments := make([][]gotalign.Point, len(sentences))

	for i, s := range sentences {
		var srcIndex, tgtIndex []int
		source[i], srcIndex = compactTokens(s.Source)
		target[i], tgtIndex = compactTokens(s.Target)
		translations[i] = strings.TrimSpace(s.Translation)
		alignments[i] = remapPoints(s.Alignments, srcIndex, tgtIndex)
	}

	resp, err := assemble(text, strings.Join(translations, " "), source, target, alignments)
	if err != nil {
		// Sampling may produce tokens that are not verbatim; another attempt may not
		return nil, &gotalign.ProviderError{
			Message:   "model output does not match the text",
			Cause:     err,
			Retryable: true,
			Malformed: true,
		}
	}
	return resp, nil
}

// compactTokens drops blank tokens. index[i] is the new position of
// tokens[i], or -1 if it was dropped.
func compactTokens(tokens []string) (kept []string, index []int) {
	index = make([]int, len(tokens))
	for i, t := range tokens {
		if strings.TrimSpace(t) == "" {
			index[i] = -1
			continue
		}
		index[i] = len(kept)
		kept = append(kept, t)
	}
	return kept, index
}

func remapPoints(points []gotalign.Point, srcIndex, tgtIndex []int) []gotalign.Point {
	out := make([]gotalign.Point, 0, len(points))
	for _, p := range points {
		if p.Src < 0 || p.Src >= len(srcIndex) || p.Tgt < 0 || p.Tgt >= len(tgtIndex) {
			continue
		}
		p.Src, p.Tgt = srcIndex[p.Src], tgtIndex[p.Tgt]
		if p.Src < 0 || p.Tgt < 0 {
			continue
		}
		p.Prob = min(max(p.Prob, 0), 1)
		out = append(out, p)
	}
	return out
}

func isRetryableError(err error) bool {
	// Check for common retryable conditions
	errStr := err.Error()
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(strings.ToLower(errStr), pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAIEngine implements Engine
var _ Engine = (*OpenAIEngine)(nil)
