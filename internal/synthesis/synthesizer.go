package synthesis

import (
	"context"
	"fmt"

	"github.com/karimjaber/mediarag/internal/index"
	"github.com/karimjaber/mediarag/internal/llm"
)

// Sampling parameters favor determinism over creativity, since the
// generated citations must track the supplied evidence.
const (
	genTemperature = 0.1
	genTopP        = 0.9
	genTopK        = 20
	genMaxTokens   = 2048
)

// Result packages one synthesized answer with its provenance.
type Result struct {
	Answer       string         `json:"answer"`
	Summaries    []index.Result `json:"summaries"`
	Chunks       []index.Result `json:"chunks"`
	TotalResults int            `json:"total_results"`
	Prompt       string         `json:"prompt,omitempty"`
	Model        string         `json:"model"`
	Language     string         `json:"language"`
}

// Synthesizer turns retrieved results into a cited answer via one
// generation call.
type Synthesizer struct {
	provider llm.Provider
	model    string
}

// NewSynthesizer creates a synthesizer using the given provider and model.
func NewSynthesizer(provider llm.Provider, model string) *Synthesizer {
	return &Synthesizer{provider: provider, model: model}
}

// Synthesize categorizes results, builds the prompt, and invokes the
// generator. A failed generation call never escapes as an error: the
// returned Result carries the failure detail in its answer text while
// the categorized evidence stays intact, so callers can still render
// citations.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, results []index.Result, language string) *Result {
	if language == "" {
		language = "en"
	}

	tiered := Categorize(results)
	prompt := BuildPrompt(question, tiered.Summaries, tiered.Chunks, language)

	answer := ""
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:       s.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: genTemperature,
		TopP:        genTopP,
		TopK:        genTopK,
		MaxTokens:   genMaxTokens,
	})
	if err != nil {
		answer = fmt.Sprintf("Error generating answer: %v", err)
	} else {
		answer = resp.Content
	}

	return &Result{
		Answer:       answer,
		Summaries:    tiered.Summaries,
		Chunks:       tiered.Chunks,
		TotalResults: tiered.Total,
		Prompt:       prompt,
		Model:        s.model,
		Language:     language,
	}
}
