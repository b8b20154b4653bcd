package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/karimjaber/mediarag/internal/chunk"
	"github.com/karimjaber/mediarag/internal/llm"
)

const translateSystemPrompt = `You are a professional translator.
Translate the user's text from %s to %s.
Preserve the meaning and register. Output only the translation, nothing else.`

// LLMTranslator translates segment text with a chat model, one segment
// at a time so timing boundaries survive translation.
type LLMTranslator struct {
	provider llm.Provider
	model    string
}

// NewLLMTranslator creates a translator using the given provider and model.
func NewLLMTranslator(provider llm.Provider, model string) *LLMTranslator {
	return &LLMTranslator{provider: provider, model: model}
}

// Translate returns a copy of the segments with Text translated into
// targetLang. When sourceLang equals targetLang the input is returned
// unchanged.
func (t *LLMTranslator) Translate(ctx context.Context, segments []chunk.Segment, sourceLang, targetLang string) ([]chunk.Segment, error) {
	if sourceLang == targetLang || targetLang == "" {
		return segments, nil
	}

	system := fmt.Sprintf(translateSystemPrompt, languageName(sourceLang), languageName(targetLang))
	out := make([]chunk.Segment, len(segments))
	for i, seg := range segments {
		out[i] = seg
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}

		resp, err := t.provider.Complete(ctx, llm.CompletionRequest{
			Model: t.model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: system},
				{Role: llm.RoleUser, Content: seg.Text},
			},
			MaxTokens:   1024,
			Temperature: 0.1,
		})
		if err != nil {
			return nil, fmt.Errorf("translating segment %d: %w", seg.Sequence, err)
		}
		out[i].Text = strings.TrimSpace(resp.Content)
	}
	return out, nil
}

func languageName(code string) string {
	switch strings.ToLower(code) {
	case "en":
		return "English"
	case "ar":
		return "Arabic"
	case "fr":
		return "French"
	case "es":
		return "Spanish"
	case "de":
		return "German"
	case "":
		return "the source language"
	default:
		return code
	}
}
