// Package summary generates one document-level summary per ingested
// source. Summaries are indexed alongside chunks and retrieved as the
// top tier when answering broad questions.
package summary

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/karimjaber/mediarag/internal/chunk"
	"github.com/karimjaber/mediarag/internal/llm"
)

// IDPrefix marks summary records in the index so retrieval can split
// them from regular chunks.
const IDPrefix = "summary_"

const (
	maxInputChars    = 24000
	summaryMaxTokens = 1024
)

const systemPrompt = `You are a librarian writing catalog summaries for a mixed-media library.
Write a concise summary (5-8 sentences) of the document below.
Cover: the main topic, the key arguments or findings, and who the material is for.
Write in the document's own language. Do not add opinions or information not present in the text.`

// Metadata carries the bibliographic fields attached to a summary record.
type Metadata struct {
	Title        string
	Author       string
	Speaker      string
	Organization string
	Date         string
	Lang         string
}

// Generator produces document summaries via an LLM provider.
type Generator struct {
	provider llm.Provider
	model    string
}

// NewGenerator creates a summary generator using the given provider and model.
func NewGenerator(provider llm.Provider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

// Generate summarizes the full text of a source and returns the summary
// as an index-ready record with id "summary_<source_id>".
func (g *Generator) Generate(ctx context.Context, src chunk.Source, chunks []chunk.Chunk, meta Metadata) (*chunk.Record, error) {
	text := joinChunks(chunks)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("source %s has no text to summarize", src.ID)
	}
	if utf8.RuneCountInString(text) > maxInputChars {
		text = string([]rune(text)[:maxInputChars])
	}

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: text},
		},
		MaxTokens:   summaryMaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("generating summary for %s: %w", src.ID, err)
	}
	summaryText := strings.TrimSpace(resp.Content)
	if summaryText == "" {
		return nil, fmt.Errorf("provider returned empty summary for %s", src.ID)
	}

	title := meta.Title
	if title == "" {
		title = src.Title
	}

	structData := map[string]any{
		"text":        summaryText,
		"type":        "document_summary",
		"source_id":   src.ID,
		"source_type": string(src.Type),
		"source_uri":  src.URI,
		"title":       title,
	}
	if meta.Lang != "" {
		structData["lang"] = meta.Lang
	} else if src.Lang != "" {
		structData["lang"] = src.Lang
	}
	if meta.Author != "" {
		structData["author"] = meta.Author
	}
	if meta.Speaker != "" {
		structData["speaker"] = meta.Speaker
	}
	if meta.Organization != "" {
		structData["organization"] = meta.Organization
	}
	if meta.Date != "" {
		structData["date"] = meta.Date
	}

	return &chunk.Record{
		ID:         IDPrefix + src.ID,
		Title:      title,
		URI:        src.URI,
		StructData: structData,
	}, nil
}

func joinChunks(chunks []chunk.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n\n")
}
