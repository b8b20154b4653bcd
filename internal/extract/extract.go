// Package extract turns raw media files into text: audio transcripts,
// PDF page text, and image captions.
package extract

import (
	"context"

	"github.com/karimjaber/mediarag/internal/chunk"
)

// Page is one page of extracted document text.
type Page struct {
	Number int    `json:"page"`
	Text   string `json:"text"`
}

// Transcriber converts an audio or video file into timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string, language string) ([]chunk.Segment, error)
}

// Translator rewrites segment text into a target language while keeping
// the original text for cited excerpts.
type Translator interface {
	Translate(ctx context.Context, segments []chunk.Segment, sourceLang, targetLang string) ([]chunk.Segment, error)
}

// PageExtractor pulls per-page text out of a document file.
type PageExtractor interface {
	ExtractPages(ctx context.Context, filePath string) ([]Page, error)
}

// Captioner describes an image in prose.
type Captioner interface {
	Caption(ctx context.Context, filePath string) (string, error)
}
