package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/karimjaber/mediarag/internal/chunk"
)

// WhisperTranscriber transcribes audio and video through the OpenAI
// speech-to-text API, returning word-timed segments.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

// NewWhisperTranscriber creates a transcriber. Reads OPENAI_API_KEY.
func NewWhisperTranscriber(model string) (*WhisperTranscriber, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperTranscriber{client: openai.NewClient(apiKey), model: model}, nil
}

// Transcribe sends the file for transcription and maps the response
// segments to timed segments. language may be empty for auto-detect.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, filePath string, language string) ([]chunk.Segment, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: filePath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: language,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribing %s: %w", filePath, err)
	}

	segments := make([]chunk.Segment, 0, len(resp.Segments))
	for i, s := range resp.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, chunk.Segment{
			Sequence: i,
			StartSec: s.Start,
			EndSec:   s.End,
			Text:     text,
		})
	}
	return segments, nil
}
