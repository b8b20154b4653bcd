package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const captionPrompt = `Describe this image in detail for a searchable library catalog.
Cover what is shown, any visible text, and the apparent subject matter. 2-4 sentences.`

// VisionCaptioner describes images using an OpenAI vision model.
type VisionCaptioner struct {
	client *openai.Client
	model  string
}

// NewVisionCaptioner creates a captioner. Reads OPENAI_API_KEY.
func NewVisionCaptioner(model string) (*VisionCaptioner, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &VisionCaptioner{client: openai.NewClient(apiKey), model: model}, nil
}

// Caption reads the image and returns a prose description.
func (v *VisionCaptioner) Caption(ctx context.Context, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filePath, err)
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s",
		imageMIME(filePath), base64.StdEncoding.EncodeToString(data))

	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: captionPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
		MaxTokens: 512,
	})
	if err != nil {
		return "", fmt.Errorf("captioning %s: %w", filePath, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision model returned no choices for %s", filePath)
	}

	caption := strings.TrimSpace(resp.Choices[0].Message.Content)
	if caption == "" {
		return "", fmt.Errorf("vision model returned empty caption for %s", filePath)
	}
	return caption, nil
}

func imageMIME(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
