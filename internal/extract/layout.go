package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// LayoutClient extracts per-page text from PDFs via an external layout
// analysis service. The service accepts a multipart file upload and
// returns {"pages": [{"page": n, "text": "..."}]}.
type LayoutClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewLayoutClient creates a client for the layout service at baseURL.
func NewLayoutClient(baseURL string) *LayoutClient {
	return &LayoutClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

type layoutResponse struct {
	Pages []Page `json:"pages"`
}

// ExtractPages uploads the file and returns its pages in order.
func (c *LayoutClient) ExtractPages(ctx context.Context, filePath string) ([]Page, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copying file into request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", &body)
	if err != nil {
		return nil, fmt.Errorf("creating layout request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling layout service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("layout service returned %d: %s", resp.StatusCode, string(msg))
	}

	var parsed layoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding layout response: %w", err)
	}
	return parsed.Pages, nil
}
