package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/karimjaber/mediarag/internal/chunk"
	"github.com/karimjaber/mediarag/internal/llm"
)

type echoProvider struct {
	prefix  string
	err     error
	lastReq llm.CompletionRequest
	calls   int
}

func (p *echoProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.lastReq = req
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.prefix + req.Messages[1].Content}, nil
}

func (p *echoProvider) Name() string { return "echo" }

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestTranslate_RewritesSegments(t *testing.T) {
	provider := &echoProvider{prefix: "EN: "}
	tr := NewLLMTranslator(provider, "m")

	segments := []chunk.Segment{
		{Sequence: 0, StartSec: 0, EndSec: 5, Text: "bonjour"},
		{Sequence: 1, StartSec: 5, EndSec: 10, Text: "au revoir"},
	}
	out, err := tr.Translate(context.Background(), segments, "fr", "en")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(out))
	}
	if out[0].Text != "EN: bonjour" || out[1].Text != "EN: au revoir" {
		t.Errorf("expected translated texts, got %q / %q", out[0].Text, out[1].Text)
	}
	if out[0].StartSec != 0 || out[1].EndSec != 10 {
		t.Error("expected timing preserved")
	}
	if segments[0].Text != "bonjour" {
		t.Error("expected input segments untouched")
	}
}

func TestTranslate_SameLanguageSkips(t *testing.T) {
	provider := &echoProvider{prefix: "X"}
	tr := NewLLMTranslator(provider, "m")

	segments := []chunk.Segment{{Text: "hello"}}
	out, err := tr.Translate(context.Background(), segments, "en", "en")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("expected no provider calls, got %d", provider.calls)
	}
	if out[0].Text != "hello" {
		t.Errorf("expected text unchanged, got %q", out[0].Text)
	}
}

func TestTranslate_SkipsBlankSegments(t *testing.T) {
	provider := &echoProvider{prefix: "EN: "}
	tr := NewLLMTranslator(provider, "m")

	out, err := tr.Translate(context.Background(), []chunk.Segment{
		{Text: "   "},
		{Text: "salut"},
	}, "fr", "en")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 call for 1 non-blank segment, got %d", provider.calls)
	}
	if out[0].Text != "   " {
		t.Errorf("expected blank segment preserved, got %q", out[0].Text)
	}
}

func TestTranslate_ProviderError(t *testing.T) {
	tr := NewLLMTranslator(&echoProvider{err: errors.New("boom")}, "m")
	_, err := tr.Translate(context.Background(), []chunk.Segment{{Sequence: 3, Text: "hi"}}, "en", "fr")
	if err == nil || !strings.Contains(err.Error(), "segment 3") {
		t.Errorf("expected segment-scoped error, got %v", err)
	}
}

func TestLayoutClient_ExtractPages(t *testing.T) {
	var gotPath, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pages":[{"page":1,"text":"first page"},{"page":2,"text":"second page"}]}`))
	}))
	defer srv.Close()

	tmp := t.TempDir() + "/doc.pdf"
	if err := writeFile(tmp, "%PDF-1.4 fake"); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	client := NewLayoutClient(srv.URL)
	pages, err := client.ExtractPages(context.Background(), tmp)
	if err != nil {
		t.Fatalf("extract pages: %v", err)
	}

	if gotPath != "/extract" {
		t.Errorf("expected /extract endpoint, got %q", gotPath)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Errorf("expected multipart upload, got %q", gotContentType)
	}
	if len(pages) != 2 || pages[0].Number != 1 || pages[1].Text != "second page" {
		t.Errorf("unexpected pages: %+v", pages)
	}
}

func TestLayoutClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tmp := t.TempDir() + "/doc.pdf"
	if err := writeFile(tmp, "x"); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := NewLayoutClient(srv.URL).ExtractPages(context.Background(), tmp)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestLayoutClient_MissingFile(t *testing.T) {
	_, err := NewLayoutClient("http://localhost:1").ExtractPages(context.Background(), "/does/not/exist.pdf")
	if err == nil {
		t.Error("expected error for missing file")
	}
}
