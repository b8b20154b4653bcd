package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/karimjaber/mediarag/internal/db"
	"github.com/karimjaber/mediarag/internal/index"
	"github.com/karimjaber/mediarag/internal/manifest"
	"github.com/karimjaber/mediarag/internal/synthesis"
)

// mockIndex implements index.Index for testing.
type mockIndex struct {
	results []index.Result
}

func (m *mockIndex) Add(_ context.Context, docs []index.Document) error { return nil }

func (m *mockIndex) Search(_ context.Context, query string, limit int, where map[string]string) ([]index.Result, error) {
	var results []index.Result
	for _, r := range m.results {
		if where != nil && r.Metadata["source_type"] != where["source_type"] {
			continue
		}
		results = append(results, r)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (m *mockIndex) Delete(_ context.Context, _ map[string]string, _ ...string) error { return nil }
func (m *mockIndex) Persist(_ context.Context, _ string) error          { return nil }
func (m *mockIndex) Load(_ context.Context, _ string) error             { return nil }
func (m *mockIndex) Count() int                                         { return len(m.results) }

// mockAnswerer implements Answerer for testing.
type mockAnswerer struct{}

func (m *mockAnswerer) Synthesize(_ context.Context, question string, results []index.Result, language string) *synthesis.Result {
	tiered := synthesis.Categorize(results)
	return &synthesis.Result{
		Answer:       "Synthesized answer [C1].",
		Summaries:    tiered.Summaries,
		Chunks:       tiered.Chunks,
		TotalResults: len(results),
		Model:        "test-model",
		Language:     language,
	}
}

func newTestMCPServer(t *testing.T, idx *mockIndex) (*Server, *manifest.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := manifest.NewStore(database)
	return NewServer(idx, &mockAnswerer{}, store, "en"), store
}

func sampleResults() []index.Result {
	return []index.Result{
		{
			ID:    "c1",
			Title: "A Recorded Talk",
			Text:  "We discussed quarterly numbers.",
			Metadata: map[string]string{
				"source_id":   "talk",
				"source_type": "video",
				"start_sec":   "90",
				"end_sec":     "125",
			},
			Similarity: 0.91,
		},
		{
			ID:    "summary_report",
			Title: "Annual Report",
			Metadata: map[string]string{
				"type":        "document_summary",
				"source_id":   "report",
				"source_type": "pdf",
				"text":        "Covers the fiscal year.",
			},
			Similarity: 0.88,
		},
	}
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_library", searchLibraryTool, "search_library"},
		{"ask_library", askLibraryTool, "ask_library"},
		{"list_sources", listSourcesTool, "list_sources"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, _ := newTestMCPServer(t, &mockIndex{})
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.language != "en" {
		t.Errorf("language = %q, want %q", srv.language, "en")
	}
}

func TestHandleSearchLibrary(t *testing.T) {
	srv, _ := newTestMCPServer(t, &mockIndex{results: sampleResults()})
	ctx := context.Background()

	t.Run("basic search", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query": "quarterly numbers",
		}

		result, err := srv.handleSearchLibrary(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "A Recorded Talk") {
			t.Errorf("expected source title in output, got %q", text)
		}
		if !strings.Contains(text, "[01:30-02:05]") {
			t.Errorf("expected time anchor in output, got %q", text)
		}
	})

	t.Run("search with type filter", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query":       "fiscal",
			"type_filter": "pdf",
		}

		result, err := srv.handleSearchLibrary(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if strings.Contains(text, "A Recorded Talk") {
			t.Errorf("expected video result filtered out, got %q", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchLibrary(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("empty index", func(t *testing.T) {
		emptySrv, _ := newTestMCPServer(t, &mockIndex{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query": "anything",
		}

		result, err := emptySrv.handleSearchLibrary(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})
}

func TestHandleAskLibrary(t *testing.T) {
	srv, _ := newTestMCPServer(t, &mockIndex{results: sampleResults()})
	ctx := context.Background()

	t.Run("answers with sources", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "what was discussed?",
		}

		result, err := srv.handleAskLibrary(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Synthesized answer [C1].") {
			t.Errorf("expected answer in output, got %q", text)
		}
		if !strings.Contains(text, "Sources:") || !strings.Contains(text, "[S1]") || !strings.Contains(text, "[C1]") {
			t.Errorf("expected source listing, got %q", text)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskLibrary(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})
}

func TestHandleListSources(t *testing.T) {
	srv, store := newTestMCPServer(t, &mockIndex{})
	ctx := context.Background()

	t.Run("empty manifest", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleListSources(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "No sources") {
			t.Errorf("expected empty-library message, got %q", text)
		}
	})

	if err := store.Upsert(ctx, manifest.Entry{
		SourceID:     "talk",
		Title:        "A Recorded Talk",
		DocumentType: "video",
		NumChunks:    12,
		Speaker:      "Jane Doe",
	}); err != nil {
		t.Fatalf("seeding manifest: %v", err)
	}
	if err := store.Upsert(ctx, manifest.Entry{
		SourceID:     "report",
		Title:        "Annual Report",
		DocumentType: "pdf",
		NumChunks:    40,
	}); err != nil {
		t.Fatalf("seeding manifest: %v", err)
	}

	t.Run("lists all", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleListSources(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "A Recorded Talk") || !strings.Contains(text, "Annual Report") {
			t.Errorf("expected both sources listed, got %q", text)
		}
		if !strings.Contains(text, "speaker: Jane Doe") {
			t.Errorf("expected speaker metadata, got %q", text)
		}
	})

	t.Run("type filter", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"type_filter": "pdf",
		}

		result, err := srv.handleListSources(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if strings.Contains(text, "A Recorded Talk") {
			t.Errorf("expected video source filtered out, got %q", text)
		}
	})
}

// resultText extracts the text content from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return tc.Text
}
