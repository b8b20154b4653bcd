package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/karimjaber/mediarag/internal/config"
	"github.com/karimjaber/mediarag/internal/db"
	"github.com/karimjaber/mediarag/internal/index"
	"github.com/karimjaber/mediarag/internal/manifest"
	"github.com/karimjaber/mediarag/internal/synthesis"
)

type mockIndex struct {
	results   []index.Result
	searchErr error
	persisted bool
}

func (m *mockIndex) Add(ctx context.Context, docs []index.Document) error { return nil }

func (m *mockIndex) Search(ctx context.Context, query string, limit int, where map[string]string) ([]index.Result, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit < len(m.results) {
		return m.results[:limit], nil
	}
	return m.results, nil
}

func (m *mockIndex) Delete(ctx context.Context, where map[string]string, ids ...string) error {
	return nil
}
func (m *mockIndex) Persist(ctx context.Context, dir string) error {
	m.persisted = true
	return nil
}
func (m *mockIndex) Load(ctx context.Context, dir string) error { return nil }
func (m *mockIndex) Count() int                                 { return len(m.results) }

type mockAnswerer struct {
	lastQuestion string
	lastLanguage string
}

func (m *mockAnswerer) Synthesize(ctx context.Context, question string, results []index.Result, language string) *synthesis.Result {
	m.lastQuestion = question
	m.lastLanguage = language
	tiered := synthesis.Categorize(results)
	return &synthesis.Result{
		Answer:       "The answer [S1].",
		Summaries:    tiered.Summaries,
		Chunks:       tiered.Chunks,
		TotalResults: len(results),
		Prompt:       "the full prompt",
		Model:        "test-model",
		Language:     language,
	}
}

type mockImporterAPI struct {
	files     []string
	dirs      []string
	importErr error
}

func (m *mockImporterAPI) ImportFile(ctx context.Context, path string) (int, error) {
	if m.importErr != nil {
		return 0, m.importErr
	}
	m.files = append(m.files, path)
	return 2, nil
}

func (m *mockImporterAPI) ImportDir(ctx context.Context, dir string) (int, int, error) {
	if m.importErr != nil {
		return 0, 0, m.importErr
	}
	m.dirs = append(m.dirs, dir)
	return 1, 3, nil
}

func newTestServer(t *testing.T, idx *mockIndex) (*Server, *mockAnswerer, *mockImporterAPI, *manifest.Store) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := manifest.NewStore(database)

	answerer := &mockAnswerer{}
	importer := &mockImporterAPI{}
	appCfg := config.DefaultConfig()
	appCfg.DataDir = t.TempDir()

	s := New(Config{Port: 0, DataDir: appCfg.DataDir}, appCfg, idx, answerer, store, importer)
	return s, answerer, importer, store
}

func sampleResults() []index.Result {
	return []index.Result{
		{ID: "summary_talk", Title: "A Talk", Metadata: map[string]string{"type": "document_summary", "text": "About things."}},
		{ID: "c1", Title: "A Talk", Text: "chunk text", Metadata: map[string]string{"source_id": "talk"}},
	}
}

func TestHealthz(t *testing.T) {
	s, _, _, _ := newTestServer(t, &mockIndex{})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestAsk(t *testing.T) {
	s, answerer, _, _ := newTestServer(t, &mockIndex{results: sampleResults()})

	body, _ := json.Marshal(askRequest{Question: "what was discussed?"})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result synthesis.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Answer != "The answer [S1]." {
		t.Errorf("unexpected answer: %q", result.Answer)
	}
	if result.TotalResults != 2 || len(result.Summaries) != 1 || len(result.Chunks) != 1 {
		t.Errorf("unexpected tiering: %+v", result)
	}
	if result.Prompt != "" {
		t.Error("expected prompt stripped unless requested")
	}
	if answerer.lastLanguage != "en" {
		t.Errorf("expected default language, got %q", answerer.lastLanguage)
	}
}

func TestAsk_IncludePrompt(t *testing.T) {
	s, _, _, _ := newTestServer(t, &mockIndex{results: sampleResults()})

	body, _ := json.Marshal(askRequest{Question: "q", IncludePrompt: true})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(body)))

	var result synthesis.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Prompt == "" {
		t.Error("expected prompt included when requested")
	}
}

func TestAsk_MissingQuestion(t *testing.T) {
	s, _, _, _ := newTestServer(t, &mockIndex{})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAsk_SearchFailure(t *testing.T) {
	// The error message contains a double quote; the payload must stay
	// valid JSON regardless.
	s, _, _, _ := newTestServer(t, &mockIndex{searchErr: errors.New(`collection "library" unavailable`)})

	body, _ := json.Marshal(askRequest{Question: "q"})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(body)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error payload is not valid JSON: %v (%s)", err, rec.Body.String())
	}
	if !strings.Contains(resp.Error, `collection "library" unavailable`) {
		t.Errorf("expected error message, got %q", resp.Error)
	}
}

func TestSearch(t *testing.T) {
	s, _, _, _ := newTestServer(t, &mockIndex{results: sampleResults()})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=things&limit=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Results []index.Result `json:"results"`
		Total   int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected limit applied, got %d results", resp.Total)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	s, _, _, _ := newTestServer(t, &mockIndex{})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAdminImport(t *testing.T) {
	idx := &mockIndex{}
	s, _, importer, _ := newTestServer(t, idx)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/import", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(importer.dirs) != 2 {
		t.Errorf("expected chunks and summaries dirs imported, got %v", importer.dirs)
	}
	if !idx.persisted {
		t.Error("expected index persisted after import")
	}
}

func TestAdminReconcile(t *testing.T) {
	idx := &mockIndex{}
	s, _, importer, store := newTestServer(t, idx)

	err := store.Upsert(context.Background(), manifest.Entry{
		SourceID:   "talk",
		Title:      "A Talk",
		ChunksURI:  "chunks/talk.jsonl",
		SummaryURI: "summaries/talk.jsonl",
	})
	if err != nil {
		t.Fatalf("seeding manifest: %v", err)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/reconcile", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(importer.files) != 2 {
		t.Errorf("expected chunks and summary files imported, got %v", importer.files)
	}
	var resp struct {
		Sources int `json:"sources_reconciled"`
		Docs    int `json:"documents_imported"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Sources != 1 || resp.Docs != 4 {
		t.Errorf("unexpected counts: %+v", resp)
	}
}

func TestAdminConfig(t *testing.T) {
	s, _, _, _ := newTestServer(t, &mockIndex{})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var cfg map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if cfg["provider"] == "" {
		t.Error("expected provider exposed")
	}
	if _, ok := cfg["include"]; ok {
		t.Error("expected only the safe subset exposed")
	}
}

func TestManifestRoutes(t *testing.T) {
	s, _, _, store := newTestServer(t, &mockIndex{})

	err := store.Upsert(context.Background(), manifest.Entry{SourceID: "talk", Title: "A Talk", DocumentType: "video"})
	if err != nil {
		t.Fatalf("seeding manifest: %v", err)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/manifest", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []manifest.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(entries) != 1 || entries[0].SourceID != "talk" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/manifest/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing entry, got %d", rec.Code)
	}
}

func TestLibraryPage(t *testing.T) {
	s, _, _, store := newTestServer(t, &mockIndex{})

	err := store.Upsert(context.Background(), manifest.Entry{SourceID: "talk", Title: "A Recorded Talk", DocumentType: "video"})
	if err != nil {
		t.Fatalf("seeding manifest: %v", err)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/library", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "A Recorded Talk") {
		t.Errorf("expected library page to list the source")
	}
}

func TestWebSocketAsk(t *testing.T) {
	s, _, _, _ := newTestServer(t, &mockIndex{results: sampleResults()})

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/ask"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Type: "ask", Question: "what was discussed?"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "answer" || resp.Answer == nil {
		t.Fatalf("expected answer, got %+v", resp)
	}
	if resp.Answer.Answer != "The answer [S1]." {
		t.Errorf("unexpected answer: %q", resp.Answer.Answer)
	}
}

func TestWebSocketEmptyQuestion(t *testing.T) {
	s, _, _, _ := newTestServer(t, &mockIndex{})

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/ask"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Type: "ask"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Error, "question is required") {
		t.Errorf("expected error response, got %+v", resp)
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	s, _, _, _ := newTestServer(t, &mockIndex{})

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/ask"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Type: "chat", Question: "hi"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Error, "unknown message type") {
		t.Errorf("expected error response, got %+v", resp)
	}
}
