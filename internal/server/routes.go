package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/karimjaber/mediarag/internal/chunk"
	"github.com/karimjaber/mediarag/internal/site"
)

// askRequest is the body of POST /api/ask. Filter restricts retrieval
// to documents whose metadata matches every given field exactly.
type askRequest struct {
	Question      string            `json:"question"`
	K             int               `json:"k,omitempty"`
	Filter        map[string]string `json:"filter,omitempty"`
	Language      string            `json:"language,omitempty"`
	IncludePrompt bool              `json:"include_prompt,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, `{"error":"question is required"}`, http.StatusBadRequest)
		return
	}

	limit := req.K
	if limit <= 0 {
		limit = s.appCfg.RetrievalLimit
	}
	language := req.Language
	if language == "" {
		language = s.appCfg.TargetLanguage
	}

	results, err := s.idx.Search(r.Context(), req.Question, limit, req.Filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	answer := s.answerer.Synthesize(r.Context(), req.Question, results, language)
	if !req.IncludePrompt {
		answer.Prompt = ""
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(answer)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, `{"error":"q parameter is required"}`, http.StatusBadRequest)
		return
	}

	limit := s.appCfg.RetrievalLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	var where map[string]string
	if t := r.URL.Query().Get("type"); t != "" {
		where = map[string]string{"source_type": t}
	}

	results, err := s.idx.Search(r.Context(), query, limit, where)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": results, "total": len(results)})
}

// handleImport loads every chunk and summary file from the data
// directory into the index, then persists a snapshot.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		http.Error(w, `{"error":"importer not configured"}`, http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	chunkFiles, chunkDocs, err := s.importer.ImportDir(ctx, filepath.Join(s.cfg.DataDir, "chunks"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	summaryFiles, summaryDocs, err := s.importer.ImportDir(ctx, filepath.Join(s.cfg.DataDir, "summaries"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.idx.Persist(ctx, s.cfg.DataDir); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"files_imported":     chunkFiles + summaryFiles,
		"documents_imported": chunkDocs + summaryDocs,
	})
}

// handleReconcile re-imports the chunk and summary files recorded in the
// manifest, so the index matches what the manifest says was ingested.
// Import replaces every document of a source, which also clears stale
// chunks from earlier ingestions.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil || s.store == nil {
		http.Error(w, `{"error":"importer not configured"}`, http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	entries, err := s.store.List(ctx, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	sources, docs := 0, 0
	var failed []string
	for _, e := range entries {
		n, err := s.importer.ImportFile(ctx, e.ChunksURI)
		if err != nil {
			failed = append(failed, e.SourceID)
			continue
		}
		docs += n
		if e.SummaryURI != "" {
			if n, err := s.importer.ImportFile(ctx, e.SummaryURI); err == nil {
				docs += n
			}
		}
		sources++
	}
	if err := s.idx.Persist(ctx, s.cfg.DataDir); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if failed == nil {
		failed = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"sources_reconciled": sources,
		"documents_imported": docs,
		"failed_sources":     failed,
	})
}

// handleConfig exposes a read-only subset of the configuration. API
// keys live in the environment, never in config, so nothing secret can
// leak here.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"provider":        s.appCfg.Provider,
		"model":           s.appCfg.Model,
		"embedding_model": s.appCfg.EmbeddingModel,
		"quality":         s.appCfg.Quality,
		"source_dir":      s.appCfg.SourceDir,
		"data_dir":        s.appCfg.DataDir,
		"window_seconds":  s.appCfg.WindowSeconds,
		"target_language": s.appCfg.TargetLanguage,
		"retrieval_limit": s.appCfg.RetrievalLimit,
	})
}

// handleLibrary renders an HTML catalog of everything in the manifest.
func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "manifest not configured", http.StatusServiceUnavailable)
		return
	}

	entries, err := s.store.List(r.Context(), "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summaries := make(map[string]string)
	for _, e := range entries {
		if e.SummaryURI == "" {
			continue
		}
		records, err := chunk.ReadRecordsFile(e.SummaryURI)
		if err != nil || len(records) == 0 {
			continue
		}
		if text, ok := records[0].StructData["text"].(string); ok {
			summaries[e.SourceID] = text
		}
	}

	page, err := site.RenderLibrary(entries, summaries)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// writeError writes a JSON error payload. Dynamic messages go through
// the encoder so quotes in error text stay valid JSON.
func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
