package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/karimjaber/mediarag/internal/index"
	"github.com/karimjaber/mediarag/internal/synthesis"
)

// handleSearchLibrary performs semantic search over the library index.
func (s *Server) handleSearchLibrary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	var where map[string]string
	if typeStr := request.GetString("type_filter", ""); typeStr != "" {
		where = map[string]string{"source_type": typeStr}
	}

	results, err := s.idx.Search(ctx, query, limit, where)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The library may not be indexed yet. Run `mediarag ingest` to index it."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// handleAskLibrary retrieves evidence and synthesizes a cited answer.
func (s *Server) handleAskLibrary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	language := request.GetString("language", s.language)

	results, err := s.idx.Search(ctx, question, limit, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	answer := s.answerer.Synthesize(ctx, question, results, language)

	var sb strings.Builder
	sb.WriteString(answer.Answer)
	sb.WriteString("\n\nSources:\n")
	for i, r := range answer.Summaries {
		sb.WriteString(fmt.Sprintf("[S%d] %s (%s)\n", i+1, displayTitle(r), synthesis.SourceID(r)))
	}
	for i, r := range answer.Chunks {
		anchor := synthesis.FormatAnchor(r.Metadata)
		line := fmt.Sprintf("[C%d] %s (%s)", i+1, displayTitle(r), synthesis.SourceID(r))
		if anchor != "" {
			line += " " + anchor
		}
		sb.WriteString(line + "\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// handleListSources lists everything in the manifest.
func (s *Server) handleListSources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.store.List(ctx, request.GetString("type_filter", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing sources failed: %v", err)), nil
	}

	if len(entries) == 0 {
		return mcp.NewToolResultText("No sources have been ingested yet. Run `mediarag ingest` to add some."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d source(s):\n", len(entries)))
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = e.SourceID
		}
		sb.WriteString(fmt.Sprintf("\n- %s [%s] — %d chunks (id: %s)", title, e.DocumentType, e.NumChunks, e.SourceID))
		var meta []string
		if e.Speaker != "" {
			meta = append(meta, "speaker: "+e.Speaker)
		}
		if e.Author != "" {
			meta = append(meta, "author: "+e.Author)
		}
		if e.Date != "" {
			meta = append(meta, "date: "+e.Date)
		}
		if len(meta) > 0 {
			sb.WriteString("\n  " + strings.Join(meta, ", "))
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// formatSearchResults converts search results into a rich text format
// optimized for AI agent consumption.
func formatSearchResults(results []index.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Source: %s [%s]\n", displayTitle(r), r.Metadata["source_type"]))

		if anchor := synthesis.FormatAnchor(r.Metadata); anchor != "" {
			sb.WriteString("Anchor: " + anchor + "\n")
		}
		sb.WriteString(fmt.Sprintf("Relevance: %.3f\n", r.Similarity))

		text := r.Text
		if text == "" {
			text = r.Metadata["text"]
		}
		if len(text) > 800 {
			text = text[:800] + "..."
		}
		if text != "" {
			sb.WriteString("\n" + text + "\n")
		}
	}

	return sb.String()
}

func displayTitle(r index.Result) string {
	if r.Title != "" {
		return r.Title
	}
	if t := r.Metadata["title"]; t != "" {
		return t
	}
	return "Unknown Document"
}
