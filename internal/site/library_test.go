package site

import (
	"strings"
	"testing"

	"github.com/karimjaber/mediarag/internal/manifest"
)

func TestRenderLibrary(t *testing.T) {
	entries := []manifest.Entry{
		{
			SourceID:     "talk_01",
			Title:        "A Recorded Talk",
			DocumentType: "video",
			NumChunks:    12,
			Speaker:      "Jane Doe",
			Tags:         []string{"keynote"},
		},
		{
			SourceID:     "report_2025",
			Title:        "Annual Report",
			DocumentType: "pdf",
			NumChunks:    40,
			Author:       "Finance Team",
		},
	}
	summaries := map[string]string{
		"talk_01": "A keynote about retrieval systems.",
	}

	page, err := RenderLibrary(entries, summaries)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(page)

	if !strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("expected full HTML document")
	}
	for _, want := range []string{
		"A Recorded Talk",
		"Annual Report",
		"Jane Doe",
		"Finance Team",
		"A keynote about retrieval systems.",
		"keynote",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestRenderLibrary_Empty(t *testing.T) {
	page, err := RenderLibrary(nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(page), "No sources have been ingested yet.") {
		t.Error("expected empty-library message")
	}
}

func TestRenderLibrary_FallsBackToSourceID(t *testing.T) {
	page, err := RenderLibrary([]manifest.Entry{{SourceID: "untitled_src", DocumentType: "srt"}}, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(page), "untitled_src") {
		t.Error("expected source id used as title fallback")
	}
}
