// Package site renders the HTML catalog page for the library.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/karimjaber/mediarag/internal/manifest"
)

// pageData holds the data passed to the HTML template.
type pageData struct {
	Title   string
	Content template.HTML
}

// RenderLibrary builds the catalog page: one section per manifest
// entry, with its metadata and document summary.
func RenderLibrary(entries []manifest.Entry, summaries map[string]string) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	source := buildMarkdown(entries, summaries)

	var htmlBuf bytes.Buffer
	if err := md.Convert([]byte(source), &htmlBuf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	tmpl, err := template.New("library").Parse(libraryTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, pageData{
		Title:   "Library",
		Content: template.HTML(htmlBuf.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return out.Bytes(), nil
}

// buildMarkdown assembles the catalog markdown from manifest entries.
func buildMarkdown(entries []manifest.Entry, summaries map[string]string) string {
	var b strings.Builder

	b.WriteString("# Library\n\n")
	if len(entries) == 0 {
		b.WriteString("No sources have been ingested yet.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%d sources indexed.\n\n", len(entries)))

	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = e.SourceID
		}
		b.WriteString(fmt.Sprintf("## %s\n\n", title))

		var meta []string
		meta = append(meta, fmt.Sprintf("**Type:** %s", e.DocumentType))
		if e.Speaker != "" {
			meta = append(meta, fmt.Sprintf("**Speaker:** %s", e.Speaker))
		}
		if e.Author != "" {
			meta = append(meta, fmt.Sprintf("**Author:** %s", e.Author))
		}
		if e.Organization != "" {
			meta = append(meta, fmt.Sprintf("**Organization:** %s", e.Organization))
		}
		if e.Date != "" {
			meta = append(meta, fmt.Sprintf("**Date:** %s", e.Date))
		}
		meta = append(meta, fmt.Sprintf("**Chunks:** %d", e.NumChunks))
		b.WriteString(strings.Join(meta, " · "))
		b.WriteString("\n\n")

		if len(e.Tags) > 0 {
			b.WriteString(fmt.Sprintf("Tags: %s\n\n", strings.Join(e.Tags, ", ")))
		}

		if summary, ok := summaries[e.SourceID]; ok {
			b.WriteString(summary)
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

// libraryTemplate is the Go html/template for the catalog page.
const libraryTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; max-width: 52rem; margin: 0 auto; padding: 2rem 1rem; color: #1f2328; line-height: 1.6; }
    h1 { border-bottom: 1px solid #d1d9e0; padding-bottom: .3em; }
    h2 { margin-top: 2em; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #d1d9e0; padding: .4em .8em; }
  </style>
</head>
<body>
  <article>
    {{.Content}}
  </article>
</body>
</html>`
