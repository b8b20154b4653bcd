package index

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/karimjaber/mediarag/internal/chunk"
)

// Importer loads chunk/summary JSONL files into the index. A file is
// treated as the complete current state of one source: existing
// documents for that source are deleted before the new ones are added,
// so stale chunks from a previous ingestion disappear.
type Importer struct {
	idx Index
}

// NewImporter creates an importer writing into the given index.
func NewImporter(idx Index) *Importer {
	return &Importer{idx: idx}
}

// ImportFile imports one JSONL file and returns the number of documents
// added. Empty files import zero documents without error.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	records, err := chunk.ReadRecordsFile(path)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]Document, 0, len(records))
	chunkSources := map[string]bool{}
	var summaryIDs []string
	for _, rec := range records {
		doc := RecordToDocument(rec)
		docs = append(docs, doc)
		if doc.Metadata["type"] == "document_summary" {
			summaryIDs = append(summaryIDs, doc.ID)
			continue
		}
		if sid := doc.Metadata["source_id"]; sid != "" {
			chunkSources[sid] = true
		}
	}

	// Replace only documents of the same kind: importing a source's
	// summary must not remove the chunks imported moments before, and
	// re-importing chunks must not drop the summary.
	for sid := range chunkSources {
		where := map[string]string{"source_id": sid, "type": "chunk"}
		if err := im.idx.Delete(ctx, where); err != nil {
			return 0, fmt.Errorf("reconciling source %s: %w", sid, err)
		}
	}
	if len(summaryIDs) > 0 {
		if err := im.idx.Delete(ctx, nil, summaryIDs...); err != nil {
			return 0, fmt.Errorf("reconciling summaries: %w", err)
		}
	}

	if err := im.idx.Add(ctx, docs); err != nil {
		return 0, fmt.Errorf("adding documents from %s: %w", path, err)
	}
	return len(docs), nil
}

// ImportDir imports every .jsonl file under dir. Returns files and
// documents imported. A missing directory imports nothing.
func (im *Importer) ImportDir(ctx context.Context, dir string) (int, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("reading %s: %w", dir, err)
	}

	files, docs := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		n, err := im.ImportFile(ctx, path)
		if err != nil {
			return files, docs, fmt.Errorf("importing %s: %w", path, err)
		}
		log.Printf("imported %d documents from %s", n, entry.Name())
		files++
		docs += n
	}
	return files, docs, nil
}

// RecordToDocument converts a persisted JSONL record into an index
// document. structData values are flattened to strings; the text field
// becomes the document content and is not duplicated into metadata.
func RecordToDocument(rec chunk.Record) Document {
	md := make(map[string]string, len(rec.StructData))
	var text string
	for k, v := range rec.StructData {
		if k == "text" {
			text, _ = v.(string)
			continue
		}
		md[k] = stringify(v)
	}
	if rec.Title != "" && md["title"] == "" {
		md["title"] = rec.Title
	}
	if rec.URI != "" && md["source_uri"] == "" {
		md["source_uri"] = rec.URI
	}
	// Chunk records carry no type field; tag them so deletes can be
	// scoped to one kind of document per source.
	if md["type"] == "" {
		md["type"] = "chunk"
	}
	return Document{ID: rec.ID, Content: text, Metadata: md}
}

// stringify renders a structData value in a form the anchor formatter
// can parse back. JSON numbers decode as float64; integral values are
// rendered without a fractional part.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
