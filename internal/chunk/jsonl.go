package chunk

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Record is the newline-delimited JSON shape persisted for chunks and
// summaries. Positional fields are flattened into StructData so the
// index can filter on them directly.
type Record struct {
	ID         string         `json:"id"`
	Title      string         `json:"title,omitempty"`
	URI        string         `json:"uri,omitempty"`
	StructData map[string]any `json:"structData"`
}

// ToRecord converts a chunk into its persisted record form.
func ToRecord(c Chunk) Record {
	sd := map[string]any{
		"text":        c.Text,
		"source_id":   c.SourceID,
		"source_type": string(c.SourceType),
		"source_uri":  c.URI,
	}
	if c.Title != "" {
		sd["title"] = c.Title
	}
	if c.Lang != "" {
		sd["lang"] = c.Lang
	}
	if c.TextOriginal != "" {
		sd["text_original"] = c.TextOriginal
	}
	if c.Page != nil {
		sd["page"] = *c.Page
	}
	if c.Slide != nil {
		sd["slide"] = *c.Slide
	}
	if c.StartSec != nil {
		sd["start_sec"] = *c.StartSec
	}
	if c.EndSec != nil {
		sd["end_sec"] = *c.EndSec
	}
	if c.StartSec != nil && c.EndSec != nil {
		sd["duration_sec"] = c.DurationSec
	}
	if c.SegmentCount > 0 {
		sd["segment_count"] = c.SegmentCount
	}
	if c.ContentHash != "" {
		sd["content_hash"] = c.ContentHash
	}
	if !c.CreatedAt.IsZero() {
		sd["created_at"] = c.CreatedAt.Format(time.RFC3339)
	}
	return Record{ID: c.ID, Title: c.Title, URI: c.URI, StructData: sd}
}

// WriteRecords writes records as JSONL, one object per line.
func WriteRecords(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding record %s: %w", r.ID, err)
		}
	}
	return nil
}

// WriteRecordsFile writes records to the given path, creating parent
// directories as needed.
func WriteRecordsFile(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating chunk directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteRecords(f, records)
}

// ReadRecords parses JSONL records, skipping blank lines.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("parsing record at line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return records, nil
}

// ReadRecordsFile reads JSONL records from the given path.
func ReadRecordsFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadRecords(f)
}
