package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Export writes all entries as JSONL, one entry per line.
func (s *Store) Export(ctx context.Context, w io.Writer) (int, error) {
	entries, err := s.List(ctx, "")
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return 0, fmt.Errorf("encoding manifest entry %s: %w", e.SourceID, err)
		}
	}
	return len(entries), nil
}

// ExportFile writes the manifest JSONL to the given path.
func (s *Store) ExportFile(ctx context.Context, path string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating manifest directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return s.Export(ctx, f)
}
