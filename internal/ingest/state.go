package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State tracks which files have been ingested and their content hashes,
// so unchanged files can be skipped on re-ingestion.
type State struct {
	FileHashes  map[string]string `json:"file_hashes"`
	LastUpdated time.Time         `json:"last_updated"`
}

// LoadState reads ingestion state from state.json inside the data directory.
func LoadState(dataDir string) (*State, error) {
	path := filepath.Join(dataDir, "state.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{FileHashes: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	if state.FileHashes == nil {
		state.FileHashes = make(map[string]string)
	}
	return &state, nil
}

// Save writes the ingestion state to state.json inside the data directory.
func (s *State) Save(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	s.LastUpdated = time.Now()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}

	return os.WriteFile(filepath.Join(dataDir, "state.json"), data, 0o644)
}

// IsFileChanged returns true if the file's content hash differs from the
// stored hash, or no hash is stored.
func (s *State) IsFileChanged(relPath, contentHash string) bool {
	stored, ok := s.FileHashes[relPath]
	if !ok {
		return true
	}
	return stored != contentHash
}
