package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"

	"github.com/karimjaber/mediarag/internal/embeddings"
)

const (
	collectionName = "library"
	snapshotFile   = "chromem.gob.gz"
)

// ChromemIndex implements Index using chromem-go.
type ChromemIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemIndex creates a new in-memory index using the given embedder
// for both document and query embeddings.
func NewChromemIndex(embedder embeddings.Embedder) (*ChromemIndex, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemIndex{db: db, collection: col, embedFunc: ef}, nil
}

func (s *ChromemIndex) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		}
	}

	return s.collection.AddDocuments(ctx, chromDocs, 1)
}

func (s *ChromemIndex) Search(ctx context.Context, query string, limit int, where map[string]string) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}
	if len(where) == 0 {
		where = nil
	}

	hits, err := s.collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			ID:         h.ID,
			Title:      h.Metadata["title"],
			URI:        h.Metadata["source_uri"],
			Text:       h.Content,
			Metadata:   h.Metadata,
			Similarity: h.Similarity,
		}
	}
	return results, nil
}

func (s *ChromemIndex) Delete(ctx context.Context, where map[string]string, ids ...string) error {
	if s.collection.Count() == 0 {
		return nil
	}
	if len(where) == 0 {
		where = nil
	}
	return s.collection.Delete(ctx, where, nil, ids...)
}

func (s *ChromemIndex) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(filepath.Join(dir, snapshotFile), true, "")
}

func (s *ChromemIndex) Load(ctx context.Context, dir string) error {
	path := filepath.Join(dir, snapshotFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// No snapshot yet; keep the empty collection.
		return nil
	}
	if err := s.db.ImportFromFile(path, ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemIndex) Count() int {
	return s.collection.Count()
}
