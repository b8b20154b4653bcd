// Package index provides the searchable document store the query path
// retrieves from. Chunks and document summaries live in one collection;
// the query path tells them apart by ID prefix and metadata type.
package index

import "context"

// Document is a unit of content stored in the index. Metadata is a flat
// string mapping so the underlying store can filter on any field.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Result is a retrieved record with its relevance score. Title and URI
// are lifted out of metadata for convenience; Metadata retains the full
// flat mapping for anchor formatting and source resolution downstream.
type Result struct {
	ID         string
	Title      string
	URI        string
	Text       string
	Metadata   map[string]string
	Similarity float32
}

// Index is the storage interface for chunk and summary documents.
type Index interface {
	// Add upserts documents into the index.
	Add(ctx context.Context, docs []Document) error

	// Search returns up to limit results for the query, optionally
	// restricted to documents whose metadata matches where exactly.
	// Results are ordered by descending relevance.
	Search(ctx context.Context, query string, limit int, where map[string]string) ([]Result, error)

	// Delete removes documents matching every where field exactly, plus
	// any listed by ID. At least one of where or ids must be given.
	Delete(ctx context.Context, where map[string]string, ids ...string) error

	// Persist writes the index to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the index from the given directory.
	Load(ctx context.Context, dir string) error

	// Count returns the number of stored documents.
	Count() int
}
