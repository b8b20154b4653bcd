// Package manifest tracks every ingested source: where it came from,
// where its chunks and summary landed, and the bibliographic metadata
// cited in answers.
package manifest

import "time"

// Entry is one manifest record, keyed by source_id. Re-ingesting the
// same source upserts the entry rather than appending a duplicate.
type Entry struct {
	SourceID     string    `json:"source_id"`
	Title        string    `json:"title"`
	DocumentType string    `json:"document_type"`
	Language     string    `json:"language,omitempty"`
	SourceURI    string    `json:"source_uri"`
	ChunksURI    string    `json:"chunks_uri"`
	SummaryURI   string    `json:"summary_uri,omitempty"`
	NumChunks    int       `json:"num_chunks"`
	Author       string    `json:"author,omitempty"`
	Speaker      string    `json:"speaker,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Date         string    `json:"date,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Run records one ingestion batch.
type Run struct {
	ID             string     `json:"id"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	FilesProcessed int        `json:"files_processed"`
	FilesSkipped   int        `json:"files_skipped"`
	FilesFailed    int        `json:"files_failed"`
	ChunksWritten  int        `json:"chunks_written"`
}

// Failure is one file that could not be ingested during a run.
type Failure struct {
	URI   string `json:"uri"`
	Error string `json:"error"`
}
