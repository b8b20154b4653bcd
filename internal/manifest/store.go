package manifest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/karimjaber/mediarag/internal/db"
)

// Store manages persistence of manifest entries and ingest runs.
type Store struct {
	db *db.DB
}

// NewStore creates a new manifest store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Upsert inserts the entry or replaces the existing entry with the same
// source_id, preserving the original created_at.
func (s *Store) Upsert(ctx context.Context, e Entry) error {
	if e.SourceID == "" {
		return fmt.Errorf("source_id is required")
	}
	now := time.Now().UTC()
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO manifest_entries
		   (source_id, title, document_type, language, source_uri, chunks_uri, summary_uri,
		    num_chunks, author, speaker, organization, date, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_id) DO UPDATE SET
		   title = excluded.title,
		   document_type = excluded.document_type,
		   language = excluded.language,
		   source_uri = excluded.source_uri,
		   chunks_uri = excluded.chunks_uri,
		   summary_uri = excluded.summary_uri,
		   num_chunks = excluded.num_chunks,
		   author = excluded.author,
		   speaker = excluded.speaker,
		   organization = excluded.organization,
		   date = excluded.date,
		   tags = excluded.tags,
		   updated_at = excluded.updated_at`,
		e.SourceID, e.Title, e.DocumentType, e.Language, e.SourceURI, e.ChunksURI,
		nullable(e.SummaryURI), e.NumChunks, nullable(e.Author), nullable(e.Speaker),
		nullable(e.Organization), nullable(e.Date), string(tags), now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting manifest entry: %w", err)
	}
	return nil
}

// Get returns the entry for the given source_id, or nil if absent.
func (s *Store) Get(ctx context.Context, sourceID string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` FROM manifest_entries WHERE source_id = ?`, sourceID)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting manifest entry: %w", err)
	}
	return e, nil
}

// List returns entries, optionally filtered by document type, newest first.
func (s *Store) List(ctx context.Context, documentType string) ([]Entry, error) {
	query := selectColumns + ` FROM manifest_entries`
	args := []any{}
	if documentType != "" {
		query += ` WHERE document_type = ?`
		args = append(args, documentType)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing manifest entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning manifest entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Delete removes an entry. Deleting an absent entry is not an error.
func (s *Store) Delete(ctx context.Context, sourceID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM manifest_entries WHERE source_id = ?`, sourceID)
	if err != nil {
		return fmt.Errorf("deleting manifest entry: %w", err)
	}
	return nil
}

// StartRun records the beginning of an ingestion batch and returns its id.
func (s *Store) StartRun(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_runs (id, started_at) VALUES (?, ?)`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("starting ingest run: %w", err)
	}
	return id, nil
}

// FinishRun records the outcome of an ingestion batch, including any
// per-file failures.
func (s *Store) FinishRun(ctx context.Context, runID string, processed, skipped, chunksWritten int, failures []Failure) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE ingest_runs SET finished_at = ?, files_processed = ?, files_skipped = ?,
		   files_failed = ?, chunks_written = ? WHERE id = ?`,
		time.Now().UTC(), processed, skipped, len(failures), chunksWritten, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing ingest run: %w", err)
	}
	for _, f := range failures {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO ingest_failures (run_id, uri, error) VALUES (?, ?, ?)`,
			runID, f.URI, f.Error,
		); err != nil {
			return fmt.Errorf("recording ingest failure: %w", err)
		}
	}
	return nil
}

// LastRun returns the most recently started run with its failures, or
// nil if no run has been recorded.
func (s *Store) LastRun(ctx context.Context) (*Run, []Failure, error) {
	var r Run
	var finished sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, files_processed, files_skipped, files_failed, chunks_written
		 FROM ingest_runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&r.ID, &r.StartedAt, &finished, &r.FilesProcessed, &r.FilesSkipped, &r.FilesFailed, &r.ChunksWritten)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("getting last run: %w", err)
	}
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT uri, error FROM ingest_failures WHERE run_id = ?`, r.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing run failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.URI, &f.Error); err != nil {
			return nil, nil, fmt.Errorf("scanning run failure: %w", err)
		}
		failures = append(failures, f)
	}
	return &r, failures, rows.Err()
}

const selectColumns = `SELECT source_id, title, document_type, language, source_uri, chunks_uri,
	summary_uri, num_chunks, author, speaker, organization, date, tags, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var summaryURI, author, speaker, organization, date sql.NullString
	var tags string

	err := row.Scan(&e.SourceID, &e.Title, &e.DocumentType, &e.Language, &e.SourceURI,
		&e.ChunksURI, &summaryURI, &e.NumChunks, &author, &speaker, &organization,
		&date, &tags, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.SummaryURI = summaryURI.String
	e.Author = author.String
	e.Speaker = speaker.String
	e.Organization = organization.String
	e.Date = date.String
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		e.Tags = nil
	}
	return &e, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
