package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/karimjaber/mediarag/internal/chunk"
	"github.com/karimjaber/mediarag/internal/config"
	"github.com/karimjaber/mediarag/internal/extract"
	"github.com/karimjaber/mediarag/internal/manifest"
	"github.com/karimjaber/mediarag/internal/progress"
	"github.com/karimjaber/mediarag/internal/srt"
	"github.com/karimjaber/mediarag/internal/summary"
)

// Summarizer produces a document-level summary record for a source.
type Summarizer interface {
	Generate(ctx context.Context, src chunk.Source, chunks []chunk.Chunk, meta summary.Metadata) (*chunk.Record, error)
}

// Importer loads a chunk file into the search index.
type Importer interface {
	ImportFile(ctx context.Context, path string) (int, error)
}

// Options control a single pipeline run.
type Options struct {
	DryRun    bool   // Scan and report, but write nothing.
	OnlyFile  string // Ingest a single file instead of scanning SourceDir.
	ForceType string // Override media type detection for OnlyFile.
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	RunID         string
	Processed     int
	Skipped       int
	ChunksWritten int
	Failures      []manifest.Failure
}

// Pipeline orchestrates ingestion: scan, extract, chunk, summarize,
// record in the manifest, and import into the index. Each file is
// processed independently; one failure never aborts the run.
type Pipeline struct {
	cfg         *config.Config
	transcriber extract.Transcriber
	translator  extract.Translator
	pages       extract.PageExtractor
	captioner   extract.Captioner
	summarizer  Summarizer
	store       *manifest.Store
	importer    Importer
	reporter    progress.Reporter
}

// PipelineDeps bundles the collaborators a Pipeline needs. Nil optional
// fields (summarizer, importer, reporter) disable the corresponding step.
type PipelineDeps struct {
	Transcriber extract.Transcriber
	Translator  extract.Translator
	Pages       extract.PageExtractor
	Captioner   extract.Captioner
	Summarizer  Summarizer
	Store       *manifest.Store
	Importer    Importer
	Reporter    progress.Reporter
}

// NewPipeline creates a pipeline over the given configuration and
// collaborators.
func NewPipeline(cfg *config.Config, deps PipelineDeps) *Pipeline {
	reporter := deps.Reporter
	if reporter == nil {
		reporter = progress.NilReporter{}
	}
	return &Pipeline{
		cfg:         cfg,
		transcriber: deps.Transcriber,
		translator:  deps.Translator,
		pages:       deps.Pages,
		captioner:   deps.Captioner,
		summarizer:  deps.Summarizer,
		store:       deps.Store,
		importer:    deps.Importer,
		reporter:    reporter,
	}
}

// Run executes the pipeline and returns per-run counters.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*RunResult, error) {
	files, err := p.discover(opts)
	if err != nil {
		return nil, err
	}

	state, err := LoadState(p.cfg.DataDir)
	if err != nil {
		return nil, err
	}

	result := &RunResult{}
	if !opts.DryRun && p.store != nil {
		result.RunID, err = p.store.StartRun(ctx)
		if err != nil {
			return nil, err
		}
	}

	p.reporter.Start(len(files))
	for i, f := range files {
		p.reporter.Update(i+1, f.RelPath)

		if p.cfg.SkipExisting && !state.IsFileChanged(f.RelPath, f.ContentHash) {
			result.Skipped++
			continue
		}
		if opts.DryRun {
			log.Printf("would ingest %s (%s)", f.RelPath, f.Type)
			result.Processed++
			continue
		}

		n, err := p.processFile(ctx, f)
		if err != nil {
			log.Printf("ingesting %s: %v", f.RelPath, err)
			result.Failures = append(result.Failures, manifest.Failure{URI: f.RelPath, Error: err.Error()})
			continue
		}

		result.Processed++
		result.ChunksWritten += n
		state.FileHashes[f.RelPath] = f.ContentHash
	}
	p.reporter.Finish()

	if !opts.DryRun {
		if err := state.Save(p.cfg.DataDir); err != nil {
			return nil, err
		}
		if p.store != nil {
			if err := p.store.FinishRun(ctx, result.RunID, result.Processed, result.Skipped, result.ChunksWritten, result.Failures); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// discover lists the files to ingest, either a single file or a scan of
// the source directory.
func (p *Pipeline) discover(opts Options) ([]FileInfo, error) {
	if opts.OnlyFile == "" {
		return Scan(ScanConfig{
			RootDir: p.cfg.SourceDir,
			Include: p.cfg.Include,
			Exclude: p.cfg.Exclude,
		})
	}

	abs, err := filepath.Abs(opts.OnlyFile)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", opts.OnlyFile, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.OnlyFile, err)
	}

	mediaType, ok := DetectType(abs)
	if opts.ForceType != "" {
		mediaType, ok = chunk.SourceType(opts.ForceType), true
	}
	if !ok {
		return nil, fmt.Errorf("unrecognized media type for %s", opts.OnlyFile)
	}

	hash, err := hashFile(abs)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", opts.OnlyFile, err)
	}

	return []FileInfo{{
		Path:        abs,
		RelPath:     filepath.ToSlash(filepath.Base(abs)),
		Size:        info.Size(),
		Type:        mediaType,
		ContentHash: hash,
	}}, nil
}

// processFile turns one file into chunks, writes them, summarizes,
// records the manifest entry, and imports into the index.
func (p *Pipeline) processFile(ctx context.Context, f FileInfo) (int, error) {
	sourceID := SourceIDFromPath(f.Path)
	src := chunk.Source{
		ID:    sourceID,
		Type:  f.Type,
		Title: titleFromPath(f.Path),
		URI:   f.RelPath,
		Lang:  p.cfg.TargetLanguage,
	}

	chunks, err := p.extractChunks(ctx, src, f)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no text extracted from %s", f.RelPath)
	}

	records := make([]chunk.Record, 0, len(chunks))
	for _, c := range chunks {
		records = append(records, chunk.ToRecord(c))
	}

	chunksPath := filepath.Join(p.cfg.DataDir, "chunks", sourceID+".jsonl")
	if err := chunk.WriteRecordsFile(chunksPath, records); err != nil {
		return 0, err
	}

	summaryPath := ""
	if p.cfg.AutoSummarize && p.summarizer != nil {
		rec, err := p.summarizer.Generate(ctx, src, chunks, summary.Metadata{Lang: src.Lang})
		if err != nil {
			// A failed summary degrades retrieval but the chunks are
			// still usable, so log and continue.
			log.Printf("summarizing %s: %v", f.RelPath, err)
		} else {
			summaryPath = filepath.Join(p.cfg.DataDir, "summaries", sourceID+".jsonl")
			if err := chunk.WriteRecordsFile(summaryPath, []chunk.Record{*rec}); err != nil {
				return 0, err
			}
		}
	}

	if p.store != nil {
		entry := manifest.Entry{
			SourceID:     sourceID,
			Title:        src.Title,
			DocumentType: string(f.Type),
			Language:     src.Lang,
			SourceURI:    f.RelPath,
			ChunksURI:    chunksPath,
			SummaryURI:   summaryPath,
			NumChunks:    len(records),
		}
		if err := p.store.Upsert(ctx, entry); err != nil {
			return 0, err
		}
	}

	if p.cfg.AutoImport && p.importer != nil {
		if _, err := p.importer.ImportFile(ctx, chunksPath); err != nil {
			return 0, err
		}
		if summaryPath != "" {
			if _, err := p.importer.ImportFile(ctx, summaryPath); err != nil {
				return 0, err
			}
		}
	}

	return len(records), nil
}

// extractChunks routes a file to the extractor for its media type.
func (p *Pipeline) extractChunks(ctx context.Context, src chunk.Source, f FileInfo) ([]chunk.Chunk, error) {
	switch f.Type {
	case chunk.SourceTypeSRT:
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.RelPath, err)
		}
		return p.timedChunks(ctx, src, srt.Parse(string(data)))

	case chunk.SourceTypeAudio, chunk.SourceTypeVideo:
		if p.transcriber == nil {
			return nil, fmt.Errorf("no transcriber configured for %s", f.RelPath)
		}
		segments, err := p.transcriber.Transcribe(ctx, f.Path, p.cfg.SourceLanguage)
		if err != nil {
			return nil, err
		}
		return p.timedChunks(ctx, src, segments)

	case chunk.SourceTypePDF:
		if p.pages == nil {
			return nil, fmt.Errorf("no page extractor configured for %s", f.RelPath)
		}
		extracted, err := p.pages.ExtractPages(ctx, f.Path)
		if err != nil {
			return nil, err
		}
		pages := make([]chunk.Page, 0, len(extracted))
		for _, pg := range extracted {
			pages = append(pages, chunk.Page{Number: pg.Number, Text: pg.Text})
		}
		return chunk.PageChunks(src, pages), nil

	case chunk.SourceTypeImage:
		if p.captioner == nil {
			return nil, fmt.Errorf("no captioner configured for %s", f.RelPath)
		}
		caption, err := p.captioner.Caption(ctx, f.Path)
		if err != nil {
			return nil, err
		}
		return []chunk.Chunk{chunk.NewPlainChunk(src, caption, "")}, nil

	default:
		return nil, fmt.Errorf("unsupported media type %q", f.Type)
	}
}

// timedChunks optionally translates segments, then windows them into
// time-anchored chunks. Original-language text is carried alongside the
// translation so citations can quote the source verbatim.
func (p *Pipeline) timedChunks(ctx context.Context, src chunk.Source, segments []chunk.Segment) ([]chunk.Chunk, error) {
	translated := segments
	if p.translator != nil && p.cfg.SourceLanguage != "" && p.cfg.SourceLanguage != p.cfg.TargetLanguage {
		var err error
		translated, err = p.translator.Translate(ctx, segments, p.cfg.SourceLanguage, p.cfg.TargetLanguage)
		if err != nil {
			return nil, err
		}
	}

	windows := chunk.WindowSegments(translated, p.cfg.WindowSeconds)
	originals := chunk.WindowSegments(segments, p.cfg.WindowSeconds)

	chunks := make([]chunk.Chunk, 0, len(windows))
	for i, w := range windows {
		c := chunk.NewTimeChunk(src, w)
		if p.translator != nil && i < len(originals) && originals[i].Text != w.Text {
			c.TextOriginal = originals[i].Text
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// titleFromPath derives a display title from a file name.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.ReplaceAll(base, "_", " ")
}
