package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karimjaber/mediarag/internal/extract"
	"github.com/karimjaber/mediarag/internal/index"
	"github.com/karimjaber/mediarag/internal/ingest"
	"github.com/karimjaber/mediarag/internal/progress"
	"github.com/karimjaber/mediarag/internal/summary"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest media files into the library",
	Long: `Scans the source directory (or a single file), extracts text from each
media file, chunks it with citation anchors, generates document
summaries, records everything in the manifest, and imports the results
into the search index.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("file", "", "ingest a single file instead of scanning the source directory")
	ingestCmd.Flags().String("type", "", "override media type detection for --file (pdf, audio, video, image, srt)")
	ingestCmd.Flags().Bool("dry-run", false, "show what would be ingested without writing anything")
	ingestCmd.Flags().Float64("window", 0, "chunk window size in seconds (overrides config)")
	ingestCmd.Flags().Bool("no-summaries", false, "skip document summary generation")
	ingestCmd.Flags().Bool("no-import", false, "skip importing into the search index")
	ingestCmd.Flags().Bool("force", false, "re-ingest files even if unchanged")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	onlyFile, _ := cmd.Flags().GetString("file")
	forceType, _ := cmd.Flags().GetString("type")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	window, _ := cmd.Flags().GetFloat64("window")
	noSummaries, _ := cmd.Flags().GetBool("no-summaries")
	noImport, _ := cmd.Flags().GetBool("no-import")
	force, _ := cmd.Flags().GetBool("force")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if window > 0 {
		cfg.WindowSeconds = window
	}
	if noSummaries {
		cfg.AutoSummarize = false
	}
	if noImport {
		cfg.AutoImport = false
	}
	if force {
		cfg.SkipExisting = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, database, err := openManifest(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	deps := ingest.PipelineDeps{
		Store:    store,
		Reporter: progress.NewReporter(),
	}

	// The transcriber and captioner ride on the OpenAI API regardless of
	// the configured chat provider.
	if transcriber, err := extract.NewWhisperTranscriber(cfg.ASRModel); err == nil {
		deps.Transcriber = transcriber
	} else if verbose {
		fmt.Printf("transcription disabled: %v\n", err)
	}
	if captioner, err := extract.NewVisionCaptioner(cfg.VisionModel); err == nil {
		deps.Captioner = captioner
	} else if verbose {
		fmt.Printf("image captioning disabled: %v\n", err)
	}
	deps.Pages = extract.NewLayoutClient(cfg.LayoutServiceURL)

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}
	if cfg.SourceLanguage != "" && cfg.SourceLanguage != cfg.TargetLanguage {
		deps.Translator = extract.NewLLMTranslator(provider, cfg.Model)
	}
	if cfg.AutoSummarize {
		deps.Summarizer = summary.NewGenerator(provider, cfg.Model)
	}

	var idx *index.ChromemIndex
	if cfg.AutoImport && !dryRun {
		idx, err = openIndex(ctx, cfg)
		if err != nil {
			return err
		}
		deps.Importer = index.NewImporter(idx)
	}

	pipeline := ingest.NewPipeline(cfg, deps)
	result, err := pipeline.Run(ctx, ingest.Options{
		DryRun:    dryRun,
		OnlyFile:  onlyFile,
		ForceType: forceType,
	})
	if err != nil {
		return err
	}

	if idx != nil {
		if err := idx.Persist(ctx, cfg.DataDir); err != nil {
			return fmt.Errorf("persisting index: %w", err)
		}
	}

	fmt.Printf("\nProcessed %d file(s), skipped %d, wrote %d chunk(s)\n",
		result.Processed, result.Skipped, result.ChunksWritten)
	if len(result.Failures) > 0 {
		fmt.Printf("%d file(s) failed:\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("  %s: %s\n", f.URI, f.Error)
		}
	}
	return nil
}
