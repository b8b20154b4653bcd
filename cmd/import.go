package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/karimjaber/mediarag/internal/index"
)

var importCmd = &cobra.Command{
	Use:   "import [file-or-dir]",
	Short: "Import chunk files into the search index",
	Long: `Imports JSONL chunk files into the index. With no argument, imports
every file under the data directory's chunks/ and summaries/
directories. Re-importing a source replaces its documents, so stale
chunks from earlier ingestions are cleared.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	idx, err := openIndex(ctx, cfg)
	if err != nil {
		return err
	}
	importer := index.NewImporter(idx)

	docs := 0
	if len(args) == 1 {
		info, err := importPath(ctx, importer, args[0])
		if err != nil {
			return err
		}
		docs = info
	} else {
		for _, dir := range []string{"chunks", "summaries"} {
			_, n, err := importer.ImportDir(ctx, filepath.Join(cfg.DataDir, dir))
			if err != nil {
				return err
			}
			docs += n
		}
	}

	if err := idx.Persist(ctx, cfg.DataDir); err != nil {
		return fmt.Errorf("persisting index: %w", err)
	}

	fmt.Printf("Imported %d document(s); index now holds %d\n", docs, idx.Count())
	return nil
}

func importPath(ctx context.Context, importer *index.Importer, path string) (int, error) {
	if filepath.Ext(path) == ".jsonl" {
		return importer.ImportFile(ctx, path)
	}
	_, n, err := importer.ImportDir(ctx, path)
	return n, err
}
