package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect and export the library manifest",
}

var manifestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every ingested source",
	RunE:  runManifestList,
}

var manifestExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export the manifest as JSONL",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runManifestExport,
}

func init() {
	manifestListCmd.Flags().String("type", "", "only list sources of this media type")
	manifestCmd.AddCommand(manifestListCmd)
	manifestCmd.AddCommand(manifestExportCmd)
	rootCmd.AddCommand(manifestCmd)
}

func runManifestList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	typeFilter, _ := cmd.Flags().GetString("type")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, database, err := openManifest(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	entries, err := store.List(ctx, typeFilter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No sources have been ingested yet.")
		return nil
	}

	fmt.Printf("%d source(s):\n\n", len(entries))
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = e.SourceID
		}
		fmt.Printf("  %s [%s] — %d chunks (id: %s)\n", title, e.DocumentType, e.NumChunks, e.SourceID)
	}
	return nil
}

func runManifestExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, database, err := openManifest(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	path := "manifest.jsonl"
	if len(args) == 1 {
		path = args[0]
	}

	n, err := store.ExportFile(ctx, path)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d entries to %s\n", n, path)
	return nil
}
