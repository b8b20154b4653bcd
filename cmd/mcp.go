package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karimjaber/mediarag/internal/mcp"
	"github.com/karimjaber/mediarag/internal/synthesis"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the library over the Model Context Protocol (stdio)",
	Long: `Starts an MCP server on stdio exposing search_library, ask_library,
and list_sources tools for AI agent clients.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	idx, err := openIndex(ctx, cfg)
	if err != nil {
		return err
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}
	synthesizer := synthesis.NewSynthesizer(provider, cfg.Model)

	store, database, err := openManifest(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	srv := mcp.NewServer(idx, synthesizer, store, cfg.TargetLanguage)
	return srv.Serve()
}
