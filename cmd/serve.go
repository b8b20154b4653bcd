package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karimjaber/mediarag/internal/index"
	"github.com/karimjaber/mediarag/internal/server"
	"github.com/karimjaber/mediarag/internal/synthesis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query API over HTTP and WebSocket",
	Long: `Starts the HTTP server: POST /api/ask for cited answers, GET
/api/search for raw retrieval, /api/manifest for the catalog, /library
for the HTML catalog page, and /ws/ask for WebSocket queries.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	port, _ := cmd.Flags().GetInt("port")
	allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.ServerPort
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

	srv := server.New(server.Config{
		Port:     port,
		DataDir:  cfg.DataDir,
		AllowAll: allowAll,
	}, cfg, idx, synthesizer, store, index.NewImporter(idx))

	return srv.Start()
}
