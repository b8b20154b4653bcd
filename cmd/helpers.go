package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/karimjaber/mediarag/internal/config"
	"github.com/karimjaber/mediarag/internal/db"
	"github.com/karimjaber/mediarag/internal/embeddings"
	"github.com/karimjaber/mediarag/internal/index"
	"github.com/karimjaber/mediarag/internal/llm"
	"github.com/karimjaber/mediarag/internal/manifest"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `mediarag init` to create a config file", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		preset := config.GetPreset(provider, cfg.Quality)
		model = preset.EmbeddingModel
	}

	switch provider {
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(model, 768, ""), nil
	default:
		// Embeddings go through OpenAI for all cloud providers.
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required (used for embeddings when provider is %s)", provider)
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.Model)
}

// openIndex creates the index and loads its snapshot from the data
// directory if one exists.
func openIndex(ctx context.Context, cfg *config.Config) (*index.ChromemIndex, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	idx, err := index.NewChromemIndex(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	if err := idx.Load(ctx, cfg.DataDir); err != nil {
		return nil, fmt.Errorf("loading index from %s: %w", cfg.DataDir, err)
	}
	return idx, nil
}

// openManifest opens the manifest database inside the data directory.
func openManifest(cfg *config.Config) (*manifest.Store, *db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, "manifest.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening manifest db: %w", err)
	}
	return manifest.NewStore(database), database, nil
}

func displayTitle(r index.Result) string {
	if r.Title != "" {
		return r.Title
	}
	if t := r.Metadata["title"]; t != "" {
		return t
	}
	return "Unknown Document"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
