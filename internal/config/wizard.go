package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// mediaMarkers maps file globs to a human-readable description of what
// was found in the source directory.
var mediaMarkers = map[string]string{
	"*.pdf":  "PDF documents",
	"*.mp3":  "audio recordings",
	"*.wav":  "audio recordings",
	"*.mp4":  "video recordings",
	"*.srt":  "subtitle transcripts",
	"*.png":  "images",
	"*.jpg":  "images",
	"*.jpeg": "images",
}

// detectMedia checks a directory for well-known media file types.
func detectMedia(dir string) []string {
	found := map[string]bool{}
	for glob, desc := range mediaMarkers {
		matches, _ := filepath.Glob(filepath.Join(dir, glob))
		if len(matches) > 0 {
			found[desc] = true
		}
	}
	var descs []string
	for desc := range found {
		descs = append(descs, desc)
	}
	return descs
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .mediarag.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to mediarag! Let's configure your library.")
	fmt.Println()

	// 1. Source directory.
	sourcePrompt := promptui.Prompt{
		Label:   "Directory containing your media files",
		Default: "data",
	}
	sourceDir, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source dir: %w", err)
	}

	if found := detectMedia(sourceDir); len(found) > 0 {
		fmt.Printf("Found: %s\n\n", strings.Join(found, ", "))
	}

	// 2. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "google", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 3. Quality tier.
	qualityPrompt := promptui.Select{
		Label: "Select quality tier",
		Items: []string{
			"lite   — fast & cheap (gpt-4o-mini / gemini-flash)",
			"normal — balanced (gpt-4o / gemini-2.5-flash)",
			"max    — highest quality (gpt-4o / gemini-2.5-pro)",
		},
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	quality := tiers[qualityIdx]

	preset := GetPreset(provider, quality)

	// 4. Answer language.
	langPrompt := promptui.Prompt{
		Label:   "Language for answers and summaries (ISO code)",
		Default: "en",
	}
	targetLang, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("target language: %w", err)
	}

	// 5. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	exclude := DefaultExcludes
	if excludeStr != "" {
		exclude = append(exclude, splitAndTrim(excludeStr)...)
	}

	// Build the config.
	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = preset.Model
	cfg.EmbeddingProvider = embeddingProviderFor(provider)
	cfg.EmbeddingModel = preset.EmbeddingModel
	cfg.Quality = quality
	cfg.SourceDir = sourceDir
	cfg.TargetLanguage = targetLang
	cfg.Exclude = exclude

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running mediarag ingest.\n", envVar)
		}
	}

	// Save to .mediarag.yml.
	configPath := ".mediarag.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// embeddingProviderFor returns the default embedding provider for a given
// LLM provider. OpenAI embeddings are used for all cloud providers.
func embeddingProviderFor(p ProviderType) ProviderType {
	if p == ProviderOllama {
		return ProviderOllama
	}
	return ProviderOpenAI
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
