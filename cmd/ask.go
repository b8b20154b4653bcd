package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karimjaber/mediarag/internal/synthesis"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the library and get a cited answer",
	Long: `Retrieves the most relevant summaries and chunks for the question and
synthesizes an answer with [S#]/[C#] citations pointing back to the
retrieved sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int("limit", 10, "maximum number of retrieved results")
	askCmd.Flags().String("language", "", "ISO language code for the answer (overrides config)")
	askCmd.Flags().Bool("json", false, "output the full result as JSON")
	askCmd.Flags().Bool("show-prompt", false, "print the synthesis prompt instead of calling the model")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	language, _ := cmd.Flags().GetString("language")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	showPrompt, _ := cmd.Flags().GetBool("show-prompt")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if language == "" {
		language = cfg.TargetLanguage
	}

	idx, err := openIndex(ctx, cfg)
	if err != nil {
		return err
	}
	if idx.Count() == 0 {
		fmt.Println("Index is empty. Run `mediarag ingest` first.")
		return nil
	}

	results, err := idx.Search(ctx, question, limit, nil)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if showPrompt {
		tiered := synthesis.Categorize(results)
		fmt.Println(synthesis.BuildPrompt(question, tiered.Summaries, tiered.Chunks, language))
		return nil
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}
	synthesizer := synthesis.NewSynthesizer(provider, cfg.Model)

	answer := synthesizer.Synthesize(ctx, question, results, language)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	fmt.Println(answer.Answer)
	if len(answer.Summaries) > 0 || len(answer.Chunks) > 0 {
		fmt.Println("\nSources:")
	}
	for i, r := range answer.Summaries {
		fmt.Printf("  [S%d] %s (%s)\n", i+1, displayTitle(r), synthesis.SourceID(r))
	}
	for i, r := range answer.Chunks {
		line := fmt.Sprintf("  [C%d] %s (%s)", i+1, displayTitle(r), synthesis.SourceID(r))
		if anchor := synthesis.FormatAnchor(r.Metadata); anchor != "" {
			line += " " + anchor
		}
		fmt.Println(line)
	}
	return nil
}
