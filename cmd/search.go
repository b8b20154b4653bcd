package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karimjaber/mediarag/internal/index"
	"github.com/karimjaber/mediarag/internal/synthesis"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantically search the library",
	Long:  `Searches the index using a natural language query and returns matching chunks and summaries with citation anchors.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 10, "maximum number of results")
	searchCmd.Flags().String("type", "", "filter by source type: pdf, audio, video, image, srt")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	queryText := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	typeFilter, _ := cmd.Flags().GetString("type")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	idx, err := openIndex(ctx, cfg)
	if err != nil {
		return err
	}

	if idx.Count() == 0 {
		fmt.Println("Index is empty. Run `mediarag ingest` first.")
		return nil
	}

	var where map[string]string
	if typeFilter != "" {
		where = map[string]string{"source_type": typeFilter}
	}

	results, err := idx.Search(ctx, queryText, limit, where)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if jsonOutput {
		return printSearchResultsJSON(results)
	}

	printSearchResultsTable(results)
	return nil
}

type searchResultJSON struct {
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
	Title      string  `json:"title"`
	SourceID   string  `json:"source_id"`
	Anchor     string  `json:"anchor,omitempty"`
	Type       string  `json:"type"`
	Text       string  `json:"text"`
}

func printSearchResultsJSON(results []index.Result) error {
	var out []searchResultJSON
	for i, r := range results {
		out = append(out, searchResultJSON{
			Rank:       i + 1,
			Similarity: float64(r.Similarity),
			Title:      r.Title,
			SourceID:   synthesis.SourceID(r),
			Anchor:     synthesis.FormatAnchor(r.Metadata),
			Type:       r.Metadata["source_type"],
			Text:       truncate(resultBody(r), 200),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printSearchResultsTable(results []index.Result) {
	fmt.Printf("Found %d results:\n\n", len(results))
	for i, r := range results {
		location := synthesis.SourceID(r)
		if anchor := synthesis.FormatAnchor(r.Metadata); anchor != "" {
			location += " " + anchor
		}

		fmt.Printf("  %d. [%.1f%%] %s — %s\n", i+1, r.Similarity*100, displayTitle(r), location)
		fmt.Printf("     Type: %s\n", r.Metadata["source_type"])
		fmt.Printf("     %s\n\n", truncate(resultBody(r), 120))
	}
}

func resultBody(r index.Result) string {
	if r.Text != "" {
		return r.Text
	}
	return r.Metadata["text"]
}
