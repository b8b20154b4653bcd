package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mediarag",
	Short: "Retrieval-augmented search and Q&A over a mixed-media library",
	Long: `Mediarag ingests PDFs, audio, video, images, and subtitle files into a
searchable library. Every chunk carries a citation anchor (timestamp or
page), so answers can point back to the exact place in the source. It
serves cited answers over HTTP, WebSocket, and MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".mediarag.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
