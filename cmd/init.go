package cmd

import (
	"github.com/spf13/cobra"

	"github.com/karimjaber/mediarag/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mediarag configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure mediarag for your library and generates a .mediarag.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
