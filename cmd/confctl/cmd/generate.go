package cmd

import (
	"github.com/spf13/cobra"

	"github.com/confctl/confctl/internal/generate"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate output files for the active scenarios",
	Long: `Generate determines which scenarios are active in the current
environment, validates their required environment variables and schema
templates, merges their schema overrides in priority order, and renders
the resulting YAML and INI files.

Examples:
  # Generate into the current directory
  confctl generate

  # Generate into a specific output tree
  confctl generate -o ./dist

  # Use a non-default scenario configuration file
  confctl generate -c ./scenario/config.json`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	return generate.Run(generate.Options{
		ConfigPath: cfgFile,
		OutputDir:  outputDir,
		Check:      false,
	})
}
