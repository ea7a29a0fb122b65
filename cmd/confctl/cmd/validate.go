package cmd

import (
	"github.com/spf13/cobra"

	"github.com/confctl/confctl/internal/generate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every configured scenario's schema templates",
	Long: `Validate walks every scenario defined in the scenario configuration,
regardless of whether it is active in the current environment, and runs the
structural schema validator over each of its *.yml.json/*.ini.json template
files.

Examples:
  # Validate all scenarios defined in the default config
  confctl validate

  # Validate a specific scenario configuration file
  confctl validate -c ./scenario/config.json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	return generate.Run(generate.Options{
		ConfigPath: cfgFile,
		OutputDir:  outputDir,
		Check:      true,
	})
}
