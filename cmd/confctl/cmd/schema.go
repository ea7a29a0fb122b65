package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/confctl/confctl/pkg/config"
)

var schemaOutputFile string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON Schema for the scenario configuration file",
	Long: `Generate a JSON Schema document describing template/scenario/config.json.

The schema can be used for IDE autocompletion and validation.

Examples:
  # Output schema to stdout
  confctl schema

  # Write schema to file
  confctl schema -o confctl.schema.json`,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVarP(&schemaOutputFile, "output", "o", "", "output file (default: stdout)")
}

func runSchema(_ *cobra.Command, _ []string) error {
	doc := config.GenerateJSONSchema()

	if schemaOutputFile != "" {
		if err := os.WriteFile(schemaOutputFile, []byte(doc), 0o600); err != nil {
			return fmt.Errorf("failed to write schema file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Schema written to %s\n", schemaOutputFile)
	} else {
		fmt.Print(doc)
	}

	return nil
}
