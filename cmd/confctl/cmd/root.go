package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confctl/confctl/pkg/config"
	"github.com/confctl/confctl/pkg/log"
)

var (
	// Global flags
	cfgFile   string
	outputDir string
	logLevel  string

	// Version info
	versionInfo struct {
		Version string
		Commit  string
		Date    string
	}

	// Global config, loaded once per invocation
	cfg *config.AppConfig
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "confctl",
	Short: "Generate scenario-driven YAML and Ansible INI inventories",
	Long: `confctl renders YAML configuration files and Ansible-style INI
inventories from a declarative schema, applying a stack of scenarios that
activate based on the process environment.

Features:
  - Declarative schema nodes with defaults, regex fallbacks, and conditions
  - Scenario activation from env vars, a selected scenario name, or always-on
  - Deep, priority-ordered merging of scenario overrides onto a base schema
  - Path and content variable substitution from the environment
  - YAML and Ansible INI rendering from the same schema model`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		log.Init()

		if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
			logLevel = "debug"
		}
		if logLevel != "" {
			if err := log.SetLevelFromString(logLevel); err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
		}

		if cmd.Name() == "version" || cmd.Name() == "schema" || cmd.Name() == "completion" || cmd.Name() == "man" || cmd.Name() == "edit" {
			return nil
		}

		log.WithField("file", cfgFile).Debug("loading scenario configuration")
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load scenario configuration: %w", err)
		}

		return cfg.Validate()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets version information.
func SetVersion(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "template/scenario/config.json", "scenario configuration file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", ".", "directory generated files are written under")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output (shorthand for --log-level=debug)")
}
