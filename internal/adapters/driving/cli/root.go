// Package cli provides the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/allthriveai/showcase/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Turn GitHub repositories into portfolio projects",
	Long: `showcase ingests a GitHub repository and synthesises a structured
portfolio document from its readme, metadata and dependency manifests,
optionally enriched with an AI-generated architecture diagram and
description.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default ~/.showcase/config.toml)")
}

// Execute runs the root command.
func Execute(buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	return rootCmd.Execute()
}
