// Package cmd provides the CLI commands for the grimoire binary.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spellcaster/grimoire/internal/config"
	"github.com/spellcaster/grimoire/internal/logging"
	"github.com/spellcaster/grimoire/internal/ui"
	"github.com/spellcaster/grimoire/pkg/version"
)

var (
	configDir string
	debugMode bool
	noColor   bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the grimoire CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grimoire",
		Short: "Full-text search over a directory of documents",
		Long: `Grimoire indexes a directory tree of text, markdown and PDF files
into a local full-text index and searches it with ranked results
and highlighted snippets.

Run 'grimoire reindex' to build the index, then 'grimoire search'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("grimoire version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory containing .grimoire.yaml")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.grimoire/logs/")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if noColor {
			ui.ForcePlain()
		}
		return setupLogging(c, args)
	}
	cmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if loggingCleanup != nil {
			loggingCleanup()
			loggingCleanup = nil
		}
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newReindexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newFacetsCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogging enables file logging for --debug runs. Command results
// themselves go to stdout, never through slog.
func setupLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("Debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

// loadConfig reads the configuration for the chosen working directory.
func loadConfig() (*config.Config, error) {
	return config.Load(configDir)
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
