package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spellcaster/grimoire/configs"
	"github.com/spellcaster/grimoire/internal/ui"
)

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Write a commented .grimoire.yaml into the working directory and create
the library directory it points at. Existing files are left alone
unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := ui.NewPrinter(cmd.OutOrStdout())

			cfgPath := filepath.Join(configDir, ".grimoire.yaml")
			if _, err := os.Stat(cfgPath); err == nil && !force {
				p.Warnf("%s already exists, use --force to overwrite", cfgPath)
				return nil
			}

			if err := os.WriteFile(cfgPath, []byte(configs.ConfigTemplate), 0o644); err != nil {
				return fmt.Errorf("cannot write %s: %w", cfgPath, err)
			}

			libDir := filepath.Join(configDir, "library")
			if err := os.MkdirAll(libDir, 0o755); err != nil {
				return fmt.Errorf("cannot create %s: %w", libDir, err)
			}

			p.Successf("Wrote %s", cfgPath)
			p.Successf("Created %s, put documents there and run 'grimoire reindex'", libDir)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")

	return cmd
}
