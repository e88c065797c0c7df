package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spellcaster/grimoire/internal/ui"
)

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index status",
		Long:  `Report document count, index consistency and the most recent document.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, st, err := openEnv()
			if err != nil {
				return err
			}
			defer st.Close()

			docs, ftsRows, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			newest, err := st.Newest(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				body := map[string]any{
					"db_path":      resolvePath(cfg.Index.DBPath),
					"library_root": resolvePath(cfg.Library.Root),
					"documents":    docs,
					"indexed":      ftsRows,
					"consistent":   docs == ftsRows,
				}
				if newest != nil {
					body["newest"] = map[string]any{
						"id": newest.ID, "title": newest.Title, "path": newest.Path,
					}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(body)
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Index:    %s\n", resolvePath(cfg.Index.DBPath))
			fmt.Fprintf(out, "Library:  %s\n", resolvePath(cfg.Library.Root))
			fmt.Fprintf(out, "Documents: %d\n", docs)
			if docs == ftsRows {
				p.Successf("Index is consistent (%d rows)", ftsRows)
			} else {
				p.Warnf("Index mismatch: %d documents vs %d index rows, run reindex", docs, ftsRows)
			}
			if newest != nil {
				fmt.Fprintf(out, "Newest:   %s (%s)\n", newest.Title, newest.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")

	return cmd
}
