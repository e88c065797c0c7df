package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/spellcaster/grimoire/internal/reindex"
	"github.com/spellcaster/grimoire/internal/ui"
)

// newReindexCmd creates the reindex command.
func newReindexCmd() *cobra.Command {
	var noCleaner bool
	var singleFile string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Synchronize the index with the library on disk",
		Long: `Walk the library, extract text from new and changed files, and
remove index entries for files that no longer exist. Unchanged
documents are left untouched.

With --file, index just that one file without walking the library.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, st, err := openEnv()
			if err != nil {
				return err
			}
			defer st.Close()
			seedFacets(cmd.Context(), st)

			p := ui.NewPrinter(cmd.OutOrStdout())
			rx := newReindexer(cfg, st)
			useCleaner := cfg.Index.UseCleaner && !noCleaner

			if singleFile != "" {
				status, err := rx.IndexFile(cmd.Context(), singleFile, useCleaner)
				if err != nil {
					return err
				}
				switch status.Status {
				case "indexed":
					if status.Searchable == "metadata_only" {
						p.Warnf("Indexed %s by title only, no text could be extracted", status.Path)
					} else {
						p.Successf("Indexed %s", status.Path)
					}
				case "skipped":
					p.Warnf("Skipped %s (%s)", status.Path, status.Reason)
				default:
					p.Errorf("Failed to index %s (%s)", status.Path, status.Reason)
				}
				return nil
			}

			sum, err := rx.Sync(cmd.Context(), reindex.Options{
				UseCleaner:  useCleaner,
				MaxFileSize: cfg.Library.MaxFileSizeBytes(),
			})
			if errors.Is(err, reindex.ErrSyncInProgress) {
				p.Warnf("A sync is already running, try again later")
				return nil
			}
			if err != nil {
				return err
			}
			p.Successf("Scanned %d files: %d new, %d updated, %d removed (%d documents indexed)",
				sum.Scanned, sum.Inserted, sum.Updated, sum.Removed, sum.Total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCleaner, "no-cleaner", false, "Skip text normalization before indexing")
	cmd.Flags().StringVar(&singleFile, "file", "", "Index a single library-relative file instead of syncing")

	return cmd
}
