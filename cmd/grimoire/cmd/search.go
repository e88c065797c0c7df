package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spellcaster/grimoire/internal/search"
	"github.com/spellcaster/grimoire/internal/ui"
)

// newSearchCmd creates the search command.
func newSearchCmd() *cobra.Command {
	var limit int
	var jsonOutput bool
	var noFallback bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the index",
		Long: `Search indexed documents. Plain words match as prefixes; quoted
phrases and AND/OR/NOT expressions are passed through unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openEnv()
			if err != nil {
				return err
			}
			defer st.Close()

			s := search.New(st)
			res, err := s.Run(cmd.Context(), strings.Join(args, " "), search.Options{
				Limit:        limitOrDefault(limit, cfg.Search.MaxResults),
				LikeFallback: cfg.Search.LikeFallback && !noFallback,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			ui.NewPrinter(cmd.OutOrStdout()).SearchResult(res)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&noFallback, "no-fallback", false, "Disable the substring fallback scan")

	return cmd
}

func limitOrDefault(limit, max int) int {
	if limit > 0 && limit < max {
		return limit
	}
	return max
}
