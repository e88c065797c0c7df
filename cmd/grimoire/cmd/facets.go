package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/spellcaster/grimoire/internal/facet"
	"github.com/spellcaster/grimoire/internal/ui"
)

// newFacetsCmd creates the facets command.
func newFacetsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Show thematic document counts",
		Long: `Count documents per built-in theme. A document counts toward a theme
when it contains any of the theme's keywords.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, st, err := openEnv()
			if err != nil {
				return err
			}
			defer st.Close()

			counts, err := facet.NewCounter(st).Counts(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(counts)
			}

			order := make([]string, 0, len(facet.Definitions))
			for _, def := range facet.Definitions {
				order = append(order, def.Name)
			}
			ui.NewPrinter(cmd.OutOrStdout()).Facets(counts, order)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output counts as JSON")

	return cmd
}
