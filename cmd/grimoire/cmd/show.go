package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spellcaster/grimoire/internal/store"
	"github.com/spellcaster/grimoire/internal/ui"
)

// newShowCmd creates the show command.
func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id|path>",
		Short: "Print an indexed document",
		Long:  `Print the full stored text of a document, looked up by id or by path.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openEnv()
			if err != nil {
				return err
			}
			defer st.Close()

			var doc *store.Document
			if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
				doc, err = st.GetByID(cmd.Context(), id)
			} else {
				doc, err = st.GetByPath(cmd.Context(), args[0])
			}
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no indexed document matches %q", args[0])
			}
			if err != nil {
				return err
			}

			ui.NewPrinter(cmd.OutOrStdout()).Document(doc)
			return nil
		},
	}
	return cmd
}
