package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shownotes/internal/config"
	"shownotes/internal/markdown"
	"shownotes/internal/store"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Render the episode show notes as Markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				episode, err := st.Episode(cmd.Context())
				if err != nil {
					return err
				}
				items, err := st.OrderedItems(cmd.Context())
				if err != nil {
					return err
				}

				for _, warning := range markdown.Warnings(episode, items) {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
				}

				fmt.Fprintln(cmd.OutOrStdout(), markdown.Render(cfg.Show, episode, items))
				return nil
			})
		},
	}
}
