package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"shownotes/internal/config"
	"shownotes/internal/store"
)

func newItemsCommand(ctx *commandContext) *cobra.Command {
	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "Manage episode items",
	}

	itemsCmd.AddCommand(newItemsListCommand(ctx))
	itemsCmd.AddCommand(newItemsAddCommand(ctx))
	itemsCmd.AddCommand(newItemsDeleteCommand(ctx))

	return itemsCmd
}

func newItemsListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List episode items in presentation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				items, err := st.OrderedItems(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON || !stdoutIsTerminal() {
					return writeJSON(cmd, items)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cfg.Show.VulnerabilityLabel)
				fmt.Fprintln(out, renderItemsTable(items.Vulnerability))
				fmt.Fprintln(out, cfg.Show.NewsLabel)
				fmt.Fprintln(out, renderItemsTable(items.News))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func renderItemsTable(items []store.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		title := item.Title
		if !item.TopLevel() {
			title = "  └ " + title
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			title,
			item.AuthorName,
			item.URL,
		})
	}
	return renderTable([]string{"ID", "Title", "Author", "URL"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft})
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newItemsAddCommand(ctx *commandContext) *cobra.Command {
	var section string
	var title string
	var authorName string
	var authorURL string

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add an item to the episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sec := store.Section(section)
			if !sec.Valid() {
				return fmt.Errorf(`--section must be "vulnerability" or "news", got %q`, section)
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				item, err := st.AddItem(cmd.Context(), sec, args[0], title, authorName, authorURL)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added item %d to %s at position %d\n", item.ID, item.Section, item.SortOrder)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&section, "section", "s", "news", "Section for the item (vulnerability or news)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Item title")
	cmd.Flags().StringVar(&authorName, "author", "", "Author name")
	cmd.Flags().StringVar(&authorURL, "author-url", "", "Author URL")
	return cmd
}

func newItemsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item, promoting its first secondary when it was a primary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				if err := st.DeleteItem(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %d\n", id)
				return nil
			})
		},
	}
}
