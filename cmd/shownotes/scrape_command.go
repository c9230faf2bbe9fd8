package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shownotes/internal/scraper"
)

func newScrapeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Fetch a URL and print the extracted metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			result := scraper.New(cfg.Scraper, nil).Scrape(cmd.Context(), args[0])
			if result.FetchFailed {
				return errors.New(result.Error)
			}

			if asJSON {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:      %s\n", valueOrDash(result.Title))
			fmt.Fprintf(out, "Author:     %s\n", valueOrDash(result.AuthorName))
			fmt.Fprintf(out, "Author URL: %s\n", valueOrDash(result.AuthorURL))
			fmt.Fprintf(out, "Domain:     %s\n", valueOrDash(result.Domain))
			if result.Error != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", result.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}
