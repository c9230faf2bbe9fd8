package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shownotes/internal/config"
	"shownotes/internal/store"
)

func newEpisodeCommand(ctx *commandContext) *cobra.Command {
	episodeCmd := &cobra.Command{
		Use:   "episode",
		Short: "Manage the current episode",
	}

	episodeCmd.AddCommand(newEpisodeShowCommand(ctx))
	episodeCmd.AddCommand(newEpisodeSetCommand(ctx))
	episodeCmd.AddCommand(newEpisodeResetCommand(ctx))

	return episodeCmd
}

func newEpisodeShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				episode, err := st.Episode(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, episode)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Week:    %d\n", episode.WeekNumber)
				fmt.Fprintf(out, "Year:    %d\n", episode.Year)
				fmt.Fprintf(out, "YouTube: %s\n", valueOrDash(episode.YouTubeURL))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func newEpisodeSetCommand(ctx *commandContext) *cobra.Command {
	var week int
	var year int
	var youtubeURL string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the episode week, year, and YouTube URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if week < 1 || week > 53 {
				return fmt.Errorf("--week must be between 1 and 53, got %d", week)
			}
			if year < 2020 {
				return fmt.Errorf("--year must be >= 2020, got %d", year)
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				current, err := st.Episode(cmd.Context())
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("youtube") {
					youtubeURL = current.YouTubeURL
				}
				episode, err := st.UpdateEpisode(cmd.Context(), week, year, youtubeURL)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Episode set to week %d of %d\n", episode.WeekNumber, episode.Year)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "ISO week number (1-53)")
	cmd.Flags().IntVar(&year, "year", 0, "Year (>= 2020)")
	cmd.Flags().StringVar(&youtubeURL, "youtube", "", "YouTube URL for the published episode")
	_ = cmd.MarkFlagRequired("week")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newEpisodeResetCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all items and start a fresh episode for the current week",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("reset deletes every item; pass --yes to confirm")
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				episode, err := st.ResetEpisode(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Episode reset to week %d of %d\n", episode.WeekNumber, episode.Year)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Confirm the reset")
	return cmd
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
