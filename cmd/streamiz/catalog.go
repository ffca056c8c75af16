package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/streamiz/internal/catalog"
)

var moviesCmd = &cobra.Command{
	Use:     "movies",
	Aliases: []string{"movie"},
	Short:   "Manage movies in the catalog",
}

var showsCmd = &cobra.Command{
	Use:     "shows",
	Aliases: []string{"show", "tv"},
	Short:   "Manage TV shows in the catalog",
}

var moviesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resp, err := newClient().ListMovies()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, resp)
		}
		if resp.Total == 0 {
			fmt.Fprintln(w, "No movies")
			return nil
		}
		fmt.Fprintf(w, "Movies (%d):\n\n", resp.Total)
		fmt.Fprintf(w, "  %-10s %-8s %s\n", "TMDB ID", "SOURCES", "QUALITIES")
		fmt.Fprintln(w, "  "+strings.Repeat("-", 60))
		for _, m := range resp.Items {
			fmt.Fprintf(w, "  %-10s %-8d %s\n", m.TMDBID, len(m.Sources), truncate(formatSources(m.Sources), 40))
		}
		return nil
	},
}

var moviesGetCmd = &cobra.Command{
	Use:   "get <tmdb-id>",
	Short: "Show a movie and its sources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newClient().GetMovie(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, m)
		}
		fmt.Fprintf(w, "Movie %s\n\n", m.TMDBID)
		printSources(w, m.Sources)
		return nil
	},
}

var moviesAddCmd = &cobra.Command{
	Use:   "add <tmdb-id> <url>...",
	Short: "Add or replace a movie",
	Long: `Add a movie, or replace the sources of an existing one.

Examples:
  streamiz movies add 603 https://cdn.example/matrix.m3u8 --quality 1080p`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quality, _ := cmd.Flags().GetString("quality")
		m := catalog.Movie{TMDBID: catalog.ProviderID(args[0])}
		for _, u := range args[1:] {
			m.Sources = append(m.Sources, catalog.Source{Quality: quality, URL: u})
		}
		saved, err := newClient().PutMovie(m)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), saved)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved movie %s (%d sources)\n", saved.TMDBID, len(saved.Sources))
		return nil
	},
}

var moviesDeleteCmd = &cobra.Command{
	Use:     "delete <tmdb-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a movie",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteMovie(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted movie %s\n", args[0])
		return nil
	},
}

var moviesSourcesCmd = &cobra.Command{
	Use:   "sources <tmdb-id>",
	Short: "List the playable sources of a movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().MovieSources(args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printSources(cmd.OutOrStdout(), resp.Sources)
		return nil
	},
}

var showsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List TV shows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resp, err := newClient().ListShows()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, resp)
		}
		if resp.Total == 0 {
			fmt.Fprintln(w, "No shows")
			return nil
		}
		fmt.Fprintf(w, "Shows (%d):\n\n", resp.Total)
		fmt.Fprintf(w, "  %-10s %-8s %s\n", "TMDB ID", "SEASONS", "EPISODES")
		fmt.Fprintln(w, "  "+strings.Repeat("-", 40))
		for _, s := range resp.Items {
			fmt.Fprintf(w, "  %-10s %-8d %d\n", s.TMDBID, len(s.Seasons), s.EpisodeCount())
		}
		return nil
	},
}

var showsGetCmd = &cobra.Command{
	Use:   "get <tmdb-id>",
	Short: "Show a TV show and its episodes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient().GetShow(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, s)
		}
		fmt.Fprintf(w, "Show %s\n\n", s.TMDBID)
		for _, season := range s.Seasons {
			for _, ep := range season.Episodes {
				fmt.Fprintf(w, "  S%02dE%02d  %s\n", season.Number, ep.Number, formatSources(ep.Sources))
			}
		}
		return nil
	},
}

var showsAddCmd = &cobra.Command{
	Use:   "add <tmdb-id> <season> <episode> <url>...",
	Short: "Add or replace one episode of a show",
	Long: `Add an episode to a show. Other episodes already in the catalog are kept.

Examples:
  streamiz shows add 1399 1 1 https://cdn.example/got-s01e01.m3u8 --quality 720p`,
	Args: cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		season, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid season: %s", args[1])
		}
		episode, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid episode: %s", args[2])
		}
		quality, _ := cmd.Flags().GetString("quality")

		ep := catalog.Episode{Number: episode}
		for _, u := range args[3:] {
			ep.Sources = append(ep.Sources, catalog.Source{Quality: quality, URL: u})
		}
		show := catalog.Show{
			TMDBID:  catalog.ProviderID(args[0]),
			Seasons: []catalog.Season{{Number: season, Episodes: []catalog.Episode{ep}}},
		}
		saved, err := newClient().PutShow(show)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), saved)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved show %s (%d episodes)\n", saved.TMDBID, saved.EpisodeCount())
		return nil
	},
}

var showsDeleteCmd = &cobra.Command{
	Use:     "delete <tmdb-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a TV show",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteShow(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted show %s\n", args[0])
		return nil
	},
}

var showsSourcesCmd = &cobra.Command{
	Use:   "sources <tmdb-id> <season> <episode>",
	Short: "List the playable sources of an episode",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		season, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid season: %s", args[1])
		}
		episode, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid episode: %s", args[2])
		}
		resp, err := newClient().EpisodeSources(args[0], season, episode)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printSources(cmd.OutOrStdout(), resp.Sources)
		return nil
	},
}

func init() {
	moviesAddCmd.Flags().String("quality", "Default", "Quality label for the sources")
	showsAddCmd.Flags().String("quality", "Default", "Quality label for the sources")

	moviesCmd.AddCommand(moviesListCmd, moviesGetCmd, moviesAddCmd, moviesDeleteCmd, moviesSourcesCmd)
	showsCmd.AddCommand(showsListCmd, showsGetCmd, showsAddCmd, showsDeleteCmd, showsSourcesCmd)
	rootCmd.AddCommand(moviesCmd, showsCmd)
}
