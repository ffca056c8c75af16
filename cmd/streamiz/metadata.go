package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/hydrate"
)

func kindArg(s string) (catalog.Kind, error) {
	kind, err := catalog.ParseKind(s)
	if err != nil {
		return "", fmt.Errorf("%w (want movie or tv)", err)
	}
	return kind, nil
}

var browseCmd = &cobra.Command{
	Use:   "browse <movie|tv>",
	Short: "Show catalog titles with TMDB metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args[0])
		if err != nil {
			return err
		}
		genre, _ := cmd.Flags().GetInt("genre")

		client := newClient()
		var page *hydrate.Page
		if genre > 0 {
			page, err = client.BrowseGenre(kind, genre)
		} else {
			page, err = client.Browse(kind)
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), page)
		}
		return printItems(cmd.OutOrStdout(), page.Results)
	},
}

func printItems(w io.Writer, items []hydrate.Item) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No titles")
		return nil
	}
	fmt.Fprintf(w, "  %-10s %-50s %-6s %s\n", "TMDB ID", "TITLE", "YEAR", "RATING")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 76))
	for _, it := range items {
		year, rating := "-", "-"
		if it.Year > 0 {
			year = strconv.Itoa(it.Year)
		}
		if it.Rating > 0 {
			rating = fmt.Sprintf("%.1f", it.Rating)
		}
		title := it.Title
		if it.Error != "" {
			title += " (unavailable)"
		}
		fmt.Fprintf(w, "  %-10s %-50s %-6s %s\n", it.TMDBID, truncate(title, 50), year, rating)
	}
	return nil
}

var searchCmd = &cobra.Command{
	Use:   "search <movie|tv> <query>",
	Short: "Search TMDB",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args[0])
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")

		resp, err := newClient().Search(kind, strings.Join(args[1:], " "), page)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, resp)
		}
		if len(resp.Results) == 0 {
			fmt.Fprintln(w, "No results")
			return nil
		}
		fmt.Fprintf(w, "  %-10s %-50s %-10s %s\n", "TMDB ID", "TITLE", "DATE", "RATING")
		fmt.Fprintln(w, "  "+strings.Repeat("-", 80))
		for _, r := range resp.Results {
			date := r.ReleaseDate
			if date == "" {
				date = r.FirstAirDate
			}
			fmt.Fprintf(w, "  %-10d %-50s %-10s %.1f\n", r.ID, truncate(r.DisplayTitle(), 50), date, r.VoteAverage)
		}
		fmt.Fprintf(w, "\nPage %d of %d (%d results)\n", resp.Page, resp.TotalPages, resp.TotalResults)
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <movie|tv> <title>",
	Short: "Find the TMDB id that best matches a title",
	Long: `Find the TMDB id that best matches a title.

A trailing year breaks ties between remakes:
  streamiz resolve movie "Heat (1995)"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args[0])
		if err != nil {
			return err
		}
		m, err := newClient().Resolve(kind, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, m)
		}
		fmt.Fprintf(w, "%s  %s", m.TMDBID, m.Title)
		if m.Year > 0 {
			fmt.Fprintf(w, " (%d)", m.Year)
		}
		fmt.Fprintf(w, "  score %.2f\n", m.Score)
		return nil
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details <movie|tv> <tmdb-id>",
	Short: "Show TMDB details for a title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args[0])
		if err != nil {
			return err
		}
		d, err := newClient().Details(kind, args[1])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, d)
		}
		fmt.Fprintf(w, "%s", d.DisplayTitle())
		if y := d.Year(); y > 0 {
			fmt.Fprintf(w, " (%d)", y)
		}
		fmt.Fprintln(w)
		if d.Tagline != "" {
			fmt.Fprintf(w, "%s\n", d.Tagline)
		}
		names := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			names[i] = g.Name
		}
		fmt.Fprintf(w, "\nRating:  %.1f (%d votes)\n", d.VoteAverage, d.VoteCount)
		if len(names) > 0 {
			fmt.Fprintf(w, "Genres:  %s\n", strings.Join(names, ", "))
		}
		if d.Runtime > 0 {
			fmt.Fprintf(w, "Runtime: %d min\n", d.Runtime)
		}
		if d.NumberOfSeasons > 0 {
			fmt.Fprintf(w, "Seasons: %d\n", d.NumberOfSeasons)
		}
		if d.Overview != "" {
			fmt.Fprintf(w, "\n%s\n", d.Overview)
		}
		return nil
	},
}

var genresCmd = &cobra.Command{
	Use:   "genres <movie|tv>",
	Short: "List TMDB genres",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args[0])
		if err != nil {
			return err
		}
		genres, err := newClient().Genres(kind)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, genres)
		}
		for _, g := range genres {
			fmt.Fprintf(w, "  %-6d %s\n", g.ID, g.Name)
		}
		return nil
	},
}

var seasonCmd = &cobra.Command{
	Use:   "season <tmdb-id> <number>",
	Short: "Show TMDB episode listings for a season",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid season: %s", args[1])
		}
		s, err := newClient().Season(args[0], number)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, s)
		}
		fmt.Fprintf(w, "%s\n\n", s.Name)
		for _, ep := range s.Episodes {
			fmt.Fprintf(w, "  %3d  %-50s %s\n", ep.EpisodeNumber, truncate(ep.Name, 50), ep.AirDate)
		}
		return nil
	},
}

func init() {
	browseCmd.Flags().Int("genre", 0, "Only titles tagged with this TMDB genre id")
	searchCmd.Flags().Int("page", 1, "Result page")

	rootCmd.AddCommand(browseCmd, searchCmd, resolveCmd, detailsCmd, genresCmd, seasonCmd)
}
