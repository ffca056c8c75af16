package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/vmunix/streamiz/internal/api/v1"
	"github.com/vmunix/streamiz/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the catalog audit log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sinceFlag, _ := cmd.Flags().GetDuration("since")
		limit, _ := cmd.Flags().GetInt("limit")

		var since time.Time
		if sinceFlag > 0 {
			since = time.Now().Add(-sinceFlag)
		}
		resp, err := newClient().Events(since, limit)
		if err != nil {
			return err
		}
		return printEvents(cmd.OutOrStdout(), resp)
	},
}

func historyCmd(kind string) *cobra.Command {
	return &cobra.Command{
		Use:   "history <tmdb-id>",
		Short: "Show the audit log for one title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().History(kind, args[0])
			if err != nil {
				return err
			}
			return printEvents(cmd.OutOrStdout(), resp)
		},
	}
}

func printEvents(w io.Writer, resp *v1.ListEventsResponse) error {
	if jsonOutput {
		return printJSON(w, resp)
	}
	if resp.Total == 0 {
		fmt.Fprintln(w, "No events")
		return nil
	}
	registry := events.DefaultRegistry()
	fmt.Fprintf(w, "  %-19s %-26s %-6s %-10s %s\n", "TIME", "EVENT", "TYPE", "ID", "DETAIL")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 90))
	for _, e := range resp.Items {
		fmt.Fprintf(w, "  %-19s %-26s %-6s %-10s %s\n",
			e.OccurredAt.Local().Format(time.DateTime), e.EventType, e.EntityType, e.EntityID,
			eventDetail(registry, e))
	}
	return nil
}

func init() {
	eventsCmd.Flags().Duration("since", 0, "Show events from this long ago (e.g. 24h)")
	eventsCmd.Flags().Int("limit", 50, "Maximum number of recent events")
	rootCmd.AddCommand(eventsCmd)
	moviesCmd.AddCommand(historyCmd("movies"))
	showsCmd.AddCommand(historyCmd("shows"))
}

// eventDetail summarizes a known payload. Unknown types print nothing.
func eventDetail(registry *events.Registry, e v1.EventResponse) string {
	ev, err := registry.Unmarshal(events.RawEvent{EventType: e.EventType, Payload: e.Payload})
	if err != nil {
		return ""
	}
	switch ev := ev.(type) {
	case *events.EntryUpserted:
		if ev.Episodes > 0 {
			return fmt.Sprintf("%d seasons, %d episodes", ev.Seasons, ev.Episodes)
		}
		return fmt.Sprintf("%d sources", ev.Sources)
	case *events.EntryDeleted:
		if !ev.Existed {
			return "not present"
		}
		return ""
	case *events.CatalogSynced:
		return fmt.Sprintf("remote %d movies, %d shows; %d local only", ev.RemoteMovies, ev.RemoteShows, ev.LocalOnly)
	case *events.ImportCompleted:
		if ev.Error != "" {
			return fmt.Sprintf("%d movies, %d shows (stopped: %s)", ev.Movies, ev.Shows, ev.Error)
		}
		return fmt.Sprintf("%d movies, %d shows", ev.Movies, ev.Shows)
	case *events.StatusChanged:
		return fmt.Sprintf("%s: %s", ev.State, ev.Message)
	default:
		return ""
	}
}
