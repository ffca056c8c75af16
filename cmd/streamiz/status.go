package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/streamiz/internal/catalog"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show remote store connectivity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := newClient().Status()
		if err != nil {
			return fmt.Errorf("status check failed: %w", err)
		}
		return printStatus(cmd.OutOrStdout(), st)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-fetch the catalog from the remote store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := newClient().Sync()
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		return printStatus(cmd.OutOrStdout(), st)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, syncCmd)
}

func printStatus(w io.Writer, st *catalog.Status) error {
	if jsonOutput {
		return printJSON(w, st)
	}
	fmt.Fprintf(w, "Server:   %s\n", serverURL)
	fmt.Fprintf(w, "State:    %s\n", st.State)
	fmt.Fprintf(w, "Message:  %s\n", st.Message)
	fmt.Fprintf(w, "Items:    %d\n", st.Items)
	if !st.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated:  %s\n", st.UpdatedAt.Local().Format(time.DateTime))
	}
	return nil
}
