package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a catalog document",
	Long: `Import a catalog document into the remote store.

The document must carry both "movies" and "tv" keys. Entries are written one
at a time; if a write fails the import stops and reports what was committed.
Use - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer func() { _ = f.Close() }()
			r = f
		}

		resp, err := newClient().Import(r)
		w := cmd.OutOrStdout()
		if jsonOutput && resp != nil {
			if perr := printJSON(w, resp); perr != nil {
				return perr
			}
			return err
		}
		var apiErr *APIError
		if err != nil && !errors.As(err, &apiErr) {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Fprintf(w, "Imported %d movies and %d shows\n", resp.Movies, resp.Shows)
		if err != nil {
			return fmt.Errorf("import stopped: %w", err)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the catalog as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || args[0] == "-" {
			return newClient().Export(cmd.OutOrStdout())
		}
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		if err := newClient().Export(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("export failed: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported catalog to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)
}
