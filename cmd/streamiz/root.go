package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

const defaultServerURL = "http://localhost:8585"

var (
	serverURL  string
	jsonOutput bool
	apiToken   string
)

var rootCmd = &cobra.Command{
	Use:   "streamiz",
	Short: "CLI client for the streamiz catalog",
	Long: `streamiz - CLI client for the streamiz catalog

Manage the movie and TV catalog, import and export it, and browse
TMDB metadata for the titles it holds.

Run 'streamizd' to start the server daemon.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("STREAMIZ_SERVER", defaultServerURL), "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("STREAMIZ_TOKEN"), "Bearer token for write commands")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("streamiz {{.Version}}\n")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newClient() *Client {
	return NewClient(serverURL, apiToken)
}
