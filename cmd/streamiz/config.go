package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/vmunix/streamiz/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.WriteDefault(path, force); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate a configuration file",
	Long:  "Validates config.toml syntax, field values and environment variable substitution without starting the server.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPathArg(args)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Validating %s...\n\n", path)

		if _, err := config.Load(path); err != nil {
			var cfgErr *config.ConfigError
			if errors.As(err, &cfgErr) {
				printConfigErrors(w, cfgErr)
				return fmt.Errorf("configuration invalid")
			}
			return fmt.Errorf("failed to load config: %w", err)
		}
		fmt.Fprintln(w, "Configuration valid!")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print the effective configuration with secrets masked",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPathArg(args)
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		redacted := cfg.Redacted()
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), redacted)
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(redacted)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file the daemon would load",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.Discover()
		if err != nil {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "No config file found. Searched:")
			for _, p := range config.SearchPaths() {
				fmt.Fprintf(w, "  - %s\n", p)
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("path", "", "Where to write the config (default: user config dir)")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd, configTestCmd, configShowCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func configPathArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return config.Discover()
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}
	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, msg := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
		fmt.Fprintln(w)
	}
}
