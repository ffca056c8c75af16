// internal/config/discover.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfigPath overrides config discovery.
const EnvConfigPath = "STREAMIZ_CONFIG"

// ErrNoConfig is returned by Discover when no candidate file exists.
var ErrNoConfig = errors.New("config not found")

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "streamiz", "config.toml")
}

// SearchPaths lists the locations Discover checks after STREAMIZ_CONFIG.
func SearchPaths() []string {
	return []string{
		"./config.toml",
		DefaultPath(),
		"/etc/streamiz/config.toml",
	}
}

// Discover finds the config file.
// Search order:
//  1. STREAMIZ_CONFIG environment variable
//  2. ./config.toml
//  3. $XDG_CONFIG_HOME/streamiz/config.toml
//  4. /etc/streamiz/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfigPath, envPath, err)
		}
		return envPath, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNoConfig, strings.Join(paths, ", "))
}
