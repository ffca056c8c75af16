package config

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigError_NamesFile(t *testing.T) {
	e := &ConfigError{
		Path:    "/etc/streamiz/config.toml",
		Missing: []string{"TMDB_API_KEY", "STREAMIZ_DATABASE_URL"},
	}
	want := "/etc/streamiz/config.toml: missing environment variables: TMDB_API_KEY, STREAMIZ_DATABASE_URL"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestConfigError_MissingAndValidation(t *testing.T) {
	e := &ConfigError{
		Path:    "config.toml",
		Missing: []string{"TMDB_API_KEY"},
		Errors: []string{
			"server.port: must be between 1 and 65535, got 0",
			"mirror.path: required for the sqlite driver",
		},
	}
	lines := strings.Split(e.Error(), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), e.Error())
	}
	if lines[0] != "config.toml: missing environment variables: TMDB_API_KEY" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "config.toml: 2 invalid field(s):" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if lines[2] != "  - server.port: must be between 1 and 65535, got 0" {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestConfigError_NoPath(t *testing.T) {
	e := &ConfigError{Errors: []string{"auth.jwt_secret: must be at least 16 characters"}}
	if got := e.Error(); !strings.HasPrefix(got, "config: 1 invalid field(s):") {
		t.Errorf("Error() = %q", got)
	}
	if got := (&ConfigError{Path: "x.toml"}).Error(); got != "x.toml: invalid configuration" {
		t.Errorf("empty error = %q", got)
	}
}

func TestLoad_ErrorNamesFile(t *testing.T) {
	path := writeConfig(t, "[tmdb]\napi_key = \"${STREAMIZ_TEST_UNSET_KEY}\"\n")

	_, err := Load(path)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), path+": missing environment variables: STREAMIZ_TEST_UNSET_KEY") {
		t.Errorf("error does not name the file: %q", err.Error())
	}
}
