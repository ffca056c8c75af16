package config

import (
	"fmt"
	"strings"
)

// ConfigError reports why a config file could not be used. Missing holds
// unresolved ${VAR} references, Errors the failed validation rules.
type ConfigError struct {
	Path    string
	Missing []string
	Errors  []string
}

func (e *ConfigError) Error() string {
	file := e.Path
	if file == "" {
		file = "config"
	}

	var b strings.Builder
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "%s: missing environment variables: %s", file, strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %d invalid field(s):", file, len(e.Errors))
		for _, msg := range e.Errors {
			b.WriteString("\n  - ")
			b.WriteString(msg)
		}
	}
	if b.Len() == 0 {
		return file + ": invalid configuration"
	}
	return b.String()
}
