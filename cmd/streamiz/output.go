package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmunix/streamiz/internal/catalog"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatSources(sources []catalog.Source) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = s.Quality
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func printSources(w io.Writer, sources []catalog.Source) {
	if len(sources) == 0 {
		fmt.Fprintln(w, "No sources")
		return
	}
	for i, s := range sources {
		fmt.Fprintf(w, "  [%d] %-10s %s\n", i+1, s.Quality, s.URL)
	}
}
