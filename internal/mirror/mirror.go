// Package mirror persists the local copy of the catalog between restarts.
package mirror

import (
	"fmt"

	"github.com/vmunix/streamiz/internal/catalog"
)

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// Compile-time interface checks.
var (
	_ catalog.Mirror = (*Memory)(nil)
	_ catalog.Mirror = (*SQLite)(nil)
	_ catalog.Mirror = (*File)(nil)
)

func unknownDriver(driver string) error {
	return fmt.Errorf("unknown mirror driver %q (want %s, %s or %s)", driver, DriverSQLite, DriverFile, DriverMemory)
}
