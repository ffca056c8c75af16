package mirror

import (
	"context"

	"github.com/spf13/afero"

	"github.com/vmunix/streamiz/internal/catalog"
)

// Open creates the mirror named by driver. path is ignored for the memory driver.
func Open(ctx context.Context, driver, path string) (catalog.Mirror, error) {
	switch driver {
	case DriverSQLite, "":
		return OpenSQLite(ctx, path)
	case DriverFile:
		return NewFile(afero.NewOsFs(), path), nil
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, unknownDriver(driver)
	}
}
