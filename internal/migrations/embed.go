// Package migrations provides embedded SQL migrations for the remote store
// and the local mirror.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var files embed.FS

// Dialect selects a migration set.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// FS returns the migration files for a dialect.
func FS(d Dialect) (fs.FS, error) {
	switch d {
	case Postgres, SQLite:
		return fs.Sub(files, "sql/"+string(d))
	default:
		return nil, fmt.Errorf("unknown migration dialect %q", d)
	}
}

// Up applies all pending migrations for the dialect.
func Up(ctx context.Context, db *sql.DB, d Dialect) error {
	fsys, err := FS(d)
	if err != nil {
		return err
	}
	gd := goose.DialectSQLite3
	if d == Postgres {
		gd = goose.DialectPostgres
	}
	provider, err := goose.NewProvider(gd, db, fsys)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate %s: %w", d, err)
	}
	return nil
}
