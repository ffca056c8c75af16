package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/migrations"
)

// SQLite stores one row per entry, in catalog order, plus a marker row that
// records whether a snapshot was ever saved.
type SQLite struct {
	db     *sql.DB
	ownsDB bool
}

// OpenSQLite opens (creating if needed) the mirror database at path and
// applies migrations. ":memory:" is accepted for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create mirror dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open mirror db: %w", err)
	}
	// One writer; also keeps ":memory:" on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure mirror db: %w", err)
	}
	if err := migrations.Up(ctx, db, migrations.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, ownsDB: true}, nil
}

// NewSQLite wraps an already migrated database. Close leaves db open.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// DB returns the underlying database, shared with the event log.
func (s *SQLite) DB() *sql.DB { return s.db }

func (s *SQLite) Load(ctx context.Context) (catalog.Snapshot, bool, error) {
	snap := catalog.Snapshot{}.Clone()

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM mirror_state WHERE id = 1`).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, false, nil
	}
	if err != nil {
		return catalog.Snapshot{}, false, fmt.Errorf("read mirror state: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT kind, data FROM mirror_entries ORDER BY kind, position`)
	if err != nil {
		return catalog.Snapshot{}, false, fmt.Errorf("query mirror: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var kind, data string
		if err := rows.Scan(&kind, &data); err != nil {
			return catalog.Snapshot{}, false, fmt.Errorf("scan mirror entry: %w", err)
		}
		switch catalog.Kind(kind) {
		case catalog.KindMovie:
			var m catalog.Movie
			if err := json.Unmarshal([]byte(data), &m); err != nil {
				return catalog.Snapshot{}, false, fmt.Errorf("decode mirror movie: %w", err)
			}
			snap.Movies = append(snap.Movies, m)
		case catalog.KindShow:
			var sh catalog.Show
			if err := json.Unmarshal([]byte(data), &sh); err != nil {
				return catalog.Snapshot{}, false, fmt.Errorf("decode mirror show: %w", err)
			}
			snap.Shows = append(snap.Shows, sh)
		}
	}
	if err := rows.Err(); err != nil {
		return catalog.Snapshot{}, false, fmt.Errorf("iterate mirror: %w", err)
	}
	return snap, true, nil
}

// Save replaces the whole mirror in one transaction.
func (s *SQLite) Save(ctx context.Context, snap catalog.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mirror save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mirror_entries`); err != nil {
		return fmt.Errorf("clear mirror: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO mirror_entries (kind, tmdb_id, position, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare mirror insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, m := range snap.Movies {
		if err := insertEntry(ctx, stmt, catalog.KindMovie, m.ID(), i, m); err != nil {
			return err
		}
	}
	for i, sh := range snap.Shows {
		if err := insertEntry(ctx, stmt, catalog.KindShow, sh.ID(), i, sh); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO mirror_state (id, saved_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`,
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("mark mirror saved: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mirror: %w", err)
	}
	return nil
}

func insertEntry(ctx context.Context, stmt *sql.Stmt, kind catalog.Kind, id string, pos int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode mirror %s %s: %w", kind, id, err)
	}
	if _, err := stmt.ExecContext(ctx, string(kind), id, pos, string(data)); err != nil {
		return fmt.Errorf("insert mirror %s %s: %w", kind, id, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
