package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/migrations"
)

// SQLite is a single-file remote store, for self-hosted setups and tests.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and migrates the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	if err := migrations.Up(ctx, db, migrations.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) FetchAll(ctx context.Context) (catalog.Snapshot, error) {
	movies, err := s.documents(ctx, moviesTable)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	shows, err := s.documents(ctx, showsTable)
	if err != nil {
		return catalog.Snapshot{}, err
	}

	var snap catalog.Snapshot
	if snap.Movies, err = decodeMovies(movies); err != nil {
		return catalog.Snapshot{}, err
	}
	if snap.Shows, err = decodeShows(shows); err != nil {
		return catalog.Snapshot{}, err
	}
	return snap, nil
}

func (s *SQLite) documents(ctx context.Context, table string) ([]document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tmdb_id, data FROM `+table+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var docs []document
	for rows.Next() {
		var (
			id   string
			data sql.NullString
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		docs = append(docs, document{id: id, data: []byte(data.String)})
	}
	return docs, rows.Err()
}

func (s *SQLite) PutMovie(ctx context.Context, m catalog.Movie) error {
	return s.put(ctx, moviesTable, m.ID(), m)
}

func (s *SQLite) PutShow(ctx context.Context, sh catalog.Show) error {
	return s.put(ctx, showsTable, sh.ID(), sh)
}

func (s *SQLite) put(ctx context.Context, table, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", table, id, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO `+table+` (tmdb_id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(tmdb_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, string(data))
	if err != nil {
		return fmt.Errorf("upsert %s %s: %w", table, id, err)
	}
	return nil
}

func (s *SQLite) DeleteMovie(ctx context.Context, id string) error {
	return s.delete(ctx, moviesTable, id)
}

func (s *SQLite) DeleteShow(ctx context.Context, id string) error {
	return s.delete(ctx, showsTable, id)
}

func (s *SQLite) delete(ctx context.Context, table, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE tmdb_id = ?`, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
