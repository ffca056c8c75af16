package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/migrations"
)

// Postgres stores each entry as a jsonb document keyed by provider ID.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a pool, checks connectivity and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	err = migrations.Up(ctx, db, migrations.Postgres)
	_ = db.Close()
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgres wraps an existing, migrated pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// FetchAll reads both tables concurrently.
func (p *Postgres) FetchAll(ctx context.Context) (catalog.Snapshot, error) {
	var snap catalog.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		docs, err := p.documents(ctx, moviesTable)
		if err != nil {
			return err
		}
		snap.Movies, err = decodeMovies(docs)
		return err
	})
	g.Go(func() error {
		docs, err := p.documents(ctx, showsTable)
		if err != nil {
			return err
		}
		snap.Shows, err = decodeShows(docs)
		return err
	})

	if err := g.Wait(); err != nil {
		return catalog.Snapshot{}, err
	}
	return snap, nil
}

func (p *Postgres) documents(ctx context.Context, table string) ([]document, error) {
	rows, err := p.pool.Query(ctx, `SELECT tmdb_id, data FROM `+pgx.Identifier{table}.Sanitize()+` ORDER BY created_at, tmdb_id`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (document, error) {
		var d document
		err := row.Scan(&d.id, &d.data)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return docs, nil
}

func (p *Postgres) PutMovie(ctx context.Context, m catalog.Movie) error {
	return p.put(ctx, moviesTable, m.ID(), m)
}

func (p *Postgres) PutShow(ctx context.Context, s catalog.Show) error {
	return p.put(ctx, showsTable, s.ID(), s)
}

func (p *Postgres) put(ctx context.Context, table, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", table, id, err)
	}
	_, err = p.pool.Exec(ctx, `
INSERT INTO `+pgx.Identifier{table}.Sanitize()+` (tmdb_id, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (tmdb_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		id, data)
	if err != nil {
		return fmt.Errorf("upsert %s %s: %w", table, id, err)
	}
	return nil
}

func (p *Postgres) DeleteMovie(ctx context.Context, id string) error {
	return p.delete(ctx, moviesTable, id)
}

func (p *Postgres) DeleteShow(ctx context.Context, id string) error {
	return p.delete(ctx, showsTable, id)
}

func (p *Postgres) delete(ctx context.Context, table, id string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM `+pgx.Identifier{table}.Sanitize()+` WHERE tmdb_id = $1`, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
