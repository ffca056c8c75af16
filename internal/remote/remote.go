// Package remote implements the durable catalog store of record.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/vmunix/streamiz/internal/catalog"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultConnectAttempts = 3
	defaultConnectDelay    = 500 * time.Millisecond
)

// Table names, one per kind.
const (
	moviesTable = "movies"
	showsTable  = "tv_shows"
)

// Config selects and locates the remote store.
type Config struct {
	Driver          string
	DSN             string
	ConnectAttempts uint
	ConnectDelay    time.Duration
}

// Compile-time interface checks.
var (
	_ catalog.Remote = (*Postgres)(nil)
	_ catalog.Remote = (*SQLite)(nil)
)

// Open connects to the configured remote store and applies migrations.
// Connection attempts are retried with a fixed delay. Every failure is
// reported as a *catalog.ConfigError.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (catalog.Remote, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.DSN == "" {
		return nil, &catalog.ConfigError{Reason: "remote dsn is empty", Err: catalog.ErrNotConfigured}
	}

	var connect func(context.Context) (catalog.Remote, error)
	switch cfg.Driver {
	case DriverPostgres, "":
		connect = func(ctx context.Context) (catalog.Remote, error) { return OpenPostgres(ctx, cfg.DSN) }
	case DriverSQLite:
		connect = func(ctx context.Context) (catalog.Remote, error) { return OpenSQLite(ctx, cfg.DSN) }
	default:
		return nil, &catalog.ConfigError{Reason: fmt.Sprintf("unknown remote driver %q", cfg.Driver)}
	}

	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = defaultConnectAttempts
	}
	delay := cfg.ConnectDelay
	if delay <= 0 {
		delay = defaultConnectDelay
	}

	r, err := retry.DoWithData(
		func() (catalog.Remote, error) { return connect(ctx) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("remote connect failed, retrying",
				zap.String("driver", cfg.Driver),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}),
	)
	if err != nil {
		return nil, &catalog.ConfigError{Reason: "connect " + driverName(cfg.Driver), Err: err}
	}
	log.Info("remote store connected", zap.String("driver", driverName(cfg.Driver)))
	return r, nil
}

func driverName(d string) string {
	if d == "" {
		return DriverPostgres
	}
	return d
}

// document is one stored row: the tmdb_id key column and its JSON payload.
type document struct {
	id   string
	data []byte
}

// blank reports a row with no payload to decode.
func (d document) blank() bool {
	data := bytes.TrimSpace(d.data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

// decodeMovies skips blank rows. A payload without its own id takes the
// row key.
func decodeMovies(docs []document) ([]catalog.Movie, error) {
	movies := make([]catalog.Movie, 0, len(docs))
	for _, d := range docs {
		if d.blank() {
			continue
		}
		var m catalog.Movie
		if err := json.Unmarshal(d.data, &m); err != nil {
			return nil, fmt.Errorf("decode movie %s: %w", d.id, err)
		}
		if m.TMDBID == "" {
			m.TMDBID = catalog.ProviderID(d.id)
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func decodeShows(docs []document) ([]catalog.Show, error) {
	shows := make([]catalog.Show, 0, len(docs))
	for _, d := range docs {
		if d.blank() {
			continue
		}
		var s catalog.Show
		if err := json.Unmarshal(d.data, &s); err != nil {
			return nil, fmt.Errorf("decode show %s: %w", d.id, err)
		}
		if s.TMDBID == "" {
			s.TMDBID = catalog.ProviderID(d.id)
		}
		shows = append(shows, s)
	}
	return shows, nil
}
