package v1

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/events"
	"github.com/vmunix/streamiz/internal/hydrate"
	"github.com/vmunix/streamiz/internal/tmdb"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Catalog is the catalog store as seen by the API.
type Catalog interface {
	Status() catalog.Status
	Sync(ctx context.Context) error

	ListMovies() []catalog.Movie
	ListShows() []catalog.Show
	GetMovie(id string) (catalog.Movie, bool)
	GetShow(id string) (catalog.Show, bool)
	MovieSources(id string) ([]catalog.Source, bool)
	EpisodeSources(id string, season, episode int) ([]catalog.Source, bool)

	UpsertMovie(ctx context.Context, m catalog.Movie) (catalog.Movie, error)
	UpsertShow(ctx context.Context, s catalog.Show) (catalog.Show, error)
	DeleteMovie(ctx context.Context, id string) error
	DeleteShow(ctx context.Context, id string) error

	ImportFrom(ctx context.Context, r io.Reader) (catalog.ImportReport, error)
	Export(w io.Writer) error
}

// Hydrator serves display metadata.
type Hydrator interface {
	Browse(ctx context.Context, kind catalog.Kind) hydrate.Page
	DiscoverByGenre(ctx context.Context, genreID int, kind catalog.Kind) hydrate.Page
	Search(ctx context.Context, query string, kind catalog.Kind, page int) (*tmdb.Page, error)
	ResolveTitle(ctx context.Context, query string, kind catalog.Kind) (hydrate.Match, error)
	FetchDetails(ctx context.Context, id string, kind catalog.Kind) (*tmdb.Details, error)
	Genres(ctx context.Context, kind catalog.Kind) ([]tmdb.Genre, error)
	Season(ctx context.Context, showID string, number int) (*tmdb.Season, error)
}

// EventLog is the read side of the audit log.
type EventLog interface {
	Since(ctx context.Context, t time.Time) ([]events.RawEvent, error)
	Recent(ctx context.Context, limit int) ([]events.RawEvent, error)
	ForEntity(ctx context.Context, entityType, entityID string) ([]events.RawEvent, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Catalog Catalog

	// Optional dependencies (nil if not configured)
	Hydrator Hydrator
	EventLog EventLog
	Logger   *zap.Logger

	// JWTSecret enables admin auth on write routes when non-empty.
	JWTSecret string
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Catalog == nil {
		return errors.New("catalog store is required")
	}
	return nil
}
