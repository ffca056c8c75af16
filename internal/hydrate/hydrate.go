// Package hydrate enriches catalog entries with TMDB metadata for display.
package hydrate

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/tmdb"
)

const (
	defaultConcurrency = 8

	// UnknownTitle is shown for entries whose metadata could not be fetched.
	UnknownTitle = "Unknown"
)

// Metadata is the subset of the TMDB client the hydrator uses.
type Metadata interface {
	Details(ctx context.Context, mt tmdb.MediaType, id string) (*tmdb.Details, error)
	Search(ctx context.Context, mt tmdb.MediaType, query string, page int) (*tmdb.Page, error)
	Season(ctx context.Context, showID string, number int) (*tmdb.Season, error)
	Genres(ctx context.Context, mt tmdb.MediaType) ([]tmdb.Genre, error)
	ImageURL(path, size string) string
	BackdropURL(path, size string) string
}

// Catalog lists the provider IDs to browse.
type Catalog interface {
	IDs(kind catalog.Kind) []string
}

// MetadataFetchError reports a failed lookup of a single title.
type MetadataFetchError struct {
	Kind catalog.Kind
	ID   string
	Err  error
}

func (e *MetadataFetchError) Error() string {
	return fmt.Sprintf("fetch %s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *MetadataFetchError) Unwrap() error { return e.Err }

// Item is a catalog entry with display metadata merged in.
type Item struct {
	TMDBID      string        `json:"tmdbId"`
	Kind        catalog.Kind  `json:"kind"`
	Title       string        `json:"title"`
	Overview    string        `json:"overview,omitempty"`
	PosterURL   string        `json:"poster_url,omitempty"`
	BackdropURL string        `json:"backdrop_url,omitempty"`
	Year        int           `json:"year,omitempty"`
	Rating      float64       `json:"rating,omitempty"`
	Genres      []tmdb.Genre  `json:"genres,omitempty"`
	Details     *tmdb.Details `json:"details,omitempty"`

	// Err is set on placeholder items.
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Placeholder reports whether the item stands in for a failed lookup.
func (i Item) Placeholder() bool { return i.Err != nil }

// Page mirrors the TMDB list envelope over hydrated items.
type Page struct {
	Page         int    `json:"page"`
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

// Hydrator fetches and merges metadata.
type Hydrator struct {
	meta        Metadata
	catalog     Catalog
	concurrency int
	log         *zap.Logger
}

// Option configures a Hydrator.
type Option func(*Hydrator)

// WithConcurrency bounds concurrent lookups in HydrateMany.
func WithConcurrency(n int) Option {
	return func(h *Hydrator) {
		if n > 0 {
			h.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(h *Hydrator) {
		h.log = log.With(zap.String("component", "hydrate"))
	}
}

// New creates a hydrator. cat may be nil when Browse and DiscoverByGenre are
// not used.
func New(meta Metadata, cat Catalog, opts ...Option) *Hydrator {
	h := &Hydrator{
		meta:        meta,
		catalog:     cat,
		concurrency: defaultConcurrency,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FetchDetails returns the service's response for one title.
func (h *Hydrator) FetchDetails(ctx context.Context, id string, kind catalog.Kind) (*tmdb.Details, error) {
	d, err := h.meta.Details(ctx, mediaType(kind), id)
	if err != nil {
		return nil, &MetadataFetchError{Kind: kind, ID: id, Err: err}
	}
	return d, nil
}

// HydrateMany looks every id up concurrently. It returns one item per id in
// input order; a failed lookup yields a placeholder and does not affect the
// others.
func (h *Hydrator) HydrateMany(ctx context.Context, ids []string, kind catalog.Kind) []Item {
	items := make([]Item, len(ids))

	var g errgroup.Group
	g.SetLimit(h.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			d, err := h.FetchDetails(ctx, id, kind)
			if err != nil {
				h.log.Warn("metadata lookup failed", zap.String("kind", string(kind)), zap.String("tmdb_id", id), zap.Error(err))
				items[i] = placeholder(id, kind, err)
				return nil
			}
			items[i] = h.item(id, kind, d)
			return nil
		})
	}
	_ = g.Wait()
	return items
}

// Browse hydrates every catalog entry of a kind as a single page.
func (h *Hydrator) Browse(ctx context.Context, kind catalog.Kind) Page {
	items := h.HydrateMany(ctx, h.ids(kind), kind)
	return Page{Page: 1, Results: items, TotalPages: 1, TotalResults: len(items)}
}

// DiscoverByGenre hydrates the whole catalog of a kind and keeps the titles
// tagged with genreID. Placeholders carry no genres and are dropped.
func (h *Hydrator) DiscoverByGenre(ctx context.Context, genreID int, kind catalog.Kind) Page {
	all := h.HydrateMany(ctx, h.ids(kind), kind)
	matched := make([]Item, 0, len(all))
	for _, it := range all {
		if it.Details != nil && it.Details.HasGenre(genreID) {
			matched = append(matched, it)
		}
	}
	return Page{Page: 1, Results: matched, TotalPages: 1, TotalResults: len(matched)}
}

// Search returns the service's paginated result unchanged.
func (h *Hydrator) Search(ctx context.Context, query string, kind catalog.Kind, page int) (*tmdb.Page, error) {
	p, err := h.meta.Search(ctx, mediaType(kind), query, page)
	if err != nil {
		return nil, fmt.Errorf("search %s %q: %w", kind, query, err)
	}
	return p, nil
}

// Genres lists the genres available for a kind.
func (h *Hydrator) Genres(ctx context.Context, kind catalog.Kind) ([]tmdb.Genre, error) {
	g, err := h.meta.Genres(ctx, mediaType(kind))
	if err != nil {
		return nil, fmt.Errorf("genres %s: %w", kind, err)
	}
	return g, nil
}

// Season fetches the episode list of one season of a show.
func (h *Hydrator) Season(ctx context.Context, showID string, number int) (*tmdb.Season, error) {
	s, err := h.meta.Season(ctx, showID, number)
	if err != nil {
		return nil, &MetadataFetchError{Kind: catalog.KindShow, ID: showID + "/season/" + strconv.Itoa(number), Err: err}
	}
	return s, nil
}

func (h *Hydrator) ids(kind catalog.Kind) []string {
	if h.catalog == nil {
		return nil
	}
	return h.catalog.IDs(kind)
}

func (h *Hydrator) item(id string, kind catalog.Kind, d *tmdb.Details) Item {
	return Item{
		TMDBID:      id,
		Kind:        kind,
		Title:       d.DisplayTitle(),
		Overview:    d.Overview,
		PosterURL:   h.meta.ImageURL(d.PosterPath, "w500"),
		BackdropURL: h.meta.BackdropURL(d.BackdropPath, "original"),
		Year:        d.Year(),
		Rating:      d.VoteAverage,
		Genres:      d.Genres,
		Details:     d,
	}
}

func placeholder(id string, kind catalog.Kind, err error) Item {
	return Item{
		TMDBID: id,
		Kind:   kind,
		Title:  UnknownTitle,
		Err:    err,
		Error:  err.Error(),
	}
}

func mediaType(kind catalog.Kind) tmdb.MediaType {
	if kind == catalog.KindShow {
		return tmdb.TV
	}
	return tmdb.Movie
}
