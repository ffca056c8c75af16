package catalog

import "context"

//go:generate mockgen -source=remote.go -destination=mocks/remote.go -package=mocks

// Remote is the durable store of record. Rows are keyed by provider ID, one
// table per kind.
type Remote interface {
	// FetchAll returns every movie and show.
	FetchAll(ctx context.Context) (Snapshot, error)
	// PutMovie replaces the movie row with the same provider ID.
	PutMovie(ctx context.Context, m Movie) error
	// PutShow replaces the show row with the same provider ID.
	PutShow(ctx context.Context, s Show) error
	// DeleteMovie removes a movie row; absent IDs are not an error.
	DeleteMovie(ctx context.Context, id string) error
	// DeleteShow removes a show row; absent IDs are not an error.
	DeleteShow(ctx context.Context, id string) error
	Close() error
}

// Mirror persists the local copy of the catalog.
type Mirror interface {
	// Load returns the last saved snapshot and whether one was ever saved.
	Load(ctx context.Context) (Snapshot, bool, error)
	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snap Snapshot) error
	Close() error
}
