package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vmunix/streamiz/internal/events"
)

const defaultRemoteTimeout = 10 * time.Second

// storeEntityID identifies the store itself in status events.
const storeEntityID = "catalog"

// Store is the catalog: remote-first writes, reads from the local mirror.
type Store struct {
	remote  Remote
	mirror  Mirror
	bus     *events.Bus
	log     *zap.Logger
	timeout time.Duration

	// writeMu serializes mutations with each other. Sync does not take it.
	writeMu sync.Mutex

	mu      sync.RWMutex
	snap    Snapshot // never mutated after install
	version uint64
	status  Status

	persistMu sync.Mutex
	saved     uint64
	persisted bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.log = log.With(zap.String("component", "catalog"))
	}
}

// WithBus publishes status and catalog changes on bus.
func WithBus(bus *events.Bus) Option {
	return func(s *Store) {
		s.bus = bus
	}
}

// WithRemoteTimeout bounds every remote call. Zero disables the bound.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// New creates a store. remote may be nil, in which case the store serves the
// mirror read-only and writes fail with ErrNotConfigured.
func New(remote Remote, mirror Mirror, opts ...Option) *Store {
	s := &Store{
		remote:  remote,
		mirror:  mirror,
		log:     zap.NewNop(),
		timeout: defaultRemoteTimeout,
		snap:    Snapshot{}.Clone(),
		status: Status{
			State:     StateUnconfigured,
			Message:   "Not connected",
			UpdatedAt: time.Now(),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the persisted mirror and, when a remote is configured, runs the
// initial sync. A failed sync is recovered: the mirror is served as-is and
// the status reports the error.
func (s *Store) Open(ctx context.Context) error {
	snap, persisted, err := s.mirror.Load(ctx)
	if err != nil {
		s.log.Warn("mirror unreadable, starting empty", zap.Error(err))
		snap, persisted = Snapshot{}, false
	}

	s.mu.Lock()
	s.snap = snap.Clone()
	s.version++
	s.mu.Unlock()

	s.persistMu.Lock()
	s.persisted = persisted
	s.persistMu.Unlock()

	s.log.Info("mirror loaded",
		zap.Int("movies", len(snap.Movies)),
		zap.Int("shows", len(snap.Shows)),
		zap.Bool("persisted", persisted))

	if s.remote == nil {
		s.setStatus(ctx, StateUnconfigured, "Remote store not configured, serving local mirror")
		return nil
	}

	if err := s.Sync(ctx); err != nil {
		s.log.Warn("initial sync failed, serving local mirror", zap.Error(err))
	}
	return nil
}

// Close releases the remote and the mirror.
func (s *Store) Close() error {
	var errs []error
	if s.remote != nil {
		if err := s.remote.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close remote: %w", err))
		}
	}
	if err := s.mirror.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close mirror: %w", err))
	}
	return errors.Join(errs...)
}

// Status returns the current connectivity status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// UpsertMovie saves a movie, replacing any sources it had before.
func (s *Store) UpsertMovie(ctx context.Context, m Movie) (Movie, error) {
	m = normalizeMovie(m)
	if err := m.Validate(); err != nil {
		return Movie{}, err
	}
	if s.remote == nil {
		return Movie{}, notConfigured()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()
	if err := s.remote.PutMovie(rctx, m); err != nil {
		return Movie{}, &RemoteWriteError{Op: "upsert", Kind: KindMovie, ID: m.ID(), Err: err}
	}

	s.apply(ctx, func(cur Snapshot) Snapshot {
		cur.Movies = withMovie(cur.Movies, m)
		return cur
	})

	s.log.Info("movie saved", zap.String("tmdb_id", m.ID()), zap.Int("sources", len(m.Sources)))
	s.publish(ctx, &events.EntryUpserted{
		BaseEvent: events.NewBaseEvent(events.EventEntryUpserted, events.EntityMovie, m.ID()),
		Sources:   len(m.Sources),
	})
	return m.Clone(), nil
}

// UpsertShow merges a show into the catalog at episode granularity and
// returns the stored result.
func (s *Store) UpsertShow(ctx context.Context, in Show) (Show, error) {
	in = normalizeShow(in)
	if err := in.Validate(); err != nil {
		return Show{}, err
	}
	if s.remote == nil {
		return Show{}, notConfigured()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var existing *Show
	if cur, ok := s.GetShow(in.ID()); ok {
		existing = &cur
	}
	merged := mergeShow(existing, in)

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()
	if err := s.remote.PutShow(rctx, merged); err != nil {
		return Show{}, &RemoteWriteError{Op: "upsert", Kind: KindShow, ID: in.ID(), Err: err}
	}

	s.apply(ctx, func(cur Snapshot) Snapshot {
		cur.Shows = withShow(cur.Shows, merged)
		return cur
	})

	s.log.Info("show saved",
		zap.String("tmdb_id", merged.ID()),
		zap.Int("seasons", len(merged.Seasons)),
		zap.Int("episodes", merged.EpisodeCount()))
	s.publish(ctx, &events.EntryUpserted{
		BaseEvent: events.NewBaseEvent(events.EventEntryUpserted, events.EntityShow, merged.ID()),
		Seasons:   len(merged.Seasons),
		Episodes:  merged.EpisodeCount(),
	})
	return merged.Clone(), nil
}

// DeleteMovie removes a movie. Deleting an unknown ID is a no-op.
func (s *Store) DeleteMovie(ctx context.Context, id string) error {
	return s.delete(ctx, KindMovie, id)
}

// DeleteShow removes a show. Deleting an unknown ID is a no-op.
func (s *Store) DeleteShow(ctx context.Context, id string) error {
	return s.delete(ctx, KindShow, id)
}

func (s *Store) delete(ctx context.Context, kind Kind, id string) error {
	id = NormalizeID(id)
	if id == "" {
		return invalidf("tmdbId is required")
	}
	if s.remote == nil {
		return notConfigured()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()

	var err error
	if kind == KindMovie {
		err = s.remote.DeleteMovie(rctx, id)
	} else {
		err = s.remote.DeleteShow(rctx, id)
	}
	if err != nil {
		return &RemoteWriteError{Op: "delete", Kind: kind, ID: id, Err: err}
	}

	existed := false
	s.apply(ctx, func(cur Snapshot) Snapshot {
		if kind == KindMovie {
			cur.Movies, existed = withoutMovie(cur.Movies, id)
		} else {
			cur.Shows, existed = withoutShow(cur.Shows, id)
		}
		return cur
	})

	entity := events.EntityMovie
	if kind == KindShow {
		entity = events.EntityShow
	}
	s.log.Info("entry deleted", zap.String("kind", string(kind)), zap.String("tmdb_id", id), zap.Bool("existed", existed))
	s.publish(ctx, &events.EntryDeleted{
		BaseEvent: events.NewBaseEvent(events.EventEntryDeleted, entity, id),
		Existed:   existed,
	})
	return nil
}

// GetMovie looks a movie up in the mirror.
func (s *Store) GetMovie(id string) (Movie, bool) {
	id = NormalizeID(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := movieIndex(s.snap.Movies, id); i >= 0 {
		return s.snap.Movies[i].Clone(), true
	}
	return Movie{}, false
}

// GetShow looks a show up in the mirror.
func (s *Store) GetShow(id string) (Show, bool) {
	id = NormalizeID(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := showIndex(s.snap.Shows, id); i >= 0 {
		return s.snap.Shows[i].Clone(), true
	}
	return Show{}, false
}

// ListAll returns a copy of the whole mirror.
func (s *Store) ListAll() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// ListMovies returns a copy of every movie in the mirror.
func (s *Store) ListMovies() []Movie {
	return s.ListAll().Movies
}

// ListShows returns a copy of every show in the mirror.
func (s *Store) ListShows() []Show {
	return s.ListAll().Shows
}

// IDs returns the provider IDs of one kind in mirror order.
func (s *Store) IDs(kind Kind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if kind == KindMovie {
		ids := make([]string, len(s.snap.Movies))
		for i, m := range s.snap.Movies {
			ids[i] = m.ID()
		}
		return ids
	}
	ids := make([]string, len(s.snap.Shows))
	for i, sh := range s.snap.Shows {
		ids[i] = sh.ID()
	}
	return ids
}

// MovieSources returns the playback sources of a movie.
func (s *Store) MovieSources(id string) ([]Source, bool) {
	m, ok := s.GetMovie(id)
	if !ok || len(m.Sources) == 0 {
		return nil, false
	}
	return m.Sources, true
}

// EpisodeSources returns the playback sources of one episode.
func (s *Store) EpisodeSources(id string, season, episode int) ([]Source, bool) {
	sh, ok := s.GetShow(id)
	if !ok {
		return nil, false
	}
	si := seasonIndex(sh.Seasons, season)
	if si < 0 {
		return nil, false
	}
	ei := episodeIndex(sh.Seasons[si].Episodes, episode)
	if ei < 0 || len(sh.Seasons[si].Episodes[ei].Sources) == 0 {
		return nil, false
	}
	return sh.Seasons[si].Episodes[ei].Sources, true
}

// Sync pulls the full remote snapshot and merges it into the mirror: remote
// entries win, local-only entries are kept. When the remote cannot be read
// the mirror is untouched, the status moves to error and a *SyncError is
// returned.
func (s *Store) Sync(ctx context.Context) error {
	if s.remote == nil {
		return notConfigured()
	}

	s.setStatus(ctx, StateChecking, "Fetching data...")

	rctx, cancel := s.remoteContext(ctx)
	remote, err := s.remote.FetchAll(rctx)
	cancel()
	if err != nil {
		s.ensurePersisted(ctx)
		s.setStatus(ctx, StateError, "Sync error: "+err.Error())
		return &SyncError{Err: err}
	}

	kept := 0
	total := s.apply(ctx, func(cur Snapshot) Snapshot {
		var merged Snapshot
		merged, kept = mergeSnapshots(remote, cur)
		return merged
	})

	s.log.Info("synced with remote store",
		zap.Int("remote_movies", len(remote.Movies)),
		zap.Int("remote_shows", len(remote.Shows)),
		zap.Int("local_only", kept))
	s.publish(ctx, &events.CatalogSynced{
		BaseEvent:    events.NewBaseEvent(events.EventCatalogSynced, events.EntityStore, storeEntityID),
		RemoteMovies: len(remote.Movies),
		RemoteShows:  len(remote.Shows),
		LocalOnly:    kept,
	})
	s.setStatus(ctx, StateConnected, fmt.Sprintf("Connected (%d items)", total))
	return nil
}

// apply installs fn's result as the new mirror and persists it. It returns
// the number of entries in the installed snapshot.
func (s *Store) apply(ctx context.Context, fn func(Snapshot) Snapshot) int {
	s.mu.Lock()
	next := fn(Snapshot{Movies: s.snap.Movies, Shows: s.snap.Shows})
	s.snap = next
	s.version++
	version := s.version
	s.mu.Unlock()

	s.persist(ctx, next, version)
	return next.Len()
}

// persist saves snap unless a newer version has already been saved. Mirror
// failures are logged: the remote already holds the change. The save is not
// tied to the caller's cancellation so disk keeps up with memory.
func (s *Store) persist(ctx context.Context, snap Snapshot, version uint64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if version <= s.saved {
		return
	}
	if err := s.mirror.Save(context.WithoutCancel(ctx), snap); err != nil {
		s.log.Error("mirror save failed", zap.Error(err))
		return
	}
	s.saved = version
	s.persisted = true
}

// ensurePersisted writes the current (possibly empty) mirror if nothing has
// ever been saved, so an offline first start still leaves a valid cache.
func (s *Store) ensurePersisted(ctx context.Context) {
	s.persistMu.Lock()
	done := s.persisted
	s.persistMu.Unlock()
	if done {
		return
	}
	s.mu.RLock()
	snap, version := s.snap, s.version
	s.mu.RUnlock()
	s.persist(ctx, snap, version)
}

func (s *Store) setStatus(ctx context.Context, state State, msg string) {
	s.mu.Lock()
	s.status = Status{
		State:     state,
		Message:   msg,
		Items:     s.snap.Len(),
		UpdatedAt: time.Now(),
	}
	st := s.status
	s.mu.Unlock()

	s.log.Debug("status changed", zap.String("state", string(state)), zap.String("message", msg))
	s.publish(ctx, &events.StatusChanged{
		BaseEvent: events.NewBaseEvent(events.EventStatusChanged, events.EntityStore, storeEntityID),
		State:     string(st.State),
		Message:   st.Message,
		Items:     st.Items,
	})
}

func (s *Store) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		s.log.Warn("publish event", zap.String("type", e.EventType()), zap.Error(err))
	}
}

func (s *Store) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func notConfigured() error {
	return &ConfigError{Reason: "no remote store", Err: ErrNotConfigured}
}

func normalizeMovie(m Movie) Movie {
	m = m.Clone()
	m.TMDBID = ProviderID(NormalizeID(string(m.TMDBID)))
	return m
}

func normalizeShow(s Show) Show {
	s = s.Clone()
	s.TMDBID = ProviderID(NormalizeID(string(s.TMDBID)))
	return s
}
