// internal/api/v1/api_test.go
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/catalog/mocks"
	"github.com/vmunix/streamiz/internal/events"
	"github.com/vmunix/streamiz/internal/hydrate"
	"github.com/vmunix/streamiz/internal/mirror"
	"github.com/vmunix/streamiz/internal/tmdb"
)

func testMovie(id string, urls ...string) catalog.Movie {
	m := catalog.Movie{TMDBID: catalog.ProviderID(id)}
	for _, u := range urls {
		m.Sources = append(m.Sources, catalog.Source{Quality: "1080p", URL: u})
	}
	return m
}

func testShow(id string) catalog.Show {
	return catalog.Show{
		TMDBID: catalog.ProviderID(id),
		Seasons: []catalog.Season{{
			Number: 1,
			Episodes: []catalog.Episode{
				{Number: 1, Sources: []catalog.Source{{Quality: "720p", URL: "https://cdn/s1e1"}}},
				{Number: 2, Sources: []catalog.Source{{Quality: "720p", URL: "https://cdn/s1e2"}}},
			},
		}},
	}
}

// newTestStore opens a store over a mocked remote whose initial sync returns
// initial.
func newTestStore(t *testing.T, initial catalog.Snapshot) (*catalog.Store, *mocks.MockRemote) {
	t.Helper()
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemote(ctrl)
	remote.EXPECT().FetchAll(gomock.Any()).Return(initial, nil)

	store := catalog.New(remote, mirror.NewMemory())
	require.NoError(t, store.Open(context.Background()))
	return store, remote
}

func newTestServer(t *testing.T, deps ServerDeps) http.Handler {
	t.Helper()
	srv, err := New(deps)
	require.NoError(t, err)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestNew_RequiresCatalog(t *testing.T) {
	_, err := New(ServerDeps{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDependency))
}

func TestHealthAndReady(t *testing.T) {
	store, _ := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store})

	w := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = do(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	store, _ := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store})

	w := do(t, h, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = do(t, h, http.MethodGet, "/healthz", "", RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestGetStatus(t *testing.T) {
	store, _ := newTestStore(t, catalog.Snapshot{Movies: []catalog.Movie{testMovie("603", "u")}})
	h := newTestServer(t, ServerDeps{Catalog: store})

	w := do(t, h, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[catalog.Status](t, w)
	assert.Equal(t, catalog.StateConnected, st.State)
	assert.Equal(t, 1, st.Items)
}

func TestMovies_ListAndGet(t *testing.T) {
	store, _ := newTestStore(t, catalog.Snapshot{Movies: []catalog.Movie{testMovie("603", "https://cdn/matrix")}})
	h := newTestServer(t, ServerDeps{Catalog: store})

	w := do(t, h, http.MethodGet, "/api/v1/movies", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ListMoviesResponse](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, catalog.ProviderID("603"), list.Items[0].TMDBID)

	w = do(t, h, http.MethodGet, "/api/v1/movies/603", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn/matrix", decode[catalog.Movie](t, w).Sources[0].URL)

	w = do(t, h, http.MethodGet, "/api/v1/movies/604", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorResponse](t, w).Code)

	w = do(t, h, http.MethodGet, "/api/v1/movies/603/sources", "")
	require.Equal(t, http.StatusOK, w.Code)
	src := decode[SourcesResponse](t, w)
	assert.Equal(t, "603", src.TMDBID)
	assert.Len(t, src.Sources, 1)
}

func TestShows_GetAndEpisodeSources(t *testing.T) {
	store, _ := newTestStore(t, catalog.Snapshot{Shows: []catalog.Show{testShow("1399")}})
	h := newTestServer(t, ServerDeps{Catalog: store})

	w := do(t, h, http.MethodGet, "/api/v1/shows", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[ListShowsResponse](t, w).Total)

	w = do(t, h, http.MethodGet, "/api/v1/shows/1399/seasons/1/episodes/2/sources", "")
	require.Equal(t, http.StatusOK, w.Code)
	src := decode[SourcesResponse](t, w)
	assert.Equal(t, 1, src.Season)
	assert.Equal(t, 2, src.Episode)
	assert.Equal(t, "https://cdn/s1e2", src.Sources[0].URL)

	w = do(t, h, http.MethodGet, "/api/v1/shows/1399/seasons/1/episodes/9/sources", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/shows/1399/seasons/x/episodes/1/sources", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutMovie(t *testing.T) {
	store, remote := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store})

	remote.EXPECT().PutMovie(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m catalog.Movie) error {
		assert.Equal(t, catalog.ProviderID("27205"), m.TMDBID)
		return nil
	})

	w := do(t, h, http.MethodPut, "/api/v1/movies/27205", `{"sources":[{"quality":"4K","url":"https://cdn/inception"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, catalog.ProviderID("27205"), decode[catalog.Movie](t, w).TMDBID)

	got, ok := store.GetMovie("27205")
	require.True(t, ok)
	assert.Equal(t, "4K", got.Sources[0].Quality)
}

func TestPutMovie_Errors(t *testing.T) {
	store, remote := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store})

	w := do(t, h, http.MethodPut, "/api/v1/movies/1", `{"tmdbId":"2","sources":[{"url":"u"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ENTRY", decode[errorResponse](t, w).Code)

	w = do(t, h, http.MethodPut, "/api/v1/movies/1", `{"sources":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, "/api/v1/movies/1", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	remote.EXPECT().PutMovie(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	w = do(t, h, http.MethodPut, "/api/v1/movies/1", `{"sources":[{"url":"u"}]}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "REMOTE_WRITE_FAILED", decode[errorResponse](t, w).Code)

	_, ok := store.GetMovie("1")
	assert.False(t, ok)
}

func TestWrites_NoRemote(t *testing.T) {
	store := catalog.New(nil, mirror.NewMemory())
	require.NoError(t, store.Open(context.Background()))
	h := newTestServer(t, ServerDeps{Catalog: store})

	w := do(t, h, http.MethodPut, "/api/v1/movies/1", `{"sources":[{"url":"u"}]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "NOT_CONFIGURED", decode[errorResponse](t, w).Code)

	w = do(t, h, http.MethodPost, "/api/v1/sync", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPutShow_Merges(t *testing.T) {
	store, remote := newTestStore(t, catalog.Snapshot{Shows: []catalog.Show{testShow("1399")}})
	h := newTestServer(t, ServerDeps{Catalog: store})

	remote.EXPECT().PutShow(gomock.Any(), gomock.Any()).Return(nil)
	w := do(t, h, http.MethodPut, "/api/v1/shows/1399",
		`{"seasons":[{"season_number":1,"episodes":[{"episode_number":3,"sources":[{"quality":"720p","url":"https://cdn/s1e3"}]}]}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	saved := decode[catalog.Show](t, w)
	assert.Equal(t, 3, saved.EpisodeCount())
}

func TestDelete(t *testing.T) {
	store, remote := newTestStore(t, catalog.Snapshot{
		Movies: []catalog.Movie{testMovie("603", "u")},
		Shows:  []catalog.Show{testShow("1399")},
	})
	h := newTestServer(t, ServerDeps{Catalog: store})

	remote.EXPECT().DeleteMovie(gomock.Any(), "603").Return(nil)
	remote.EXPECT().DeleteShow(gomock.Any(), "1399").Return(nil)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/v1/movies/603", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/v1/shows/1399", "").Code)
	assert.Equal(t, 0, store.ListAll().Len())
}

func TestSync(t *testing.T) {
	store, remote := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store})

	remote.EXPECT().FetchAll(gomock.Any()).Return(catalog.Snapshot{Movies: []catalog.Movie{testMovie("1", "u")}}, nil)
	w := do(t, h, http.MethodPost, "/api/v1/sync", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[catalog.Status](t, w).Items)

	remote.EXPECT().FetchAll(gomock.Any()).Return(catalog.Snapshot{}, errors.New("timeout"))
	w = do(t, h, http.MethodPost, "/api/v1/sync", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "SYNC_FAILED", decode[errorResponse](t, w).Code)
}

func TestImportAndExport(t *testing.T) {
	store, remote := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store})

	remote.EXPECT().PutMovie(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	remote.EXPECT().PutShow(gomock.Any(), gomock.Any()).Return(nil)

	doc := `{"movies":[{"tmdbId":1,"url":"https://cdn/1"},{"tmdbId":"2","sources":[{"quality":"HD","url":"https://cdn/2"}]}],
		"tv":[{"tmdbId":3,"seasons":[{"season_number":1,"episodes":[{"episode_number":1,"url":"https://cdn/3"}]}]}]}`
	w := do(t, h, http.MethodPost, "/api/v1/import", doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rep := decode[ImportResponse](t, w)
	assert.Equal(t, 2, rep.Movies)
	assert.Equal(t, 1, rep.Shows)

	w = do(t, h, http.MethodGet, "/api/v1/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	exported, err := catalog.DecodeDocument(w.Body)
	require.NoError(t, err)
	assert.Len(t, exported.Movies, 2)
	assert.Len(t, exported.Shows, 1)
	assert.Equal(t, "Default", exported.Movies[0].Sources[0].Quality)
}

func TestImport_InvalidDocument(t *testing.T) {
	store, _ := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store})

	w := do(t, h, http.MethodPost, "/api/v1/import", `{"movies":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DOCUMENT", decode[ImportResponse](t, w).Code)

	w = do(t, h, http.MethodPost, "/api/v1/import", `{"movies":[{"tmdbId":"1","sources":[]}],"tv":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ENTRY", decode[ImportResponse](t, w).Code)
}

func TestImport_RemoteFailureReportsProgress(t *testing.T) {
	store, remote := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store})

	gomock.InOrder(
		remote.EXPECT().PutMovie(gomock.Any(), gomock.Any()).Return(nil),
		remote.EXPECT().PutMovie(gomock.Any(), gomock.Any()).Return(errors.New("down")),
	)
	w := do(t, h, http.MethodPost, "/api/v1/import", `{"movies":[{"tmdbId":1,"url":"a"},{"tmdbId":2,"url":"b"}],"tv":[]}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	rep := decode[ImportResponse](t, w)
	assert.Equal(t, 1, rep.Movies)
	assert.Equal(t, "REMOTE_WRITE_FAILED", rep.Code)
}

func TestAdminAuth(t *testing.T) {
	const secret = "0123456789abcdef0123"
	store, remote := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store, JWTSecret: secret})

	body := `{"sources":[{"url":"u"}]}`

	w := do(t, h, http.MethodPut, "/api/v1/movies/1", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPut, "/api/v1/movies/1", body, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := SignToken("another-secret-entirely", "alice", RoleAdmin, time.Minute)
	require.NoError(t, err)
	w = do(t, h, http.MethodPut, "/api/v1/movies/1", body, "Authorization", "Bearer "+other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	user, err := SignToken(secret, "bob", "user", time.Minute)
	require.NoError(t, err)
	w = do(t, h, http.MethodPut, "/api/v1/movies/1", body, "Authorization", "Bearer "+user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin, err := SignToken(secret, "alice", RoleAdmin, time.Minute)
	require.NoError(t, err)
	remote.EXPECT().PutMovie(gomock.Any(), gomock.Any()).Return(nil)
	w = do(t, h, http.MethodPut, "/api/v1/movies/1", body, "Authorization", "Bearer "+admin)
	assert.Equal(t, http.StatusOK, w.Code)

	// Reads stay open.
	w = do(t, h, http.MethodGet, "/api/v1/movies", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

type fakeHydrator struct {
	details map[string]*tmdb.Details
}

func (f *fakeHydrator) Browse(_ context.Context, kind catalog.Kind) hydrate.Page {
	return hydrate.Page{Page: 1, TotalPages: 1, TotalResults: 1, Results: []hydrate.Item{{TMDBID: "603", Kind: kind, Title: "The Matrix"}}}
}

func (f *fakeHydrator) DiscoverByGenre(_ context.Context, genreID int, kind catalog.Kind) hydrate.Page {
	if genreID != 878 {
		return hydrate.Page{Page: 1, TotalPages: 1, Results: []hydrate.Item{}}
	}
	return f.Browse(context.Background(), kind)
}

func (f *fakeHydrator) Search(_ context.Context, query string, _ catalog.Kind, page int) (*tmdb.Page, error) {
	if query == "boom" {
		return nil, errors.New("upstream 500")
	}
	return &tmdb.Page{Page: page, Results: []tmdb.Result{{ID: 603, Title: "The Matrix"}}, TotalPages: 1, TotalResults: 1}, nil
}

func (f *fakeHydrator) ResolveTitle(_ context.Context, query string, _ catalog.Kind) (hydrate.Match, error) {
	if query != "The Matrix" {
		return hydrate.Match{}, hydrate.ErrNoMatch
	}
	return hydrate.Match{TMDBID: "603", Title: "The Matrix", Year: 1999, Score: 1}, nil
}

func (f *fakeHydrator) FetchDetails(_ context.Context, id string, kind catalog.Kind) (*tmdb.Details, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, &hydrate.MetadataFetchError{Kind: kind, ID: id, Err: tmdb.ErrNotFound}
	}
	return d, nil
}

func (f *fakeHydrator) Genres(context.Context, catalog.Kind) ([]tmdb.Genre, error) {
	return []tmdb.Genre{{ID: 878, Name: "Science Fiction"}}, nil
}

func (f *fakeHydrator) Season(_ context.Context, showID string, number int) (*tmdb.Season, error) {
	return &tmdb.Season{SeasonNumber: number, Episodes: []tmdb.Episode{{EpisodeNumber: 1, Name: "Winter Is Coming"}}}, nil
}

func TestMetadataRoutes(t *testing.T) {
	store, _ := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{
		Catalog:  store,
		Hydrator: &fakeHydrator{details: map[string]*tmdb.Details{"603": {ID: 603, Title: "The Matrix"}}},
	})

	w := do(t, h, http.MethodGet, "/api/v1/browse/movie", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "The Matrix", decode[hydrate.Page](t, w).Results[0].Title)

	w = do(t, h, http.MethodGet, "/api/v1/browse/movies/genres/878", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[hydrate.Page](t, w).Results, 1)

	w = do(t, h, http.MethodGet, "/api/v1/browse/podcasts", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_KIND", decode[errorResponse](t, w).Code)

	w = do(t, h, http.MethodGet, "/api/v1/search/movie?q=matrix&page=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[tmdb.Page](t, w).Page)

	w = do(t, h, http.MethodGet, "/api/v1/search/movie", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/search/movie?q=boom", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/resolve/movie?q=The+Matrix", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "603", decode[hydrate.Match](t, w).TMDBID)

	w = do(t, h, http.MethodGet, "/api/v1/resolve/movie?q=Nothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NO_MATCH", decode[errorResponse](t, w).Code)

	w = do(t, h, http.MethodGet, "/api/v1/details/movie/603", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "The Matrix", decode[tmdb.Details](t, w).Title)

	w = do(t, h, http.MethodGet, "/api/v1/details/movie/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/genres/movie", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Science Fiction")

	w = do(t, h, http.MethodGet, "/api/v1/details/tv/1399/seasons/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[tmdb.Season](t, w).SeasonNumber)
}

func TestMetadataRoutes_NotConfigured(t *testing.T) {
	store, _ := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store})

	w := do(t, h, http.MethodGet, "/api/v1/browse/movie", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", decode[errorResponse](t, w).Code)
}

type fakeEventLog struct {
	events []events.RawEvent
	since  time.Time
	limit  int
}

func (f *fakeEventLog) Since(_ context.Context, t time.Time) ([]events.RawEvent, error) {
	f.since = t
	var out []events.RawEvent
	for _, e := range f.events {
		if !e.OccurredAt.Before(t) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventLog) Recent(_ context.Context, limit int) ([]events.RawEvent, error) {
	f.limit = limit
	return f.events, nil
}

func (f *fakeEventLog) ForEntity(_ context.Context, entityType, entityID string) ([]events.RawEvent, error) {
	var out []events.RawEvent
	for _, e := range f.events {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestEntityHistory(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	log := &fakeEventLog{events: []events.RawEvent{
		{ID: 1, EventType: events.EventEntryUpserted, EntityType: events.EntityMovie, EntityID: "603", OccurredAt: base},
		{ID: 2, EventType: events.EventEntryUpserted, EntityType: events.EntityShow, EntityID: "603", OccurredAt: base},
		{ID: 3, EventType: events.EventEntryDeleted, EntityType: events.EntityMovie, EntityID: "603", OccurredAt: base.Add(time.Hour)},
	}}
	store, _ := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store, EventLog: log})

	w := do(t, h, http.MethodGet, "/api/v1/movies/603/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ListEventsResponse](t, w)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, int64(1), resp.Items[0].ID)
	assert.Equal(t, int64(3), resp.Items[1].ID)

	w = do(t, h, http.MethodGet, "/api/v1/shows/603/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[ListEventsResponse](t, w).Total)

	w = do(t, h, http.MethodGet, "/api/v1/shows/1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[ListEventsResponse](t, w).Total)
}

func TestListEvents(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	log := &fakeEventLog{events: []events.RawEvent{
		{ID: 1, EventType: events.EventEntryUpserted, EntityType: events.EntityMovie, EntityID: "603", OccurredAt: base},
		{ID: 2, EventType: events.EventEntryDeleted, EntityType: events.EntityMovie, EntityID: "603", OccurredAt: base.Add(time.Hour)},
	}}
	store, _ := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store, EventLog: log})

	w := do(t, h, http.MethodGet, "/api/v1/events?since="+base.Add(time.Minute).Format(time.RFC3339), "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ListEventsResponse](t, w)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(2), resp.Items[0].ID)

	w = do(t, h, http.MethodGet, "/api/v1/events?limit=5000", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[ListEventsResponse](t, w).Total)
	assert.Equal(t, maxEventLimit, log.limit)

	w = do(t, h, http.MethodGet, "/api/v1/events?since=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEvents_NotConfigured(t *testing.T) {
	store, _ := newTestStore(t, catalog.Snapshot{})
	h := newTestServer(t, ServerDeps{Catalog: store})

	w := do(t, h, http.MethodGet, "/api/v1/events", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "NO_EVENT_LOG", decode[errorResponse](t, w).Code)
}
