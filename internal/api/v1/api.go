// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vmunix/streamiz/internal/catalog"
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	log  *zap.Logger
	auth *verifier
}

// New creates a new v1 API server.
func New(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{deps: deps, log: log.With(zap.String("component", "api"))}
	if deps.JWTSecret != "" {
		s.auth = &verifier{secret: []byte(deps.JWTSecret)}
	}
	return s, nil
}

// Handler returns the full router: health endpoints plus /api/v1.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.setupRouter(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", s.ready)

	r.Route("/api/v1", s.RegisterRoutes)
	return r
}

// RegisterRoutes registers API routes on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	// Status
	r.Get("/status", s.getStatus)

	// Catalog reads
	r.Get("/movies", s.listMovies)
	r.Get("/movies/{id}", s.getMovie)
	r.Get("/movies/{id}/sources", s.movieSources)
	r.Get("/shows", s.listShows)
	r.Get("/shows/{id}", s.getShow)
	r.Get("/shows/{id}/seasons/{season}/episodes/{episode}/sources", s.episodeSources)
	r.Get("/export", s.export)

	// Catalog writes
	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/sync", s.sync)
		r.Put("/movies/{id}", s.putMovie)
		r.Delete("/movies/{id}", s.deleteMovie)
		r.Put("/shows/{id}", s.putShow)
		r.Delete("/shows/{id}", s.deleteShow)
		r.Post("/import", s.importCatalog)
	})

	// Metadata
	r.Group(func(r chi.Router) {
		r.Use(s.requireHydrator)
		r.Get("/browse/{kind}", s.browse)
		r.Get("/browse/{kind}/genres/{genreID}", s.browseGenre)
		r.Get("/search/{kind}", s.search)
		r.Get("/resolve/{kind}", s.resolve)
		r.Get("/genres/{kind}", s.genres)
		r.Get("/details/{kind}/{id}", s.details)
		r.Get("/details/tv/{id}/seasons/{season}", s.season)
	})

	// Audit log
	r.Group(func(r chi.Router) {
		r.Use(s.requireEventLog)
		r.Get("/events", s.listEvents)
		r.Get("/movies/{id}/history", s.movieHistory)
		r.Get("/shows/{id}/history", s.showHistory)
	})
}

func (s *Server) ready(w http.ResponseWriter, _ *http.Request) {
	st := s.deps.Catalog.Status()
	if st.State == catalog.StateChecking {
		writeError(w, http.StatusServiceUnavailable, "NOT_READY", st.Message)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// storeErrorStatus maps catalog errors to an HTTP status and error code.
func storeErrorStatus(err error) (int, string) {
	var (
		writeErr *catalog.RemoteWriteError
		syncErr  *catalog.SyncError
	)
	switch {
	case errors.Is(err, catalog.ErrNotConfigured):
		return http.StatusServiceUnavailable, "NOT_CONFIGURED"
	case errors.Is(err, catalog.ErrInvalidEntry):
		return http.StatusBadRequest, "INVALID_ENTRY"
	case errors.Is(err, catalog.ErrInvalidDocument):
		return http.StatusBadRequest, "INVALID_DOCUMENT"
	case errors.As(err, &writeErr):
		return http.StatusBadGateway, "REMOTE_WRITE_FAILED"
	case errors.As(err, &syncErr):
		return http.StatusBadGateway, "SYNC_FAILED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	code, errCode := storeErrorStatus(err)
	if code >= http.StatusInternalServerError {
		s.log.Warn("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err))
	}
	writeError(w, code, errCode, err.Error())
}

// pathKind parses the {kind} URL parameter.
func pathKind(r *http.Request) (catalog.Kind, error) {
	return catalog.ParseKind(chi.URLParam(r, "kind"))
}

// pathInt parses a non-negative integer URL parameter.
func pathInt(r *http.Request, name string) (int, error) {
	v := chi.URLParam(r, name)
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
