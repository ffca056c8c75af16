package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/hydrate"
	"github.com/vmunix/streamiz/internal/tmdb"
)

func (s *Server) writeMetadataError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, hydrate.ErrNoMatch):
		writeError(w, http.StatusNotFound, "NO_MATCH", err.Error())
	default:
		s.log.Warn("metadata request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadGateway, "METADATA_ERROR", err.Error())
	}
}

// kindParam parses {kind} and writes a 400 when it is unknown.
func kindParam(w http.ResponseWriter, r *http.Request) (catalog.Kind, bool) {
	kind, err := pathKind(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_KIND", err.Error())
		return "", false
	}
	return kind, true
}

func (s *Server) browse(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Hydrator.Browse(r.Context(), kind))
}

func (s *Server) browseGenre(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	genreID, err := pathInt(r, "genreID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_GENRE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Hydrator.DiscoverByGenre(r.Context(), genreID, kind))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter q is required")
		return
	}
	page, err := s.deps.Hydrator.Search(r.Context(), q, kind, queryInt(r, "page", 1))
	if err != nil {
		s.writeMetadataError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter q is required")
		return
	}
	match, err := s.deps.Hydrator.ResolveTitle(r.Context(), q, kind)
	if err != nil {
		s.writeMetadataError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) genres(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	genres, err := s.deps.Hydrator.Genres(r.Context(), kind)
	if err != nil {
		s.writeMetadataError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"genres": genres})
}

func (s *Server) details(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	d, err := s.deps.Hydrator.FetchDetails(r.Context(), chi.URLParam(r, "id"), kind)
	if err != nil {
		s.writeMetadataError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) season(w http.ResponseWriter, r *http.Request) {
	number, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SEASON", err.Error())
		return
	}
	season, err := s.deps.Hydrator.Season(r.Context(), chi.URLParam(r, "id"), number)
	if err != nil {
		s.writeMetadataError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, season)
}
