package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vmunix/streamiz/internal/catalog"
)

// maxImportBytes bounds import and upsert bodies.
const maxImportBytes = 32 << 20

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Catalog.Status())
}

func (s *Server) sync(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Catalog.Sync(r.Context()); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Catalog.Status())
}

func (s *Server) listMovies(w http.ResponseWriter, _ *http.Request) {
	items := s.deps.Catalog.ListMovies()
	writeJSON(w, http.StatusOK, ListMoviesResponse{Items: items, Total: len(items)})
}

func (s *Server) listShows(w http.ResponseWriter, _ *http.Request) {
	items := s.deps.Catalog.ListShows()
	writeJSON(w, http.StatusOK, ListShowsResponse{Items: items, Total: len(items)})
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	m, ok := s.deps.Catalog.GetMovie(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) getShow(w http.ResponseWriter, r *http.Request) {
	sh, ok := s.deps.Catalog.GetShow(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Show not found")
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

func (s *Server) movieSources(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sources, ok := s.deps.Catalog.MovieSources(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
		return
	}
	writeJSON(w, http.StatusOK, SourcesResponse{TMDBID: catalog.NormalizeID(id), Sources: sources})
}

func (s *Server) episodeSources(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SEASON", err.Error())
		return
	}
	episode, err := pathInt(r, "episode")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_EPISODE", err.Error())
		return
	}
	sources, ok := s.deps.Catalog.EpisodeSources(id, season, episode)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Episode not found")
		return
	}
	writeJSON(w, http.StatusOK, SourcesResponse{
		TMDBID:  catalog.NormalizeID(id),
		Season:  season,
		Episode: episode,
		Sources: sources,
	})
}

// decodeEntry reads a JSON body into v and reconciles its tmdbId with the
// path id. An empty body id takes the path id.
func decodeEntry(w http.ResponseWriter, r *http.Request, v any, bodyID func() catalog.ProviderID, setID func(catalog.ProviderID)) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrInvalidEntry, err)
	}
	pathID := catalog.NormalizeID(chi.URLParam(r, "id"))
	switch got := catalog.NormalizeID(string(bodyID())); {
	case got == "":
		setID(catalog.ProviderID(pathID))
	case got != pathID:
		return fmt.Errorf("%w: tmdbId %q does not match path id %q", catalog.ErrInvalidEntry, got, pathID)
	}
	return nil
}

func (s *Server) putMovie(w http.ResponseWriter, r *http.Request) {
	var m catalog.Movie
	err := decodeEntry(w, r, &m,
		func() catalog.ProviderID { return m.TMDBID },
		func(id catalog.ProviderID) { m.TMDBID = id })
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ENTRY", err.Error())
		return
	}
	saved, err := s.deps.Catalog.UpsertMovie(r.Context(), m)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) putShow(w http.ResponseWriter, r *http.Request) {
	var sh catalog.Show
	err := decodeEntry(w, r, &sh,
		func() catalog.ProviderID { return sh.TMDBID },
		func(id catalog.ProviderID) { sh.TMDBID = id })
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ENTRY", err.Error())
		return
	}
	saved, err := s.deps.Catalog.UpsertShow(r.Context(), sh)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) deleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Catalog.DeleteMovie(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteShow(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Catalog.DeleteShow(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) importCatalog(w http.ResponseWriter, r *http.Request) {
	report, err := s.deps.Catalog.ImportFrom(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		code, errCode := storeErrorStatus(err)
		var impErr *catalog.ImportError
		if errors.As(err, &impErr) && code == http.StatusInternalServerError {
			code, errCode = http.StatusBadGateway, "IMPORT_FAILED"
		}
		s.log.Warn("import failed", zap.Int("movies", report.Movies), zap.Int("shows", report.Shows), zap.Error(err))
		writeJSON(w, code, ImportResponse{ImportReport: report, Error: err.Error(), Code: errCode})
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{ImportReport: report})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.deps.Catalog.Export(&buf); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="streamiz-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
