package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/vmunix/streamiz/internal/events"
)

// ErrInvalidDocument is returned when an import document is not
// {"movies": [...], "tv": [...]}.
var ErrInvalidDocument = errors.New("invalid import document")

// ImportReport counts what an import committed.
type ImportReport struct {
	Movies int `json:"movies"`
	Shows  int `json:"shows"`
}

// ImportFrom decodes an import document and applies it. Both "movies" and
// "tv" keys must be present.
func (s *Store) ImportFrom(ctx context.Context, r io.Reader) (ImportReport, error) {
	doc, err := DecodeDocument(r)
	if err != nil {
		return ImportReport{}, err
	}
	return s.Import(ctx, doc)
}

// DecodeDocument reads an import document.
func DecodeDocument(r io.Reader) (Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	movies, okMovies := raw["movies"]
	shows, okShows := raw["tv"]
	if !okMovies || !okShows {
		return Snapshot{}, fmt.Errorf("%w: both \"movies\" and \"tv\" are required", ErrInvalidDocument)
	}

	var doc Snapshot
	if err := json.Unmarshal(movies, &doc.Movies); err != nil {
		return Snapshot{}, fmt.Errorf("%w: movies: %v", ErrInvalidDocument, err)
	}
	if err := json.Unmarshal(shows, &doc.Shows); err != nil {
		return Snapshot{}, fmt.Errorf("%w: tv: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// Import validates every entry and then upserts movies followed by shows.
// Nothing is written when any entry is invalid. A remote failure stops the
// import; entries committed before it stay committed and are counted in the
// returned report.
func (s *Store) Import(ctx context.Context, doc Snapshot) (ImportReport, error) {
	for i, m := range doc.Movies {
		if err := normalizeMovie(m).Validate(); err != nil {
			return ImportReport{}, &ImportError{Kind: KindMovie, Index: i, ID: NormalizeID(m.ID()), Err: err}
		}
	}
	for i, sh := range doc.Shows {
		if err := normalizeShow(sh).Validate(); err != nil {
			return ImportReport{}, &ImportError{Kind: KindShow, Index: i, ID: NormalizeID(sh.ID()), Err: err}
		}
	}
	if s.remote == nil && (len(doc.Movies) > 0 || len(doc.Shows) > 0) {
		return ImportReport{}, notConfigured()
	}

	var report ImportReport
	var failed error
	for i, m := range doc.Movies {
		if _, err := s.UpsertMovie(ctx, m); err != nil {
			failed = &ImportError{Kind: KindMovie, Index: i, ID: NormalizeID(m.ID()), Err: err}
			break
		}
		report.Movies++
	}
	if failed == nil {
		for i, sh := range doc.Shows {
			if _, err := s.UpsertShow(ctx, sh); err != nil {
				failed = &ImportError{Kind: KindShow, Index: i, ID: NormalizeID(sh.ID()), Err: err}
				break
			}
			report.Shows++
		}
	}

	done := &events.ImportCompleted{
		BaseEvent: events.NewBaseEvent(events.EventImportCompleted, events.EntityStore, storeEntityID),
		Movies:    report.Movies,
		Shows:     report.Shows,
	}
	if failed != nil {
		done.Error = failed.Error()
		s.log.Warn("import stopped", zap.Int("movies", report.Movies), zap.Int("shows", report.Shows), zap.Error(failed))
	} else {
		s.log.Info("import completed", zap.Int("movies", report.Movies), zap.Int("shows", report.Shows))
	}
	s.publish(ctx, done)
	return report, failed
}

// Export writes the mirror as an indented import document.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.ListAll()); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
