package v1

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/events"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// listEvents returns audit log entries. With ?since=<RFC3339> it returns
// everything from that instant on, oldest first; otherwise the most recent
// ?limit entries.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	var (
		evs []events.RawEvent
		err error
	)
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since must be an RFC3339 timestamp")
			return
		}
		evs, err = s.deps.EventLog.Since(r.Context(), since)
	} else {
		limit := queryInt(r, "limit", defaultEventLimit)
		if limit < 0 {
			writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit must be non-negative")
			return
		}
		evs, err = s.deps.EventLog.Recent(r.Context(), min(limit, maxEventLimit))
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse(evs))
}

func (s *Server) movieHistory(w http.ResponseWriter, r *http.Request) {
	s.entityHistory(w, r, events.EntityMovie)
}

func (s *Server) showHistory(w http.ResponseWriter, r *http.Request) {
	s.entityHistory(w, r, events.EntityShow)
}

// entityHistory returns every audit entry for one title, oldest first. It
// works for titles that have since been deleted.
func (s *Server) entityHistory(w http.ResponseWriter, r *http.Request, entityType string) {
	id := catalog.NormalizeID(chi.URLParam(r, "id"))
	evs, err := s.deps.EventLog.ForEntity(r.Context(), entityType, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse(evs))
}

func eventsResponse(evs []events.RawEvent) ListEventsResponse {
	resp := ListEventsResponse{
		Items: make([]EventResponse, len(evs)),
		Total: len(evs),
	}
	for i, e := range evs {
		resp.Items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt.UTC(),
		}
	}
	return resp
}
