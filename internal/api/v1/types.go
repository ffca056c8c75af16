package v1

import (
	"time"

	"github.com/vmunix/streamiz/internal/catalog"
)

// ListMoviesResponse is the body of GET /movies.
type ListMoviesResponse struct {
	Items []catalog.Movie `json:"items"`
	Total int             `json:"total"`
}

// ListShowsResponse is the body of GET /shows.
type ListShowsResponse struct {
	Items []catalog.Show `json:"items"`
	Total int           `json:"total"`
}

// SourcesResponse lists the playable sources of a movie or episode.
type SourcesResponse struct {
	TMDBID  string           `json:"tmdbId"`
	Season  int              `json:"season,omitempty"`
	Episode int              `json:"episode,omitempty"`
	Sources []catalog.Source `json:"sources"`
}

// ImportResponse reports an import. Error and Code are set when it stopped
// early; the counts cover what was committed.
type ImportResponse struct {
	catalog.ImportReport
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// EventResponse is one audit log entry.
type EventResponse struct {
	ID         int64     `json:"id"`
	EventType  string    `json:"event_type"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Payload    string    `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListEventsResponse is the body of GET /events.
type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse = errorResponse
