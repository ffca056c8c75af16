package events

// Event types.
const (
	EventEntryUpserted   = "catalog.entry.upserted"
	EventEntryDeleted    = "catalog.entry.deleted"
	EventCatalogSynced   = "catalog.synced"
	EventImportCompleted = "catalog.import.completed"
	EventStatusChanged   = "store.status.changed"
)

// EntryUpserted is emitted after a movie or show was durably saved.
type EntryUpserted struct {
	BaseEvent
	Sources  int `json:"sources"`
	Seasons  int `json:"seasons,omitempty"`
	Episodes int `json:"episodes,omitempty"`
}

// EntryDeleted is emitted after a movie or show was removed.
type EntryDeleted struct {
	BaseEvent
	Existed bool `json:"existed"`
}

// CatalogSynced is emitted after a successful sync with the remote store.
type CatalogSynced struct {
	BaseEvent
	RemoteMovies int `json:"remote_movies"`
	RemoteShows  int `json:"remote_shows"`
	LocalOnly    int `json:"local_only"`
}

// ImportCompleted is emitted when a bulk import finishes, successfully or not.
type ImportCompleted struct {
	BaseEvent
	Movies int    `json:"movies"`
	Shows  int    `json:"shows"`
	Error  string `json:"error,omitempty"`
}

// StatusChanged is emitted on every store connectivity transition.
type StatusChanged struct {
	BaseEvent
	State   string `json:"state"`
	Message string `json:"message"`
	Items   int    `json:"items"`
}
