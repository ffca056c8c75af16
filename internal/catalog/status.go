package catalog

import "time"

// State is the remote connectivity state of a Store.
type State string

// Unconfigured -> Checking -> Connected | Error. The store never moves between
// Connected and Error on its own; only an explicit Sync re-evaluates it.
const (
	StateUnconfigured State = "unconfigured"
	StateChecking     State = "checking"
	StateConnected    State = "connected"
	StateError        State = "error"
)

// Status is the observable connectivity status of a Store.
type Status struct {
	State     State     `json:"state"`
	Message   string    `json:"message"`
	Items     int       `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}
