package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntry indicates an entry failed validation.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrNotConfigured indicates no remote store is available for writes.
	ErrNotConfigured = errors.New("remote store not configured")
)

// ConfigError reports a remote store that is missing or could not be initialized.
// Remote operations fail with it; local reads keep working.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote config: %s: %v", e.Reason, e.Err)
	}
	return "remote config: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RemoteWriteError is returned when the remote store rejects an upsert or delete.
// The local mirror is left unchanged.
type RemoteWriteError struct {
	Op   string // "upsert" or "delete"
	Kind Kind
	ID   string
	Err  error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("remote %s %s %s: %v", e.Op, e.Kind, e.ID, e.Err)
}

func (e *RemoteWriteError) Unwrap() error { return e.Err }

// SyncError is returned when the remote snapshot could not be read.
// The local mirror is left unchanged.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string { return "sync: " + e.Err.Error() }

func (e *SyncError) Unwrap() error { return e.Err }

// ImportError names the item that stopped a bulk import.
type ImportError struct {
	Kind  Kind
	Index int
	ID    string
	Err   error
}

func (e *ImportError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("import %s[%d] (id %s): %v", e.Kind, e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("import %s[%d]: %v", e.Kind, e.Index, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEntry, fmt.Sprintf(format, args...))
}
