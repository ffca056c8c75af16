package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/vmunix/streamiz/internal/catalog"
)

// File stores the mirror as a single JSON document in the export format.
type File struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// NewFile creates a file mirror at path on fsys. A nil fsys uses the OS filesystem.
func NewFile(fsys afero.Fs, path string) *File {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &File{fs: fsys, path: path}
}

func (f *File) Load(_ context.Context) (catalog.Snapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return catalog.Snapshot{}.Clone(), false, nil
	}
	if err != nil {
		return catalog.Snapshot{}, false, fmt.Errorf("read mirror: %w", err)
	}

	var snap catalog.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return catalog.Snapshot{}, false, fmt.Errorf("decode mirror %s: %w", f.path, err)
	}
	return snap.Clone(), true, nil
}

// Save writes to a temporary file and renames it over the mirror.
func (f *File) Save(_ context.Context, snap catalog.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(snap.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode mirror: %w", err)
	}
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create mirror dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write mirror: %w", err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("replace mirror: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }
