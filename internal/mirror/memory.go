package mirror

import (
	"context"
	"sync"

	"github.com/vmunix/streamiz/internal/catalog"
)

// Memory keeps the mirror in process memory. Nothing survives a restart.
type Memory struct {
	mu    sync.Mutex
	snap  catalog.Snapshot
	saved bool
	saves int
}

// NewMemory creates an empty memory mirror.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith creates a memory mirror that reports snap as previously saved.
func NewMemoryWith(snap catalog.Snapshot) *Memory {
	return &Memory{snap: snap.Clone(), saved: true}
}

func (m *Memory) Load(_ context.Context) (catalog.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Clone(), m.saved, nil
}

func (m *Memory) Save(_ context.Context, snap catalog.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	m.saved = true
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) Close() error { return nil }
