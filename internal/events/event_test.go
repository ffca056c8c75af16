package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseEvent_ImplementsEvent(t *testing.T) {
	now := time.Now()
	e := BaseEvent{
		Type:      "test.event",
		Entity:    EntityMovie,
		ID:        "603",
		Timestamp: now,
	}

	assert.Equal(t, "test.event", e.EventType())
	assert.Equal(t, EntityMovie, e.EntityType())
	assert.Equal(t, "603", e.EntityID())
	assert.Equal(t, now, e.OccurredAt())
}

func TestNewBaseEvent(t *testing.T) {
	e := NewBaseEvent(EventEntryUpserted, EntityShow, "1399")

	assert.Equal(t, EventEntryUpserted, e.EventType())
	assert.Equal(t, EntityShow, e.EntityType())
	assert.Equal(t, "1399", e.EntityID())
	assert.False(t, e.OccurredAt().IsZero())
}

func TestCatalogEvents_ImplementEvent(t *testing.T) {
	var _ Event = &EntryUpserted{}
	var _ Event = &EntryDeleted{}
	var _ Event = &CatalogSynced{}
	var _ Event = &ImportCompleted{}
	var _ Event = &StatusChanged{}
}
