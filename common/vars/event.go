package vars

import (
	"seatmap/model"
	"sync/atomic"
	"time"
)

// EventSnapshot is one successfully loaded events document.
type EventSnapshot struct {
	Events   []model.Event
	Token    string
	LoadedAt time.Time
}

// eventSnapshotPtr is swapped as a whole on every reload, so readers never
// see a half-updated list and never take a lock.
var eventSnapshotPtr atomic.Pointer[EventSnapshot]

// GetEventSnapshot returns the current snapshot, or nil before the first
// successful load.
func GetEventSnapshot() *EventSnapshot {
	return eventSnapshotPtr.Load()
}

// GetEvents returns the current events. Callers must not modify the slice.
func GetEvents() []model.Event {
	snapshot := eventSnapshotPtr.Load()
	if snapshot == nil {
		return nil
	}
	return snapshot.Events
}

// SetEvents replaces the current snapshot with a copy of events.
// Pass nil to clear it.
func SetEvents(events []model.Event, token string, loadedAt time.Time) {
	if events == nil {
		eventSnapshotPtr.Store(nil)
		return
	}

	eventsCopy := make([]model.Event, len(events))
	copy(eventsCopy, events)

	eventSnapshotPtr.Store(&EventSnapshot{
		Events:   eventsCopy,
		Token:    token,
		LoadedAt: loadedAt,
	})
}
