package request

import "fmt"

// EventKind tags a row-level change notification from the backing store.
type EventKind string

const (
	EventInsert EventKind = "INSERT"
	EventUpdate EventKind = "UPDATE"
	EventDelete EventKind = "DELETE"
)

// ParseEventKind validates a change-feed event tag. Unknown kinds are
// rejected so the feed can drop them instead of guessing.
func ParseEventKind(s string) (EventKind, error) {
	switch EventKind(s) {
	case EventInsert, EventUpdate, EventDelete:
		return EventKind(s), nil
	}
	return "", fmt.Errorf("unknown change event kind: %q", s)
}

// Event is a normalized row-level change. For deletes Row carries the
// old row image; for inserts and updates it carries the new one.
type Event struct {
	Kind EventKind
	Row  Request
}
