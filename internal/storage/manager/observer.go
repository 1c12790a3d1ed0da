package manager

import "time"

// EventType represents a registry lifecycle event
type EventType string

const (
	EventPublished     EventType = "published"
	EventReplaced      EventType = "replaced"
	EventDropped       EventType = "dropped"
	EventResolveFailed EventType = "resolve_failed"
)

// Event represents a change to the set of published column models
type Event struct {
	Type      EventType // Type of event
	Table     string    // Table name
	LoadID    string    // Identifies the load that produced the model (empty for drops)
	Timestamp time.Time // When the event occurred
	Err       error     // Set for EventResolveFailed
}

// Observer interface for event subscribers
type Observer interface {
	OnEvent(event Event)
}
