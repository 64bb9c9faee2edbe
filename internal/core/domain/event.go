package domain

import "time"

// EventType identifies a push notification sent to dashboard clients.
type EventType string

const (
	EventScanCompleted     EventType = "scan_completed"
	EventLinkCreated       EventType = "link_created"
	EventLinkStatusChanged EventType = "link_status_changed"
	EventLinkDeleted       EventType = "link_deleted"
)

// Event is a best-effort notification broadcast over the websocket stream.
// Delivery never blocks or fails the originating operation.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
	Time    time.Time `json:"time"`
}

// NewEvent stamps an event with the current time.
func NewEvent(t EventType, payload any) Event {
	return Event{Type: t, Payload: payload, Time: time.Now().UTC()}
}
