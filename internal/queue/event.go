// Package queue defines message payloads exchanged over the message
// broker and the background consumer.  Events carry enough information
// for downstream consumers to log or trigger notifications without
// querying the primary database.  Bearer codes are never part of any
// event payload.
package queue

// SessionCreatedEvent is published when a new session is persisted.
type SessionCreatedEvent struct {
	EventID         string `json:"event_id"`
	SessionID       string `json:"session_id"`
	Hobby           string `json:"hobby"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	MaxParticipants int    `json:"max_participants"`
	DateTime        string `json:"date_time"`
	CreatedAt       string `json:"created_at"`
}

// AttendeeJoinedEvent is published when a join transaction commits.
type AttendeeJoinedEvent struct {
	EventID     string `json:"event_id"`
	SessionID   string `json:"session_id"`
	AttendeeID  string `json:"attendee_id"`
	DisplayName string `json:"display_name"`
	JoinedAt    string `json:"joined_at"`
}

// Queue names.  Both queues are declared durable by publisher and
// consumer alike, so declaration is idempotent on either side.
const (
	SessionCreatedQueue = "session.created"
	AttendeeJoinedQueue = "attendee.joined"
)
