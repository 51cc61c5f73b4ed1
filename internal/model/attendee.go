package model

import "time"

// AttendeeListItem is the public projection used when listing a
// session's attendees.  DisplayName is already resolved: empty names
// are replaced with "(anonymous)".
type AttendeeListItem struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// JoinResult carries the credentials returned to a joining client.
type JoinResult struct {
	AttendeeID     string `json:"attendeeId"`
	AttendanceCode string `json:"attendanceCode"`
}
