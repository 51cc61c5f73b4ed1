package model

import "time"

// SessionType enumerates the visibility of a session.  Public sessions
// appear in the open listing; private sessions are discoverable only by
// id or by their private-url code.
type SessionType string

const (
	SessionPublic  SessionType = "public"
	SessionPrivate SessionType = "private"
)

// Valid reports whether t is one of the two known session types.
func (t SessionType) Valid() bool {
	return t == SessionPublic || t == SessionPrivate
}

// Session is a plannable event with a capacity limit.  The two secret
// columns are excluded from JSON so that no read or list response can
// ever leak them; the creation flow returns them exactly once through
// a dedicated response type.  Lat and Lng are independently nullable:
// a session may carry both, one, or neither.
type Session struct {
	ID              string      `json:"id"`
	Hobby           string      `json:"hobby"`
	Title           string      `json:"title"`
	Description     *string     `json:"description"`
	DateTime        time.Time   `json:"date_time"`
	MaxParticipants int         `json:"max_participants"`
	Type            SessionType `json:"type"`
	LocationText    *string     `json:"location_text"`
	Lat             *float64    `json:"lat"`
	Lng             *float64    `json:"lng"`

	ManagementCode string  `json:"-"`
	PrivateURLCode *string `json:"-"`
}

// SessionSecrets is returned once, from the create operation.  ManageURL
// is a relative path embedding the management code, the sole surviving
// reference to that secret after the creation response.
type SessionSecrets struct {
	ID             string  `json:"id"`
	ManagementCode string  `json:"managementCode"`
	PrivateURLCode *string `json:"privateUrlCode,omitempty"`
	ManageURL      string  `json:"manageUrl"`
}
