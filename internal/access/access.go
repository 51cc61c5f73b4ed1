// Package access holds the capability-token authorization rules.  There
// are two independent secret classes: the management code proves control
// over a session, the attendance code proves control over one attendee
// record.  They authorize disjoint operation sets and are never
// interchangeable.  All checks are exact string comparisons against the
// stored secret; an absent code never matches anything.
package access

import (
	"crypto/subtle"

	"github.com/rasanjula/hobby-planner/internal/model"
)

// MatchCode reports whether the presented code exactly matches the
// stored secret.  An empty presented code always fails, even against an
// empty stored value.  The comparison is constant-time so response
// timing does not leak prefix information about a secret.
func MatchCode(stored, presented string) bool {
	if presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// CanListAttendees decides the attendee-list visibility rule: public
// sessions are openly listable, private sessions require the session's
// management code.
func CanListAttendees(t model.SessionType, managementCode, presented string) bool {
	if t == model.SessionPublic {
		return true
	}
	return MatchCode(managementCode, presented)
}
