// Package metric exposes the application's Prometheus counters.  The
// exposition endpoint is wired in the router; promauto registers the
// collectors on the default registry at package init.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsCreated counts successfully created sessions.
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hobbyplanner_sessions_created_total",
		Help: "Number of sessions created",
	})

	// Joins counts successfully admitted attendees.
	Joins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hobbyplanner_joins_total",
		Help: "Number of attendees admitted to sessions",
	})

	// JoinConflicts counts join attempts rejected because the session
	// was already at capacity.
	JoinConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hobbyplanner_join_conflicts_total",
		Help: "Number of join attempts rejected as full",
	})
)
