// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rasanjula/hobby-planner/internal/handler"
)

// RegisterRoutes registers the health check and the Prometheus
// exposition endpoint on the provided Echo instance.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterSessions registers the session and attendee endpoints under
// /api/sessions.  No authentication middleware applies: every operation
// that needs authorization checks its bearer code itself.
func RegisterSessions(e *echo.Echo, s *handler.SessionHandler, a *handler.AttendeeHandler) {
	g := e.Group("/api/sessions")

	g.GET("", s.List)
	g.POST("", s.Create)
	g.GET("/code/:code", s.GetByCode)
	g.GET("/:id", s.Get)
	g.PATCH("/:id", s.Patch)
	g.DELETE("/:id", s.Delete)

	g.POST("/:id/attendees", a.Join)
	g.GET("/:id/attendees", a.List)
	g.GET("/:id/attendees/count", a.Count)
	g.DELETE("/:id/attendees/:aid", a.Remove)
}
