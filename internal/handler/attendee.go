package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rasanjula/hobby-planner/internal/access"
	"github.com/rasanjula/hobby-planner/internal/metric"
	"github.com/rasanjula/hobby-planner/internal/queue"
	"github.com/rasanjula/hobby-planner/internal/repository"
	queue_publisher "github.com/rasanjula/hobby-planner/internal/service"
)

// maxDisplayNameLen caps user-supplied display names, counted in runes
// to match the utf8mb4 column width.
const maxDisplayNameLen = 60

// sanitizeDisplayName trims and rune-caps a user-supplied display name.
// Truncation happens on rune boundaries; cutting by bytes could split a
// multibyte character and leave a string the database rejects.  A nil
// or effectively empty name comes back as nil.
func sanitizeDisplayName(raw *string) *string {
	if raw == nil {
		return nil
	}
	name := strings.TrimSpace(*raw)
	if runes := []rune(name); len(runes) > maxDisplayNameLen {
		name = string(runes[:maxDisplayNameLen])
	}
	if name == "" {
		return nil
	}
	return &name
}

// AttendeeHandler serves the join/leave/listing endpoints.  Joining is
// capacity-guarded inside the repository transaction; this layer only
// shapes requests and maps outcomes to status codes.
type AttendeeHandler struct {
	Attendees *repository.AttendeeRepo
	Sessions  *repository.SessionRepo
}

// NewAttendeeHandler constructs an AttendeeHandler.  Both repositories
// must be non-nil.
func NewAttendeeHandler(attendees *repository.AttendeeRepo, sessions *repository.SessionRepo) *AttendeeHandler {
	if attendees == nil || sessions == nil {
		panic("nil repository passed to NewAttendeeHandler")
	}
	return &AttendeeHandler{Attendees: attendees, Sessions: sessions}
}

// Join handles POST /api/sessions/:id/attendees.  The optional
// display_name is trimmed and length-capped; the returned attendance
// code is the joiner's only proof of membership, shown exactly once.
func (h *AttendeeHandler) Join(c echo.Context) error {
	sessionID := c.Param("id")

	var body struct {
		DisplayName *string `json:"display_name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	displayName := sanitizeDisplayName(body.DisplayName)

	result, err := h.Attendees.Join(c.Request().Context(), sessionID, displayName)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Session not found"})
	case errors.Is(err, repository.ErrSessionFull):
		metric.JoinConflicts.Inc()
		return c.JSON(http.StatusConflict, echo.Map{"error": "Session is full"})
	case err != nil:
		slog.Error("join failed", "session_id", sessionID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Join failed"})
	}

	metric.Joins.Inc()
	joinedName := ""
	if displayName != nil {
		joinedName = *displayName
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAttendeeJoined(ctx, queue.AttendeeJoinedEvent{
			EventID:     uuid.NewString(),
			SessionID:   sessionID,
			AttendeeID:  result.AttendeeID,
			DisplayName: joinedName,
			JoinedAt:    time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusCreated, result)
}

// Count handles GET /api/sessions/:id/attendees/count.
func (h *AttendeeHandler) Count(c echo.Context) error {
	count, max, err := h.Attendees.Count(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Session not found"})
	}
	if err != nil {
		slog.Error("count attendees failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Count failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count, "max": max})
}

// List handles GET /api/sessions/:id/attendees.  Public sessions are
// openly listable; private sessions require the management code.  The
// projection is id, display_name and created_at only.
func (h *AttendeeHandler) List(c echo.Context) error {
	sessionID := c.Param("id")

	sessionType, managementCode, err := h.Sessions.GetVisibility(c.Request().Context(), sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Session not found"})
	}
	if err != nil {
		slog.Error("list attendees failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load attendees"})
	}
	if !access.CanListAttendees(sessionType, managementCode, c.QueryParam("manage")) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Manage code required"})
	}

	items, err := h.Attendees.List(c.Request().Context(), sessionID)
	if err != nil {
		slog.Error("list attendees failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load attendees"})
	}
	return c.JSON(http.StatusOK, items)
}

// Remove handles DELETE /api/sessions/:id/attendees/:aid.  Two disjoint
// authorization paths converge here: ?attendance=CODE lets an attendee
// remove itself, ?manage=CODE lets the session owner kick anyone.  The
// codes are never interchangeable.  With neither code the request is a
// client error.
func (h *AttendeeHandler) Remove(c echo.Context) error {
	sessionID := c.Param("id")
	attendeeID := c.Param("aid")

	if code := c.QueryParam("attendance"); code != "" {
		err := h.Attendees.LeaveSelf(c.Request().Context(), sessionID, attendeeID, code)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// A wrong code and a missing attendee share one response so
			// the endpoint does not confirm which ids exist.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found or wrong code"})
		case err != nil:
			slog.Error("self-leave failed", "session_id", sessionID, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Leave failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	if code := c.QueryParam("manage"); code != "" {
		err := h.Attendees.Kick(c.Request().Context(), sessionID, attendeeID, code)
		switch {
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid manage code"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Attendee not found"})
		case err != nil:
			slog.Error("kick failed", "session_id", sessionID, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Remove failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusBadRequest, echo.Map{"error": "Provide attendance=CODE or manage=CODE"})
}
