package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rasanjula/hobby-planner/internal/metric"
	"github.com/rasanjula/hobby-planner/internal/model"
	"github.com/rasanjula/hobby-planner/internal/queue"
	"github.com/rasanjula/hobby-planner/internal/repository"
	queue_publisher "github.com/rasanjula/hobby-planner/internal/service"
)

// SessionHandler serves the session CRUD endpoints.  Listing and reads
// return the public projection only; create returns the bearer secrets
// exactly once; patch and delete require the management code as the
// `manage` query parameter.
type SessionHandler struct {
	Sessions *repository.SessionRepo
	Validate *validator.Validate
}

// NewSessionHandler constructs a SessionHandler.  Both dependencies must
// be non-nil.
func NewSessionHandler(sessions *repository.SessionRepo, validate *validator.Validate) *SessionHandler {
	if sessions == nil || validate == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{Sessions: sessions, Validate: validate}
}

// List handles GET /api/sessions.  Only public sessions are returned,
// newest date_time first.
func (h *SessionHandler) List(c echo.Context) error {
	sessions, err := h.Sessions.ListPublic(c.Request().Context())
	if err != nil {
		slog.Error("list sessions failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load sessions"})
	}
	return c.JSON(http.StatusOK, sessions)
}

// Get handles GET /api/sessions/:id.
func (h *SessionHandler) Get(c echo.Context) error {
	s, err := h.Sessions.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	if err != nil {
		slog.Error("get session failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load session"})
	}
	return c.JSON(http.StatusOK, s)
}

// GetByCode handles GET /api/sessions/code/:code, the discovery path for
// private sessions shared via link.
func (h *SessionHandler) GetByCode(c echo.Context) error {
	s, err := h.Sessions.GetByPrivateURLCode(c.Request().Context(), c.Param("code"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	if err != nil {
		slog.Error("get session by code failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load session"})
	}
	return c.JSON(http.StatusOK, s)
}

// CreateSessionRequest is the validated body of POST /api/sessions.
type CreateSessionRequest struct {
	Hobby           string   `json:"hobby" validate:"required"`
	Title           string   `json:"title" validate:"required"`
	Description     *string  `json:"description"`
	DateTime        string   `json:"date_time" validate:"required"`
	MaxParticipants int      `json:"max_participants" validate:"required,gt=0"`
	Type            string   `json:"type" validate:"required,oneof=public private"`
	LocationText    *string  `json:"location_text"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
}

// Create handles POST /api/sessions.  The response carries the id, the
// management code, the private-url code for private sessions, and the
// relative manage URL; none of the secrets is ever shown again.
func (h *SessionHandler) Create(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}
	dateTime, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_time must be an RFC 3339 timestamp"})
	}

	secrets, err := h.Sessions.Create(c.Request().Context(), repository.CreateSessionInput{
		Hobby:           req.Hobby,
		Title:           req.Title,
		Description:     req.Description,
		DateTime:        dateTime.UTC(),
		MaxParticipants: req.MaxParticipants,
		Type:            model.SessionType(req.Type),
		LocationText:    req.LocationText,
		Lat:             req.Lat,
		Lng:             req.Lng,
	})
	if err != nil {
		slog.Error("create session failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create session"})
	}

	metric.SessionsCreated.Inc()
	// Best-effort event; the broker being down must not fail the create.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishSessionCreated(ctx, queue.SessionCreatedEvent{
			EventID:         uuid.NewString(),
			SessionID:       secrets.ID,
			Hobby:           req.Hobby,
			Title:           req.Title,
			Type:            req.Type,
			MaxParticipants: req.MaxParticipants,
			DateTime:        dateTime.UTC().Format(time.RFC3339),
			CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusCreated, secrets)
}

// Patch handles PATCH /api/sessions/:id?manage=CODE.  Only whitelisted
// fields are applied; a missing code is a client error distinct from a
// mismatch.
func (h *SessionHandler) Patch(c echo.Context) error {
	manage := c.QueryParam("manage")
	if manage == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing manage code"})
	}

	var fields map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	updated, err := h.Sessions.Patch(c.Request().Context(), c.Param("id"), manage, fields)
	switch {
	case errors.Is(err, repository.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Session not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid manage code"})
	case err != nil:
		slog.Error("patch session failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Update failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/sessions/:id?manage=CODE.  Attendees are
// removed together with the session.
func (h *SessionHandler) Delete(c echo.Context) error {
	manage := c.QueryParam("manage")
	if manage == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing manage code"})
	}

	err := h.Sessions.Delete(c.Request().Context(), c.Param("id"), manage)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Session not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid manage code"})
	case err != nil:
		slog.Error("delete session failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
