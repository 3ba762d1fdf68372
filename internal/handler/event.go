package handler

import (
	"errors"   // for errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/event-seat-reservation/internal/repository" // repository layer
)

// EventHandler exposes event lifecycle endpoints: create with bulk seat
// inventory, fetch, list and delete.  Validation of the request shape
// happens here; range checks on totalSeats live in the repository so the
// bound is enforced in exactly one place.
type EventHandler struct {
	Events *repository.EventRepo // access to event and seat records
}

// NewEventHandler constructs an EventHandler.  The repository must be non-nil.
func NewEventHandler(events *repository.EventRepo) *EventHandler {
	if events == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events}
}

// Create handles POST /api/events.  The body must contain a non-empty name
// and a totalSeats within the configured bound.  The event and all of its
// seats are created in one atomic batch; on success the full event view is
// returned with a 201 status.
func (h *EventHandler) Create(c echo.Context) error {
	var body struct {
		Name       string `json:"name"`
		TotalSeats int    `json:"totalSeats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	event, err := h.Events.Create(c.Request().Context(), body.Name, body.TotalSeats)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidEventName), errors.Is(err, repository.ErrInvalidTotalSeats):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			c.Logger().Errorf("create event: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
	}
	return c.JSON(http.StatusCreated, event)
}

// Get handles GET /api/events/:event_id.
func (h *EventHandler) Get(c echo.Context) error {
	eventID := c.Param("event_id")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	event, err := h.Events.Get(c.Request().Context(), eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		c.Logger().Errorf("get event: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, event)
}

// List handles GET /api/events and returns every event wrapped in an
// "events" object.
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.Events.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list events: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// Delete handles DELETE /api/events/:event_id.  It removes the event and
// every seat, hold and hold-index record belonging to it, answering 204 on
// success.
func (h *EventHandler) Delete(c echo.Context) error {
	eventID := c.Param("event_id")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if err := h.Events.Delete(c.Request().Context(), eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		c.Logger().Errorf("delete event: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.NoContent(http.StatusNoContent)
}
