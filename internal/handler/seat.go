package handler

import (
	"errors"   // for errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes
	"time"     // timestamps on published events

	"github.com/google/uuid"      // userId format validation
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/event-seat-reservation/internal/queue"      // published event payloads
	"github.com/iliyamo/event-seat-reservation/internal/repository" // repository layer
)

// Publisher is the hook used to fan out confirmed reservations.  It is a
// function value so tests and deployments without a broker can leave it nil.
type Publisher func(queue.ReservationConfirmedEvent)

// SeatHandler exposes the seat endpoints: hold, reserve and list available.
// The handler does request-shape validation and status-code mapping; every
// state decision happens atomically inside the repositories.
type SeatHandler struct {
	Events       *repository.EventRepo       // event lookups for published payloads
	Holds        *repository.SeatHoldRepo    // hold acquisition and refresh
	Reservations *repository.ReservationRepo // hold finalization
	Seats        *repository.SeatRepo        // availability queries
	Publish      Publisher                   // optional reservation fan-out, may be nil
}

// NewSeatHandler constructs a SeatHandler.  All repositories must be
// non-nil; Publish may be nil to disable queue fan-out.
func NewSeatHandler(events *repository.EventRepo, holds *repository.SeatHoldRepo, reservations *repository.ReservationRepo, seats *repository.SeatRepo, publish Publisher) *SeatHandler {
	if events == nil || holds == nil || reservations == nil || seats == nil {
		panic("nil repository passed to NewSeatHandler")
	}
	return &SeatHandler{
		Events:       events,
		Holds:        holds,
		Reservations: reservations,
		Seats:        seats,
		Publish:      publish,
	}
}

// seatRequest is the shared body shape of the hold and reserve endpoints.
type seatRequest struct {
	UserID     string `json:"userId"`
	SeatNumber int    `json:"seatNumber"`
}

// bindSeatRequest binds and validates the hold/reserve body.  The userId
// must be a UUID and the seatNumber at least 1; eventId comes from the path.
func bindSeatRequest(c echo.Context) (eventID string, req seatRequest, ok bool) {
	eventID = c.Param("event_id")
	if eventID == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
		return "", req, false
	}
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		return "", req, false
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "userId must be a UUID"})
		return "", req, false
	}
	if req.SeatNumber < 1 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "seatNumber must be at least 1"})
		return "", req, false
	}
	return eventID, req, true
}

// Hold handles POST /api/seats/:event_id/hold.  A repeated call by the
// current holder refreshes the hold and returns the same holdId; a call by
// anyone else while the hold is active gets a 409.
func (h *SeatHandler) Hold(c echo.Context) error {
	eventID, req, ok := bindSeatRequest(c)
	if !ok {
		return nil
	}
	grant, err := h.Holds.Acquire(c.Request().Context(), eventID, req.UserID, req.SeatNumber)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, repository.ErrSeatNotAvailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat is not available"})
		case errors.Is(err, repository.ErrHeldByAnotherUser):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat is being held by another user"})
		case errors.Is(err, repository.ErrHoldLimitReached):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "maximum hold limit reached"})
		default:
			c.Logger().Errorf("hold seat: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
	}
	return c.JSON(http.StatusOK, grant)
}

// Reserve handles POST /api/seats/:event_id/reserve.  Only the active
// hold's owner can finalize; everyone else gets a 403 describing why.
func (h *SeatHandler) Reserve(c echo.Context) error {
	eventID, req, ok := bindSeatRequest(c)
	if !ok {
		return nil
	}
	result, err := h.Reservations.Reserve(c.Request().Context(), eventID, req.UserID, req.SeatNumber)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, repository.ErrSeatNotAvailable):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "seat is not available"})
		case errors.Is(err, repository.ErrSeatNotHeld):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "seat is not held"})
		case errors.Is(err, repository.ErrHeldByAnotherUser):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "seat is held by another user"})
		default:
			c.Logger().Errorf("reserve seat: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
	}
	h.publishConfirmed(c, eventID, req.UserID, result.SeatNumber)
	return c.JSON(http.StatusOK, result)
}

// Available handles GET /api/seats/:event_id/available and returns the
// unreserved seats in ascending seat-number order.
func (h *SeatHandler) Available(c echo.Context) error {
	eventID := c.Param("event_id")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	seats, err := h.Seats.Available(c.Request().Context(), eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		c.Logger().Errorf("available seats: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	type availableSeat struct {
		SeatNumber int    `json:"seatNumber"`
		Status     string `json:"status"`
	}
	out := make([]availableSeat, 0, len(seats))
	for _, s := range seats {
		out = append(out, availableSeat{SeatNumber: s.SeatNumber, Status: s.Status})
	}
	return c.JSON(http.StatusOK, echo.Map{"availableSeats": out})
}

// publishConfirmed builds and hands off a ReservationConfirmedEvent.  The
// enrichment lookup and the publish are best effort: the reservation is
// already durable, so failures here are logged and otherwise ignored.
func (h *SeatHandler) publishConfirmed(c echo.Context, eventID, userID string, seatNumber int) {
	if h.Publish == nil {
		return
	}
	payload := queue.ReservationConfirmedEvent{
		EventID:     eventID,
		UserID:      userID,
		SeatNumber:  seatNumber,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if event, err := h.Events.Get(c.Request().Context(), eventID); err == nil {
		payload.EventName = event.Name
		payload.AvailableSeats = event.AvailableSeats
	} else {
		c.Logger().Warnf("reservation fan-out: event lookup failed: %v", err)
	}
	h.Publish(payload)
}
