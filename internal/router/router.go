package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/event-seat-reservation/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes wires every endpoint of the service onto the provided Echo
// instance.  The API is unauthenticated: callers identify themselves by the
// userId in the request body, as the seat endpoints require.
//
// Event lifecycle lives under /api/events, seat operations under
// /api/seats/:event_id, mirroring the resources they act on.
func RegisterRoutes(e *echo.Echo, events *handler.EventHandler, seats *handler.SeatHandler) {
	// Health check for load balancers and monitoring systems.
	e.GET("/healthz", handler.Health)

	// Event registry: create (with bulk seat inventory), list, fetch, delete.
	eg := e.Group("/api/events")
	eg.POST("", events.Create)
	eg.GET("", events.List)
	eg.GET("/:event_id", events.Get)
	eg.DELETE("/:event_id", events.Delete)

	// Seat state machine: hold, reserve, and the read-only availability view.
	sg := e.Group("/api/seats")
	sg.POST("/:event_id/hold", seats.Hold)
	sg.POST("/:event_id/reserve", seats.Reserve)
	sg.GET("/:event_id/available", seats.Available)
}
