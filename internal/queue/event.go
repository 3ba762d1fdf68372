// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a seat reservation is
// successfully finalized.  It carries enough context for downstream
// consumers to log, notify or feed analytics without querying the record
// store again.
type ReservationConfirmedEvent struct {
	EventID        string `json:"event_id"`
	EventName      string `json:"event_name"`
	UserID         string `json:"user_id"`
	SeatNumber     int    `json:"seat_number"`
	AvailableSeats int    `json:"available_seats"`
	ConfirmedAt    string `json:"confirmed_at"`
}
