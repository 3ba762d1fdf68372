package model

import (
	"errors"
	"fmt"
	"strconv"
)

// Seat status values.  A seat only ever moves available -> reserved; holds
// are tracked in separate short-lived records, not on the seat itself.
const (
	SeatStatusAvailable = "available"
	SeatStatusReserved  = "reserved"
)

// ErrNoRecord is returned by the FromMap decoders when the store returned an
// empty field map, meaning the key does not exist.
var ErrNoRecord = errors.New("record not found")

// Seat is one numbered seat of an event.  Reserved seats carry the owning
// user and the reservation time; available seats leave those fields empty.
//
// Fields:
//
//	EventID    – event the seat belongs to.
//	SeatNumber – 1-based position, unique within the event.
//	Status     – "available" or "reserved".
//	UserID     – owner, set when Status is "reserved".
//	ReservedAt – reservation time in Unix milliseconds, 0 when available.
type Seat struct {
	EventID    string `json:"eventId"`
	SeatNumber int    `json:"seatNumber"`
	Status     string `json:"status"`
	UserID     string `json:"userId,omitempty"`
	ReservedAt int64  `json:"reservedAt,omitempty"`
}

// ToMap encodes the seat as a store field map.
func (s *Seat) ToMap() map[string]string {
	m := map[string]string{
		"status":     s.Status,
		"seatNumber": strconv.Itoa(s.SeatNumber),
		"eventId":    s.EventID,
	}
	if s.UserID != "" {
		m["userId"] = s.UserID
	}
	if s.ReservedAt != 0 {
		m["reservedAt"] = strconv.FormatInt(s.ReservedAt, 10)
	}
	return m
}

// SeatFromMap decodes a seat record fetched from the store.
func SeatFromMap(data map[string]string) (*Seat, error) {
	if len(data) == 0 {
		return nil, ErrNoRecord
	}
	num, err := strconv.Atoi(data["seatNumber"])
	if err != nil {
		return nil, fmt.Errorf("seat: bad seatNumber %q: %w", data["seatNumber"], err)
	}
	status := data["status"]
	if status != SeatStatusAvailable && status != SeatStatusReserved {
		return nil, fmt.Errorf("seat %d: bad status %q", num, status)
	}
	seat := &Seat{
		EventID:    data["eventId"],
		SeatNumber: num,
		Status:     status,
		UserID:     data["userId"],
	}
	if v := data["reservedAt"]; v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seat %d: bad reservedAt %q: %w", num, v, err)
		}
		seat.ReservedAt = ts
	}
	return seat, nil
}
