package model

import (
	"fmt"
	"strconv"
)

// Event is a bookable event with a fixed seat inventory.  The record lives
// in the store as a field map; AvailableSeats is a running counter kept in
// sync with seat reservations through atomic decrements only – application
// code never read-modify-writes it.
//
// Fields:
//
//	ID             – opaque unique identifier, generated at creation.
//	Name           – human readable event name.
//	TotalSeats     – seat inventory size, immutable after creation.
//	AvailableSeats – seats not yet reserved; 0 <= AvailableSeats <= TotalSeats.
//	CreatedAt      – creation time in Unix milliseconds.
type Event struct {
	ID             string `json:"eventId"`
	Name           string `json:"name"`
	TotalSeats     int    `json:"totalSeats"`
	AvailableSeats int    `json:"availableSeats"`
	CreatedAt      int64  `json:"createdAt"`
}

// ToMap encodes the event as a store field map.  The ID is not stored as a
// field because it is part of the key.
func (e *Event) ToMap() map[string]string {
	return map[string]string{
		"name":           e.Name,
		"totalSeats":     strconv.Itoa(e.TotalSeats),
		"availableSeats": strconv.Itoa(e.AvailableSeats),
		"createdAt":      strconv.FormatInt(e.CreatedAt, 10),
	}
}

// EventFromMap decodes an event record fetched from the store.  An empty map
// means the key does not exist and is reported as ErrNoRecord so callers can
// distinguish absence from a malformed record.
func EventFromMap(id string, data map[string]string) (*Event, error) {
	if len(data) == 0 {
		return nil, ErrNoRecord
	}
	total, err := strconv.Atoi(data["totalSeats"])
	if err != nil {
		return nil, fmt.Errorf("event %s: bad totalSeats %q: %w", id, data["totalSeats"], err)
	}
	avail, err := strconv.Atoi(data["availableSeats"])
	if err != nil {
		return nil, fmt.Errorf("event %s: bad availableSeats %q: %w", id, data["availableSeats"], err)
	}
	created, err := strconv.ParseInt(data["createdAt"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad createdAt %q: %w", id, data["createdAt"], err)
	}
	if data["name"] == "" {
		return nil, fmt.Errorf("event %s: missing name", id)
	}
	return &Event{
		ID:             id,
		Name:           data["name"],
		TotalSeats:     total,
		AvailableSeats: avail,
		CreatedAt:      created,
	}, nil
}
