package model

import (
	"fmt"
	"strconv"
)

// SeatHoldStatus is the single status value a hold record can carry.  The
// record's existence is what matters; expiry is handled entirely by the
// store's key TTL, so there is no "expired" status to transition to.
const SeatHoldStatus = "held"

// SeatHold is a temporary single-owner claim on a seat preceding a
// reservation.  At most one hold exists per (event, seat) at any instant.
// The record disappears either when its TTL lapses or when the owning user
// reserves the seat.
//
// Fields:
//
//	UserID – user who holds the seat.
//	HoldID – opaque token returned to the client for correlation.
//	HeldAt – when the hold was (last) granted, Unix milliseconds.
type SeatHold struct {
	UserID string `json:"userId"`
	HoldID string `json:"holdId"`
	HeldAt int64  `json:"heldAt"`
}

// ToMap encodes the hold as a store field map.
func (h *SeatHold) ToMap() map[string]string {
	return map[string]string{
		"status": SeatHoldStatus,
		"userId": h.UserID,
		"holdId": h.HoldID,
		"heldAt": strconv.FormatInt(h.HeldAt, 10),
	}
}

// SeatHoldFromMap decodes a hold record fetched from the store.
func SeatHoldFromMap(data map[string]string) (*SeatHold, error) {
	if len(data) == 0 {
		return nil, ErrNoRecord
	}
	if data["status"] != SeatHoldStatus {
		return nil, fmt.Errorf("seat hold: bad status %q", data["status"])
	}
	if data["userId"] == "" || data["holdId"] == "" {
		return nil, fmt.Errorf("seat hold: missing userId or holdId")
	}
	heldAt, err := strconv.ParseInt(data["heldAt"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("seat hold: bad heldAt %q: %w", data["heldAt"], err)
	}
	return &SeatHold{
		UserID: data["userId"],
		HoldID: data["holdId"],
		HeldAt: heldAt,
	}, nil
}
