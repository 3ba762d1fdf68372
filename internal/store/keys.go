package store

import (
	"strconv"
	"strings"
)

// Key layout in the record store.  All records of one event share its ID in
// the key so that deleting an event can enumerate everything it owns:
//
//	event:{eventId}                – event field map
//	seat:{eventId}:{seatNumber}    – one field map per seat
//	seathold:{eventId}:{seatNumber} – active hold, expires via key TTL
//	userholds:{eventId}:{userId}   – per-user active-hold index (sorted set
//	                                 of seat numbers scored by expiry time)

// EventKey returns the record key for an event.
func EventKey(eventID string) string { return "event:" + eventID }

// SeatKey returns the record key for one seat of an event.
func SeatKey(eventID string, seatNumber int) string {
	return "seat:" + eventID + ":" + strconv.Itoa(seatNumber)
}

// SeatHoldKey returns the record key for the hold on one seat of an event.
func SeatHoldKey(eventID string, seatNumber int) string {
	return "seathold:" + eventID + ":" + strconv.Itoa(seatNumber)
}

// UserHoldsKey returns the key of the per-(event, user) active-hold index.
func UserHoldsKey(eventID, userID string) string {
	return "userholds:" + eventID + ":" + userID
}

// EventKeyPattern matches every event record.
func EventKeyPattern() string { return "event:*" }

// SeatKeyPattern matches every seat record of one event.
func SeatKeyPattern(eventID string) string { return "seat:" + eventID + ":*" }

// SeatHoldKeyPattern matches every hold record of one event.
func SeatHoldKeyPattern(eventID string) string { return "seathold:" + eventID + ":*" }

// UserHoldsKeyPattern matches every per-user hold index of one event.
func UserHoldsKeyPattern(eventID string) string { return "userholds:" + eventID + ":*" }

// EventIDFromKey extracts the event ID from an "event:{id}" key.  It returns
// an empty string when the key is not an event key.
func EventIDFromKey(key string) string {
	id, ok := strings.CutPrefix(key, "event:")
	if !ok {
		return ""
	}
	return id
}
