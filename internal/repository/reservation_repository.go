package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-seat-reservation/internal/model"
	"github.com/iliyamo/event-seat-reservation/internal/store"
)

// reserveSeatScript converts the caller's active hold into a permanent
// reservation.  The precondition checks and all three writes – seat status
// flip, availableSeats decrement, hold removal – run as one server-side
// step, so no observer can see a reserved seat next to a stale counter and
// no concurrent reservation attempt can interleave between them.
//
// KEYS[1] seat record   KEYS[2] hold record
// KEYS[3] event record  KEYS[4] per-(event,user) hold index (zset)
// ARGV[1] userId  ARGV[2] now in unix ms  ARGV[3] seat number
var reserveSeatScript = redis.NewScript(`
    local seat_status = redis.call('HGET', KEYS[1], 'status')
    if not seat_status then
        return {'seat_not_found'}
    end
    if seat_status ~= 'available' then
        return {'seat_not_available'}
    end
    local owner = redis.call('HGET', KEYS[2], 'userId')
    if not owner then
        return {'not_held'}
    end
    if owner ~= ARGV[1] then
        return {'held_by_another'}
    end

    redis.call('HSET', KEYS[1],
        'status', 'reserved',
        'userId', ARGV[1],
        'reservedAt', ARGV[2])
    redis.call('HINCRBY', KEYS[3], 'availableSeats', -1)
    redis.call('DEL', KEYS[2])
    redis.call('ZREM', KEYS[4], ARGV[3])
    return {'reserved'}
`)

// ReservationResult is the successful outcome of a reservation.
type ReservationResult struct {
	SeatNumber int    `json:"seatNumber"`
	Status     string `json:"status"`
}

// ReservationRepo finalizes holds into reservations.  A reservation is
// terminal: there is no release or cancellation path, only event deletion
// removes reserved seats.
type ReservationRepo struct {
	store *store.RecordStore
}

// NewReservationRepo returns a ReservationRepo bound to the given store.
func NewReservationRepo(s *store.RecordStore) *ReservationRepo {
	return &ReservationRepo{store: s}
}

// Reserve finalizes the caller's hold on a seat.  It succeeds only while
// the hold is active and owned by userID; a lapsed hold has already
// disappeared from the store and surfaces as ErrSeatNotHeld.
func (r *ReservationRepo) Reserve(ctx context.Context, eventID, userID string, seatNumber int) (*ReservationResult, error) {
	keys := []string{
		store.SeatKey(eventID, seatNumber),
		store.SeatHoldKey(eventID, seatNumber),
		store.EventKey(eventID),
		store.UserHoldsKey(eventID, userID),
	}
	val, err := r.store.RunScript(ctx, reserveSeatScript, keys,
		userID,
		time.Now().UnixMilli(),
		seatNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("reserve seat: %w", err)
	}

	verdict, _, err := parseScriptReply(val)
	if err != nil {
		return nil, fmt.Errorf("reserve seat: %w", err)
	}
	switch verdict {
	case "reserved":
		return &ReservationResult{SeatNumber: seatNumber, Status: model.SeatStatusReserved}, nil
	case "seat_not_found":
		return nil, ErrSeatNotFound
	case "seat_not_available":
		return nil, ErrSeatNotAvailable
	case "not_held":
		return nil, ErrSeatNotHeld
	case "held_by_another":
		return nil, ErrHeldByAnotherUser
	default:
		return nil, fmt.Errorf("reserve seat: unexpected verdict %q", verdict)
	}
}
