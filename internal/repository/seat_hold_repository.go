package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-seat-reservation/internal/store"
)

// acquireHoldScript grants, refreshes or refuses a seat hold in one
// server-side step.  Two concurrent callers for the same seat both run this
// script, but the server executes scripts one at a time per key, so exactly
// one of them observes "no hold" and creates one; a plain read followed by a
// separate write would let both succeed.
//
// KEYS[1] event record        KEYS[2] seat record
// KEYS[3] hold record         KEYS[4] per-(event,user) hold index (zset)
// ARGV[1] userId   ARGV[2] fresh holdId   ARGV[3] hold TTL seconds
// ARGV[4] max holds per user  ARGV[5] now in unix ms  ARGV[6] seat number
//
// The hold index is a sorted set of seat numbers scored by hold expiry time.
// Entries whose score is in the past belong to holds that have already
// TTL-expired; they are pruned here, inside the same atomic step as the
// limit check, so the count can never include a dead hold or race a
// concurrent create.
var acquireHoldScript = redis.NewScript(`
    if redis.call('EXISTS', KEYS[1]) == 0 then
        return {'event_not_found'}
    end
    local seat_status = redis.call('HGET', KEYS[2], 'status')
    if not seat_status then
        return {'seat_not_found'}
    end
    if seat_status ~= 'available' then
        return {'seat_not_available'}
    end

    local ttl = tonumber(ARGV[3])
    local now_ms = tonumber(ARGV[5])
    local expires_ms = now_ms + ttl * 1000

    local owner = redis.call('HGET', KEYS[3], 'userId')
    if owner then
        if owner ~= ARGV[1] then
            return {'held_by_another'}
        end
        redis.call('EXPIRE', KEYS[3], ttl)
        redis.call('ZADD', KEYS[4], expires_ms, ARGV[6])
        redis.call('EXPIRE', KEYS[4], ttl)
        return {'refreshed', redis.call('HGET', KEYS[3], 'holdId')}
    end

    redis.call('ZREMRANGEBYSCORE', KEYS[4], '-inf', now_ms)
    if redis.call('ZCARD', KEYS[4]) >= tonumber(ARGV[4]) then
        return {'limit_reached'}
    end

    redis.call('HSET', KEYS[3],
        'status', 'held',
        'userId', ARGV[1],
        'holdId', ARGV[2],
        'heldAt', ARGV[5])
    redis.call('EXPIRE', KEYS[3], ttl)
    redis.call('ZADD', KEYS[4], expires_ms, ARGV[6])
    redis.call('EXPIRE', KEYS[4], ttl)
    return {'created', ARGV[2]}
`)

// HoldGrant is the successful result of a hold attempt.  ExpiresIn is the
// full hold duration in seconds; a refresh resets the window, so the value
// is the same whether the hold was created or refreshed.
type HoldGrant struct {
	HoldID     string `json:"holdId"`
	SeatNumber int    `json:"seatNumber"`
	ExpiresIn  int    `json:"expiresIn"`
}

// SeatHoldRepo grants and refreshes temporary seat holds.  Expiry is
// entirely the store's job: a hold record carries a TTL and simply
// disappears when it lapses, returning the seat to the holdable pool.
type SeatHoldRepo struct {
	store    *store.RecordStore
	holdTTL  time.Duration // configured hold duration
	maxHolds int           // configured per-user concurrent hold cap
}

// NewSeatHoldRepo returns a SeatHoldRepo with the configured hold duration
// and per-user cap.
func NewSeatHoldRepo(s *store.RecordStore, holdTTL time.Duration, maxHolds int) *SeatHoldRepo {
	return &SeatHoldRepo{store: s, holdTTL: holdTTL, maxHolds: maxHolds}
}

// Acquire attempts to hold a seat for a user.  When the user already holds
// the seat the existing hold is refreshed and its holdId returned, which
// makes repeated calls idempotent and does not consume extra quota.  All
// checks and the write happen in one atomic script execution.
func (r *SeatHoldRepo) Acquire(ctx context.Context, eventID, userID string, seatNumber int) (*HoldGrant, error) {
	keys := []string{
		store.EventKey(eventID),
		store.SeatKey(eventID, seatNumber),
		store.SeatHoldKey(eventID, seatNumber),
		store.UserHoldsKey(eventID, userID),
	}
	ttlSec := int(r.holdTTL / time.Second)
	val, err := r.store.RunScript(ctx, acquireHoldScript, keys,
		userID,
		uuid.NewString(),
		ttlSec,
		r.maxHolds,
		time.Now().UnixMilli(),
		seatNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("acquire hold: %w", err)
	}

	verdict, holdID, err := parseScriptReply(val)
	if err != nil {
		return nil, fmt.Errorf("acquire hold: %w", err)
	}
	switch verdict {
	case "created", "refreshed":
		return &HoldGrant{HoldID: holdID, SeatNumber: seatNumber, ExpiresIn: ttlSec}, nil
	case "event_not_found":
		return nil, ErrEventNotFound
	case "seat_not_found":
		return nil, ErrSeatNotFound
	case "seat_not_available":
		return nil, ErrSeatNotAvailable
	case "held_by_another":
		return nil, ErrHeldByAnotherUser
	case "limit_reached":
		return nil, ErrHoldLimitReached
	default:
		return nil, fmt.Errorf("acquire hold: unexpected verdict %q", verdict)
	}
}

// parseScriptReply unpacks the {verdict[, holdId]} array the seat scripts
// return.  Replies are strings; anything else means the script and the Go
// side have drifted apart.
func parseScriptReply(val interface{}) (verdict, holdID string, err error) {
	arr, ok := val.([]interface{})
	if !ok || len(arr) == 0 {
		return "", "", fmt.Errorf("unexpected script reply %#v", val)
	}
	verdict, ok = arr[0].(string)
	if !ok {
		return "", "", fmt.Errorf("unexpected script verdict %#v", arr[0])
	}
	if len(arr) > 1 {
		holdID, _ = arr[1].(string)
	}
	return verdict, holdID, nil
}
