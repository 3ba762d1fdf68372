package repository

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-seat-reservation/internal/store"
)

const (
	testHoldTTL  = 10 * time.Second
	testMaxHolds = 5
	testMaxSeats = 1000

	userA = "7ac15e26-9a3b-4b6b-8a86-84a41cbd1f72"
	userB = "e1b4f763-5b0a-4f0e-9c57-2f3f6a1f9ad4"
)

// testEnv bundles the repositories under test with the miniredis instance
// so individual tests can fast-forward time or inspect raw keys.
type testEnv struct {
	mr           *miniredis.Miniredis
	store        *store.RecordStore
	events       *EventRepo
	holds        *SeatHoldRepo
	reservations *ReservationRepo
	seats        *SeatRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := store.New(client)
	return &testEnv{
		mr:           mr,
		store:        s,
		events:       NewEventRepo(s, testMaxSeats),
		holds:        NewSeatHoldRepo(s, testHoldTTL, testMaxHolds),
		reservations: NewReservationRepo(s),
		seats:        NewSeatRepo(s),
	}
}
