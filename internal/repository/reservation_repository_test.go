package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-reservation/internal/model"
	"github.com/iliyamo/event-seat-reservation/internal/store"
)

func TestReserveFinalizesHold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 10)
	require.NoError(t, err)

	_, err = env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)

	result, err := env.reservations.Reserve(ctx, event.ID, userA, 1)
	require.NoError(t, err)
	require.Equal(t, 1, result.SeatNumber)
	require.Equal(t, model.SeatStatusReserved, result.Status)

	// Seat flipped to reserved with owner and timestamp.
	data, err := env.store.GetFields(ctx, store.SeatKey(event.ID, 1))
	require.NoError(t, err)
	seat, err := model.SeatFromMap(data)
	require.NoError(t, err)
	require.Equal(t, model.SeatStatusReserved, seat.Status)
	require.Equal(t, userA, seat.UserID)
	require.NotZero(t, seat.ReservedAt)

	// Counter decremented in the same atomic step.
	got, err := env.events.Get(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, 9, got.AvailableSeats)

	// The hold record and the user's index entry are gone.
	exists, err := env.store.Exists(ctx, store.SeatHoldKey(event.ID, 1))
	require.NoError(t, err)
	require.False(t, exists)
}

func TestReserveRequiresActiveOwnHold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 3)
	require.NoError(t, err)

	// No hold at all.
	_, err = env.reservations.Reserve(ctx, event.ID, userA, 1)
	require.ErrorIs(t, err, ErrSeatNotHeld)

	// Hold owned by someone else.
	_, err = env.holds.Acquire(ctx, event.ID, userB, 1)
	require.NoError(t, err)
	_, err = env.reservations.Reserve(ctx, event.ID, userA, 1)
	require.ErrorIs(t, err, ErrHeldByAnotherUser)

	// Missing seat.
	_, err = env.reservations.Reserve(ctx, event.ID, userA, 99)
	require.ErrorIs(t, err, ErrSeatNotFound)
}

func TestReserveFailsAfterHoldExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 2)
	require.NoError(t, err)

	_, err = env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)

	env.mr.FastForward(testHoldTTL + time.Second)

	_, err = env.reservations.Reserve(ctx, event.ID, userA, 1)
	require.ErrorIs(t, err, ErrSeatNotHeld)

	// Nothing was mutated by the failed attempt.
	got, err := env.events.Get(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.AvailableSeats)
}

func TestReserveIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 2)
	require.NoError(t, err)

	_, err = env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)
	_, err = env.reservations.Reserve(ctx, event.ID, userA, 1)
	require.NoError(t, err)

	// Even the owner cannot reserve twice; the seat left "available".
	_, err = env.reservations.Reserve(ctx, event.ID, userA, 1)
	require.ErrorIs(t, err, ErrSeatNotAvailable)

	// The reserved seat no longer shows up as available.
	seats, err := env.seats.Available(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, seats, 1)
	require.Equal(t, 2, seats[0].SeatNumber)
}

func TestConcurrentReserveDecrementsCounterOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 2)
	require.NoError(t, err)

	_, err = env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.reservations.Reserve(ctx, event.ID, userA, 1)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			require.ErrorIs(t, err, ErrSeatNotAvailable)
		}
	}
	require.Equal(t, 1, won, "exactly one reservation attempt must win")

	got, err := env.events.Get(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableSeats)
}
