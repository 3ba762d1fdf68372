package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-reservation/internal/store"
)

func TestAcquireCreatesHold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 10)
	require.NoError(t, err)

	grant, err := env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)
	require.NotEmpty(t, grant.HoldID)
	require.Equal(t, 1, grant.SeatNumber)
	require.Equal(t, int(testHoldTTL/time.Second), grant.ExpiresIn)

	// The hold record carries the TTL so abandonment self-heals.
	ttl := env.mr.TTL(store.SeatHoldKey(event.ID, 1))
	require.Equal(t, testHoldTTL, ttl)
}

func TestAcquirePreconditionFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 2)
	require.NoError(t, err)

	_, err = env.holds.Acquire(ctx, "missing-event", userA, 1)
	require.ErrorIs(t, err, ErrEventNotFound)

	_, err = env.holds.Acquire(ctx, event.ID, userA, 99)
	require.ErrorIs(t, err, ErrSeatNotFound)

	// A reserved seat can never be held again.
	_, err = env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)
	_, err = env.reservations.Reserve(ctx, event.ID, userA, 1)
	require.NoError(t, err)
	_, err = env.holds.Acquire(ctx, event.ID, userB, 1)
	require.ErrorIs(t, err, ErrSeatNotAvailable)
}

func TestAcquireConflictsWithOtherUsersHold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 2)
	require.NoError(t, err)

	_, err = env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)

	_, err = env.holds.Acquire(ctx, event.ID, userB, 1)
	require.ErrorIs(t, err, ErrHeldByAnotherUser)
}

func TestAcquireSameUserRefreshesHold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 2)
	require.NoError(t, err)

	first, err := env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)

	// Let part of the TTL elapse, then re-hold: same holdId, window reset.
	env.mr.FastForward(6 * time.Second)
	second, err := env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)
	require.Equal(t, first.HoldID, second.HoldID)
	require.Equal(t, testHoldTTL, env.mr.TTL(store.SeatHoldKey(event.ID, 1)))
}

func TestAcquireEnforcesPerUserLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", testMaxHolds+1)
	require.NoError(t, err)

	for seat := 1; seat <= testMaxHolds; seat++ {
		_, err := env.holds.Acquire(ctx, event.ID, userA, seat)
		require.NoError(t, err)
	}

	_, err = env.holds.Acquire(ctx, event.ID, userA, testMaxHolds+1)
	require.ErrorIs(t, err, ErrHoldLimitReached)

	// Re-holding an already held seat still succeeds at the limit.
	_, err = env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)

	// A different user is unaffected by A's quota.
	_, err = env.holds.Acquire(ctx, event.ID, userB, testMaxHolds+1)
	require.NoError(t, err)
}

func TestExpiredHoldFreesSeatForOtherUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 2)
	require.NoError(t, err)

	_, err = env.holds.Acquire(ctx, event.ID, userA, 1)
	require.NoError(t, err)

	env.mr.FastForward(testHoldTTL + time.Second)

	grant, err := env.holds.Acquire(ctx, event.ID, userB, 1)
	require.NoError(t, err)
	require.Equal(t, 1, grant.SeatNumber)
}

func TestConcurrentAcquireGrantsExactlyOneHold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, err := env.events.Create(ctx, "concert", 2)
	require.NoError(t, err)

	users := []string{
		"0b6f1c3e-0000-4000-8000-000000000001",
		"0b6f1c3e-0000-4000-8000-000000000002",
		"0b6f1c3e-0000-4000-8000-000000000003",
		"0b6f1c3e-0000-4000-8000-000000000004",
	}

	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, user := range users {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()
			_, errs[i] = env.holds.Acquire(ctx, event.ID, user, 1)
		}(i, user)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			require.ErrorIs(t, err, ErrHeldByAnotherUser)
		}
	}
	require.Equal(t, 1, won, "exactly one contender must win the hold")
}
