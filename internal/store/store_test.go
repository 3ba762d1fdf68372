package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *RecordStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, New(client)
}

func TestBatchSetWritesAllEntries(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{Key: "event:e1", Fields: map[string]string{"name": "gig", "availableSeats": "2"}},
		{Key: "seat:e1:1", Fields: map[string]string{"status": "available", "seatNumber": "1"}},
		{Key: "seat:e1:2", Fields: map[string]string{"status": "available", "seatNumber": "2"}},
	}
	require.NoError(t, s.BatchSet(ctx, entries))

	for _, e := range entries {
		got, err := s.GetFields(ctx, e.Key)
		require.NoError(t, err)
		require.Equal(t, e.Fields, got)
	}
}

func TestBatchGetAlignsWithKeysAndReportsMissing(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetFields(ctx, "seat:e1:1", map[string]string{"status": "available"}))
	maps, err := s.BatchGet(ctx, []string{"seat:e1:1", "seat:e1:404"})
	require.NoError(t, err)
	require.Len(t, maps, 2)
	require.Equal(t, "available", maps[0]["status"])
	require.Empty(t, maps[1])
}

func TestScanKeysMatchesPattern(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetFields(ctx, "seat:e1:1", map[string]string{"status": "available"}))
	require.NoError(t, s.SetFields(ctx, "seat:e1:2", map[string]string{"status": "available"}))
	require.NoError(t, s.SetFields(ctx, "seat:e2:1", map[string]string{"status": "available"}))

	keys, err := s.ScanKeys(ctx, SeatKeyPattern("e1"))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"seat:e1:1", "seat:e1:2"}, keys)
}

func TestIncrFieldBy(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetFields(ctx, "event:e1", map[string]string{"availableSeats": "10"}))
	n, err := s.IncrFieldBy(ctx, "event:e1", "availableSeats", -1)
	require.NoError(t, err)
	require.EqualValues(t, 9, n)
}

func TestExpireRemovesRecord(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetFields(ctx, "seathold:e1:1", map[string]string{"status": "held"}))
	require.NoError(t, s.Expire(ctx, "seathold:e1:1", 10*time.Second))

	mr.FastForward(11 * time.Second)

	exists, err := s.Exists(ctx, "seathold:e1:1")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestEventIDFromKey(t *testing.T) {
	require.Equal(t, "abc", EventIDFromKey("event:abc"))
	require.Equal(t, "", EventIDFromKey("seat:abc:1"))
}
