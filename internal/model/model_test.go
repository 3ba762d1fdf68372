package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventFromMapRejectsBadShapes(t *testing.T) {
	_, err := EventFromMap("e1", nil)
	require.ErrorIs(t, err, ErrNoRecord)

	_, err = EventFromMap("e1", map[string]string{
		"name": "gig", "totalSeats": "ten", "availableSeats": "10", "createdAt": "1",
	})
	require.Error(t, err)

	_, err = EventFromMap("e1", map[string]string{
		"name": "", "totalSeats": "10", "availableSeats": "10", "createdAt": "1",
	})
	require.Error(t, err)

	event, err := EventFromMap("e1", map[string]string{
		"name": "gig", "totalSeats": "10", "availableSeats": "7", "createdAt": "1700000000000",
	})
	require.NoError(t, err)
	require.Equal(t, "e1", event.ID)
	require.Equal(t, 7, event.AvailableSeats)
}

func TestSeatMapRoundTrip(t *testing.T) {
	seat := &Seat{EventID: "e1", SeatNumber: 3, Status: SeatStatusReserved, UserID: "u1", ReservedAt: 42}
	got, err := SeatFromMap(seat.ToMap())
	require.NoError(t, err)
	require.Equal(t, seat, got)

	_, err = SeatFromMap(map[string]string{"status": "pending", "seatNumber": "1"})
	require.Error(t, err)
}

func TestSeatHoldFromMap(t *testing.T) {
	hold := &SeatHold{UserID: "u1", HoldID: "h1", HeldAt: 42}
	got, err := SeatHoldFromMap(hold.ToMap())
	require.NoError(t, err)
	require.Equal(t, hold, got)

	_, err = SeatHoldFromMap(map[string]string{"status": "held", "userId": "u1"})
	require.Error(t, err)
}
