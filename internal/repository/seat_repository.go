package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/iliyamo/event-seat-reservation/internal/model"
	"github.com/iliyamo/event-seat-reservation/internal/store"
)

// SeatRepo answers read-only availability queries.  It never mutates seat
// state and takes no part in the hold/reserve serialization.
type SeatRepo struct {
	store *store.RecordStore
}

// NewSeatRepo returns a SeatRepo bound to the given store.
func NewSeatRepo(s *store.RecordStore) *SeatRepo {
	return &SeatRepo{store: s}
}

// Available returns the event's unreserved seats in ascending seat-number
// order.  All seat records are fetched in one pipelined batch and filtered
// in memory; held-but-unreserved seats still count as available here, the
// hold only matters at reservation time.
func (r *SeatRepo) Available(ctx context.Context, eventID string) ([]*model.Seat, error) {
	exists, err := r.store.Exists(ctx, store.EventKey(eventID))
	if err != nil {
		return nil, fmt.Errorf("available seats: %w", err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	keys, err := r.store.ScanKeys(ctx, store.SeatKeyPattern(eventID))
	if err != nil {
		return nil, fmt.Errorf("available seats: %w", err)
	}
	maps, err := r.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("available seats: %w", err)
	}

	seats := make([]*model.Seat, 0, len(maps))
	for _, data := range maps {
		seat, err := model.SeatFromMap(data)
		if err != nil {
			if errors.Is(err, model.ErrNoRecord) {
				continue
			}
			return nil, err
		}
		if seat.Status == model.SeatStatusAvailable {
			seats = append(seats, seat)
		}
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].SeatNumber < seats[j].SeatNumber })
	return seats, nil
}
