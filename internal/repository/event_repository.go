package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-seat-reservation/internal/model"
	"github.com/iliyamo/event-seat-reservation/internal/store"
)

// EventRepo owns the lifecycle of events and their seat inventory.  Creation
// writes the event record and every seat record in a single atomic batch so
// no observer can ever see an event whose seats are only partially present.
type EventRepo struct {
	store    *store.RecordStore
	maxSeats int // upper bound for totalSeats, from configuration
}

// NewEventRepo returns an EventRepo bound to the given store.  maxSeats is
// the configured MAX_SEATS_PER_EVENT bound.
func NewEventRepo(s *store.RecordStore, maxSeats int) *EventRepo {
	return &EventRepo{store: s, maxSeats: maxSeats}
}

// Create validates the inputs, generates a fresh event ID and writes the
// event plus all its seats in one batch.  availableSeats starts equal to
// totalSeats.  The returned Event is the full created view.
func (r *EventRepo) Create(ctx context.Context, name string, totalSeats int) (*model.Event, error) {
	if name == "" {
		return nil, ErrInvalidEventName
	}
	if totalSeats < 1 || totalSeats > r.maxSeats {
		return nil, ErrInvalidTotalSeats
	}

	event := &model.Event{
		ID:             uuid.NewString(),
		Name:           name,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		CreatedAt:      time.Now().UnixMilli(),
	}

	entries := make([]store.Entry, 0, totalSeats+1)
	entries = append(entries, store.Entry{Key: store.EventKey(event.ID), Fields: event.ToMap()})
	for n := 1; n <= totalSeats; n++ {
		seat := &model.Seat{
			EventID:    event.ID,
			SeatNumber: n,
			Status:     model.SeatStatusAvailable,
		}
		entries = append(entries, store.Entry{Key: store.SeatKey(event.ID, n), Fields: seat.ToMap()})
	}
	if err := r.store.BatchSet(ctx, entries); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// Get fetches a single event by ID.
func (r *EventRepo) Get(ctx context.Context, eventID string) (*model.Event, error) {
	data, err := r.store.GetFields(ctx, store.EventKey(eventID))
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	event, err := model.EventFromMap(eventID, data)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// List returns every event, ordered by creation time then ID so the result
// is deterministic.  Keys that vanish between the scan and the read (a
// concurrent delete) are skipped rather than treated as an error.
func (r *EventRepo) List(ctx context.Context) ([]*model.Event, error) {
	keys, err := r.store.ScanKeys(ctx, store.EventKeyPattern())
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	maps, err := r.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events := make([]*model.Event, 0, len(keys))
	for i, data := range maps {
		event, err := model.EventFromMap(store.EventIDFromKey(keys[i]), data)
		if err != nil {
			if errors.Is(err, model.ErrNoRecord) {
				continue
			}
			return nil, err
		}
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt != events[j].CreatedAt {
			return events[i].CreatedAt < events[j].CreatedAt
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

// Delete removes the event record along with every seat, hold and per-user
// hold index belonging to it.  It fails with ErrEventNotFound when the
// event does not exist.
func (r *EventRepo) Delete(ctx context.Context, eventID string) error {
	exists, err := r.store.Exists(ctx, store.EventKey(eventID))
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if !exists {
		return ErrEventNotFound
	}

	keys := []string{store.EventKey(eventID)}
	for _, pattern := range []string{
		store.SeatKeyPattern(eventID),
		store.SeatHoldKeyPattern(eventID),
		store.UserHoldsKeyPattern(eventID),
	} {
		matched, err := r.store.ScanKeys(ctx, pattern)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		keys = append(keys, matched...)
	}
	if err := r.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
