package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/railway-ledger/internal/model"
)

// Store holds the four id-keyed tables of the ledger in memory and
// mirrors them to a Backend.  It performs no locking of its own; the
// service layer serialises access.
type Store struct {
	backend Backend

	trains     map[string]*model.Train
	schedules  map[string]*model.Schedule
	passengers map[string]*model.Passenger
	bookings   map[string]*model.Booking
}

// NewStore returns an empty store bound to backend.  Call Load to fill
// it from previously persisted state.
func NewStore(backend Backend) *Store {
	return &Store{
		backend:    backend,
		trains:     map[string]*model.Train{},
		schedules:  map[string]*model.Schedule{},
		passengers: map[string]*model.Passenger{},
		bookings:   map[string]*model.Booking{},
	}
}

// requiredKeys lists the persisted keys every record of a kind must
// carry.  A record missing any of them makes the document corrupt.
var requiredKeys = map[Kind][]string{
	KindTrains:     {"train_id", "name", "total_seats", "available_seats", "routes"},
	KindSchedules:  {"schedule_id", "train_id", "departure_time", "arrival_time", "departure_station", "arrival_station"},
	KindPassengers: {"passenger_id", "name", "age", "gender"},
	KindBookings:   {"booking_id", "passenger_id", "train_id", "schedule_id", "seat_number", "booking_date"},
}

// Load replaces the in-memory tables with the persisted documents.  A
// kind with no document yields an empty table.  Tables are swapped in
// only after all four documents decode, so a failure leaves the store
// as it was.  Null or incomplete records fail with ErrCorruptStore.
func (s *Store) Load(ctx context.Context) error {
	trains := map[string]*model.Train{}
	schedules := map[string]*model.Schedule{}
	passengers := map[string]*model.Passenger{}
	bookings := map[string]*model.Booking{}

	for _, kind := range Kinds {
		body, err := s.backend.Read(ctx, kind)
		if err != nil {
			if errors.Is(err, ErrDocumentNotFound) {
				continue
			}
			return fmt.Errorf("load %s: %w", kind, err)
		}
		switch kind {
		case KindTrains:
			err = decodeDocument(kind, body, trains)
		case KindSchedules:
			err = decodeDocument(kind, body, schedules)
		case KindPassengers:
			err = decodeDocument(kind, body, passengers)
		case KindBookings:
			err = decodeDocument(kind, body, bookings)
		}
		if err != nil {
			return err
		}
	}

	s.trains, s.schedules, s.passengers, s.bookings = trains, schedules, passengers, bookings
	return nil
}

// decodeDocument fills dst from an id -> record document.  A document
// holding JSON null is an empty table.
func decodeDocument[T any](kind Kind, body []byte, dst map[string]*T) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrCorruptStore, kind, err)
	}
	for id, rec := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rec, &fields); err != nil {
			return fmt.Errorf("%w: decode %s %q: %v", ErrCorruptStore, kind, id, err)
		}
		if fields == nil {
			return fmt.Errorf("%w: %s %q is null", ErrCorruptStore, kind, id)
		}
		for _, key := range requiredKeys[kind] {
			if _, ok := fields[key]; !ok {
				return fmt.Errorf("%w: %s %q has no %s", ErrCorruptStore, kind, id, key)
			}
		}
		v := new(T)
		if err := json.Unmarshal(rec, v); err != nil {
			return fmt.Errorf("%w: decode %s %q: %v", ErrCorruptStore, kind, id, err)
		}
		dst[id] = v
	}
	return nil
}

// Save serialises every table and overwrites its document.  It is a
// full rewrite on each call and offers no atomicity across kinds: if
// a write fails midway, earlier kinds are already replaced.
func (s *Store) Save(ctx context.Context) error {
	docs := map[Kind]any{
		KindTrains:     s.trains,
		KindSchedules:  s.schedules,
		KindPassengers: s.passengers,
		KindBookings:   s.bookings,
	}
	for _, kind := range Kinds {
		body, err := json.Marshal(docs[kind])
		if err != nil {
			return fmt.Errorf("encode %s: %w", kind, err)
		}
		if err := s.backend.Write(ctx, kind, body); err != nil {
			return fmt.Errorf("save %s: %w", kind, err)
		}
	}
	return nil
}

// Counts reports the number of records per kind.
func (s *Store) Counts() map[Kind]int {
	return map[Kind]int{
		KindTrains:     len(s.trains),
		KindSchedules:  len(s.schedules),
		KindPassengers: len(s.passengers),
		KindBookings:   len(s.bookings),
	}
}
