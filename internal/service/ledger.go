// Package service implements the ledger's domain operations on top of
// the repository store.  Every mutating call is check, mutate, save,
// executed under one lock; a call either lands fully (tables and
// persisted documents) or leaves the tables unchanged.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/railway-ledger/internal/model"
	"github.com/iliyamo/railway-ledger/internal/queue"
	"github.com/iliyamo/railway-ledger/internal/repository"
)

// EventPublisher receives a notification for every confirmed booking.
type EventPublisher interface {
	PublishTicketBooked(ctx context.Context, ev queue.TicketBookedEvent) error
}

// Metrics observes operation outcomes and table sizes.
type Metrics interface {
	ObserveOperation(op, outcome string, d time.Duration)
	SetRecordCount(kind string, n int)
}

// Ledger owns the store and serialises all access to it.
type Ledger struct {
	mu      sync.Mutex
	store   *repository.Store
	events  EventPublisher
	metrics Metrics
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithEvents publishes a TicketBookedEvent after each booking.
func WithEvents(p EventPublisher) Option { return func(l *Ledger) { l.events = p } }

// WithMetrics reports operation outcomes to m.
func WithMetrics(m Metrics) Option { return func(l *Ledger) { l.metrics = m } }

// WithClock overrides the booking timestamp source.
func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

// NewLedger wraps an already loaded store.
func NewLedger(store *repository.Store, opts ...Option) *Ledger {
	l := &Ledger{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	l.reportCounts()
	return l
}

// AddTrain registers a train with all of its seats available.
func (l *Ledger) AddTrain(ctx context.Context, id, name string, totalSeats int, routes []string) (tr model.Train, err error) {
	defer l.observe("add_train", time.Now(), &err)
	if totalSeats < 0 {
		return model.Train{}, &Rejection{Reason: ReasonInvalidInput, Kind: "train", ID: id, Detail: "total seats must not be negative"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	t := model.NewTrain(id, name, totalSeats, append([]string(nil), routes...))
	if err := l.store.CreateTrain(t); err != nil {
		return model.Train{}, l.createErr(err, "train", id)
	}
	if err := l.persist(ctx, func() { l.store.RemoveTrain(id) }); err != nil {
		return model.Train{}, err
	}
	return cloneTrain(t), nil
}

// AddSchedule registers a run of an existing train.  Times and
// stations are stored as given.
func (l *Ledger) AddSchedule(ctx context.Context, sc model.Schedule) (out model.Schedule, err error) {
	defer l.observe("add_schedule", time.Now(), &err)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.store.GetSchedule(sc.ID); err == nil {
		return model.Schedule{}, reject(ReasonDuplicateIdentifier, "schedule", sc.ID)
	}
	if _, err := l.store.GetTrain(sc.TrainID); err != nil {
		return model.Schedule{}, reject(ReasonUnknownReference, "train", sc.TrainID)
	}
	rec := sc
	if err := l.store.CreateSchedule(&rec); err != nil {
		return model.Schedule{}, l.createErr(err, "schedule", sc.ID)
	}
	if err := l.persist(ctx, func() { l.store.RemoveSchedule(sc.ID) }); err != nil {
		return model.Schedule{}, err
	}
	return rec, nil
}

// AddPassenger registers a passenger.
func (l *Ledger) AddPassenger(ctx context.Context, p model.Passenger) (out model.Passenger, err error) {
	defer l.observe("add_passenger", time.Now(), &err)

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := p
	if err := l.store.CreatePassenger(&rec); err != nil {
		return model.Passenger{}, l.createErr(err, "passenger", p.ID)
	}
	if err := l.persist(ctx, func() { l.store.RemovePassenger(p.ID) }); err != nil {
		return model.Passenger{}, err
	}
	return rec, nil
}

// BookTicket sells the next seat of trainID to passengerID on
// scheduleID.  The seat number is the count of seats sold so far plus
// one.  Checks run in a fixed order: booking id, passenger, train,
// schedule, then seat availability.
func (l *Ledger) BookTicket(ctx context.Context, id, passengerID, trainID, scheduleID string) (out model.Booking, err error) {
	defer l.observe("book_ticket", time.Now(), &err)

	l.mu.Lock()
	if _, err := l.store.GetBooking(id); err == nil {
		l.mu.Unlock()
		return model.Booking{}, reject(ReasonDuplicateIdentifier, "booking", id)
	}
	passenger, err := l.store.GetPassenger(passengerID)
	if err != nil {
		l.mu.Unlock()
		return model.Booking{}, reject(ReasonUnknownReference, "passenger", passengerID)
	}
	train, err := l.store.GetTrain(trainID)
	if err != nil {
		l.mu.Unlock()
		return model.Booking{}, reject(ReasonUnknownReference, "train", trainID)
	}
	schedule, err := l.store.GetSchedule(scheduleID)
	if err != nil {
		l.mu.Unlock()
		return model.Booking{}, reject(ReasonUnknownReference, "schedule", scheduleID)
	}
	if train.AvailableSeats <= 0 {
		l.mu.Unlock()
		return model.Booking{}, reject(ReasonExhaustedResource, "train", trainID)
	}

	b := &model.Booking{
		ID:          id,
		PassengerID: passengerID,
		TrainID:     trainID,
		ScheduleID:  scheduleID,
		SeatNumber:  train.NextSeatNumber(),
		BookingDate: model.FormatBookingDate(l.now()),
	}
	if err := l.store.CreateBooking(b); err != nil {
		l.mu.Unlock()
		return model.Booking{}, l.createErr(err, "booking", id)
	}
	train.AvailableSeats--
	err = l.persist(ctx, func() {
		l.store.RemoveBooking(id)
		train.AvailableSeats++
	})
	if err != nil {
		l.mu.Unlock()
		return model.Booking{}, err
	}
	ev := queue.TicketBookedEvent{
		EventID:          uuid.NewString(),
		BookingID:        b.ID,
		PassengerID:      passenger.ID,
		PassengerName:    passenger.Name,
		TrainID:          train.ID,
		TrainName:        train.Name,
		ScheduleID:       schedule.ID,
		DepartureStation: schedule.DepartureStation,
		ArrivalStation:   schedule.ArrivalStation,
		DepartureTime:    schedule.DepartureTime,
		SeatNumber:       b.SeatNumber,
		SeatsLeft:        train.AvailableSeats,
		BookedAt:         b.BookingDate,
	}
	out = *b
	l.mu.Unlock()

	// Publishing happens outside the lock and never fails the booking.
	if l.events != nil {
		if perr := l.events.PublishTicketBooked(ctx, ev); perr != nil {
			log.Printf("ledger: publish ticket.booked for %s failed: %v", id, perr)
		}
	}
	return out, nil
}

// GetTrain returns a copy of the train.
func (l *Ledger) GetTrain(id string) (model.Train, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.store.GetTrain(id)
	if err != nil {
		return model.Train{}, reject(ReasonNotFound, "train", id)
	}
	return cloneTrain(t), nil
}

func (l *Ledger) GetSchedule(id string) (model.Schedule, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sc, err := l.store.GetSchedule(id)
	if err != nil {
		return model.Schedule{}, reject(ReasonNotFound, "schedule", id)
	}
	return *sc, nil
}

func (l *Ledger) GetPassenger(id string) (model.Passenger, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.store.GetPassenger(id)
	if err != nil {
		return model.Passenger{}, reject(ReasonNotFound, "passenger", id)
	}
	return *p, nil
}

func (l *Ledger) GetBooking(id string) (model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, err := l.store.GetBooking(id)
	if err != nil {
		return model.Booking{}, reject(ReasonNotFound, "booking", id)
	}
	return *b, nil
}

// persist saves the store and runs undo when the save fails.  The
// caller must hold l.mu.
func (l *Ledger) persist(ctx context.Context, undo func()) error {
	if err := l.store.Save(ctx); err != nil {
		undo()
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	l.reportCounts()
	return nil
}

func (l *Ledger) createErr(err error, kind, id string) error {
	if errors.Is(err, repository.ErrAlreadyExists) {
		return reject(ReasonDuplicateIdentifier, kind, id)
	}
	return err
}

func (l *Ledger) observe(op string, start time.Time, errp *error) {
	if l.metrics == nil {
		return
	}
	outcome := "accepted"
	if err := *errp; err != nil {
		outcome = "error"
		if r, ok := AsRejection(err); ok {
			outcome = string(r.Reason)
		}
	}
	l.metrics.ObserveOperation(op, outcome, time.Since(start))
}

func (l *Ledger) reportCounts() {
	if l.metrics == nil {
		return
	}
	for kind, n := range l.store.Counts() {
		l.metrics.SetRecordCount(string(kind), n)
	}
}

func cloneTrain(t *model.Train) model.Train {
	out := *t
	out.Routes = append([]string(nil), t.Routes...)
	return out
}
