package service

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/railway-ledger/internal/model"
	"github.com/iliyamo/railway-ledger/internal/queue"
	"github.com/iliyamo/railway-ledger/internal/repository"
)

var fixedNow = time.Date(2024, 1, 1, 7, 30, 0, 0, time.Local)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.TicketBookedEvent
	err    error
}

func (p *recordingPublisher) PublishTicketBooked(_ context.Context, ev queue.TicketBookedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type recordingMetrics struct {
	outcomes map[string]int
	counts   map[string]int
}

func (m *recordingMetrics) ObserveOperation(op, outcome string, _ time.Duration) {
	m.outcomes[op+"/"+outcome]++
}

func (m *recordingMetrics) SetRecordCount(kind string, n int) { m.counts[kind] = n }

// flakyBackend wraps a FileBackend and fails writes while broken is set.
type flakyBackend struct {
	*repository.FileBackend
	broken bool
}

func (b *flakyBackend) Write(ctx context.Context, kind repository.Kind, body []byte) error {
	if b.broken {
		return errors.New("disk full")
	}
	return b.FileBackend.Write(ctx, kind, body)
}

func newLedger(t *testing.T, opts ...Option) (*Ledger, repository.Backend) {
	t.Helper()
	b := repository.NewFileBackend(t.TempDir())
	store := repository.NewStore(b)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewLedger(store, opts...), b
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func seats(t *testing.T, l *Ledger, id string) int {
	t.Helper()
	tr, err := l.GetTrain(id)
	mustNoErr(t, err)
	return tr.AvailableSeats
}

func TestExampleScenario(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	tr, err := l.AddTrain(ctx, "T1", "Express", 2, []string{"A", "B"})
	mustNoErr(t, err)
	if tr.AvailableSeats != 2 {
		t.Fatalf("available = %d, want 2", tr.AvailableSeats)
	}
	_, err = l.AddPassenger(ctx, model.Passenger{ID: "P1", Name: "Alice", Age: 30, Gender: "F"})
	mustNoErr(t, err)

	_, err = l.BookTicket(ctx, "B1", "P1", "T1", "S1")
	if !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("booking without schedule: err = %v, want ErrUnknownReference", err)
	}
	if got := seats(t, l, "T1"); got != 2 {
		t.Fatalf("available after rejected booking = %d, want 2", got)
	}

	_, err = l.AddSchedule(ctx, model.Schedule{ID: "S1", TrainID: "T1", DepartureTime: "2024-01-01 08:00", ArrivalTime: "2024-01-01 10:00", DepartureStation: "A", ArrivalStation: "B"})
	mustNoErr(t, err)

	b1, err := l.BookTicket(ctx, "B1", "P1", "T1", "S1")
	mustNoErr(t, err)
	if b1.SeatNumber != 1 || seats(t, l, "T1") != 1 {
		t.Fatalf("B1 seat = %d, available = %d; want 1, 1", b1.SeatNumber, seats(t, l, "T1"))
	}
	if b1.BookingDate != "2024-01-01 07:30:00" {
		t.Fatalf("booking date = %q", b1.BookingDate)
	}

	b2, err := l.BookTicket(ctx, "B2", "P1", "T1", "S1")
	mustNoErr(t, err)
	if b2.SeatNumber != 2 || seats(t, l, "T1") != 0 {
		t.Fatalf("B2 seat = %d, available = %d; want 2, 0", b2.SeatNumber, seats(t, l, "T1"))
	}

	_, err = l.BookTicket(ctx, "B3", "P1", "T1", "S1")
	if !errors.Is(err, ErrExhaustedResource) {
		t.Fatalf("third booking: err = %v, want ErrExhaustedResource", err)
	}
	if got := seats(t, l, "T1"); got != 0 {
		t.Fatalf("available = %d, want 0", got)
	}
	if _, err := l.GetBooking("B3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("rejected booking was stored: %v", err)
	}
}

func TestCreatedRecordsAreLookupable(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	_, err := l.AddTrain(ctx, "T1", "Express", 5, []string{"A", "B", "C"})
	mustNoErr(t, err)
	sc := model.Schedule{ID: "S1", TrainID: "T1", DepartureTime: "08:00", ArrivalTime: "09:00", DepartureStation: "A", ArrivalStation: "C"}
	_, err = l.AddSchedule(ctx, sc)
	mustNoErr(t, err)
	p := model.Passenger{ID: "P1", Name: "Bob", Age: 41, Gender: "M"}
	_, err = l.AddPassenger(ctx, p)
	mustNoErr(t, err)

	gotT, err := l.GetTrain("T1")
	mustNoErr(t, err)
	wantT := model.Train{ID: "T1", Name: "Express", TotalSeats: 5, AvailableSeats: 5, Routes: []string{"A", "B", "C"}}
	if !reflect.DeepEqual(gotT, wantT) {
		t.Errorf("train = %+v, want %+v", gotT, wantT)
	}
	if got, _ := l.GetSchedule("S1"); got != sc {
		t.Errorf("schedule = %+v, want %+v", got, sc)
	}
	if got, _ := l.GetPassenger("P1"); got != p {
		t.Errorf("passenger = %+v, want %+v", got, p)
	}
}

func TestDuplicateIdentifiers(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)
	_, err := l.AddTrain(ctx, "T1", "Express", 1, []string{"A"})
	mustNoErr(t, err)
	_, err = l.AddSchedule(ctx, model.Schedule{ID: "S1", TrainID: "T1"})
	mustNoErr(t, err)
	_, err = l.AddPassenger(ctx, model.Passenger{ID: "P1", Name: "Alice"})
	mustNoErr(t, err)
	_, err = l.AddTrain(ctx, "T2", "Spare", 1, nil)
	mustNoErr(t, err)
	_, err = l.BookTicket(ctx, "B1", "P1", "T1", "S1")
	mustNoErr(t, err)

	cases := []struct {
		name string
		call func() error
	}{
		{"train", func() error { _, err := l.AddTrain(ctx, "T1", "Other", 9, nil); return err }},
		{"schedule", func() error { _, err := l.AddSchedule(ctx, model.Schedule{ID: "S1", TrainID: "T2"}); return err }},
		{"passenger", func() error { _, err := l.AddPassenger(ctx, model.Passenger{ID: "P1", Name: "Mallory"}); return err }},
		{"booking", func() error { _, err := l.BookTicket(ctx, "B1", "P1", "T2", "S1"); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			if !errors.Is(err, ErrDuplicateIdentifier) {
				t.Fatalf("err = %v, want ErrDuplicateIdentifier", err)
			}
			r, ok := AsRejection(err)
			if !ok || r.Kind != tc.name {
				t.Fatalf("rejection = %+v", r)
			}
		})
	}

	if tr, _ := l.GetTrain("T1"); tr.Name != "Express" {
		t.Errorf("train overwritten: %+v", tr)
	}
	if sc, _ := l.GetSchedule("S1"); sc.TrainID != "T1" {
		t.Errorf("schedule overwritten: %+v", sc)
	}
	if p, _ := l.GetPassenger("P1"); p.Name != "Alice" {
		t.Errorf("passenger overwritten: %+v", p)
	}
	if got := seats(t, l, "T2"); got != 1 {
		t.Errorf("duplicate booking consumed a seat on T2")
	}
}

func TestUnknownReferences(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)
	_, err := l.AddTrain(ctx, "T1", "Express", 3, nil)
	mustNoErr(t, err)
	_, err = l.AddSchedule(ctx, model.Schedule{ID: "S1", TrainID: "T1"})
	mustNoErr(t, err)
	_, err = l.AddPassenger(ctx, model.Passenger{ID: "P1"})
	mustNoErr(t, err)

	if _, err := l.AddSchedule(ctx, model.Schedule{ID: "S2", TrainID: "nope"}); !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("schedule on unknown train: %v", err)
	}
	if _, err := l.GetSchedule("S2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("partial schedule inserted")
	}

	cases := []struct {
		name                 string
		passenger, train, sc string
		kind                 string
	}{
		{"passenger", "nope", "T1", "S1", "passenger"},
		{"train", "P1", "nope", "S1", "train"},
		{"schedule", "P1", "T1", "nope", "schedule"},
		{"passenger checked first", "nope", "nope", "nope", "passenger"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.BookTicket(ctx, "B1", tc.passenger, tc.train, tc.sc)
			r, ok := AsRejection(err)
			if !ok || r.Reason != ReasonUnknownReference || r.Kind != tc.kind {
				t.Fatalf("err = %v, want unknown %s", err, tc.kind)
			}
		})
	}
	if _, err := l.GetBooking("B1"); !errors.Is(err, ErrNotFound) {
		t.Fatal("partial booking inserted")
	}
	if got := seats(t, l, "T1"); got != 3 {
		t.Fatalf("available = %d, want 3", got)
	}
}

func TestSeatNumbersAreSequential(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)
	const total = 5
	_, err := l.AddTrain(ctx, "T1", "Express", total, nil)
	mustNoErr(t, err)
	_, err = l.AddSchedule(ctx, model.Schedule{ID: "S1", TrainID: "T1"})
	mustNoErr(t, err)
	_, err = l.AddPassenger(ctx, model.Passenger{ID: "P1"})
	mustNoErr(t, err)

	for n := 1; n <= total; n++ {
		b, err := l.BookTicket(ctx, "B"+strconv.Itoa(n), "P1", "T1", "S1")
		mustNoErr(t, err)
		if b.SeatNumber != n {
			t.Fatalf("booking %d got seat %d", n, b.SeatNumber)
		}
		if got := seats(t, l, "T1"); got != total-n {
			t.Fatalf("after %d bookings available = %d", n, got)
		}
	}
}

func TestZeroSeatTrainAndNegativeSeats(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)
	if _, err := l.AddTrain(ctx, "T0", "Freight", -1, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative seats: %v", err)
	}
	_, err := l.AddTrain(ctx, "T0", "Freight", 0, nil)
	mustNoErr(t, err)
	_, err = l.AddSchedule(ctx, model.Schedule{ID: "S0", TrainID: "T0"})
	mustNoErr(t, err)
	_, err = l.AddPassenger(ctx, model.Passenger{ID: "P0"})
	mustNoErr(t, err)
	if _, err := l.BookTicket(ctx, "B0", "P0", "T0", "S0"); !errors.Is(err, ErrExhaustedResource) {
		t.Fatalf("booking on zero-seat train: %v", err)
	}
}

func TestPersistenceFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	fb := &flakyBackend{FileBackend: repository.NewFileBackend(t.TempDir())}
	store := repository.NewStore(fb)
	pub := &recordingPublisher{}
	l := NewLedger(store, WithEvents(pub), WithClock(func() time.Time { return fixedNow }))

	_, err := l.AddTrain(ctx, "T1", "Express", 2, nil)
	mustNoErr(t, err)
	_, err = l.AddSchedule(ctx, model.Schedule{ID: "S1", TrainID: "T1"})
	mustNoErr(t, err)
	_, err = l.AddPassenger(ctx, model.Passenger{ID: "P1"})
	mustNoErr(t, err)

	fb.broken = true
	if _, err := l.BookTicket(ctx, "B1", "P1", "T1", "S1"); !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if _, err := l.AddTrain(ctx, "T2", "x", 1, nil); !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if _, ok := AsRejection(ErrPersistence); ok {
		t.Fatal("persistence failure must not look like a rejection")
	}
	if got := seats(t, l, "T1"); got != 2 {
		t.Fatalf("available = %d after failed save, want 2", got)
	}
	if _, err := l.GetBooking("B1"); !errors.Is(err, ErrNotFound) {
		t.Fatal("booking kept after failed save")
	}
	if _, err := l.GetTrain("T2"); !errors.Is(err, ErrNotFound) {
		t.Fatal("train kept after failed save")
	}
	if len(pub.events) != 0 {
		t.Fatalf("event published for failed booking")
	}

	fb.broken = false
	b, err := l.BookTicket(ctx, "B1", "P1", "T1", "S1")
	mustNoErr(t, err)
	if b.SeatNumber != 1 {
		t.Fatalf("seat = %d after recovery, want 1", b.SeatNumber)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	ctx := context.Background()
	l, b := newLedger(t)
	_, err := l.AddTrain(ctx, "T1", "Express", 3, []string{"A", "B"})
	mustNoErr(t, err)
	_, err = l.AddSchedule(ctx, model.Schedule{ID: "S1", TrainID: "T1", DepartureStation: "A", ArrivalStation: "B"})
	mustNoErr(t, err)
	_, err = l.AddPassenger(ctx, model.Passenger{ID: "P1", Name: "Alice", Age: 30, Gender: "F"})
	mustNoErr(t, err)
	booked, err := l.BookTicket(ctx, "B1", "P1", "T1", "S1")
	mustNoErr(t, err)

	store := repository.NewStore(b)
	mustNoErr(t, store.Load(ctx))
	reloaded := NewLedger(store)

	got, err := reloaded.GetBooking("B1")
	mustNoErr(t, err)
	if got != booked {
		t.Fatalf("booking = %+v, want %+v", got, booked)
	}
	if n := seats(t, reloaded, "T1"); n != 2 {
		t.Fatalf("available = %d after reload, want 2", n)
	}
}

func TestEventsAndMetrics(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	m := &recordingMetrics{outcomes: map[string]int{}, counts: map[string]int{}}
	l, _ := newLedger(t, WithEvents(pub), WithMetrics(m))

	_, err := l.AddTrain(ctx, "T1", "Express", 1, nil)
	mustNoErr(t, err)
	_, err = l.AddSchedule(ctx, model.Schedule{ID: "S1", TrainID: "T1", DepartureStation: "A", ArrivalStation: "B"})
	mustNoErr(t, err)
	_, err = l.AddPassenger(ctx, model.Passenger{ID: "P1", Name: "Alice"})
	mustNoErr(t, err)
	// a failing publisher must not fail the booking
	_, err = l.BookTicket(ctx, "B1", "P1", "T1", "S1")
	mustNoErr(t, err)
	_, _ = l.BookTicket(ctx, "B2", "P1", "T1", "S1")

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.BookingID != "B1" || ev.SeatNumber != 1 || ev.SeatsLeft != 0 || ev.PassengerName != "Alice" || ev.EventID == "" {
		t.Fatalf("event = %+v", ev)
	}
	if m.outcomes["book_ticket/accepted"] != 1 || m.outcomes["book_ticket/no_seats_available"] != 1 {
		t.Fatalf("outcomes = %v", m.outcomes)
	}
	if m.counts["bookings"] != 1 || m.counts["trains"] != 1 {
		t.Fatalf("counts = %v", m.counts)
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)
	_, err := l.AddTrain(ctx, "T1", "Express", 3, []string{"A", "B"})
	mustNoErr(t, err)

	tr, _ := l.GetTrain("T1")
	tr.AvailableSeats = 0
	tr.Routes[0] = "Z"

	again, _ := l.GetTrain("T1")
	if again.AvailableSeats != 3 || again.Routes[0] != "A" {
		t.Fatalf("caller mutated the stored train: %+v", again)
	}
}

func TestConcurrentBookingsNeverOversell(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)
	_, err := l.AddTrain(ctx, "T1", "Express", 10, nil)
	mustNoErr(t, err)
	_, err = l.AddSchedule(ctx, model.Schedule{ID: "S1", TrainID: "T1"})
	mustNoErr(t, err)
	_, err = l.AddPassenger(ctx, model.Passenger{ID: "P1"})
	mustNoErr(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[int]bool{}
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := l.BookTicket(ctx, "B"+strconv.Itoa(i), "P1", "T1", "S1")
			if err != nil {
				return
			}
			mu.Lock()
			seen[b.SeatNumber] = true
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	if len(seen) != 10 {
		t.Fatalf("issued %d distinct seats, want 10", len(seen))
	}
	if got := seats(t, l, "T1"); got != 0 {
		t.Fatalf("available = %d, want 0", got)
	}
}
