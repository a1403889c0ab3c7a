package model

// Train is a rolling-stock entry in the ledger.  The seat counters are
// the only mutable part of any record: AvailableSeats drops by one for
// every confirmed booking and is never raised again.
//
// Fields:
//  ID             – unique train identifier chosen by the operator.
//  Name           – display name of the train.
//  TotalSeats     – seat capacity fixed at creation.
//  AvailableSeats – seats not yet booked (0..TotalSeats).
//  Routes         – ordered list of station names the train serves.
type Train struct {
	ID             string   `json:"train_id"`
	Name           string   `json:"name"`
	TotalSeats     int      `json:"total_seats"`
	AvailableSeats int      `json:"available_seats"`
	Routes         []string `json:"routes"`
}

// NewTrain returns a train whose available seats equal its capacity.
func NewTrain(id, name string, totalSeats int, routes []string) *Train {
	return &Train{
		ID:             id,
		Name:           name,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		Routes:         routes,
	}
}

// NextSeatNumber is the seat handed to the next booking.  Seats are a
// running counter of what has been sold so far, starting at 1.
func (t *Train) NextSeatNumber() int {
	return t.TotalSeats - t.AvailableSeats + 1
}
