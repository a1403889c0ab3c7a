package repository

import "github.com/iliyamo/railway-ledger/internal/model"

// CreateBooking inserts b keyed by its ID, or returns ErrAlreadyExists.
// Passenger, train and schedule references are validated by the
// service before it gets here.
func (s *Store) CreateBooking(b *model.Booking) error {
	if _, ok := s.bookings[b.ID]; ok {
		return ErrAlreadyExists
	}
	s.bookings[b.ID] = b
	return nil
}

// GetBooking returns the stored booking or ErrNotFound.
func (s *Store) GetBooking(id string) (*model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// RemoveBooking undoes CreateBooking.
func (s *Store) RemoveBooking(id string) {
	delete(s.bookings, id)
}
