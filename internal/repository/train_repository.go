package repository

import "github.com/iliyamo/railway-ledger/internal/model"

// CreateTrain inserts t keyed by its ID.  It returns ErrAlreadyExists
// and leaves the table untouched when the id is taken.
func (s *Store) CreateTrain(t *model.Train) error {
	if _, ok := s.trains[t.ID]; ok {
		return ErrAlreadyExists
	}
	s.trains[t.ID] = t
	return nil
}

// GetTrain returns the stored train.  The pointer is live: changing
// AvailableSeats through it changes the table.
func (s *Store) GetTrain(id string) (*model.Train, error) {
	t, ok := s.trains[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// RemoveTrain drops id from the table.  The ledger never deletes
// records; this exists to undo an insert whose save failed.
func (s *Store) RemoveTrain(id string) {
	delete(s.trains, id)
}
