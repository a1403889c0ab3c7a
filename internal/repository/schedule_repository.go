package repository

import "github.com/iliyamo/railway-ledger/internal/model"

// CreateSchedule inserts sc keyed by its ID, or returns ErrAlreadyExists.
// It does not check TrainID; that is the caller's job.
func (s *Store) CreateSchedule(sc *model.Schedule) error {
	if _, ok := s.schedules[sc.ID]; ok {
		return ErrAlreadyExists
	}
	s.schedules[sc.ID] = sc
	return nil
}

// GetSchedule returns the stored schedule or ErrNotFound.
func (s *Store) GetSchedule(id string) (*model.Schedule, error) {
	sc, ok := s.schedules[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sc, nil
}

// RemoveSchedule undoes CreateSchedule.
func (s *Store) RemoveSchedule(id string) {
	delete(s.schedules, id)
}
