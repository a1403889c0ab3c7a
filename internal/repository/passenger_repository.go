package repository

import "github.com/iliyamo/railway-ledger/internal/model"

func (s *Store) CreatePassenger(p *model.Passenger) error {
	if _, ok := s.passengers[p.ID]; ok {
		return ErrAlreadyExists
	}
	s.passengers[p.ID] = p
	return nil
}

func (s *Store) GetPassenger(id string) (*model.Passenger, error) {
	p, ok := s.passengers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Store) RemovePassenger(id string) {
	delete(s.passengers, id)
}
