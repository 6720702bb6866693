package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data  map[string]*domain.RunRecord
	order []string
	mu    sync.RWMutex
}

var _ ports.RunStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.RunRecord),
	}
}

// Save persists a copy of the record.
func (s *Store) Save(ctx context.Context, rec *domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	s.data[rec.ID] = cloneRecord(rec)
	return nil
}

// Load returns a copy so callers cannot mutate the stored record.
func (s *Store) Load(ctx context.Context, id string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return cloneRecord(rec), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return nil
	}
	delete(s.data, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

// List returns run IDs in insertion order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order), nil
}

func cloneRecord(rec *domain.RunRecord) *domain.RunRecord {
	c := *rec
	c.Steps = slices.Clone(rec.Steps)
	return &c
}
