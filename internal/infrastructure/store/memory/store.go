// Package memory is the in-process DocumentStore driver used by tests and
// development. Records are deep-copied on the way in and out so callers never
// share mutable state with the store.
package memory

import (
	"context"
	"sync"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]domain.DocumentRecord
	order   []string
}

func New() *Store {
	return &Store{records: make(map[string]domain.DocumentRecord)}
}

func (s *Store) Save(_ context.Context, record domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; !exists {
		s.order = append(s.order, record.ID)
	}
	s.records[record.ID] = record.Clone()
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[id]
	if !exists {
		return domain.DocumentRecord{}, domain.ErrDocumentNotFound
	}
	return record.Clone(), nil
}

func (s *Store) ListAll(_ context.Context) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DocumentRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out, nil
}

func (s *Store) ListByStatus(_ context.Context, status domain.DocumentStatus) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.DocumentRecord{}
	for _, id := range s.order {
		if record := s.records[id]; record.Status == status {
			out = append(out, record.Clone())
		}
	}
	return out, nil
}

func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return false, nil
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}
