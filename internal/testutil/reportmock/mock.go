package reportmock

import (
	"context"
	"sync"

	"paychain/internal/domain/report"
)

// Store is an in-memory report.Store with first-write-wins semantics,
// matching the redis-backed implementation.
type Store struct {
	mu      sync.Mutex
	reports map[string]report.Report
}

func NewStore() *Store {
	return &Store{reports: make(map[string]report.Report)}
}

func (s *Store) Get(_ context.Context, txnRef string) (*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[txnRef]
	if !ok {
		return nil, report.ErrNotFound
	}
	return &r, nil
}

func (s *Store) Put(_ context.Context, r *report.Report) (*report.Report, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prior, ok := s.reports[r.TransactionReference]; ok {
		return &prior, true, nil
	}
	s.reports[r.TransactionReference] = *r
	return r, false, nil
}

func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.reports))
	for k := range s.reports {
		keys = append(keys, k)
	}
	return keys, nil
}
