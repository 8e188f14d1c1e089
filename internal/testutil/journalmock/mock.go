package journalmock

import (
	"context"
	"sync"

	"paychain/internal/domain/journal"
	"paychain/internal/domain/paging"
)

// Mock records appended entries in memory.
type Mock struct {
	mu      sync.Mutex
	Entries []journal.Entry
	// AppendErr, when set, is returned from Append.
	AppendErr error
}

func (m *Mock) Append(_ context.Context, e *journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Entries = append(m.Entries, *e)
	return nil
}

func (m *Mock) List(_ context.Context, q paging.Query) (paging.Page[journal.Entry], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paging.FromSlice(append([]journal.Entry(nil), m.Entries...)), nil
}

// Last returns the most recent entry, or nil when nothing was appended.
func (m *Mock) Last() *journal.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Entries) == 0 {
		return nil
	}
	e := m.Entries[len(m.Entries)-1]
	return &e
}
