package sheet

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory grid.  It records how many batch requests it
// has received so callers can check that empty diffs are never sent.
type MemoryStore struct {
	mu       sync.Mutex
	rows     [][]string
	batches  int
	FailWith error // returned by every call when set
}

// NewMemoryStore copies rows into a new store.
func NewMemoryStore(rows [][]string) *MemoryStore {
	return &MemoryStore{rows: cloneRows(rows)}
}

func (s *MemoryStore) Values(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	return cloneRows(s.rows), nil
}

func (s *MemoryStore) BatchUpdate(_ context.Context, updates []CellUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if len(updates) == 0 {
		return nil
	}
	s.batches++
	for _, u := range updates {
		for len(s.rows) < u.Row {
			s.rows = append(s.rows, nil)
		}
		row := s.rows[u.Row-1]
		for len(row) < u.Col {
			row = append(row, "")
		}
		row[u.Col-1] = u.Value
		s.rows[u.Row-1] = row
	}
	return nil
}

// Batches returns the number of non-empty batch requests received.
func (s *MemoryStore) Batches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches
}

// Cell returns the value at (row, col), both 1-based, or "" when absent.
func (s *MemoryStore) Cell(row, col int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 1 || row > len(s.rows) || col < 1 || col > len(s.rows[row-1]) {
		return ""
	}
	return s.rows[row-1][col-1]
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
