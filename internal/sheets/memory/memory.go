package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"expenses/internal/core"
	ports "expenses/internal/sheets"
)

// Store is an in-process RowWriter used when no spreadsheet is configured
// and in tests.
type Store struct {
	mu   sync.Mutex
	rows []core.Expense
}

var _ ports.RowWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendExpense stores e and returns a synthetic row reference.
func (s *Store) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, e)
	// Row 1 is the header
	return fmt.Sprintf("mem:%d", len(s.rows)+1), nil
}

// DeleteExpense drops every row carrying id.
func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = slices.DeleteFunc(s.rows, func(e core.Expense) bool { return e.ID == id })
	return nil
}

// Rows returns a copy of the mirrored rows in append order.
func (s *Store) Rows() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rows)
}
