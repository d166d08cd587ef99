package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageFailure matches every error produced by the database layer.
	ErrStorageFailure = errors.New("storage failure")
	ErrNotFound       = errors.New("expense not found")
	// ErrUnreadableRow marks a stored row whose date or amount cannot be decoded.
	ErrUnreadableRow = errors.New("unreadable expense row")
)

// Failure wraps a driver error with the repository operation that produced it.
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("storage %s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is reports true for ErrStorageFailure so callers can test the kind without errors.As.
func (f *Failure) Is(target error) bool {
	return target == ErrStorageFailure
}

func failure(op string, err error) error {
	return &Failure{Op: op, Err: err}
}
