package service

import (
	"errors"
	"fmt"
)

// Movement engine error taxonomy. All are terminal for the current call;
// ErrLockTimeout and PersistenceError are safe to retry because a failed
// attempt is provably all-or-nothing.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidType      = errors.New("invalid movement type")
	ErrLockTimeout      = errors.New("timed out waiting for product lock")
	ErrSKUConflict      = errors.New("sku already exists")
)

// InsufficientStockError is returned when an OUT movement would drive the
// quantity negative. OUT never clamps to zero, it rejects.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}

// PersistenceError wraps a storage failure of the atomic commit. The
// transaction has rolled back: neither the product quantity nor the movement
// log reflects any partial change.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persistence failure: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }
