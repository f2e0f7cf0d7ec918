package stock

import (
	"errors"
	"fmt"
)

// ErrProductNotFound covers both a missing product row and an archived
// one; archived products are invisible to the ledger.
var ErrProductNotFound = errors.New("product not found")

// ValidationError rejects malformed input before any transaction begins.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// InsufficientStockError means an OUT movement would drive the quantity
// negative while negative stock is disallowed.
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d (short by %d)",
		e.ProductID, e.Available, e.Requested, e.Shortfall())
}

func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}

// PersistenceError wraps a storage failure. The enclosing transaction
// is always rolled back, so a persistence failure is never half-applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
