package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for coarse classification with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTransactionFailed = errors.New("transaction failed")
)

// NotFoundError reports an entity that is absent or outside the caller's
// organization. Cross-tenant lookups are indistinguishable from missing rows.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports malformed input such as an empty item list or a
// non-positive quantity.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InsufficientStockError carries the available and requested quantities for
// user-facing messaging.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available=%d, requested=%d",
		e.ProductID, e.Available, e.Requested)
}

// ProductNotActiveError reports a sale line referencing a product that is not
// in ACTIVE status.
type ProductNotActiveError struct {
	ProductID string
	Status    string
}

func (e *ProductNotActiveError) Error() string {
	return fmt.Sprintf("product %s is not active (status=%s)", e.ProductID, e.Status)
}
