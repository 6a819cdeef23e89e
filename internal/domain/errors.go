package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrOutOfStock        = errors.New("out of stock")
	ErrNotFound          = errors.New("not found")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrDuplicateEvent    = errors.New("duplicate event")
	ErrValidation        = errors.New("validation failed")
	ErrConflictRetryable = errors.New("concurrent update, retry the request")
	ErrInvalidTransition = errors.New("status already decided")
	ErrLoanNotActive     = errors.New("loan is not active")
	ErrAlreadyExists     = errors.New("already exists")
	ErrForbidden         = errors.New("forbidden")
)

type OutOfStockError struct {
	ProductID   int
	ProductName string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("stock of '%s' is not sufficient", e.ProductName)
}

func (e *OutOfStockError) Is(target error) bool {
	return target == ErrOutOfStock
}

// ValidationError wraps ErrValidation with a field-level reason.
func ValidationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
