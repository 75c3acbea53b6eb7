package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageRead means the saved collection could not be loaded.
	// Callers treat the collection as empty and keep going.
	ErrStorageRead = errors.New("loading saved transactions failed")

	// ErrStorageWrite means an append or delete did not reach the
	// store. Prior state is unchanged.
	ErrStorageWrite = errors.New("saving transaction failed")

	// ErrAuth means the request did not carry valid credentials.
	ErrAuth = errors.New("authentication failed")
)

// ValidationError rejects a record before it reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// yearMismatchError builds the validation error for a transaction date
// outside the current year. The message names the required year.
func yearMismatchError(requiredYear int) *ValidationError {
	return &ValidationError{
		Field:   "transaction_date",
		Message: fmt.Sprintf("transaction date must be in %d", requiredYear),
	}
}
