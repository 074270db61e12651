package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAccountKind = errors.New("invalid account kind")

	// Ledger errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrSameAccount   = errors.New("cannot transfer to same account")

	// Transfer errors
	ErrTransferNotFound = errors.New("transfer not found")
	ErrRequestInFlight  = errors.New("another request with this idempotency key is in flight")

	// Asset errors
	ErrAssetNotFound          = errors.New("asset not found")
	ErrAssetNotDepreciable    = errors.New("asset has no depreciation method")
	ErrInvalidAssetParameters = errors.New("invalid asset parameters")

	// Concurrency errors
	ErrConcurrencyConflict = errors.New("concurrent modification detected, retry the operation")
)

// StorageError wraps a failure from the persistence layer. Retryable means
// the underlying commit may succeed if the whole operation is replayed;
// a transfer that failed this way has left no partial state behind.
type StorageError struct {
	Op        string
	Err       error
	Retryable bool
}

// NewStorageError wraps err as a non-retryable storage failure.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// NewRetryableStorageError wraps err as a retryable storage failure.
func NewRetryableStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err, Retryable: true}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
