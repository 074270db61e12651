package domain

import (
	"time"
)

// Direction marks which side of an account an entry touches.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// Entry is a single immutable ledger entry. Corrections are new offsetting
// entries, never edits. Each entry snapshots the account balance before and
// after it was applied, so the cached balance is recoverable by replay.
type Entry struct {
	ID                    string
	AccountID             string
	TransferID            *string
	Direction             Direction
	Amount                Money
	Description           string
	CounterpartyAccountID *string
	ProjectID             string
	Reference             string
	OccurredAt            time.Time
	RecordedAt            time.Time
	PreviousBalance       Money
	CurrentBalance        Money
	AccountVersion        int64
}

// Signed returns the amount with its balance effect: positive for credits,
// negative for debits.
func (e *Entry) Signed() Money {
	if e.Direction == DirectionDebit {
		return e.Amount.Neg()
	}

	return e.Amount
}

// Validate validates an entry before it is staged.
func (e *Entry) Validate() error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !e.Direction.Valid() {
		return ErrInvalidAmount
	}

	return nil
}
