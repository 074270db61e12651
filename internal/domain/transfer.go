package domain

import (
	"time"
)

// Transfer is a logical movement of money. With a source it produces two
// entries (debit source, credit destination) committed atomically; without
// one it degenerates to a single entry on the destination account.
type Transfer struct {
	ID              string
	SourceAccountID *string
	DestAccountID   string
	Amount          Money
	Description     string
	Metadata        map[string]any
	OccurredAt      time.Time
	CreatedAt       time.Time
}

// TwoLegged reports whether the transfer touches two accounts.
func (t *Transfer) TwoLegged() bool {
	return t.SourceAccountID != nil
}

// Validate validates a transfer request.
func (t *Transfer) Validate() error {
	if t.SourceAccountID != nil && *t.SourceAccountID == t.DestAccountID {
		return ErrSameAccount
	}

	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}
