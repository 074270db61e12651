package domain

import (
	"time"
)

// AccountKind distinguishes the two cash account flavors the ledger tracks.
type AccountKind string

const (
	AccountKindBank      AccountKind = "bank"
	AccountKindPettyCash AccountKind = "petty_cash"
)

// Valid reports whether the kind is one of the known values.
func (k AccountKind) Valid() bool {
	return k == AccountKindBank || k == AccountKindPettyCash
}

// Account represents a cash account (bank or petty cash) with a cached
// running balance. The invariant, enforced by the ledger use case and
// checked by reconciliation, is:
//
//	Balance == OpeningBalance + sum(credits) - sum(debits)
//
// over all committed entries, at all times visible to readers.
type Account struct {
	ID             string
	Name           string
	Kind           AccountKind
	OpeningBalance Money
	Balance        Money
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ApplyCredit returns the balance after crediting amount.
func (a *Account) ApplyCredit(amount Money) Money {
	return a.Balance.Add(amount)
}

// ApplyDebit returns the balance after debiting amount. Balances may go
// negative: overdraft protection is a business rule for callers, not a
// ledger invariant.
func (a *Account) ApplyDebit(amount Money) Money {
	return a.Balance.Sub(amount)
}
