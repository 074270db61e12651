package usecase

import (
	"context"
	"time"

	"github.com/bizbooks/ledgercore/internal/domain"
)

// EntryFilter narrows ListEntries results. Zero values mean "no constraint".
type EntryFilter struct {
	From      *time.Time
	To        *time.Time
	Direction *domain.Direction
	ProjectID string
	Limit     int
	Offset    int
}

// AgingReport groups an account's entries into age buckets by occurred_at,
// the projection the payables/receivables views consume.
type AgingReport struct {
	AccountID  string
	AsOf       time.Time
	Current    domain.Money // 0-30 days
	ThirtyOne  domain.Money // 31-60 days
	SixtyOne   domain.Money // 61-90 days
	OverNinety domain.Money // 90+ days
}

// Total sums all buckets.
func (r *AgingReport) Total() domain.Money {
	return r.Current.Add(r.ThirtyOne).Add(r.SixtyOne).Add(r.OverNinety)
}

// BalanceSummary is one account's reconciliation row: the cached balance
// next to the balance recomputed from opening balance plus entry replay.
type BalanceSummary struct {
	AccountID string
	Opening   domain.Money
	Cached    domain.Money
	Computed  domain.Money
}

// Drift returns Cached - Computed. Zero on a healthy account.
func (s *BalanceSummary) Drift() domain.Money {
	return s.Cached.Sub(s.Computed)
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance domain.Money, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	ListByAccount(ctx context.Context, accountID string, filter EntryFilter) ([]*domain.Entry, error)
	GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error)
	SumByAccount(ctx context.Context, accountID string) (domain.Money, error)
	AgeBuckets(ctx context.Context, accountID string, asOf time.Time) (*AgingReport, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error)
}

// AssetRepository defines data access for fixed assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Asset, error)
}

// LedgerRepository defines ledger-wide aggregate queries.
type LedgerRepository interface {
	BalanceSummaries(ctx context.Context) ([]*BalanceSummary, error)
}

// Transaction represents a storage transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
