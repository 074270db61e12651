package usecase

import (
	"context"
	"time"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/infrastructure/metrics"
)

// LedgerUseCase is the ledger store contract: append-only entries plus a
// cached running balance per account, kept consistent under concurrency.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. metrics may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// RecordEntryInput represents input for recording a standalone entry.
type RecordEntryInput struct {
	AccountID   string
	Direction   domain.Direction
	Amount      domain.Money
	Description string
	ProjectID   string
	Reference   string
	OccurredAt  *time.Time
}

// RecordEntry appends an entry and adjusts the account's cached balance in
// one atomic unit. The account row is locked for the duration, so
// concurrent calls on the same account serialize and no update is lost.
// Validation failures are rejected before any mutation is staged.
func (uc *LedgerUseCase) RecordEntry(ctx context.Context, input RecordEntryInput) (*domain.Entry, error) {
	started := time.Now()

	if !input.Amount.IsPositive() || !input.Direction.Valid() {
		uc.countEntryError(domain.ErrInvalidAmount)
		return nil, domain.ErrInvalidAmount
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		uc.countEntryError(err)
		return nil, err
	}

	now := time.Now().UTC()

	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	entry := &domain.Entry{
		ID:              uc.idGen.Generate(),
		AccountID:       account.ID,
		Direction:       input.Direction,
		Amount:          input.Amount,
		Description:     input.Description,
		ProjectID:       input.ProjectID,
		Reference:       input.Reference,
		OccurredAt:      occurredAt,
		RecordedAt:      now,
		PreviousBalance: account.Balance,
		AccountVersion:  account.Version + 1,
	}

	if input.Direction == domain.DirectionCredit {
		entry.CurrentBalance = account.ApplyCredit(input.Amount)
	} else {
		entry.CurrentBalance = account.ApplyDebit(input.Amount)
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, entry.CurrentBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesRecorded.WithLabelValues(string(input.Direction)).Inc()
		uc.metrics.RecordDuration.Observe(time.Since(started).Seconds())
	}

	return entry, nil
}

// GetBalance returns the account's cached balance. Readers never observe a
// state between the two legs of a transfer: balance updates and entry
// appends commit together.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, accountID string) (domain.Money, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return domain.ZeroMoney(), err
	}

	return account.Balance, nil
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	AccountID string
	Filter    EntryFilter
}

// ListEntries lists an account's entries, newest first: occurred_at
// descending, ties broken by recorded_at then id, all descending. The
// ordering is stable so paginated views never shuffle.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	input.Filter.Limit = clampLimit(input.Filter.Limit)

	return uc.entryRepo.ListByAccount(ctx, input.AccountID, input.Filter)
}

func (uc *LedgerUseCase) countEntryError(err error) {
	if uc.metrics != nil {
		uc.metrics.EntryErrors.WithLabelValues(errorLabel(err)).Inc()
	}
}
