package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/infrastructure/metrics"
)

// TransferUseCase coordinates multi-account operations. Both legs of a
// transfer commit as one atomic unit: either both balances change and both
// entries become visible, or neither does. There is no partially-committed
// terminal state.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	entryRepo    EntryRepository
	idGen        IDGenerator
	idemStore    IdempotencyStore
	metrics      *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase. idemStore and metrics
// may be nil; without an idempotency store, blind retries double-apply and
// deduplication is the caller's responsibility.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	idemStore IdempotencyStore,
	m *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		entryRepo:    entryRepo,
		idGen:        idGen,
		idemStore:    idemStore,
		metrics:      m,
	}
}

// CreateTransferInput represents input for creating a transfer.
//
// With SourceAccountID set, the source is debited and the destination
// credited. Without it the transfer degenerates to a single entry on the
// destination account, in the direction the caller chooses (an expense
// against petty cash is a single debit; a plain deposit a single credit).
type CreateTransferInput struct {
	SourceAccountID *string
	DestAccountID   string
	Amount          domain.Money
	Direction       domain.Direction // single-leg only; defaults to credit
	Description     string
	ProjectID       string
	Reference       string
	OccurredAt      *time.Time
	Metadata        map[string]any
	IdempotencyKey  string
}

// CreateTransfer records a transfer.
//
// Validation runs before anything is staged. Accounts are then locked in
// sorted id order: two concurrent transfers between the same pair in
// opposite directions acquire locks in the same sequence, so they cannot
// deadlock. All rows (transfer, one or two entries, balance updates) are
// staged in one transaction; a failure on any leg rolls back the whole
// unit, including timeouts via ctx.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	started := time.Now()

	if err := uc.validateInput(input); err != nil {
		uc.countAbort(err)
		return nil, err
	}

	if input.IdempotencyKey != "" && uc.idemStore != nil {
		existing, err := uc.replayIdempotent(ctx, input.IdempotencyKey)
		if err != nil {
			uc.countAbort(err)
			return nil, err
		}

		if existing != nil {
			return existing, nil
		}
	}

	transfer, err := uc.commitTransfer(ctx, input)
	if err != nil {
		uc.countAbort(err)
		return nil, err
	}

	if input.IdempotencyKey != "" && uc.idemStore != nil {
		// Best effort: a failed write here only weakens dedupe, never state.
		_ = uc.idemStore.Update(ctx, input.IdempotencyKey, []byte(transfer.ID), IdempotencyKeyTTL)
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCommitted.Inc()
		uc.metrics.TransferDuration.Observe(time.Since(started).Seconds())
		amount, _ := transfer.Amount.Decimal().Float64()
		uc.metrics.TransferAmount.Observe(amount)
	}

	return transfer, nil
}

func (uc *TransferUseCase) validateInput(input CreateTransferInput) error {
	if !input.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	if input.SourceAccountID != nil && *input.SourceAccountID == input.DestAccountID {
		return domain.ErrSameAccount
	}

	if input.SourceAccountID == nil && input.Direction != "" && !input.Direction.Valid() {
		return domain.ErrInvalidAmount
	}

	return domain.ValidateMetadata(input.Metadata)
}

// replayIdempotent returns the previously committed transfer for a reused
// key, or nil when the key is fresh. A key that is claimed but carries no
// result yet belongs to a request still in flight; the duplicate is
// rejected with ErrRequestInFlight rather than applied a second time.
func (uc *TransferUseCase) replayIdempotent(ctx context.Context, key string) (*domain.Transfer, error) {
	exists, value, err := uc.idemStore.CheckAndSet(ctx, key, nil, IdempotencyKeyTTL)
	if err != nil {
		return nil, domain.NewRetryableStorageError("idempotency check", err)
	}

	if !exists {
		return nil, nil
	}

	if len(value) == 0 {
		return nil, domain.ErrRequestInFlight
	}

	return uc.transferRepo.GetByID(ctx, string(value))
}

func (uc *TransferUseCase) commitTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	// Lock order: sorted account ids (deadlock prevention).
	accountIDs := []string{input.DestAccountID}
	if input.SourceAccountID != nil {
		accountIDs = append(accountIDs, *input.SourceAccountID)
		sort.Strings(accountIDs)
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(accountIDs) {
		return nil, domain.ErrAccountNotFound
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.ID] = a
	}

	now := time.Now().UTC()

	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	transfer := &domain.Transfer{
		ID:              uc.idGen.Generate(),
		SourceAccountID: input.SourceAccountID,
		DestAccountID:   input.DestAccountID,
		Amount:          input.Amount,
		Description:     input.Description,
		Metadata:        input.Metadata,
		OccurredAt:      occurredAt,
		CreatedAt:       now,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	if transfer.TwoLegged() {
		source := accountMap[*input.SourceAccountID]
		dest := accountMap[input.DestAccountID]

		err = uc.stageLeg(ctx, tx, transfer, input, source, domain.DirectionDebit, &dest.ID, now, occurredAt)
		if err != nil {
			return nil, err
		}

		err = uc.stageLeg(ctx, tx, transfer, input, dest, domain.DirectionCredit, &source.ID, now, occurredAt)
		if err != nil {
			return nil, err
		}
	} else {
		direction := input.Direction
		if direction == "" {
			direction = domain.DirectionCredit
		}

		err = uc.stageLeg(ctx, tx, transfer, input, accountMap[input.DestAccountID], direction, nil, now, occurredAt)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return transfer, nil
}

// stageLeg stages one entry plus its balance update inside tx and mutates
// the in-memory account copy so a second leg on the same account (never the
// case today, but cheap to keep correct) sees the updated balance.
func (uc *TransferUseCase) stageLeg(
	ctx context.Context,
	tx Transaction,
	transfer *domain.Transfer,
	input CreateTransferInput,
	account *domain.Account,
	direction domain.Direction,
	counterparty *string,
	now, occurredAt time.Time,
) error {
	newBalance := account.ApplyCredit(transfer.Amount)
	if direction == domain.DirectionDebit {
		newBalance = account.ApplyDebit(transfer.Amount)
	}

	entry := &domain.Entry{
		ID:                    uc.idGen.Generate(),
		AccountID:             account.ID,
		TransferID:            &transfer.ID,
		Direction:             direction,
		Amount:                transfer.Amount,
		Description:           input.Description,
		CounterpartyAccountID: counterparty,
		ProjectID:             input.ProjectID,
		Reference:             input.Reference,
		OccurredAt:            occurredAt,
		RecordedAt:            now,
		PreviousBalance:       account.Balance,
		CurrentBalance:        newBalance,
		AccountVersion:        account.Version + 1,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return err
	}

	account.Balance = newBalance
	account.Version++

	return nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersByAccountInput represents input for listing transfers.
type ListTransfersByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransfersByAccount lists transfers touching an account.
func (uc *TransferUseCase) ListTransfersByAccount(ctx context.Context, input ListTransfersByAccountInput) ([]*domain.Transfer, error) {
	return uc.transferRepo.ListByAccount(ctx, input.AccountID, clampLimit(input.Limit), input.Offset)
}

func (uc *TransferUseCase) countAbort(err error) {
	if uc.metrics != nil {
		uc.metrics.TransfersAborted.WithLabelValues(errorLabel(err)).Inc()
	}
}

// errorLabel maps domain errors to stable metric labels.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	case errors.Is(err, domain.ErrRequestInFlight):
		return "request_in_flight"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "concurrency_conflict"
	default:
		return "storage_failure"
	}
}
