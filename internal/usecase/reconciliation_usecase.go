package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/infrastructure/metrics"
)

// ReconciliationUseCase verifies the ledger invariant: every account's
// cached balance must equal its opening balance plus the signed sum of its
// committed entries. Drift means a bug or corrupted storage, never normal
// operation.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	ledgerRepo  LedgerRepository
	metrics     *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase. metrics may be nil.
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	ledgerRepo LedgerRepository,
	m *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
		metrics:     m,
	}
}

// ReconciliationResult is the outcome of checking a single account.
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   domain.Money
	CalculatedBalance domain.Money
	Difference        domain.Money
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount recomputes one account's balance by replaying entries
// from the opening balance and compares it with the cached value.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sum, err := uc.entryRepo.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	calculated := account.OpeningBalance.Add(sum)
	difference := account.Balance.Sub(calculated)

	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        difference,
		IsReconciled:      difference.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconcileAll checks every account using a single aggregate query.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) ([]*ReconciliationResult, error) {
	summaries, err := uc.ledgerRepo.BalanceSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance summaries: %w", err)
	}

	now := time.Now().UTC()

	results := make([]*ReconciliationResult, 0, len(summaries))
	drifts := 0

	for _, s := range summaries {
		drift := s.Drift()
		if !drift.IsZero() {
			drifts++
		}

		results = append(results, &ReconciliationResult{
			AccountID:         s.AccountID,
			RecordedBalance:   s.Cached,
			CalculatedBalance: s.Computed,
			Difference:        drift,
			IsReconciled:      drift.IsZero(),
			LastChecked:       now,
		})
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.Inc()
		uc.metrics.ReconciliationDrifts.Add(float64(drifts))
	}

	return results, nil
}
