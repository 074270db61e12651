package memory

import (
	"context"
	"sort"

	"github.com/bizbooks/ledgercore/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// BalanceSummaries recomputes every account's balance from its opening
// balance plus entry replay, next to the cached value.
func (r *LedgerRepository) BalanceSummaries(ctx context.Context) ([]*usecase.BalanceSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	summaries := make([]*usecase.BalanceSummary, 0, len(r.store.accounts))

	for _, account := range r.store.accounts {
		computed := account.OpeningBalance

		for _, entry := range r.store.entries {
			if entry.AccountID == account.ID {
				computed = computed.Add(entry.Signed())
			}
		}

		summaries = append(summaries, &usecase.BalanceSummary{
			AccountID: account.ID,
			Opening:   account.OpeningBalance,
			Cached:    account.Balance,
			Computed:  computed,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].AccountID < summaries[j].AccountID
	})

	return summaries, nil
}
