package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/usecase"
)

const balanceSummaries = `
SELECT a.id,
       a.opening_balance,
       a.balance,
       a.opening_balance + COALESCE(SUM(
           CASE WHEN e.direction = 'credit' THEN e.amount ELSE -e.amount END
       ), 0) AS computed
FROM accounts a
LEFT JOIN entries e ON e.account_id = a.id
GROUP BY a.id, a.opening_balance, a.balance
ORDER BY a.id`

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// BalanceSummaries recomputes every account's balance from its opening
// balance plus entry replay, next to the cached value, in one pass.
func (r *LedgerRepository) BalanceSummaries(ctx context.Context) ([]*usecase.BalanceSummary, error) {
	rows, err := r.pool.Query(ctx, balanceSummaries)
	if err != nil {
		return nil, domain.NewStorageError("balance summaries", err)
	}
	defer rows.Close()

	var summaries []*usecase.BalanceSummary

	for rows.Next() {
		var (
			summary                   usecase.BalanceSummary
			opening, cached, computed pgtype.Numeric
		)

		if err := rows.Scan(&summary.AccountID, &opening, &cached, &computed); err != nil {
			return nil, err
		}

		summary.Opening = numericToMoney(opening)
		summary.Cached = numericToMoney(cached)
		summary.Computed = numericToMoney(computed)

		summaries = append(summaries, &summary)
	}

	return summaries, rows.Err()
}
