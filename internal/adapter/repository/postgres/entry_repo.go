package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/usecase"
)

const entryColumns = `id, account_id, transfer_id, direction, amount, description,
counterparty_account_id, project_id, reference, occurred_at, recorded_at,
previous_balance, current_balance, account_version`

const createEntry = `
INSERT INTO entries (` + entryColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const getEntriesByTransfer = `
SELECT ` + entryColumns + ` FROM entries WHERE transfer_id = $1 ORDER BY id`

const sumEntriesByAccount = `
SELECT COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END), 0)::NUMERIC
FROM entries WHERE account_id = $1`

// Ages are floored to whole days: an entry is N days old until a full
// N+1 days have passed, so the 0-30 bucket holds everything younger than
// 31 whole days. Strict bounds at 31/61/91 days encode that floor.
const ageBucketsByAccount = `
SELECT
    COALESCE(SUM(CASE WHEN occurred_at >  $2::timestamptz - INTERVAL '31 days' THEN signed ELSE 0 END), 0)::NUMERIC,
    COALESCE(SUM(CASE WHEN occurred_at <= $2::timestamptz - INTERVAL '31 days'
                       AND occurred_at >  $2::timestamptz - INTERVAL '61 days' THEN signed ELSE 0 END), 0)::NUMERIC,
    COALESCE(SUM(CASE WHEN occurred_at <= $2::timestamptz - INTERVAL '61 days'
                       AND occurred_at >  $2::timestamptz - INTERVAL '91 days' THEN signed ELSE 0 END), 0)::NUMERIC,
    COALESCE(SUM(CASE WHEN occurred_at <= $2::timestamptz - INTERVAL '91 days' THEN signed ELSE 0 END), 0)::NUMERIC
FROM (
    SELECT occurred_at,
           CASE WHEN direction = 'credit' THEN amount ELSE -amount END AS signed
    FROM entries
    WHERE account_id = $1 AND occurred_at <= $2
) aged`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create appends an entry inside the caller's transaction. Entries are
// insert-only; there is no update or delete path.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, createEntry,
		entry.ID,
		entry.AccountID,
		entry.TransferID,
		string(entry.Direction),
		moneyToNumeric(entry.Amount),
		entry.Description,
		entry.CounterpartyAccountID,
		entry.ProjectID,
		entry.Reference,
		timeToPgTimestamptz(entry.OccurredAt),
		timeToPgTimestamptz(entry.RecordedAt),
		moneyToNumeric(entry.PreviousBalance),
		moneyToNumeric(entry.CurrentBalance),
		entry.AccountVersion,
	)
	if err != nil {
		return domain.NewStorageError("entry create", err)
	}

	return nil
}

// ListByAccount lists entries newest first: occurred_at DESC, then
// recorded_at DESC, then id DESC, so pagination is deterministic.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE account_id = $1`
	args := []any{accountID}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}

	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}

	if filter.Direction != nil {
		args = append(args, string(*filter.Direction))
		query += fmt.Sprintf(" AND direction = $%d", len(args))
	}

	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}

	query += " ORDER BY occurred_at DESC, recorded_at DESC, id DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("entry list", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByTransfer retrieves the entries belonging to one transfer.
func (r *EntryRepository) GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, getEntriesByTransfer, transferID)
	if err != nil {
		return nil, domain.NewStorageError("entry get by transfer", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SumByAccount returns the signed sum of all committed entries for an
// account: credits positive, debits negative. Reconciliation input.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string) (domain.Money, error) {
	var sum pgtype.Numeric

	if err := r.pool.QueryRow(ctx, sumEntriesByAccount, accountID).Scan(&sum); err != nil {
		return domain.ZeroMoney(), domain.NewStorageError("entry sum", err)
	}

	return numericToMoney(sum), nil
}

// AgeBuckets groups the account's entries up to asOf into aging buckets.
func (r *EntryRepository) AgeBuckets(ctx context.Context, accountID string, asOf time.Time) (*usecase.AgingReport, error) {
	var current, thirtyOne, sixtyOne, overNinety pgtype.Numeric

	err := r.pool.QueryRow(ctx, ageBucketsByAccount, accountID, timeToPgTimestamptz(asOf)).
		Scan(&current, &thirtyOne, &sixtyOne, &overNinety)
	if err != nil {
		return nil, domain.NewStorageError("entry aging", err)
	}

	return &usecase.AgingReport{
		AccountID:  accountID,
		AsOf:       asOf,
		Current:    numericToMoney(current),
		ThirtyOne:  numericToMoney(thirtyOne),
		SixtyOne:   numericToMoney(sixtyOne),
		OverNinety: numericToMoney(overNinety),
	}, nil
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry

	for rows.Next() {
		var (
			entry              domain.Entry
			direction          string
			amount             pgtype.Numeric
			previous, current  pgtype.Numeric
			occurred, recorded pgtype.Timestamptz
		)

		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.TransferID,
			&direction,
			&amount,
			&entry.Description,
			&entry.CounterpartyAccountID,
			&entry.ProjectID,
			&entry.Reference,
			&occurred,
			&recorded,
			&previous,
			&current,
			&entry.AccountVersion,
		)
		if err != nil {
			return nil, err
		}

		entry.Direction = domain.Direction(direction)
		entry.Amount = numericToMoney(amount)
		entry.OccurredAt = occurred.Time
		entry.RecordedAt = recorded.Time
		entry.PreviousBalance = numericToMoney(previous)
		entry.CurrentBalance = numericToMoney(current)

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
