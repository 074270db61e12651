package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/usecase"
)

const transferColumns = `id, source_account_id, dest_account_id, amount, description, metadata, occurred_at, created_at`

const createTransfer = `
INSERT INTO transfers (` + transferColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const getTransferByID = `
SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`

const listTransfersByAccount = `
SELECT ` + transferColumns + ` FROM transfers
WHERE source_account_id = $1 OR dest_account_id = $1
ORDER BY occurred_at DESC, created_at DESC, id DESC
LIMIT $2 OFFSET $3`

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create creates a new transfer inside the caller's transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	var metadata []byte
	if transfer.Metadata != nil {
		var err error

		metadata, err = json.Marshal(transfer.Metadata)
		if err != nil {
			return err
		}
	}

	_, err := pgxTx.Exec(ctx, createTransfer,
		transfer.ID,
		transfer.SourceAccountID,
		transfer.DestAccountID,
		moneyToNumeric(transfer.Amount),
		transfer.Description,
		metadata,
		timeToPgTimestamptz(transfer.OccurredAt),
		timeToPgTimestamptz(transfer.CreatedAt),
	)
	if err != nil {
		return domain.NewStorageError("transfer create", err)
	}

	return nil
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	transfer, err := scanTransfer(r.pool.QueryRow(ctx, getTransferByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return transfer, nil
}

// ListByAccount lists transfers where the account is either side.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx, listTransfersByAccount, accountID, limit, offset)
	if err != nil {
		return nil, domain.NewStorageError("transfer list", err)
	}
	defer rows.Close()

	var transfers []*domain.Transfer

	for rows.Next() {
		transfer, err := scanTransferFrom(rows.Scan)
		if err != nil {
			return nil, err
		}

		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	return scanTransferFrom(row.Scan)
}

func scanTransferFrom(scan func(...any) error) (*domain.Transfer, error) {
	var (
		transfer          domain.Transfer
		amount            pgtype.Numeric
		metadata          []byte
		occurred, created pgtype.Timestamptz
	)

	err := scan(
		&transfer.ID,
		&transfer.SourceAccountID,
		&transfer.DestAccountID,
		&amount,
		&transfer.Description,
		&metadata,
		&occurred,
		&created,
	)
	if err != nil {
		return nil, err
	}

	if metadata != nil {
		_ = json.Unmarshal(metadata, &transfer.Metadata)
	}

	transfer.Amount = numericToMoney(amount)
	transfer.OccurredAt = occurred.Time
	transfer.CreatedAt = created.Time

	return &transfer, nil
}
