package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/usecase"
)

const accountColumns = `id, name, kind, opening_balance, balance, version, created_at, updated_at`

const createAccount = `
INSERT INTO accounts (id, name, kind, opening_balance, balance, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const getAccountByID = `
SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

const getAccountByIDForUpdate = getAccountByID + ` FOR UPDATE`

const getAccountsByIDsForUpdate = `
SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`

const updateAccountBalance = `
UPDATE accounts SET balance = $2, version = version + 1, updated_at = $3 WHERE id = $1`

const listAccounts = `
SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, createAccount,
		account.ID,
		account.Name,
		string(account.Kind),
		moneyToNumeric(account.OpeningBalance),
		moneyToNumeric(account.Balance),
		account.Version,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if err != nil {
		return domain.NewStorageError("account create", err)
	}

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, getAccountByID, id))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return scanAccount(pgxTx.QueryRow(ctx, getAccountByIDForUpdate, id))
}

// GetByIDsForUpdate retrieves multiple accounts with FOR UPDATE locks. Rows
// are locked in id order regardless of the order ids arrive in.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, getAccountsByIDsForUpdate, ids)
	if err != nil {
		return nil, domain.NewStorageError("account lock", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0, len(ids))

	for rows.Next() {
		account, err := scanAccountFrom(rows.Scan)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance updates the cached balance of an account and bumps its
// version. Must run inside the transaction that locked the row.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance domain.Money, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, updateAccountBalance, id, moneyToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return domain.NewStorageError("balance update", err)
	}

	return nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, listAccounts, limit, offset)
	if err != nil {
		return nil, domain.NewStorageError("account list", err)
	}
	defer rows.Close()

	var accounts []*domain.Account

	for rows.Next() {
		account, err := scanAccountFrom(rows.Scan)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	account, err := scanAccountFrom(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

func scanAccountFrom(scan func(...any) error) (*domain.Account, error) {
	var (
		account          domain.Account
		kind             string
		opening, balance pgtype.Numeric
		created, updated pgtype.Timestamptz
	)

	err := scan(
		&account.ID,
		&account.Name,
		&kind,
		&opening,
		&balance,
		&account.Version,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	account.Kind = domain.AccountKind(kind)
	account.OpeningBalance = numericToMoney(opening)
	account.Balance = numericToMoney(balance)
	account.CreatedAt = created.Time
	account.UpdatedAt = updated.Time

	return &account, nil
}
