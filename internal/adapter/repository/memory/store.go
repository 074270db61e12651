// Package memory is a process-local storage engine implementing the same
// repository contracts as the postgres adapter. A single store mutex is the
// serializing unit: Begin acquires it, Commit/Rollback release it, so every
// transaction is trivially atomic and readers never observe a half-applied
// transfer. Used by tests and by embedders that do not need durability.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/usecase"
)

// Store holds all in-memory state.
type Store struct {
	mu        sync.Mutex
	accounts  map[string]*domain.Account
	entries   []*domain.Entry
	transfers map[string]*domain.Transfer
	assets    map[string]*domain.Asset
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]*domain.Account),
		transfers: make(map[string]*domain.Transfer),
		assets:    make(map[string]*domain.Asset),
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin locks the store and returns a transaction. Mutations requested
// through the transaction are staged and applied only on Commit.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.store.mu.Lock()

	return &Tx{store: m.store}, nil
}

// Tx stages mutations against the locked store.
type Tx struct {
	store  *Store
	staged []func()
	closed bool
}

// Commit applies all staged mutations and releases the store.
func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return nil
	}

	for _, apply := range t.staged {
		apply()
	}

	t.closed = true
	t.store.mu.Unlock()

	return nil
}

// Rollback discards staged mutations. A rollback after commit is a no-op,
// matching the usual defer tx.Rollback pattern.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.closed {
		return nil
	}

	t.staged = nil
	t.closed = true
	t.store.mu.Unlock()

	return nil
}

func (t *Tx) stage(apply func()) {
	t.staged = append(t.staged, apply)
}

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *account
	r.store.accounts[account.ID] = &cp

	return nil
}

// GetByID retrieves a copy of an account.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.getLocked(id)
}

// GetByIDForUpdate retrieves an account inside a transaction. The store
// lock held by the transaction is the row lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return r.getLocked(id)
}

// GetByIDsForUpdate retrieves multiple accounts inside a transaction.
// Missing ids are skipped; callers compare lengths.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	accounts := make([]*domain.Account, 0, len(ids))

	for _, id := range ids {
		account, err := r.getLocked(id)
		if err != nil {
			continue
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}

// UpdateBalance stages a balance update to apply on commit.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance domain.Money, updatedAt time.Time) error {
	memTx := tx.(*Tx)

	memTx.stage(func() {
		if account, ok := r.store.accounts[id]; ok {
			account.Balance = balance
			account.Version++
			account.UpdatedAt = updatedAt
		}
	})

	return nil
}

// List lists accounts ordered by creation time, newest first.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	accounts := make([]*domain.Account, 0, len(r.store.accounts))
	for _, account := range r.store.accounts {
		cp := *account
		accounts = append(accounts, &cp)
	}

	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
		}

		return accounts[i].ID > accounts[j].ID
	})

	return paginate(accounts, limit, offset), nil
}

func (r *AccountRepository) getLocked(id string) (*domain.Account, error) {
	account, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	cp := *account

	return &cp, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}

	items = items[offset:]

	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}
