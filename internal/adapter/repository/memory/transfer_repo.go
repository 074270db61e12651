package memory

import (
	"context"
	"sort"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	store *Store
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(store *Store) *TransferRepository {
	return &TransferRepository{store: store}
}

// Create stages a transfer to apply on commit.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	memTx := tx.(*Tx)
	cp := *transfer

	memTx.stage(func() {
		r.store.transfers[cp.ID] = &cp
	})

	return nil
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	transfer, ok := r.store.transfers[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}

	cp := *transfer

	return &cp, nil
}

// ListByAccount lists transfers where the account is either side, newest first.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var transfers []*domain.Transfer

	for _, transfer := range r.store.transfers {
		if transfer.DestAccountID != accountID &&
			(transfer.SourceAccountID == nil || *transfer.SourceAccountID != accountID) {
			continue
		}

		cp := *transfer
		transfers = append(transfers, &cp)
	}

	sort.Slice(transfers, func(i, j int) bool {
		if !transfers[i].CreatedAt.Equal(transfers[j].CreatedAt) {
			return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
		}

		return transfers[i].ID > transfers[j].ID
	})

	return paginate(transfers, limit, offset), nil
}
