package memory

import (
	"context"
	"sort"

	"github.com/bizbooks/ledgercore/internal/domain"
)

// AssetRepository implements usecase.AssetRepository.
type AssetRepository struct {
	store *Store
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(store *Store) *AssetRepository {
	return &AssetRepository{store: store}
}

// Create creates a new asset.
func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *asset
	r.store.assets[asset.ID] = &cp

	return nil
}

// GetByID retrieves an asset by ID.
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	asset, ok := r.store.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}

	cp := *asset

	return &cp, nil
}

// List lists assets, newest purchase first.
func (r *AssetRepository) List(ctx context.Context, limit, offset int) ([]*domain.Asset, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	assets := make([]*domain.Asset, 0, len(r.store.assets))
	for _, asset := range r.store.assets {
		cp := *asset
		assets = append(assets, &cp)
	}

	sort.Slice(assets, func(i, j int) bool {
		if !assets[i].PurchaseDate.Equal(assets[j].PurchaseDate) {
			return assets[i].PurchaseDate.After(assets[j].PurchaseDate)
		}

		return assets[i].ID > assets[j].ID
	})

	return paginate(assets, limit, offset), nil
}
