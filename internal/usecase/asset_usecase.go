package usecase

import (
	"context"
	"time"

	"github.com/bizbooks/ledgercore/internal/domain"
)

// AssetUseCase handles fixed asset registration. Assets are immutable after
// creation; schedules are always derived, never stored.
type AssetUseCase struct {
	assetRepo AssetRepository
	idGen     IDGenerator
}

// NewAssetUseCase creates a new AssetUseCase.
func NewAssetUseCase(assetRepo AssetRepository, idGen IDGenerator) *AssetUseCase {
	return &AssetUseCase{
		assetRepo: assetRepo,
		idGen:     idGen,
	}
}

// CreateAssetInput represents input for registering an asset.
type CreateAssetInput struct {
	Name            string
	Cost            domain.Money
	PurchaseDate    time.Time
	Method          domain.DepreciationMethod
	SalvageValue    domain.Money
	UsefulLifeYears int
}

// CreateAsset validates and persists an asset record. Parameter errors are
// rejected before any write.
func (uc *AssetUseCase) CreateAsset(ctx context.Context, input CreateAssetInput) (*domain.Asset, error) {
	if input.Method == "" {
		input.Method = domain.MethodNone
	}

	asset := &domain.Asset{
		ID:              uc.idGen.Generate(),
		Name:            input.Name,
		Cost:            input.Cost,
		PurchaseDate:    input.PurchaseDate,
		Method:          input.Method,
		SalvageValue:    input.SalvageValue,
		UsefulLifeYears: input.UsefulLifeYears,
		CreatedAt:       time.Now().UTC(),
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := uc.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// GetAsset retrieves an asset by ID.
func (uc *AssetUseCase) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	return uc.assetRepo.GetByID(ctx, id)
}

// ListAssetsInput represents input for listing assets.
type ListAssetsInput struct {
	Limit  int
	Offset int
}

// ListAssets lists assets with pagination.
func (uc *AssetUseCase) ListAssets(ctx context.Context, input ListAssetsInput) ([]*domain.Asset, error) {
	return uc.assetRepo.List(ctx, clampLimit(input.Limit), input.Offset)
}
