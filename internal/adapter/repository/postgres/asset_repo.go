package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizbooks/ledgercore/internal/domain"
)

const assetColumns = `id, name, cost, purchase_date, method, salvage_value, useful_life_years, created_at`

const createAsset = `
INSERT INTO assets (` + assetColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const getAssetByID = `
SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

const listAssets = `
SELECT ` + assetColumns + ` FROM assets ORDER BY purchase_date DESC, id DESC LIMIT $1 OFFSET $2`

// AssetRepository implements usecase.AssetRepository.
type AssetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

// Create persists an asset record. Assets are immutable after creation.
func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	_, err := r.pool.Exec(ctx, createAsset,
		asset.ID,
		asset.Name,
		moneyToNumeric(asset.Cost),
		timeToPgTimestamptz(asset.PurchaseDate),
		string(asset.Method),
		moneyToNumeric(asset.SalvageValue),
		asset.UsefulLifeYears,
		timeToPgTimestamptz(asset.CreatedAt),
	)
	if err != nil {
		return domain.NewStorageError("asset create", err)
	}

	return nil
}

// GetByID retrieves an asset by ID.
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	asset, err := scanAssetFrom(r.pool.QueryRow(ctx, getAssetByID, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}

		return nil, err
	}

	return asset, nil
}

// List lists assets with pagination.
func (r *AssetRepository) List(ctx context.Context, limit, offset int) ([]*domain.Asset, error) {
	rows, err := r.pool.Query(ctx, listAssets, limit, offset)
	if err != nil {
		return nil, domain.NewStorageError("asset list", err)
	}
	defer rows.Close()

	var assets []*domain.Asset

	for rows.Next() {
		asset, err := scanAssetFrom(rows.Scan)
		if err != nil {
			return nil, err
		}

		assets = append(assets, asset)
	}

	return assets, rows.Err()
}

func scanAssetFrom(scan func(...any) error) (*domain.Asset, error) {
	var (
		asset              domain.Asset
		method             string
		cost, salvage      pgtype.Numeric
		purchased, created pgtype.Timestamptz
	)

	err := scan(
		&asset.ID,
		&asset.Name,
		&cost,
		&purchased,
		&method,
		&salvage,
		&asset.UsefulLifeYears,
		&created,
	)
	if err != nil {
		return nil, err
	}

	asset.Cost = numericToMoney(cost)
	asset.PurchaseDate = purchased.Time
	asset.Method = domain.DepreciationMethod(method)
	asset.SalvageValue = numericToMoney(salvage)
	asset.CreatedAt = created.Time

	return &asset, nil
}
