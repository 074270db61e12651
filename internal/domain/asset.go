package domain

import (
	"fmt"
	"time"
)

// DepreciationMethod selects the book-depreciation algorithm for an asset.
type DepreciationMethod string

const (
	MethodNone            DepreciationMethod = "NONE"
	MethodStraightLine    DepreciationMethod = "STRAIGHT_LINE"
	MethodDoubleDeclining DepreciationMethod = "DOUBLE_DECLINING"
)

// Valid reports whether m is a known method.
func (m DepreciationMethod) Valid() bool {
	switch m {
	case MethodNone, MethodStraightLine, MethodDoubleDeclining:
		return true
	}

	return false
}

// Asset is a fixed asset record. Immutable after creation: no mid-life
// revaluation. Depreciation schedules are derived fresh from this record,
// never persisted.
type Asset struct {
	ID              string
	Name            string
	Cost            Money
	PurchaseDate    time.Time
	Method          DepreciationMethod
	SalvageValue    Money
	UsefulLifeYears int
	CreatedAt       time.Time
}

// Depreciable reports whether the asset carries a depreciation schedule.
func (a *Asset) Depreciable() bool {
	return a.Method == MethodStraightLine || a.Method == MethodDoubleDeclining
}

// Validate checks the asset parameters. Salvage value and useful life are
// only meaningful when a depreciation method is set.
func (a *Asset) Validate() error {
	if !a.Method.Valid() {
		return fmt.Errorf("%w: unknown method %q", ErrInvalidAssetParameters, a.Method)
	}

	if !a.Cost.IsPositive() {
		return fmt.Errorf("%w: cost must be positive", ErrInvalidAssetParameters)
	}

	if a.Method == MethodNone {
		return nil
	}

	if a.SalvageValue.IsNegative() {
		return fmt.Errorf("%w: salvage value cannot be negative", ErrInvalidAssetParameters)
	}

	if a.SalvageValue.Cmp(a.Cost) >= 0 {
		return fmt.Errorf("%w: salvage value must be below cost", ErrInvalidAssetParameters)
	}

	if a.UsefulLifeYears <= 0 {
		return fmt.Errorf("%w: useful life must be positive", ErrInvalidAssetParameters)
	}

	return nil
}
