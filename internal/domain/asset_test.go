package domain

import (
	"errors"
	"testing"
	"time"
)

func TestAsset_Validate(t *testing.T) {
	purchase := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		asset       Asset
		expectError bool
	}{
		{
			name: "valid straight line",
			asset: Asset{
				Name:            "Delivery van",
				Cost:            MustMoney("10000.00"),
				PurchaseDate:    purchase,
				Method:          MethodStraightLine,
				SalvageValue:    MustMoney("1000.00"),
				UsefulLifeYears: 5,
			},
		},
		{
			name: "valid non-depreciating",
			asset: Asset{
				Name:         "Land",
				Cost:         MustMoney("50000.00"),
				PurchaseDate: purchase,
				Method:       MethodNone,
			},
		},
		{
			name: "unknown method",
			asset: Asset{
				Name:   "Printer",
				Cost:   MustMoney("500.00"),
				Method: DepreciationMethod("SUM_OF_YEARS"),
			},
			expectError: true,
		},
		{
			name: "zero cost",
			asset: Asset{
				Name:            "Freebie",
				Cost:            ZeroMoney(),
				Method:          MethodStraightLine,
				UsefulLifeYears: 3,
			},
			expectError: true,
		},
		{
			name: "salvage at cost",
			asset: Asset{
				Name:            "Machine",
				Cost:            MustMoney("1000.00"),
				Method:          MethodStraightLine,
				SalvageValue:    MustMoney("1000.00"),
				UsefulLifeYears: 3,
			},
			expectError: true,
		},
		{
			name: "negative salvage",
			asset: Asset{
				Name:            "Machine",
				Cost:            MustMoney("1000.00"),
				Method:          MethodDoubleDeclining,
				SalvageValue:    MustMoney("-10.00"),
				UsefulLifeYears: 3,
			},
			expectError: true,
		},
		{
			name: "zero useful life with method",
			asset: Asset{
				Name:         "Machine",
				Cost:         MustMoney("1000.00"),
				Method:       MethodStraightLine,
				SalvageValue: ZeroMoney(),
			},
			expectError: true,
		},
		{
			name: "no method skips life checks",
			asset: Asset{
				Name:         "Artwork",
				Cost:         MustMoney("1000.00"),
				Method:       MethodNone,
				SalvageValue: MustMoney("-5.00"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()

			if tt.expectError {
				if !errors.Is(err, ErrInvalidAssetParameters) {
					t.Errorf("expected ErrInvalidAssetParameters, got %v", err)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAsset_Depreciable(t *testing.T) {
	tests := []struct {
		method      DepreciationMethod
		depreciable bool
	}{
		{MethodNone, false},
		{MethodStraightLine, true},
		{MethodDoubleDeclining, true},
	}

	for _, tt := range tests {
		a := Asset{Method: tt.method}
		if got := a.Depreciable(); got != tt.depreciable {
			t.Errorf("method %s: expected %v, got %v", tt.method, tt.depreciable, got)
		}
	}
}
