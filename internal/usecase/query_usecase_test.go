package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/bizbooks/ledgercore/internal/depreciation"
	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/usecase"
	"github.com/bizbooks/ledgercore/internal/usecase/mocks"
)

func testAsset() *domain.Asset {
	return &domain.Asset{
		ID:              "asset-1",
		Name:            "Delivery van",
		Cost:            domain.MustMoney("100000.00"),
		PurchaseDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Method:          domain.MethodStraightLine,
		SalvageValue:    domain.MustMoney("10000.00"),
		UsefulLifeYears: 5,
	}
}

func TestQueryUseCase_Schedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	assetRepo := mocks.NewMockAssetRepository(ctrl)
	assetRepo.EXPECT().GetByID(gomock.Any(), "asset-1").Return(testAsset(), nil)

	uc := usecase.NewQueryUseCase(assetRepo, mocks.NewMockEntryRepository(), nil)

	entries, err := uc.Schedule(context.Background(), "asset-1", depreciation.GranularityYearly, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 5 {
		t.Errorf("expected 5 periods, got %d", len(entries))
	}
}

func TestQueryUseCase_ScheduleAssetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	assetRepo := mocks.NewMockAssetRepository(ctrl)
	assetRepo.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, domain.ErrAssetNotFound)

	uc := usecase.NewQueryUseCase(assetRepo, mocks.NewMockEntryRepository(), nil)

	if _, err := uc.Schedule(context.Background(), "ghost", depreciation.GranularityYearly, time.Now()); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestQueryUseCase_CurrentBookValue(t *testing.T) {
	tests := []struct {
		name     string
		asOf     time.Time
		expected string
	}{
		{
			name:     "before any period elapsed",
			asOf:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			expected: "100000.00",
		},
		{
			name:     "after first year",
			asOf:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			expected: "82000.00",
		},
		{
			name:     "after two years",
			asOf:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			expected: "64000.00",
		},
		{
			name:     "long after life ends",
			asOf:     time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: "10000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			assetRepo := mocks.NewMockAssetRepository(ctrl)
			assetRepo.EXPECT().GetByID(gomock.Any(), "asset-1").Return(testAsset(), nil)

			uc := usecase.NewQueryUseCase(assetRepo, mocks.NewMockEntryRepository(), nil)

			value, err := uc.CurrentBookValue(context.Background(), "asset-1", depreciation.GranularityYearly, tt.asOf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := value.String(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestQueryUseCase_AccumulatedDepreciation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	assetRepo := mocks.NewMockAssetRepository(ctrl)
	assetRepo.EXPECT().GetByID(gomock.Any(), "asset-1").Return(testAsset(), nil).Times(2)

	uc := usecase.NewQueryUseCase(assetRepo, mocks.NewMockEntryRepository(), nil)

	early, err := uc.AccumulatedDepreciation(context.Background(), "asset-1", depreciation.GranularityYearly, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !early.IsZero() {
		t.Errorf("expected zero before any period elapsed, got %s", early)
	}

	later, err := uc.AccumulatedDepreciation(context.Background(), "asset-1", depreciation.GranularityYearly, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := later.String(); got != "36000.00" {
		t.Errorf("expected 36000.00 after two years, got %s", got)
	}
}

func TestQueryUseCase_AgingReport(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	entryRepo := mocks.NewMockEntryRepository()
	entryRepo.AgeBucketsFunc = func(ctx context.Context, accountID string, got time.Time) (*usecase.AgingReport, error) {
		if accountID != "acc-1" || !got.Equal(asOf) {
			t.Errorf("unexpected query: %s at %s", accountID, got)
		}
		return &usecase.AgingReport{
			AccountID:  accountID,
			AsOf:       got,
			Current:    domain.MustMoney("100.00"),
			ThirtyOne:  domain.MustMoney("50.00"),
			SixtyOne:   domain.ZeroMoney(),
			OverNinety: domain.MustMoney("-25.00"),
		}, nil
	}

	uc := usecase.NewQueryUseCase(nil, entryRepo, nil)

	report, err := uc.AgingReport(context.Background(), "acc-1", asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := report.Total().String(); got != "125.00" {
		t.Errorf("expected total 125.00, got %s", got)
	}
}
