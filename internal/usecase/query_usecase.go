package usecase

import (
	"context"
	"time"

	"github.com/bizbooks/ledgercore/internal/depreciation"
	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/infrastructure/metrics"
)

// QueryUseCase is the read-side facade: depreciation schedule views, book
// values and aging groupings, computed on demand so reporting layers never
// re-implement the math. All methods are pure CPU work over fetched records
// and safe to run in parallel.
type QueryUseCase struct {
	assetRepo AssetRepository
	entryRepo EntryRepository
	metrics   *metrics.Metrics
}

// NewQueryUseCase creates a new QueryUseCase. metrics may be nil.
func NewQueryUseCase(assetRepo AssetRepository, entryRepo EntryRepository, m *metrics.Metrics) *QueryUseCase {
	return &QueryUseCase{
		assetRepo: assetRepo,
		entryRepo: entryRepo,
		metrics:   m,
	}
}

// Schedule computes the full depreciation schedule for a stored asset.
func (uc *QueryUseCase) Schedule(ctx context.Context, assetID string, granularity depreciation.Granularity, asOf time.Time) ([]depreciation.ScheduleEntry, error) {
	asset, err := uc.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	entries, err := depreciation.Schedule(asset, granularity, asOf)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SchedulesComputed.WithLabelValues(string(asset.Method), string(granularity)).Inc()
	}

	return entries, nil
}

// CurrentBookValue returns the ending book value of the last period that
// has fully elapsed by asOf, or the asset's cost if none has.
func (uc *QueryUseCase) CurrentBookValue(ctx context.Context, assetID string, granularity depreciation.Granularity, asOf time.Time) (domain.Money, error) {
	asset, entries, err := uc.elapsed(ctx, assetID, granularity, asOf)
	if err != nil {
		return domain.ZeroMoney(), err
	}

	if len(entries) == 0 {
		return asset.Cost, nil
	}

	return entries[len(entries)-1].EndingBookValue, nil
}

// AccumulatedDepreciation returns the depreciation accumulated over all
// periods that have fully elapsed by asOf.
func (uc *QueryUseCase) AccumulatedDepreciation(ctx context.Context, assetID string, granularity depreciation.Granularity, asOf time.Time) (domain.Money, error) {
	_, entries, err := uc.elapsed(ctx, assetID, granularity, asOf)
	if err != nil {
		return domain.ZeroMoney(), err
	}

	if len(entries) == 0 {
		return domain.ZeroMoney(), nil
	}

	return entries[len(entries)-1].AccumulatedDepreciation, nil
}

// elapsed returns the asset and the prefix of its schedule whose periods
// ended on or before asOf.
func (uc *QueryUseCase) elapsed(ctx context.Context, assetID string, granularity depreciation.Granularity, asOf time.Time) (*domain.Asset, []depreciation.ScheduleEntry, error) {
	asset, err := uc.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, nil, err
	}

	entries, err := depreciation.Schedule(asset, granularity, asOf)
	if err != nil {
		return nil, nil, err
	}

	n := 0
	for _, e := range entries {
		if e.PeriodEnd.After(asOf) {
			break
		}

		n++
	}

	return asset, entries[:n], nil
}

// AgingReport groups an account's entries into 0-30/31-60/61-90/90+ day
// buckets by occurred_at, as of the given time.
func (uc *QueryUseCase) AgingReport(ctx context.Context, accountID string, asOf time.Time) (*AgingReport, error) {
	return uc.entryRepo.AgeBuckets(ctx, accountID, asOf)
}
