// Package depreciation computes book-depreciation schedules for fixed
// assets. The engine is pure: the same asset, granularity and as-of time
// always produce the same schedule, and nothing is persisted.
package depreciation

import (
	"fmt"
	"time"

	"github.com/bizbooks/ledgercore/internal/domain"
)

// Granularity selects the period length of a schedule.
type Granularity string

const (
	GranularityYearly  Granularity = "YEARLY"
	GranularityMonthly Granularity = "MONTHLY"
)

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	return g == GranularityYearly || g == GranularityMonthly
}

// ScheduleEntry is one period of a depreciation schedule.
type ScheduleEntry struct {
	PeriodIndex             int
	PeriodLabel             string
	PeriodStart             time.Time
	PeriodEnd               time.Time
	BeginningBookValue      domain.Money
	Depreciation            domain.Money
	AccumulatedDepreciation domain.Money
	EndingBookValue         domain.Money
	IsCurrent               bool
}

// Schedule computes the full depreciation schedule for an asset.
//
// Straight-line: equal periodic amounts of (cost - salvage) / periods, with
// the final period absorbing the rounding remainder so the total equals
// cost - salvage exactly. Double-declining: each period depreciates the
// remaining book value at rate 2/life (divided by 12 for monthly periods),
// truncated in the period that would cross the salvage floor; later periods
// are zero. Under both methods the ending book value never drops below the
// salvage value and depreciation is never negative.
//
// Exactly one entry has IsCurrent set: the period whose span contains asOf.
// If asOf precedes the purchase date or the schedule has ended, none is
// marked.
func Schedule(asset *domain.Asset, granularity Granularity, asOf time.Time) ([]ScheduleEntry, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if !asset.Depreciable() {
		return nil, domain.ErrAssetNotDepreciable
	}

	if !granularity.Valid() {
		return nil, fmt.Errorf("%w: unknown granularity %q", domain.ErrInvalidAssetParameters, granularity)
	}

	totalPeriods := asset.UsefulLifeYears
	if granularity == GranularityMonthly {
		totalPeriods = asset.UsefulLifeYears * 12
	}

	entries := make([]ScheduleEntry, 0, totalPeriods)

	beginning := asset.Cost
	accumulated := domain.ZeroMoney()

	for i := 1; i <= totalPeriods; i++ {
		amount := periodDepreciation(asset, granularity, totalPeriods, i, beginning)

		// Never cross the salvage floor, never depreciate backwards.
		if floor := beginning.Sub(asset.SalvageValue); amount.Cmp(floor) > 0 {
			amount = floor
		}

		if amount.IsNegative() {
			amount = domain.ZeroMoney()
		}

		accumulated = accumulated.Add(amount)
		ending := beginning.Sub(amount)

		start := periodStart(asset.PurchaseDate, granularity, i)
		end := periodStart(asset.PurchaseDate, granularity, i+1)

		entries = append(entries, ScheduleEntry{
			PeriodIndex:             i,
			PeriodLabel:             periodLabel(granularity, i),
			PeriodStart:             start,
			PeriodEnd:               end,
			BeginningBookValue:      beginning,
			Depreciation:            amount,
			AccumulatedDepreciation: accumulated,
			EndingBookValue:         ending,
			IsCurrent:               !asOf.Before(start) && asOf.Before(end),
		})

		beginning = ending
	}

	return entries, nil
}

// periodDepreciation computes the uncapped depreciation for one period.
func periodDepreciation(asset *domain.Asset, granularity Granularity, totalPeriods, index int, beginning domain.Money) domain.Money {
	switch asset.Method {
	case domain.MethodStraightLine:
		if index == totalPeriods {
			// Final period takes whatever remains above salvage, so the
			// schedule sums to cost - salvage exactly despite rounding.
			return beginning.Sub(asset.SalvageValue)
		}

		return asset.Cost.Sub(asset.SalvageValue).MulRatio(1, int64(totalPeriods))

	case domain.MethodDoubleDeclining:
		den := int64(asset.UsefulLifeYears)
		if granularity == GranularityMonthly {
			den *= 12
		}

		return beginning.MulRatio(2, den)
	}

	return domain.ZeroMoney()
}

// periodStart returns the start of the index-th period (1-based), counted
// from the purchase date in whole years or months. Anchoring every span at
// the purchase date avoids cumulative drift over month-length variations.
func periodStart(purchase time.Time, granularity Granularity, index int) time.Time {
	if granularity == GranularityMonthly {
		return purchase.AddDate(0, index-1, 0)
	}

	return purchase.AddDate(index-1, 0, 0)
}

func periodLabel(granularity Granularity, index int) string {
	if granularity == GranularityMonthly {
		return fmt.Sprintf("Year %d, Month %d", (index-1)/12+1, (index-1)%12+1)
	}

	return fmt.Sprintf("Year %d", index)
}
