package calculation

import (
	"time"

	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/pkg/dateutil"
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// DepreciationEngine computes straight-line pro-rata amortization of capital
// assets: the amount attributable to a calendar year, the remaining book
// value as of a date, and the full year-by-year schedule.
//
// Yearly amounts are derived by differencing cumulatively rounded totals
// (cost * months-elapsed / life, rounded to cents), so the schedule sums to
// the gross cost exactly at full term; rounding error never compounds across
// years.
type DepreciationEngine struct{}

// NewDepreciationEngine creates a depreciation engine.
func NewDepreciationEngine() *DepreciationEngine {
	return &DepreciationEngine{}
}

// recognitionEndIndex is the last month index in which depreciation accrues:
// the end of the useful life, or the disposal month, whichever comes first.
func recognitionEndIndex(a *domain.DepreciableAsset) int {
	end := dateutil.MonthIndex(a.AcquisitionDate) + a.UsefulLifeMonths - 1
	if a.Disposed() {
		if d := dateutil.MonthIndex(*a.DisposalDate); d < end {
			end = d
		}
	}
	return end
}

// monthsRecognizedThrough counts the months of recognized depreciation from
// acquisition through the given month index, inclusive.
func monthsRecognizedThrough(a *domain.DepreciableAsset, idx int) int {
	start := dateutil.MonthIndex(a.AcquisitionDate)
	end := recognitionEndIndex(a)
	if idx < end {
		end = idx
	}
	months := end - start + 1
	if months < 0 {
		return 0
	}
	if months > a.UsefulLifeMonths {
		return a.UsefulLifeMonths
	}
	return months
}

// cumulativeThrough is the rounded cumulative depreciation after the given
// number of recognized months.
func cumulativeThrough(a *domain.DepreciableAsset, months int) decimal.Money {
	if months <= 0 {
		return decimal.Zero()
	}
	return a.GrossCost.
		Mul(sd.NewFromInt(int64(months))).
		Div(sd.NewFromInt(int64(a.UsefulLifeMonths))).
		Round()
}

func validateAsset(a *domain.DepreciableAsset) error {
	if a.UsefulLifeMonths <= 0 {
		return domain.ConfigurationError("asset %s: useful life must be positive, got %d months", a.ID, a.UsefulLifeMonths)
	}
	if !a.GrossCost.IsPositive() {
		return domain.ConfigurationError("asset %s: gross cost must be positive", a.ID)
	}
	return nil
}

// YearAmount returns the depreciation recognized in the given calendar year.
// Years entirely before acquisition or after full amortization or disposal
// yield zero.
func (e *DepreciationEngine) YearAmount(a *domain.DepreciableAsset, year int) (decimal.Money, error) {
	if err := validateAsset(a); err != nil {
		return decimal.Zero(), err
	}
	through := cumulativeThrough(a, monthsRecognizedThrough(a, dateutil.LastIndexOfYear(year)))
	prior := cumulativeThrough(a, monthsRecognizedThrough(a, dateutil.LastIndexOfYear(year-1)))
	return through.Sub(prior), nil
}

// RemainingBookValue returns the book value as of the given date: gross cost
// minus cumulative depreciation recognized through the month of the date.
// A disposed asset is fully written off from the disposal date forward.
func (e *DepreciationEngine) RemainingBookValue(a *domain.DepreciableAsset, at time.Time) (decimal.Money, error) {
	if err := validateAsset(a); err != nil {
		return decimal.Zero(), err
	}
	if a.Disposed() && !at.Before(*a.DisposalDate) {
		return decimal.Zero(), nil
	}
	recognized := cumulativeThrough(a, monthsRecognizedThrough(a, dateutil.MonthIndex(at)))
	return a.GrossCost.Sub(recognized), nil
}

// Schedule returns the ordered year-by-year schedule from the acquisition
// year through full amortization or the disposal year, whichever comes
// first.
func (e *DepreciationEngine) Schedule(a *domain.DepreciableAsset) ([]domain.DepreciationScheduleEntry, error) {
	if err := validateAsset(a); err != nil {
		return nil, err
	}

	firstYear := a.AcquisitionDate.Year()
	lastYear := dateutil.YearOfIndex(recognitionEndIndex(a))

	entries := make([]domain.DepreciationScheduleEntry, 0, lastYear-firstYear+1)
	for year := firstYear; year <= lastYear; year++ {
		amount, err := e.YearAmount(a, year)
		if err != nil {
			return nil, err
		}
		remaining := a.GrossCost.Sub(cumulativeThrough(a, monthsRecognizedThrough(a, dateutil.LastIndexOfYear(year))))
		if a.Disposed() && year == lastYear {
			// Book value is zeroed on disposal regardless of theoretical
			// remaining life.
			remaining = decimal.Zero()
		}
		entries = append(entries, domain.DepreciationScheduleEntry{
			Year:           year,
			Amount:         amount,
			RemainingValue: remaining,
		})
	}
	return entries, nil
}
