package domain

import (
	"time"

	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// LowValueAssetThreshold is the net acquisition cost (GWG limit, §6 Abs. 2
// EStG) at or below which an expense is written off immediately instead of
// being capitalized and depreciated.
var LowValueAssetThreshold = decimal.NewMoneyFromInt(800)

// DepreciableAsset is a capitalized asset amortized straight-line over its
// useful life. It is immutable after creation except for the one-time
// disposal transition; there are no partial write-downs.
type DepreciableAsset struct {
	ID               string
	Name             string
	AcquisitionDate  time.Time
	GrossCost        decimal.Money
	UsefulLifeMonths int

	// SourceExpenseID links back to the expense record the asset was
	// created from, if any.
	SourceExpenseID string

	DisposalDate *time.Time
}

// NewDepreciableAsset validates and creates an asset. Cost must exceed the
// low-value threshold and the useful life must be a positive number of whole
// months; anything else is a configuration error.
func NewDepreciableAsset(id, name string, acquired time.Time, cost decimal.Money, lifeMonths int) (*DepreciableAsset, error) {
	if lifeMonths <= 0 {
		return nil, ConfigurationError("asset %s: useful life must be positive, got %d months", id, lifeMonths)
	}
	if !cost.IsPositive() {
		return nil, ConfigurationError("asset %s: gross cost must be positive, got %s", id, cost)
	}
	if cost.LessThanOrEqual(LowValueAssetThreshold) {
		return nil, ConfigurationError("asset %s: cost %s is at or below the low-value threshold %s and must be expensed immediately", id, cost, LowValueAssetThreshold)
	}
	if acquired.IsZero() {
		return nil, ConfigurationError("asset %s: acquisition date is required", id)
	}
	return &DepreciableAsset{
		ID:               id,
		Name:             name,
		AcquisitionDate:  acquired,
		GrossCost:        cost,
		UsefulLifeMonths: lifeMonths,
	}, nil
}

// Disposed reports whether the asset has been disposed of.
func (a *DepreciableAsset) Disposed() bool {
	return a.DisposalDate != nil
}

// Dispose records the disposal of the asset. Disposal is a one-time,
// irreversible transition; depreciation stops after the disposal month.
func (a *DepreciableAsset) Dispose(date time.Time) error {
	if a.Disposed() {
		return InvariantError("asset %s already disposed on %s", a.ID, a.DisposalDate.Format("2006-01-02"))
	}
	if date.Before(a.AcquisitionDate) {
		return InvariantError("asset %s: disposal date %s precedes acquisition date %s",
			a.ID, date.Format("2006-01-02"), a.AcquisitionDate.Format("2006-01-02"))
	}
	d := date
	a.DisposalDate = &d
	return nil
}

// MonthlyAmount is the unrounded straight-line amount per month of life.
func (a *DepreciableAsset) MonthlyAmount() decimal.Money {
	return a.GrossCost.Div(sd.NewFromInt(int64(a.UsefulLifeMonths)))
}
