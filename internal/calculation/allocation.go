package calculation

import (
	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// AllocatedAsset pairs a depreciable asset with an optional allocation
// ratio. Assets without a ratio contribute to the aggregate depreciation
// total only, never to a per-stream figure.
type AllocatedAsset struct {
	Asset *domain.DepreciableAsset
	Ratio *domain.AllocationRatio
}

// AllocationEngine splits shared amounts across the two business streams and
// personal use, and aggregates allocated depreciation across many assets.
type AllocationEngine struct {
	Depreciation *DepreciationEngine
}

// NewAllocationEngine creates an allocation engine.
func NewAllocationEngine(depreciation *DepreciationEngine) *AllocationEngine {
	return &AllocationEngine{Depreciation: depreciation}
}

// Allocate splits an amount by the ratio. Each share is rounded
// independently, so the three shares sum to the amount within one cent.
func (e *AllocationEngine) Allocate(amount decimal.Money, ratio domain.AllocationRatio) domain.AllocatedAmount {
	share := func(percent sd.Decimal) decimal.Money {
		return amount.Mul(percent).Div(hundredDecimal).Round()
	}
	return domain.AllocatedAmount{
		StreamA:  share(ratio.StreamA),
		StreamB:  share(ratio.StreamB),
		Personal: share(ratio.Personal),
	}
}

var hundredDecimal = sd.NewFromInt(100)

// DepreciationByStream computes the year's depreciation for every asset and
// splits each allocated asset's amount by its ratio. It returns the
// per-stream shares and the aggregate total over all assets, allocated or
// not.
func (e *AllocationEngine) DepreciationByStream(assets []AllocatedAsset, year int) (domain.AllocatedAmount, decimal.Money, error) {
	var byStream domain.AllocatedAmount
	byStream.StreamA = decimal.Zero()
	byStream.StreamB = decimal.Zero()
	byStream.Personal = decimal.Zero()

	total := decimal.Zero()
	for _, aa := range assets {
		amount, err := e.Depreciation.YearAmount(aa.Asset, year)
		if err != nil {
			return domain.AllocatedAmount{}, decimal.Zero(), err
		}
		total = total.Add(amount)
		if aa.Ratio != nil {
			byStream = byStream.Add(e.Allocate(amount, *aa.Ratio))
		}
	}
	return byStream, total, nil
}
