package domain

import (
	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/pkg/decimal"
)

var hundred = sd.NewFromInt(100)

// AllocationRatio splits a shared cost across the two business streams and
// personal use. The three percentages must sum to exactly 100.
type AllocationRatio struct {
	StreamA  sd.Decimal // Freiberuf share in percent
	StreamB  sd.Decimal // Gewerbe share in percent
	Personal sd.Decimal // personal-use share in percent
}

// NewAllocationRatio validates and creates a ratio. A sum other than 100 is a
// configuration error; it indicates a data-entry mistake upstream.
func NewAllocationRatio(streamA, streamB, personal sd.Decimal) (AllocationRatio, error) {
	for _, p := range []sd.Decimal{streamA, streamB, personal} {
		if p.IsNegative() {
			return AllocationRatio{}, ConfigurationError("allocation percentages cannot be negative")
		}
	}
	if sum := streamA.Add(streamB).Add(personal); !sum.Equal(hundred) {
		return AllocationRatio{}, ConfigurationError("allocation percentages must sum to 100, got %s", sum)
	}
	return AllocationRatio{StreamA: streamA, StreamB: streamB, Personal: personal}, nil
}

// BusinessSharePercent is the combined business percentage (stream A + B).
func (r AllocationRatio) BusinessSharePercent() sd.Decimal {
	return r.StreamA.Add(r.StreamB)
}

// AllocatedAmount is the result of splitting one amount by a ratio. Each
// share is rounded independently; the three shares sum to the original
// amount within one rounding unit.
type AllocatedAmount struct {
	StreamA  decimal.Money
	StreamB  decimal.Money
	Personal decimal.Money
}

// Total returns the sum of the three shares.
func (a AllocatedAmount) Total() decimal.Money {
	return a.StreamA.Add(a.StreamB).Add(a.Personal)
}

// Add combines two allocated amounts share by share.
func (a AllocatedAmount) Add(other AllocatedAmount) AllocatedAmount {
	return AllocatedAmount{
		StreamA:  a.StreamA.Add(other.StreamA),
		StreamB:  a.StreamB.Add(other.StreamB),
		Personal: a.Personal.Add(other.Personal),
	}
}
