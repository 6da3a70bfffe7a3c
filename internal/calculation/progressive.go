package calculation

import (
	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

var tenThousand = sd.NewFromInt(10000)

// ProgressiveTaxCalculator evaluates the §32a-style piecewise income tax
// tariff: five contiguous zones, continuous at each boundary by construction
// of the statutory constants.
type ProgressiveTaxCalculator struct {
	Params TaxYearParameters
}

// NewProgressiveTaxCalculator creates a calculator bound to one year.
func NewProgressiveTaxCalculator(params TaxYearParameters) *ProgressiveTaxCalculator {
	return &ProgressiveTaxCalculator{Params: params}
}

// Zone returns the tariff zone (1-5) the taxable income falls in.
func (c *ProgressiveTaxCalculator) Zone(taxableIncome decimal.Money) int {
	z := taxableIncome.FloorToEuro()
	switch {
	case z.LessThanOrEqual(c.Params.BasicAllowance):
		return 1
	case z.LessThanOrEqual(c.Params.Zone2Upper):
		return 2
	case z.LessThanOrEqual(c.Params.Zone3Upper):
		return 3
	case z.LessThanOrEqual(c.Params.Zone4Upper):
		return 4
	default:
		return 5
	}
}

// Tax computes the income tax on the taxable income. The income is floored
// to whole euros before the tariff formula, the result truncated toward zero
// to whole euros, per statute.
func (c *ProgressiveTaxCalculator) Tax(taxableIncome decimal.Money) decimal.Money {
	p := c.Params
	z := taxableIncome.FloorToEuro()
	if z.IsNegative() {
		z = decimal.Zero()
	}

	var tax sd.Decimal
	switch c.Zone(z) {
	case 1:
		return decimal.Zero()
	case 2:
		y := z.Decimal.Sub(p.BasicAllowance.Decimal).Div(tenThousand)
		tax = p.Zone2A.Mul(y).Add(p.Zone2B).Mul(y)
	case 3:
		x := z.Decimal.Sub(p.Zone2Upper.Decimal).Div(tenThousand)
		tax = p.Zone3A.Mul(x).Add(p.Zone3B).Mul(x).Add(p.Zone3C)
	case 4:
		tax = p.Zone4Rate.Mul(z.Decimal).Sub(p.Zone4Sub)
	default:
		tax = p.Zone5Rate.Mul(z.Decimal).Sub(p.Zone5Sub)
	}

	return decimal.NewMoneyFromDecimal(tax).TruncateToEuro().Round()
}

// MarginalRatePercent returns the marginal tax rate at the given income as a
// percentage with two decimals: the analytic derivative of the active zone's
// formula, flat 42/45 in the upper zones, zero below the basic allowance.
func (c *ProgressiveTaxCalculator) MarginalRatePercent(taxableIncome decimal.Money) sd.Decimal {
	p := c.Params
	z := taxableIncome.FloorToEuro()

	var rate sd.Decimal
	switch c.Zone(z) {
	case 1:
		return sd.Zero
	case 2:
		y := z.Decimal.Sub(p.BasicAllowance.Decimal).Div(tenThousand)
		rate = sd.NewFromInt(2).Mul(p.Zone2A).Mul(y).Add(p.Zone2B).Div(tenThousand)
	case 3:
		x := z.Decimal.Sub(p.Zone2Upper.Decimal).Div(tenThousand)
		rate = sd.NewFromInt(2).Mul(p.Zone3A).Mul(x).Add(p.Zone3B).Div(tenThousand)
	case 4:
		rate = p.Zone4Rate
	default:
		rate = p.Zone5Rate
	}

	return rate.Mul(sd.NewFromInt(100)).Round(2)
}

// Result bundles tax, marginal rate and zone for one income.
func (c *ProgressiveTaxCalculator) Result(taxableIncome decimal.Money) domain.TaxCalculationResult {
	floored := decimal.Max(taxableIncome.FloorToEuro(), decimal.Zero())
	return domain.TaxCalculationResult{
		TaxableIncome:       floored,
		Tax:                 c.Tax(taxableIncome),
		MarginalRatePercent: c.MarginalRatePercent(taxableIncome),
		Zone:                c.Zone(taxableIncome),
	}
}
