package calculation

import (
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// SolidaritySurchargeCalculator computes the solidarity surcharge on a
// computed income tax. Below the exemption (Freigrenze) the surcharge is
// zero; above it the glide-in zone caps the surcharge at a higher rate on
// the excess over the exemption so the amount grows smoothly from zero
// instead of jumping at the boundary.
type SolidaritySurchargeCalculator struct {
	Params TaxYearParameters
}

// NewSolidaritySurchargeCalculator creates a calculator bound to one year.
func NewSolidaritySurchargeCalculator(params TaxYearParameters) *SolidaritySurchargeCalculator {
	return &SolidaritySurchargeCalculator{Params: params}
}

// Surcharge returns the surcharge on the given income tax, commercially
// rounded to cents. Both branches are evaluated at full precision and the
// minimum taken before rounding.
func (c *SolidaritySurchargeCalculator) Surcharge(incomeTax decimal.Money) decimal.Money {
	p := c.Params
	if incomeTax.LessThanOrEqual(p.SoliExemption) {
		return decimal.Zero()
	}

	full := incomeTax.Mul(p.SoliRate)
	glide := incomeTax.Sub(p.SoliExemption).Mul(p.SoliGlideRate)
	return decimal.Min(full, glide).Round()
}
