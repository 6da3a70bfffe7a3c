package calculation

import (
	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// Statutory defaults for sole proprietors.
var (
	// DefaultTradeTaxAllowance is the Gewerbesteuer-Freibetrag (§11 GewStG).
	DefaultTradeTaxAllowance = decimal.NewMoneyFromInt(24500)
	// DefaultAssessmentRate is the Steuermesszahl of 3.5%.
	DefaultAssessmentRate = sd.NewFromFloat(0.035)
	// creditFactor caps the §35 credit at 4.0 times the assessment base.
	creditFactor = sd.NewFromFloat(4.0)
)

// TradeTaxCalculator computes the municipal trade tax on trade-stream profit
// and the statutory credit against income tax.
type TradeTaxCalculator struct {
	Allowance           decimal.Money
	AssessmentRate      sd.Decimal
	MunicipalMultiplier sd.Decimal // Hebesatz, in percent (e.g. 410)
}

// NewTradeTaxCalculator creates a calculator for one municipality.
func NewTradeTaxCalculator(allowance decimal.Money, assessmentRate sd.Decimal, municipalMultiplier int) (*TradeTaxCalculator, error) {
	if allowance.IsNegative() {
		return nil, domain.ConfigurationError("trade tax allowance cannot be negative")
	}
	if assessmentRate.LessThanOrEqual(sd.Zero) {
		return nil, domain.ConfigurationError("trade tax assessment rate must be positive")
	}
	if municipalMultiplier <= 0 {
		return nil, domain.ConfigurationError("municipal multiplier must be positive, got %d", municipalMultiplier)
	}
	return &TradeTaxCalculator{
		Allowance:           allowance,
		AssessmentRate:      assessmentRate,
		MunicipalMultiplier: sd.NewFromInt(int64(municipalMultiplier)),
	}, nil
}

// NewDefaultTradeTaxCalculator uses the statutory allowance and assessment
// rate with the given municipal multiplier.
func NewDefaultTradeTaxCalculator(municipalMultiplier int) (*TradeTaxCalculator, error) {
	return NewTradeTaxCalculator(DefaultTradeTaxAllowance, DefaultAssessmentRate, municipalMultiplier)
}

// Compute derives the full trade tax result from the trade-stream profit and
// the taxpayer's income tax (which caps the credit). Zero or negative profit
// yields an all-zero result; losses never go negative.
func (c *TradeTaxCalculator) Compute(profit, incomeTax decimal.Money) domain.TradeTaxResult {
	flooredProfit := profit.FloorAtZero()
	taxableProfit := flooredProfit.Sub(c.Allowance).FloorAtZero()

	assessmentBase := taxableProfit.Mul(c.AssessmentRate).Round()
	tradeTax := assessmentBase.Mul(c.MunicipalMultiplier).Div(sd.NewFromInt(100)).Round()

	// §35-style credit: capped independently by 4x the assessment base and
	// by the income tax; never negative.
	credit := decimal.Min(assessmentBase.Mul(creditFactor), incomeTax.FloorAtZero()).Round()
	netBurden := tradeTax.Sub(credit).FloorAtZero()

	return domain.TradeTaxResult{
		Profit:         flooredProfit,
		TaxableProfit:  taxableProfit,
		AssessmentBase: assessmentBase,
		TradeTax:       tradeTax,
		Credit:         credit,
		NetBurden:      netBurden,
	}
}
