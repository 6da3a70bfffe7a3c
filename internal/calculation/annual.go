package calculation

import (
	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// StreamAggregate holds the already-aggregated income and expense sums of
// one business stream for the year. The core never sees ledger entries.
type StreamAggregate struct {
	Revenue  decimal.Money
	Expenses decimal.Money
}

// TradeParameters configures the trade tax computation for the year.
type TradeParameters struct {
	Allowance           decimal.Money
	AssessmentRate      sd.Decimal
	MunicipalMultiplier int
}

// AnnualInput carries every aggregate the assembler needs for one year.
type AnnualInput struct {
	Year int

	EmploymentIncome decimal.Money
	Freiberuf        StreamAggregate
	Gewerbe          StreamAggregate

	Assets []AllocatedAsset
	Trade  TradeParameters

	Invoices         []domain.InvoiceFact
	Expenses         []domain.ExpenseFact
	Kleinunternehmer bool
}

// Assembler orchestrates the calculators into one yearly report. It is
// read-only: no locks, no partial results; the first error aborts the whole
// computation.
type Assembler struct {
	Params       *ParameterTable
	Depreciation *DepreciationEngine
	Allocation   *AllocationEngine
	Vat          *VatEngine
}

// NewAssembler creates an assembler over the given parameter table.
func NewAssembler(params *ParameterTable) *Assembler {
	depreciation := NewDepreciationEngine()
	allocation := NewAllocationEngine(depreciation)
	return &Assembler{
		Params:       params,
		Depreciation: depreciation,
		Allocation:   allocation,
		Vat:          NewVatEngine(allocation),
	}
}

// Assemble computes the complete annual package for the input year.
func (a *Assembler) Assemble(in AnnualInput) (*domain.AnnualPackage, error) {
	params, err := a.Params.Lookup(in.Year)
	if err != nil {
		return nil, err
	}

	depByStream, depTotal, err := a.Allocation.DepreciationByStream(in.Assets, in.Year)
	if err != nil {
		return nil, err
	}

	freiberufProfit := in.Freiberuf.Revenue.Sub(in.Freiberuf.Expenses).Sub(depByStream.StreamA)
	gewerbeProfit := in.Gewerbe.Revenue.Sub(in.Gewerbe.Expenses).Sub(depByStream.StreamB)

	employmentNet := decimal.Zero()
	if in.EmploymentIncome.IsPositive() {
		employmentNet = in.EmploymentIncome.Sub(params.EmployeeLumpSum).FloorAtZero()
	}

	taxableIncome := employmentNet.
		Add(freiberufProfit).
		Add(gewerbeProfit).
		Sub(params.SpecialExpenseLumpSum).
		FloorAtZero()

	incomeTax := NewProgressiveTaxCalculator(params).Result(taxableIncome)
	soli := NewSolidaritySurchargeCalculator(params).Surcharge(incomeTax.Tax)

	tradeTax, err := a.computeTradeTax(in, gewerbeProfit, incomeTax.Tax)
	if err != nil {
		return nil, err
	}

	vat := a.Vat.Summary(in.Invoices, in.Expenses, domain.Year(in.Year), in.Kleinunternehmer)

	return &domain.AnnualPackage{
		Year:                 in.Year,
		FreiberufProfit:      freiberufProfit.Round(),
		GewerbeProfit:        gewerbeProfit.Round(),
		EmploymentIncome:     in.EmploymentIncome.Round(),
		TaxableIncome:        taxableIncome.Round(),
		IncomeTax:            incomeTax,
		SolidaritySurcharge:  soli,
		TradeTax:             tradeTax,
		DepreciationTotal:    depTotal.Round(),
		DepreciationByStream: depByStream,
		Vat:                  vat,
		TotalBurden:          incomeTax.Tax.Add(soli).Add(tradeTax.NetBurden).Round(),
	}, nil
}

func (a *Assembler) computeTradeTax(in AnnualInput, gewerbeProfit, incomeTax decimal.Money) (domain.TradeTaxResult, error) {
	if in.Trade.MunicipalMultiplier == 0 && !gewerbeProfit.IsPositive() {
		// No trade activity and no municipality configured.
		return domain.TradeTaxResult{
			Profit:         decimal.Zero(),
			TaxableProfit:  decimal.Zero(),
			AssessmentBase: decimal.Zero(),
			TradeTax:       decimal.Zero(),
			Credit:         decimal.Zero(),
			NetBurden:      decimal.Zero(),
		}, nil
	}

	allowance := in.Trade.Allowance
	if allowance.IsZero() {
		allowance = DefaultTradeTaxAllowance
	}
	rate := in.Trade.AssessmentRate
	if rate.IsZero() {
		rate = DefaultAssessmentRate
	}
	calc, err := NewTradeTaxCalculator(allowance, rate, in.Trade.MunicipalMultiplier)
	if err != nil {
		return domain.TradeTaxResult{}, err
	}
	return calc.Compute(gewerbeProfit, incomeTax), nil
}
