package domain

import (
	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// Computed result values are plain immutable data: recomputed on demand,
// fully determined by their inputs, never persisted by the core.

// TaxCalculationResult is the outcome of the progressive income tax tariff.
type TaxCalculationResult struct {
	TaxableIncome       decimal.Money `json:"taxable_income"`
	Tax                 decimal.Money `json:"tax"`
	MarginalRatePercent sd.Decimal    `json:"marginal_rate_percent"`
	Zone                int           `json:"zone"`
}

// TradeTaxResult is the outcome of the trade tax computation including the
// creditable portion against income tax.
type TradeTaxResult struct {
	Profit         decimal.Money `json:"profit"`
	TaxableProfit  decimal.Money `json:"taxable_profit"`
	AssessmentBase decimal.Money `json:"assessment_base"`
	TradeTax       decimal.Money `json:"trade_tax"`
	Credit         decimal.Money `json:"credit"`
	NetBurden      decimal.Money `json:"net_burden"`
}

// DepreciationScheduleEntry is one year of an asset's amortization schedule.
type DepreciationScheduleEntry struct {
	Year           int           `json:"year"`
	Amount         decimal.Money `json:"amount"`
	RemainingValue decimal.Money `json:"remaining_value"`
}

// VatStreamTotals holds the per-stream VAT breakdown.
type VatStreamTotals struct {
	Output decimal.Money `json:"output"`
	Input  decimal.Money `json:"input"`
}

// VatSummary nets output VAT against deductible input VAT for a filing
// period. NetPayable may be negative, signifying a refund position.
type VatSummary struct {
	OutputVat        decimal.Money              `json:"output_vat"`
	InputVat         decimal.Money              `json:"input_vat"`
	NetPayable       decimal.Money              `json:"net_payable"`
	PerStream        map[Stream]VatStreamTotals `json:"per_stream"`
	Kleinunternehmer bool                       `json:"kleinunternehmer"`
}

// AnnualPackage combines every computed figure for one assessment year.
type AnnualPackage struct {
	Year int `json:"year"`

	FreiberufProfit  decimal.Money `json:"freiberuf_profit"`
	GewerbeProfit    decimal.Money `json:"gewerbe_profit"`
	EmploymentIncome decimal.Money `json:"employment_income"`
	TaxableIncome    decimal.Money `json:"taxable_income"`

	IncomeTax           TaxCalculationResult `json:"income_tax"`
	SolidaritySurcharge decimal.Money        `json:"solidarity_surcharge"`
	TradeTax            TradeTaxResult       `json:"trade_tax"`

	DepreciationTotal    decimal.Money   `json:"depreciation_total"`
	DepreciationByStream AllocatedAmount `json:"depreciation_by_stream"`

	Vat VatSummary `json:"vat"`

	// TotalBurden is income tax + Soli + trade tax net burden.
	TotalBurden decimal.Money `json:"total_burden"`
}
