package calculation

import (
	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// Statutory German VAT rates in percent.
var (
	StandardVatRate = sd.NewFromInt(19)
	ReducedVatRate  = sd.NewFromInt(7)
)

// ExtractVat returns the VAT contained in a gross amount at the given rate
// in percent: gross * rate / (100 + rate), rounded to cents. A zero gross or
// zero rate yields zero.
func ExtractVat(gross decimal.Money, ratePercent sd.Decimal) decimal.Money {
	if gross.IsZero() || ratePercent.IsZero() {
		return decimal.Zero()
	}
	return gross.Mul(ratePercent).Div(hundredDecimal.Add(ratePercent)).Round()
}

// NetFromGross strips the VAT from a gross amount: gross * 100 / (100 + rate).
func NetFromGross(gross decimal.Money, ratePercent sd.Decimal) decimal.Money {
	if gross.IsZero() || ratePercent.IsZero() {
		return gross.Round()
	}
	return gross.Mul(hundredDecimal).Div(hundredDecimal.Add(ratePercent)).Round()
}

// GrossFromNet adds the VAT to a net amount: net * (100 + rate) / 100.
func GrossFromNet(net decimal.Money, ratePercent sd.Decimal) decimal.Money {
	if net.IsZero() || ratePercent.IsZero() {
		return net.Round()
	}
	return net.Mul(hundredDecimal.Add(ratePercent)).Div(hundredDecimal).Round()
}

// VatEngine nets output VAT against deductible input VAT for a filing
// period.
type VatEngine struct {
	Allocation *AllocationEngine
}

// NewVatEngine creates a VAT netting engine.
func NewVatEngine(allocation *AllocationEngine) *VatEngine {
	return &VatEngine{Allocation: allocation}
}

// Summary nets the period's VAT position. Output VAT comes from invoices
// under REGULAR treatment inside the period; the special treatments carry
// zero VAT by construction. Input VAT is the business share of each
// allocated expense (the personal-use share is never deductible); expenses
// without a ratio count fully toward the aggregate input total but not
// toward any per-stream figure. The Kleinunternehmer override zeroes the
// whole position regardless of the underlying transactions.
func (e *VatEngine) Summary(invoices []domain.InvoiceFact, expenses []domain.ExpenseFact, period domain.Period, kleinunternehmer bool) domain.VatSummary {
	summary := domain.VatSummary{
		OutputVat:        decimal.Zero(),
		InputVat:         decimal.Zero(),
		NetPayable:       decimal.Zero(),
		PerStream:        make(map[domain.Stream]domain.VatStreamTotals),
		Kleinunternehmer: kleinunternehmer,
	}
	if kleinunternehmer {
		return summary
	}

	addStream := func(stream domain.Stream, output, input decimal.Money) {
		totals := summary.PerStream[stream]
		totals.Output = totals.Output.Add(output)
		totals.Input = totals.Input.Add(input)
		summary.PerStream[stream] = totals
	}

	for _, inv := range invoices {
		if inv.Treatment != domain.TreatmentRegular || !period.Contains(inv.IssuedAt) {
			continue
		}
		vat := ExtractVat(inv.Gross, inv.VatRate)
		summary.OutputVat = summary.OutputVat.Add(vat)
		addStream(inv.Stream, vat, decimal.Zero())
	}

	for _, exp := range expenses {
		if !period.Contains(exp.PaidAt) {
			continue
		}
		vat := ExtractVat(exp.Gross, exp.VatRate)
		if vat.IsZero() {
			continue
		}
		if exp.Ratio == nil {
			summary.InputVat = summary.InputVat.Add(vat)
			continue
		}
		shares := e.Allocation.Allocate(vat, *exp.Ratio)
		summary.InputVat = summary.InputVat.Add(shares.StreamA).Add(shares.StreamB)
		addStream(domain.StreamFreiberuf, decimal.Zero(), shares.StreamA)
		addStream(domain.StreamGewerbe, decimal.Zero(), shares.StreamB)
	}

	summary.NetPayable = summary.OutputVat.Sub(summary.InputVat)
	return summary
}
