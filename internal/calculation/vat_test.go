package calculation

import (
	"testing"
	"time"

	sd "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

func TestVatConversions(t *testing.T) {
	tests := []struct {
		name     string
		gross    decimal.Money
		rate     sd.Decimal
		extract  string
		net      string
	}{
		{"Standard rate", decimal.NewMoneyFromInt(119), StandardVatRate, "19.00", "100.00"},
		{"Reduced rate", decimal.NewMoneyFromInt(107), ReducedVatRate, "7.00", "100.00"},
		{"Zero rate", decimal.NewMoneyFromInt(100), sd.Zero, "0.00", "100.00"},
		{"Zero gross", decimal.Zero(), StandardVatRate, "0.00", "0.00"},
		{"Rounded extraction", decimal.NewMoneyFromInt(100), StandardVatRate, "15.97", "84.03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.extract, ExtractVat(tt.gross, tt.rate).String())
			assert.Equal(t, tt.net, NetFromGross(tt.gross, tt.rate).String())
		})
	}
}

func TestGrossFromNet(t *testing.T) {
	assert.Equal(t, "119.00", GrossFromNet(decimal.NewMoneyFromInt(100), StandardVatRate).String())
	assert.Equal(t, "107.00", GrossFromNet(decimal.NewMoneyFromInt(100), ReducedVatRate).String())
	assert.Equal(t, "100.00", GrossFromNet(decimal.NewMoneyFromInt(100), sd.Zero).String())
}

func TestVatSummary(t *testing.T) {
	engine := NewVatEngine(NewAllocationEngine(NewDepreciationEngine()))
	gewerbeOnly := mustRatio(t, 0, 80, 20)

	invoices := []domain.InvoiceFact{
		{
			Stream:    domain.StreamFreiberuf,
			IssuedAt:  time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
			Gross:     decimal.NewMoneyFromInt(1190),
			VatRate:   StandardVatRate,
			Treatment: domain.TreatmentRegular,
		},
		{
			// Reverse charge carries no output VAT.
			Stream:    domain.StreamFreiberuf,
			IssuedAt:  time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC),
			Gross:     decimal.NewMoneyFromInt(5000),
			VatRate:   StandardVatRate,
			Treatment: domain.TreatmentReverseCharge,
		},
		{
			// Outside the filing period.
			Stream:    domain.StreamFreiberuf,
			IssuedAt:  time.Date(2025, time.December, 30, 0, 0, 0, 0, time.UTC),
			Gross:     decimal.NewMoneyFromInt(1190),
			VatRate:   StandardVatRate,
			Treatment: domain.TreatmentRegular,
		},
	}
	expenses := []domain.ExpenseFact{
		{
			// No ratio: full VAT counts toward the aggregate input only.
			Stream:  domain.StreamGewerbe,
			PaidAt:  time.Date(2026, time.May, 11, 0, 0, 0, 0, time.UTC),
			Gross:   decimal.NewMoneyFromInt(238),
			VatRate: StandardVatRate,
		},
		{
			// Allocated: only the business share is deductible.
			Stream:  domain.StreamGewerbe,
			PaidAt:  time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC),
			Gross:   decimal.NewMoneyFromInt(119),
			VatRate: StandardVatRate,
			Ratio:   &gewerbeOnly,
		},
	}

	summary := engine.Summary(invoices, expenses, domain.Year(2026), false)

	assert.Equal(t, "190.00", summary.OutputVat.String())
	assert.Equal(t, "53.20", summary.InputVat.String())
	assert.Equal(t, "136.80", summary.NetPayable.String())
	assert.False(t, summary.Kleinunternehmer)

	require.Contains(t, summary.PerStream, domain.StreamFreiberuf)
	assert.Equal(t, "190.00", summary.PerStream[domain.StreamFreiberuf].Output.String())
	require.Contains(t, summary.PerStream, domain.StreamGewerbe)
	assert.Equal(t, "15.20", summary.PerStream[domain.StreamGewerbe].Input.String())
}

func TestVatSummaryKleinunternehmer(t *testing.T) {
	engine := NewVatEngine(NewAllocationEngine(NewDepreciationEngine()))

	invoices := []domain.InvoiceFact{{
		Stream:    domain.StreamFreiberuf,
		IssuedAt:  time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		Gross:     decimal.NewMoneyFromInt(1190),
		VatRate:   StandardVatRate,
		Treatment: domain.TreatmentRegular,
	}}

	summary := engine.Summary(invoices, nil, domain.Year(2026), true)

	assert.True(t, summary.Kleinunternehmer)
	assert.True(t, summary.OutputVat.IsZero())
	assert.True(t, summary.InputVat.IsZero())
	assert.True(t, summary.NetPayable.IsZero())
	assert.Empty(t, summary.PerStream)
}

// TestVatSummaryRefundPosition: input VAT exceeding output VAT yields a
// negative payable, never clamped.
func TestVatSummaryRefundPosition(t *testing.T) {
	engine := NewVatEngine(NewAllocationEngine(NewDepreciationEngine()))

	expenses := []domain.ExpenseFact{{
		Stream:  domain.StreamFreiberuf,
		PaidAt:  time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		Gross:   decimal.NewMoneyFromInt(1190),
		VatRate: StandardVatRate,
	}}

	summary := engine.Summary(nil, expenses, domain.Year(2026), false)
	assert.Equal(t, "-190.00", summary.NetPayable.String())
}
