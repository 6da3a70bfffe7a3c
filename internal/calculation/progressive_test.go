package calculation

import (
	"fmt"
	"testing"

	sd "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// TestProgressiveTax2024 checks the tariff against known 2024 figures.
func TestProgressiveTax2024(t *testing.T) {
	params, err := NewParameterTable().Lookup(2024)
	require.NoError(t, err)
	calc := NewProgressiveTaxCalculator(params)

	tests := []struct {
		name         string
		income       decimal.Money
		expectedTax  string
		expectedZone int
	}{
		{
			name:         "Below basic allowance",
			income:       decimal.NewMoneyFromInt(10000),
			expectedTax:  "0.00",
			expectedZone: 1,
		},
		{
			name:         "At basic allowance",
			income:       decimal.NewMoneyFromInt(11604),
			expectedTax:  "0.00",
			expectedZone: 1,
		},
		{
			name:         "Lower progression zone",
			income:       decimal.NewMoneyFromInt(15000),
			expectedTax:  "581.00",
			expectedZone: 2,
		},
		{
			name:         "Upper progression zone",
			income:       decimal.NewMoneyFromInt(30000),
			expectedTax:  "4446.00",
			expectedZone: 3,
		},
		{
			name:         "First flat zone",
			income:       decimal.NewMoneyFromInt(100000),
			expectedTax:  "31397.00",
			expectedZone: 4,
		},
		{
			name:         "Top flat zone",
			income:       decimal.NewMoneyFromInt(300000),
			expectedTax:  "116063.00",
			expectedZone: 5,
		},
		{
			name:         "Cents are floored before the tariff",
			income:       decimal.NewMoneyFromCents(10000099), // 100000.99
			expectedTax:  "31397.00",
			expectedZone: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedTax, calc.Tax(tt.income).String())
			assert.Equal(t, tt.expectedZone, calc.Zone(tt.income))
		})
	}
}

// TestMarginalRate checks the analytic marginal rate across zones.
func TestMarginalRate(t *testing.T) {
	params, err := NewParameterTable().Lookup(2024)
	require.NoError(t, err)
	calc := NewProgressiveTaxCalculator(params)

	tests := []struct {
		name     string
		income   decimal.Money
		expected string
	}{
		{"Zero below allowance", decimal.NewMoneyFromInt(5000), "0.00"},
		{"Entry rate near allowance", decimal.NewMoneyFromInt(11605), "14.00"},
		{"Progression zone 2", decimal.NewMoneyFromInt(15000), "20.27"},
		{"Flat 42 percent", decimal.NewMoneyFromInt(100000), "42.00"},
		{"Flat 45 percent", decimal.NewMoneyFromInt(300000), "45.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.MarginalRatePercent(tt.income).StringFixed(2))
		})
	}
}

// TestTariffContinuity verifies that each year's tariff is continuous at
// every zone boundary: one euro across a boundary moves the tax by at most
// the top marginal rate plus one euro of truncation.
func TestTariffContinuity(t *testing.T) {
	table := NewParameterTable()
	for _, year := range table.Years() {
		params, err := table.Lookup(year)
		require.NoError(t, err)
		calc := NewProgressiveTaxCalculator(params)

		boundaries := []decimal.Money{
			params.BasicAllowance,
			params.Zone2Upper,
			params.Zone3Upper,
			params.Zone4Upper,
		}
		for i, b := range boundaries {
			t.Run(fmt.Sprintf("year %d boundary %d", year, i+1), func(t *testing.T) {
				below := calc.Tax(b)
				above := calc.Tax(b.Add(decimal.NewMoneyFromInt(1)))
				diff := above.Sub(below)
				assert.True(t, diff.GreaterThanOrEqual(decimal.Zero()),
					"tax decreased across boundary: %s -> %s", below, above)
				assert.True(t, diff.LessThanOrEqual(decimal.NewMoneyFromInt(2)),
					"tax jumped across boundary: %s -> %s", below, above)
			})
		}
	}
}

// TestTariffMonotonicity samples the tariff on a coarse grid and asserts it
// never decreases.
func TestTariffMonotonicity(t *testing.T) {
	table := NewParameterTable()
	for _, year := range table.Years() {
		params, err := table.Lookup(year)
		require.NoError(t, err)
		calc := NewProgressiveTaxCalculator(params)

		prev := decimal.Zero()
		for income := int64(0); income <= 400000; income += 2500 {
			tax := calc.Tax(decimal.NewMoneyFromInt(income))
			assert.True(t, tax.GreaterThanOrEqual(prev),
				"year %d: tax at %d (%s) below tax at previous step (%s)", year, income, tax, prev)
			prev = tax
		}
	}
}

// TestResultBundlesAllFields exercises the combined result query.
func TestResultBundlesAllFields(t *testing.T) {
	params, err := NewParameterTable().Lookup(2024)
	require.NoError(t, err)
	calc := NewProgressiveTaxCalculator(params)

	res := calc.Result(decimal.NewMoneyFromInt(100000))
	assert.Equal(t, "100000.00", res.TaxableIncome.String())
	assert.Equal(t, "31397.00", res.Tax.String())
	assert.True(t, res.MarginalRatePercent.Equal(sd.NewFromFloat(42).Round(2)))
	assert.Equal(t, 4, res.Zone)
}
