package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buchwerk/tax-engine/pkg/decimal"
)

func TestSolidaritySurcharge2024(t *testing.T) {
	params, err := NewParameterTable().Lookup(2024)
	require.NoError(t, err)
	calc := NewSolidaritySurchargeCalculator(params)

	tests := []struct {
		name      string
		incomeTax decimal.Money
		expected  string
	}{
		{
			name:      "Zero tax",
			incomeTax: decimal.Zero(),
			expected:  "0.00",
		},
		{
			name:      "Below exemption",
			incomeTax: decimal.NewMoneyFromInt(15000),
			expected:  "0.00",
		},
		{
			name:      "Exactly at exemption",
			incomeTax: decimal.NewMoneyFromInt(18130),
			expected:  "0.00",
		},
		{
			name:      "Glide-in caps the surcharge just above the exemption",
			incomeTax: decimal.NewMoneyFromInt(19000),
			expected:  "103.53",
		},
		{
			name:      "Glide-in still binding mid-zone",
			incomeTax: decimal.NewMoneyFromInt(30000),
			expected:  "1412.53",
		},
		{
			name:      "Full rate beyond the glide-in zone",
			incomeTax: decimal.NewMoneyFromInt(40000),
			expected:  "2200.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.Surcharge(tt.incomeTax).String())
		})
	}
}

// TestSurchargeContinuousAtExemption verifies there is no jump at the
// exemption boundary: one euro of extra tax adds at most the glide rate.
func TestSurchargeContinuousAtExemption(t *testing.T) {
	table := NewParameterTable()
	for _, year := range table.Years() {
		params, err := table.Lookup(year)
		require.NoError(t, err)
		calc := NewSolidaritySurchargeCalculator(params)

		atBoundary := calc.Surcharge(params.SoliExemption)
		justAbove := calc.Surcharge(params.SoliExemption.Add(decimal.NewMoneyFromInt(1)))

		assert.True(t, atBoundary.IsZero(), "year %d: surcharge at exemption must be zero", year)
		assert.True(t, justAbove.LessThanOrEqual(decimal.NewMoneyFromCents(12)),
			"year %d: surcharge one euro above exemption is %s", year, justAbove)
	}
}
