package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buchwerk/tax-engine/pkg/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDepreciableAsset(t *testing.T) {
	asset, err := NewDepreciableAsset("laptop", "Workstation", day(2026, time.July, 15), decimal.NewMoneyFromInt(3600), 36)
	require.NoError(t, err)
	assert.Equal(t, "laptop", asset.ID)
	assert.False(t, asset.Disposed())
	assert.Equal(t, "100.00", asset.MonthlyAmount().Round().String())
}

func TestNewDepreciableAssetValidation(t *testing.T) {
	acquired := day(2026, time.July, 15)

	tests := []struct {
		name string
		cost decimal.Money
		life int
		date time.Time
	}{
		{"Zero life", decimal.NewMoneyFromInt(3600), 0, acquired},
		{"Negative life", decimal.NewMoneyFromInt(3600), -12, acquired},
		{"Zero cost", decimal.Zero(), 36, acquired},
		{"Cost at the low-value threshold", LowValueAssetThreshold, 36, acquired},
		{"Missing acquisition date", decimal.NewMoneyFromInt(3600), 36, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDepreciableAsset("x", "x", tt.date, tt.cost, tt.life)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestDispose(t *testing.T) {
	asset, err := NewDepreciableAsset("camera", "Camera", day(2026, time.July, 15), decimal.NewMoneyFromInt(3600), 36)
	require.NoError(t, err)

	require.NoError(t, asset.Dispose(day(2027, time.March, 10)))
	assert.True(t, asset.Disposed())

	// Disposal is a one-time transition.
	err = asset.Dispose(day(2028, time.January, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestDisposeBeforeAcquisition(t *testing.T) {
	asset, err := NewDepreciableAsset("camera", "Camera", day(2026, time.July, 15), decimal.NewMoneyFromInt(3600), 36)
	require.NoError(t, err)

	err = asset.Dispose(day(2026, time.July, 14))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariant)
	assert.False(t, asset.Disposed())
}
