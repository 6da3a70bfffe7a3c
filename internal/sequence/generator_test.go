package sequence

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buchwerk/tax-engine/internal/domain"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		stream   domain.Stream
		year     int
		ordinal  int64
		expected string
	}{
		{"Freiberuf", domain.StreamFreiberuf, 2026, 1, "FR-2026-001"},
		{"Gewerbe", domain.StreamGewerbe, 2026, 42, "GW-2026-042"},
		{"Three digits", domain.StreamFreiberuf, 2026, 999, "FR-2026-999"},
		{"Width grows beyond 999", domain.StreamGewerbe, 2026, 1000, "GW-2026-1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatNumber(tt.stream, tt.year, tt.ordinal)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatNumberRejectsNonPositiveOrdinal(t *testing.T) {
	_, err := FormatNumber(domain.StreamFreiberuf, 2026, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvariant)
}

func TestFormatNumberRejectsEmploymentStream(t *testing.T) {
	_, err := FormatNumber(domain.StreamEmployment, 2026, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvariant)
}

func TestNextIssuesSequentialNumbers(t *testing.T) {
	gen := NewGenerator(NewMemoryStore(), nil)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		number, err := gen.Next(ctx, domain.StreamFreiberuf, 2026)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("FR-2026-%03d", i), number)
	}
}

func TestNextKeysAreIndependent(t *testing.T) {
	gen := NewGenerator(NewMemoryStore(), nil)
	ctx := context.Background()

	first, err := gen.Next(ctx, domain.StreamFreiberuf, 2026)
	require.NoError(t, err)
	assert.Equal(t, "FR-2026-001", first)

	otherStream, err := gen.Next(ctx, domain.StreamGewerbe, 2026)
	require.NoError(t, err)
	assert.Equal(t, "GW-2026-001", otherStream)

	otherYear, err := gen.Next(ctx, domain.StreamFreiberuf, 2027)
	require.NoError(t, err)
	assert.Equal(t, "FR-2027-001", otherYear)

	second, err := gen.Next(ctx, domain.StreamFreiberuf, 2026)
	require.NoError(t, err)
	assert.Equal(t, "FR-2026-002", second)
}

func TestNextRejectsEmploymentStream(t *testing.T) {
	gen := NewGenerator(NewMemoryStore(), nil)

	_, err := gen.Next(context.Background(), domain.StreamEmployment, 2026)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvariant)

	// The rejected call must not have created or advanced any counter.
	last, err := gen.PeekOrCreate(context.Background(), domain.StreamFreiberuf, 2026)
	require.NoError(t, err)
	assert.Zero(t, last)
}

func TestPeekOrCreate(t *testing.T) {
	gen := NewGenerator(NewMemoryStore(), nil)
	ctx := context.Background()

	last, err := gen.PeekOrCreate(ctx, domain.StreamGewerbe, 2026)
	require.NoError(t, err)
	assert.Zero(t, last, "a fresh key reports zero")

	for i := 0; i < 2; i++ {
		_, err := gen.Next(ctx, domain.StreamGewerbe, 2026)
		require.NoError(t, err)
	}

	last, err = gen.PeekOrCreate(ctx, domain.StreamGewerbe, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(2), last)
}

// TestNextConcurrent hammers one key from many goroutines and verifies the
// issued ordinals are exactly 1..n with no gap and no duplicate.
func TestNextConcurrent(t *testing.T) {
	const goroutines = 64

	gen := NewGenerator(NewMemoryStore(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	numbers := make(chan string, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := gen.Next(ctx, domain.StreamFreiberuf, 2026)
			assert.NoError(t, err)
			numbers <- number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool, goroutines)
	for number := range numbers {
		assert.False(t, seen[number], "duplicate invoice number %s", number)
		seen[number] = true
	}
	for i := 1; i <= goroutines; i++ {
		expected := fmt.Sprintf("FR-2026-%03d", i)
		assert.True(t, seen[expected], "missing invoice number %s", expected)
	}
}

func TestMemoryStoreFailedFnLeavesCounterUntouched(t *testing.T) {
	store := NewMemoryStore()
	key := CounterKey{Stream: domain.StreamFreiberuf, Year: 2026}
	ctx := context.Background()

	boom := domain.InvariantError("rejected")
	err := store.WithLockedCounter(ctx, key, func(c *Counter) error {
		c.LastValue = 99
		return boom
	})
	require.ErrorIs(t, err, domain.ErrInvariant)

	err = store.WithLockedCounter(ctx, key, func(c *Counter) error {
		assert.Zero(t, c.LastValue, "failed mutation must not persist")
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStoreHonorsCancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.WithLockedCounter(ctx, CounterKey{Stream: domain.StreamGewerbe, Year: 2026}, func(c *Counter) error {
		t.Fatal("fn must not run under a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
