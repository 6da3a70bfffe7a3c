package sequence

import (
	"context"
	"time"

	"github.com/buchwerk/tax-engine/internal/domain"
)

// CounterKey identifies one invoice number sequence. Distinct streams and
// distinct fiscal years are fully independent counters.
type CounterKey struct {
	Stream domain.Stream
	Year   int
}

// Counter is the persistent last-issued ordinal of one (stream, year) key.
// Invariant: strictly monotonically increasing per key; ordinals are never
// reused and never re-filled after cancellation.
type Counter struct {
	Stream    string    `gorm:"primaryKey;size:16"`
	Year      int       `gorm:"primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName names the gorm table.
func (Counter) TableName() string {
	return "invoice_sequence_counters"
}

// CounterStore serializes access to a counter row. WithLockedCounter
// acquires an exclusive per-key lock, creates the row (at zero) if absent
// atomically with the lock acquisition, invokes fn with the current state
// and persists the mutated counter before releasing the lock. The critical
// section must stay narrow: fn does nothing but read and increment.
//
// Store or lock failures surface as retryable errors; fn's own domain
// errors pass through unchanged.
type CounterStore interface {
	WithLockedCounter(ctx context.Context, key CounterKey, fn func(c *Counter) error) error
}
