package sequence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/buchwerk/tax-engine/internal/domain"
)

// Generator issues gap-free, strictly increasing invoice numbers per
// (stream, year) key. All coordination lives in the CounterStore; the
// generator itself is stateless and safe for concurrent use.
type Generator struct {
	store CounterStore
	log   *zap.Logger
}

// NewGenerator creates a generator over the given store. A nil logger is
// replaced with a no-op logger.
func NewGenerator(store CounterStore, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{store: store, log: log}
}

// FormatNumber renders an ordinal as a formatted invoice number: two-letter
// stream prefix, four-digit year, zero-padded ordinal of width 3 extending
// naturally beyond 999.
func FormatNumber(stream domain.Stream, year int, ordinal int64) (string, error) {
	prefix, err := stream.InvoicePrefix()
	if err != nil {
		return "", err
	}
	if ordinal <= 0 {
		return "", domain.InvariantError("invoice ordinal must be positive, got %d", ordinal)
	}
	return fmt.Sprintf("%s-%04d-%03d", prefix, year, ordinal), nil
}

// Next claims the next ordinal for the key and returns the formatted
// invoice number. At most one caller can claim any given ordinal.
func (g *Generator) Next(ctx context.Context, stream domain.Stream, year int) (string, error) {
	// Reject non-business streams before touching the store.
	if _, err := stream.InvoicePrefix(); err != nil {
		return "", err
	}

	var claimed int64
	err := g.store.WithLockedCounter(ctx, CounterKey{Stream: stream, Year: year}, func(c *Counter) error {
		c.LastValue++
		claimed = c.LastValue
		return nil
	})
	if err != nil {
		return "", err
	}

	g.log.Debug("claimed invoice ordinal",
		zap.String("stream", string(stream)),
		zap.Int("year", year),
		zap.Int64("ordinal", claimed))
	return FormatNumber(stream, year, claimed)
}

// PeekOrCreate returns the last issued ordinal for the key, creating the
// counter (at zero) if it does not exist yet. A fresh key reports zero: the
// first Next call will claim ordinal 1.
func (g *Generator) PeekOrCreate(ctx context.Context, stream domain.Stream, year int) (int64, error) {
	if _, err := stream.InvoicePrefix(); err != nil {
		return 0, err
	}

	var last int64
	err := g.store.WithLockedCounter(ctx, CounterKey{Stream: stream, Year: year}, func(c *Counter) error {
		last = c.LastValue
		return nil
	})
	if err != nil {
		return 0, err
	}
	return last, nil
}
