package sequence

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/buchwerk/tax-engine/internal/domain"
)

// GormStore serializes counter access with a database row lock: every
// read-increment-write runs in a transaction holding SELECT ... FOR UPDATE
// on the counter row. Two first-callers for a never-before-seen key race on
// row creation; the conflict-tolerant insert plus re-select makes exactly
// one row and both callers serialize on its lock.
type GormStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGormStore creates a store over an open gorm handle.
func NewGormStore(db *gorm.DB, log *zap.Logger) *GormStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &GormStore{db: db, log: log}
}

// AutoMigrate creates the counter table.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&Counter{})
}

// WithLockedCounter implements CounterStore. Driver and transaction
// failures are wrapped as retryable; duplicate ordinals are impossible
// because the row lock is held across the whole read-increment-write.
func (s *GormStore) WithLockedCounter(ctx context.Context, key CounterKey, fn func(c *Counter) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counter, err := s.lockRow(tx, key)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First caller for this key. Insert tolerates a concurrent
			// creator; whoever loses the race still finds the row below.
			fresh := Counter{Stream: string(key.Stream), Year: key.Year}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
				return err
			}
			counter, err = s.lockRow(tx, key)
			if err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := fn(counter); err != nil {
			return err
		}

		return tx.Model(&Counter{}).
			Where("stream = ? AND year = ?", key.Stream, key.Year).
			Update("last_value", counter.LastValue).Error
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvariant) || errors.Is(err, domain.ErrConfiguration) {
		return err
	}
	s.log.Warn("counter store failure",
		zap.String("stream", string(key.Stream)),
		zap.Int("year", key.Year),
		zap.Error(err))
	return domain.RetryableError(err, "locking counter %s/%d", key.Stream, key.Year)
}

func (s *GormStore) lockRow(tx *gorm.DB, key CounterKey) (*Counter, error) {
	q := tx.Where("stream = ? AND year = ?", key.Stream, key.Year)
	// sqlite has no FOR UPDATE; its single-writer transactions serialize
	// instead.
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var c Counter
	if err := q.First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
