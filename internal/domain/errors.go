package domain

import (
	"errors"
	"fmt"
)

// The calculation core distinguishes three failure classes. Callers classify
// with errors.Is; nothing below ever recovers silently.
var (
	// ErrConfiguration marks a data-entry mistake upstream (missing year
	// parameters, malformed ratios). The computation must not proceed.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvariant marks a rejected operation that would violate a domain
	// invariant (double disposal, invoice for a non-business stream).
	ErrInvariant = errors.New("invariant violation")

	// ErrRetryable marks a transient failure (lock contention, store
	// outage). Callers retry the whole operation, not just the lock.
	ErrRetryable = errors.New("retryable failure")
)

// ConfigurationError wraps ErrConfiguration with a formatted reason.
func ConfigurationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// InvariantError wraps ErrInvariant with a formatted reason.
func InvariantError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

// RetryableError wraps ErrRetryable around an underlying cause.
func RetryableError(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrRetryable, fmt.Sprintf(format, args...), cause)
}
