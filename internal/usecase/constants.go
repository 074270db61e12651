package usecase

import "time"

const (
	// DefaultListLimit caps unbounded listing requests.
	DefaultListLimit = 20

	// MaxListLimit is the hard ceiling for a single page.
	MaxListLimit = 100

	// IdempotencyKeyTTL is how long transfer idempotency keys are retained.
	IdempotencyKeyTTL = 24 * time.Hour
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}

	if limit > MaxListLimit {
		return MaxListLimit
	}

	return limit
}
