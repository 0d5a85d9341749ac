package gacha

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPool means the pool was sampled before any positive weight was added.
	ErrEmptyPool = errors.New("gacha: empty pool")
	// ErrInvalidWeight rejects negative, NaN or infinite entry weights.
	ErrInvalidWeight = errors.New("gacha: invalid weight")
	// ErrUnknownEntry is returned for an EntryID the pool never issued.
	ErrUnknownEntry = errors.New("gacha: unknown pool entry")
	// ErrInvalidAdjustment is matched by *AdjustmentError.
	ErrInvalidAdjustment = errors.New("gacha: invalid weight adjustment")
	// ErrBoostNotActive means a revert was requested with no boost on record.
	ErrBoostNotActive = errors.New("gacha: revert without active boost")
	// ErrPityConfig wraps every PityConfig validation failure.
	ErrPityConfig = errors.New("gacha: invalid pity config")
)

// AdjustmentError reports an adjustWeight call that would have driven an
// entry below zero. The pool is left untouched.
type AdjustmentError struct {
	Entry  EntryID
	Weight float64
	Delta  float64
}

func (e *AdjustmentError) Error() string {
	return fmt.Sprintf("gacha: adjusting entry %d (weight %g) by %g would go negative", e.Entry, e.Weight, e.Delta)
}

func (e *AdjustmentError) Is(target error) bool { return target == ErrInvalidAdjustment }

// IsInvariantViolation reports whether err means the draw distribution can no
// longer be trusted. Callers should abort the session rather than retry.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrEmptyPool) ||
		errors.Is(err, ErrInvalidAdjustment) ||
		errors.Is(err, ErrBoostNotActive) ||
		errors.Is(err, ErrUnknownEntry)
}
