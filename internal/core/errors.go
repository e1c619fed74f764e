package core

import (
	"errors"
	"fmt"
)

// Failure classes. Every core operation returns a success value or exactly
// one error from this taxonomy; callers check with errors.Is and translate.
// Store errors outside the taxonomy propagate opaquely.
var (
	// ErrInvalidInput marks caller mistakes that are detectable before any
	// store access. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound reports that a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a uniqueness violation or a deletion refused
	// because dependent rows exist.
	ErrConflict = errors.New("conflict")

	// ErrIntegrity reports a stored reference pointing at a missing row.
	// Indicates prior corruption; surfaced, never repaired.
	ErrIntegrity = errors.New("integrity fault")
)

var (
	ErrEmptyMerchantName = fmt.Errorf("%w: merchant name is required", ErrInvalidInput)
	ErrEmptyCategoryName = fmt.Errorf("%w: category name is required", ErrInvalidInput)
	ErrInvalidMultiplier = fmt.Errorf("%w: multiplier must be -1 or 1", ErrInvalidInput)
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be a positive decimal", ErrInvalidInput)
	ErrInvalidDate       = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
)
