package ranking

import "errors"

// Common ranking errors
var (
	// ErrNilAccumulator indicates Build was called without an accumulator
	ErrNilAccumulator = errors.New("accumulator cannot be nil")

	// ErrUnknownElement indicates a count for an element outside the accumulator's domain
	ErrUnknownElement = errors.New("element is not in the combined domain")

	// ErrNegativeDelta indicates an attempt to add a negative count
	ErrNegativeDelta = errors.New("count delta must be non-negative")
)
