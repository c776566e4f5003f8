package types

import "errors"

// Input contract errors
var (
	// ErrUnknownInput indicates a zero-value or otherwise unrecognised Input
	ErrUnknownInput = errors.New("unknown input kind")

	// ErrNegativeCount indicates a count map holds a negative count
	ErrNegativeCount = errors.New("counts must be non-negative")

	// ErrDuplicateRank indicates a ranked sequence lists an element twice
	ErrDuplicateRank = errors.New("ranked sequence contains a duplicate element")
)
