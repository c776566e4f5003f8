package divergence

import "errors"

// Common divergence errors
var (
	// ErrInvalidAlpha indicates alpha is not a finite, strictly positive number
	ErrInvalidAlpha = errors.New("alpha must be positive and finite")

	// ErrEmptyDomain indicates both inputs were empty, so the divergence is undefined
	ErrEmptyDomain = errors.New("combined domain is empty")

	// ErrUndefined indicates the normalizer is zero or not finite
	ErrUndefined = errors.New("divergence is undefined for these rankings")

	// ErrMissingRank indicates a domain element without a rank
	ErrMissingRank = errors.New("element has no rank")
)
