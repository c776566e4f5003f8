package types

import (
	"context"
	"time"
)

// InputKind identifies which of the admissible input shapes an Input holds.
type InputKind int

const (
	// KindRankedSequence is an ordered sequence of distinct elements; position implies rank.
	KindRankedSequence InputKind = iota + 1
	// KindObservations is an unordered multiset; multiplicity implies rank.
	KindObservations
	// KindCountMap maps each element to a non-negative count.
	KindCountMap
)

func (k InputKind) String() string {
	switch k {
	case KindRankedSequence:
		return "ranked_sequence"
	case KindObservations:
		return "observations"
	case KindCountMap:
		return "count_map"
	default:
		return "unknown"
	}
}

// Input is one ranked population. Build it with RankedSequence, Observations,
// CountMap or Infer; the zero value is not a valid input.
type Input[E comparable] struct {
	kind   InputKind
	seq    []E
	counts map[E]int
}

// RankedSequence builds an input whose first element is rank 1.
func RankedSequence[E comparable](elems ...E) Input[E] {
	return Input[E]{kind: KindRankedSequence, seq: elems}
}

// Observations builds an input from raw, repeated observations.
func Observations[E comparable](elems ...E) Input[E] {
	return Input[E]{kind: KindObservations, seq: elems}
}

// CountMap builds an input from precomputed counts.
func CountMap[E comparable](m map[E]int) Input[E] {
	return Input[E]{kind: KindCountMap, counts: m}
}

// Infer picks the shape of a sequence by looking at it: a sequence without
// repeats is taken as ranked, anything else as observations. A list of raw
// observations that happens to contain no repeats is indistinguishable from
// a ranking, so prefer the explicit constructors when the caller knows.
func Infer[E comparable](elems []E) Input[E] {
	seen := make(map[E]struct{}, len(elems))
	for _, e := range elems {
		if _, dup := seen[e]; dup {
			return Observations(elems...)
		}
		seen[e] = struct{}{}
	}
	return RankedSequence(elems...)
}

// Kind reports the shape of the input.
func (in Input[E]) Kind() InputKind {
	return in.kind
}

// Len returns the number of entries as given: sequence length or map size.
func (in Input[E]) Len() int {
	if in.kind == KindCountMap {
		return len(in.counts)
	}
	return len(in.seq)
}

// Elements returns the distinct elements of the input in first-seen order.
// Map keys are returned in map iteration order.
func (in Input[E]) Elements() []E {
	if in.kind == KindCountMap {
		out := make([]E, 0, len(in.counts))
		for e := range in.counts {
			out = append(out, e)
		}
		return out
	}

	seen := make(map[E]struct{}, len(in.seq))
	out := make([]E, 0, len(in.seq))
	for _, e := range in.seq {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Counts returns the per-element count delta this input contributes.
//
// A ranked sequence of length m gives the element at index i a synthetic
// count of m-i, so the first element is the most frequent and the last has
// weight 1. Observations count one per occurrence. A count map is copied.
func (in Input[E]) Counts() map[E]int {
	switch in.kind {
	case KindCountMap:
		out := make(map[E]int, len(in.counts))
		for e, c := range in.counts {
			out[e] = c
		}
		return out
	case KindRankedSequence:
		m := len(in.seq)
		out := make(map[E]int, m)
		for i, e := range in.seq {
			out[e] += m - i
		}
		return out
	case KindObservations:
		out := make(map[E]int, len(in.seq))
		for _, e := range in.seq {
			out[e]++
		}
		return out
	default:
		return nil
	}
}

// Validate checks the input contract: a known shape, no negative counts and
// no duplicates in a ranked sequence.
func (in Input[E]) Validate() error {
	switch in.kind {
	case KindCountMap:
		for _, c := range in.counts {
			if c < 0 {
				return ErrNegativeCount
			}
		}
		return nil
	case KindRankedSequence:
		seen := make(map[E]struct{}, len(in.seq))
		for _, e := range in.seq {
			if _, dup := seen[e]; dup {
				return ErrDuplicateRank
			}
			seen[e] = struct{}{}
		}
		return nil
	case KindObservations:
		return nil
	default:
		return ErrUnknownInput
	}
}

// SnapshotBackend stores named count snapshots.
// Implementations must be safe for concurrent use.
type SnapshotBackend[E comparable] interface {
	// Add increments the counts of snapshot name, creating it if needed
	Add(ctx context.Context, name string, counts map[E]int) error

	// Get returns the counts of a snapshot
	Get(ctx context.Context, name string) (map[E]int, bool, error)

	// Delete removes a snapshot
	Delete(ctx context.Context, name string) error

	// Contains checks if a snapshot exists
	Contains(ctx context.Context, name string) (bool, error)

	// Names returns the names of all stored snapshots
	Names(ctx context.Context) ([]string, error)

	// Flush removes every snapshot
	Flush(ctx context.Context) error

	// Len returns the number of stored snapshots
	Len(ctx context.Context) (int, error)

	// Close releases resources held by the backend
	Close() error
}

// BackendConfig provides configuration options for backends
type BackendConfig struct {
	// For in-memory backends
	Capacity int
	TTL      time.Duration

	// For Redis
	ConnectionString string
	Username         string
	Password         string
	Database         int

	// Additional options
	Options map[string]any
}

// BackendType represents the type of snapshot backend
type BackendType string

const (
	BackendLRU   BackendType = "lru"
	BackendRedis BackendType = "redis"
)

// Tokenizer splits text into the observations it contains.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// TokenizerType represents the type of tokenizer
type TokenizerType string

const (
	TokenizerWords    TokenizerType = "words"
	TokenizerTiktoken TokenizerType = "tiktoken"
)
