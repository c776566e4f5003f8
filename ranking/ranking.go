// Package ranking turns ranked populations into fractional-rank mappings
// over a shared, combined domain.
package ranking

import (
	"fmt"
	"sort"

	"github.com/botirk38/rankturbulence/types"
)

// Ranks maps each element of the combined domain to its fractional rank.
// Rank 1 is the most frequent element; tied elements share the mean of
// the positions they occupy.
type Ranks[E comparable] map[E]float64

// CombinedDomain returns the union of the elements of x1 and x2 without
// duplicates. Elements of x1 come first, then the ones only x2 has.
func CombinedDomain[E comparable](x1, x2 types.Input[E]) []E {
	e1 := x1.Elements()
	e2 := x2.Elements()

	seen := make(map[E]struct{}, len(e1)+len(e2))
	domain := make([]E, 0, len(e1)+len(e2))
	for _, elems := range [][]E{e1, e2} {
		for _, e := range elems {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			domain = append(domain, e)
		}
	}
	return domain
}

// Build adds the counts derived from x into acc and ranks the whole
// accumulator. It returns the ranks over acc's domain and the number of
// distinct elements in x itself.
func Build[E comparable](x types.Input[E], acc *Accumulator[E]) (Ranks[E], int, error) {
	if acc == nil {
		return nil, 0, ErrNilAccumulator
	}
	if err := x.Validate(); err != nil {
		return nil, 0, err
	}

	counts := x.Counts()
	if err := acc.Add(counts); err != nil {
		return nil, 0, err
	}

	return Fractional(acc.Snapshot()), len(counts), nil
}

// BuildPair ranks x1 and x2 over their combined domain, each with its own
// zeroed accumulator.
func BuildPair[E comparable](x1, x2 types.Input[E]) (*Pair[E], error) {
	domain := CombinedDomain(x1, x2)

	r1, n1, err := Build(x1, NewAccumulator(domain))
	if err != nil {
		return nil, fmt.Errorf("ranking first input: %w", err)
	}
	r2, n2, err := Build(x2, NewAccumulator(domain))
	if err != nil {
		return nil, fmt.Errorf("ranking second input: %w", err)
	}

	return &Pair[E]{
		Domain: domain,
		R1:     r1,
		R2:     r2,
		N1:     n1,
		N2:     n2,
	}, nil
}

// Pair holds both rank mappings of a comparison.
type Pair[E comparable] struct {
	Domain []E
	R1, R2 Ranks[E]
	N1, N2 int
}

// Fractional ranks counts in descending order, averaging ranks over ties.
func Fractional[E comparable](counts map[E]int) Ranks[E] {
	type entry struct {
		elem  E
		count int
	}

	entries := make([]entry, 0, len(counts))
	for e, c := range counts {
		entries = append(entries, entry{elem: e, count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	ranks := make(Ranks[E], len(entries))
	for i := 0; i < len(entries); {
		j := i
		for j+1 < len(entries) && entries[j+1].count == entries[i].count {
			j++
		}
		// positions i..j are 0-indexed; their 1-indexed mean is (i+j)/2 + 1
		rank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[entries[k].elem] = rank
		}
		i = j + 1
	}
	return ranks
}
