package ranking

import "fmt"

// Accumulator holds a count for every element of a fixed domain.
// It is not safe for concurrent use; each ranking gets its own.
type Accumulator[E comparable] struct {
	domain []E
	counts map[E]int
}

// NewAccumulator returns an accumulator with a zero count for every
// element of domain.
func NewAccumulator[E comparable](domain []E) *Accumulator[E] {
	acc := &Accumulator[E]{
		domain: make([]E, 0, len(domain)),
		counts: make(map[E]int, len(domain)),
	}
	for _, e := range domain {
		if _, ok := acc.counts[e]; ok {
			continue
		}
		acc.counts[e] = 0
		acc.domain = append(acc.domain, e)
	}
	return acc
}

// Add increments the accumulated count of each element in delta.
// Every element must already belong to the domain and no delta may be
// negative; on error the accumulator is left unchanged.
func (a *Accumulator[E]) Add(delta map[E]int) error {
	for e, c := range delta {
		if c < 0 {
			return fmt.Errorf("%w: %v", ErrNegativeDelta, e)
		}
		if _, ok := a.counts[e]; !ok {
			return fmt.Errorf("%w: %v", ErrUnknownElement, e)
		}
	}
	for e, c := range delta {
		a.counts[e] += c
	}
	return nil
}

// Count returns the accumulated count of e and whether e is in the domain.
func (a *Accumulator[E]) Count(e E) (int, bool) {
	c, ok := a.counts[e]
	return c, ok
}

// Len returns the size of the domain.
func (a *Accumulator[E]) Len() int {
	return len(a.domain)
}

// Domain returns the accumulator's domain in insertion order.
func (a *Accumulator[E]) Domain() []E {
	out := make([]E, len(a.domain))
	copy(out, a.domain)
	return out
}

// Snapshot returns a copy of the accumulated counts.
func (a *Accumulator[E]) Snapshot() map[E]int {
	out := make(map[E]int, len(a.counts))
	for e, c := range a.counts {
		out[e] = c
	}
	return out
}
