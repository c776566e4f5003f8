// Package divergence evaluates the rank turbulence divergence between two
// rank mappings that cover the same combined domain.
package divergence

import (
	"fmt"
	"math"
	"sort"

	"github.com/botirk38/rankturbulence/ranking"
)

// Result carries the divergence together with the terms it was built from.
type Result struct {
	// Q is the normalised divergence.
	Q float64
	// Raw is the unnormalised sum of |r1^-α - r2^-α|^(1/(α+1)) over the domain.
	Raw float64
	// Normalizer is the denominator Q was divided by.
	Normalizer float64
	Alpha      float64
	N1, N2     int
}

// Contribution is one element's share of Q.
type Contribution[E comparable] struct {
	Element E
	Rank1   float64
	Rank2   float64
	Value   float64
}

// ValidateAlpha reports whether alpha is usable as an inverse temperature.
func ValidateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || alpha <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAlpha, alpha)
	}
	return nil
}

// Evaluate computes Q for ranks r1 and r2 over domain. n1 and n2 are the
// numbers of distinct elements in the two original inputs.
func Evaluate[E comparable](domain []E, r1, r2 ranking.Ranks[E], n1, n2 int, alpha float64) (float64, error) {
	res, err := Compute(domain, r1, r2, n1, n2, alpha)
	if err != nil {
		return 0, err
	}
	return res.Q, nil
}

// Compute is Evaluate returning the full Result.
func Compute[E comparable](domain []E, r1, r2 ranking.Ranks[E], n1, n2 int, alpha float64) (Result, error) {
	if err := ValidateAlpha(alpha); err != nil {
		return Result{}, err
	}
	if len(domain) == 0 {
		return Result{}, ErrEmptyDomain
	}

	t := newTerms(n1, n2, alpha)

	var raw, norm1, norm2 float64
	for _, tau := range domain {
		a, b, err := inverse(t, tau, r1, r2)
		if err != nil {
			return Result{}, err
		}
		raw += math.Pow(math.Abs(a-b), t.exp)
		norm1 += math.Pow(math.Abs(a-t.normN1), t.exp)
		norm2 += math.Pow(math.Abs(t.normN2-b), t.exp)
	}

	cr := t.mul*norm1 + t.mul*norm2
	if cr == 0 || math.IsNaN(cr) || math.IsInf(cr, 0) {
		return Result{}, ErrUndefined
	}

	return Result{
		Q:          t.mul * raw / cr,
		Raw:        raw,
		Normalizer: cr,
		Alpha:      alpha,
		N1:         n1,
		N2:         n2,
	}, nil
}

// Contributions splits Q into per-element terms, largest first. The values
// sum to Q.
func Contributions[E comparable](domain []E, r1, r2 ranking.Ranks[E], n1, n2 int, alpha float64) ([]Contribution[E], error) {
	res, err := Compute(domain, r1, r2, n1, n2, alpha)
	if err != nil {
		return nil, err
	}

	t := newTerms(n1, n2, alpha)
	out := make([]Contribution[E], 0, len(domain))
	for _, tau := range domain {
		a, b, err := inverse(t, tau, r1, r2)
		if err != nil {
			return nil, err
		}
		out = append(out, Contribution[E]{
			Element: tau,
			Rank1:   r1[tau],
			Rank2:   r2[tau],
			Value:   t.mul * math.Pow(math.Abs(a-b), t.exp) / res.Normalizer,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out, nil
}

// terms holds the alpha-dependent constants shared by every element.
type terms struct {
	alpha  float64
	exp    float64
	mul    float64
	normN1 float64
	normN2 float64
}

func newTerms(n1, n2 int, alpha float64) terms {
	fn1, fn2 := float64(n1), float64(n2)
	return terms{
		alpha:  alpha,
		exp:    1 / (alpha + 1),
		mul:    (alpha + 1) / alpha,
		normN1: math.Pow(fn1+0.5*fn2, -alpha),
		normN2: math.Pow(fn2+0.5*fn1, -alpha),
	}
}

// inverse returns r1[tau]^-α and r2[tau]^-α.
func inverse[E comparable](t terms, tau E, r1, r2 ranking.Ranks[E]) (float64, float64, error) {
	rank1, ok := r1[tau]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %v in first ranking", ErrMissingRank, tau)
	}
	rank2, ok := r2[tau]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %v in second ranking", ErrMissingRank, tau)
	}
	return math.Pow(rank1, -t.alpha), math.Pow(rank2, -t.alpha), nil
}
