// Package rankturbulence computes the rank turbulence divergence between two
// ranked populations, such as word frequencies in two corpora or vote
// counts in two elections.
package rankturbulence

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/botirk38/rankturbulence/divergence"
	"github.com/botirk38/rankturbulence/options"
	"github.com/botirk38/rankturbulence/ranking"
	"github.com/botirk38/rankturbulence/types"
)

// DefaultAlpha is the inverse temperature used when callers have no preference.
const DefaultAlpha = options.DefaultAlpha

// Result is a divergence with the rankings it was computed from.
type Result[E comparable] struct {
	Q             float64                      `json:"q"`
	Alpha         float64                      `json:"alpha"`
	N1            int                          `json:"n1"`
	N2            int                          `json:"n2"`
	Normalizer    float64                      `json:"normalizer"`
	Domain        []E                          `json:"domain"`
	Ranks1        ranking.Ranks[E]             `json:"-"`
	Ranks2        ranking.Ranks[E]             `json:"-"`
	Contributions []divergence.Contribution[E] `json:"contributions,omitempty"`
}

// Point is the divergence at one alpha.
type Point struct {
	Alpha float64 `json:"alpha"`
	Q     float64 `json:"q"`
}

// Divergence returns the rank turbulence divergence of x2 from x1.
// alpha must be positive; both inputs may not be empty at once.
func Divergence[E comparable](x1, x2 types.Input[E], alpha float64) (float64, error) {
	if err := divergence.ValidateAlpha(alpha); err != nil {
		return 0, err
	}

	pair, err := ranking.BuildPair(x1, x2)
	if err != nil {
		return 0, err
	}
	return divergence.Evaluate(pair.Domain, pair.R1, pair.R2, pair.N1, pair.N2, alpha)
}

// Compare is Divergence returning ranks and per-element contributions.
func Compare[E comparable](x1, x2 types.Input[E], alpha float64) (*Result[E], error) {
	if err := divergence.ValidateAlpha(alpha); err != nil {
		return nil, err
	}

	pair, err := ranking.BuildPair(x1, x2)
	if err != nil {
		return nil, err
	}

	res, err := divergence.Compute(pair.Domain, pair.R1, pair.R2, pair.N1, pair.N2, alpha)
	if err != nil {
		return nil, err
	}
	contribs, err := divergence.Contributions(pair.Domain, pair.R1, pair.R2, pair.N1, pair.N2, alpha)
	if err != nil {
		return nil, err
	}

	return &Result[E]{
		Q:             res.Q,
		Alpha:         alpha,
		N1:            pair.N1,
		N2:            pair.N2,
		Normalizer:    res.Normalizer,
		Domain:        pair.Domain,
		Ranks1:        pair.R1,
		Ranks2:        pair.R2,
		Contributions: contribs,
	}, nil
}

// Spectrum evaluates the divergence at each alpha concurrently. Points come
// back in the order of alphas. The rankings are built once and shared
// read-only by every evaluation.
func Spectrum[E comparable](ctx context.Context, x1, x2 types.Input[E], alphas []float64) ([]Point, error) {
	for _, alpha := range alphas {
		if err := divergence.ValidateAlpha(alpha); err != nil {
			return nil, err
		}
	}

	pair, err := ranking.BuildPair(x1, x2)
	if err != nil {
		return nil, err
	}
	return spectrum(ctx, pair, alphas)
}

func spectrum[E comparable](ctx context.Context, pair *ranking.Pair[E], alphas []float64) ([]Point, error) {
	points := make([]Point, len(alphas))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, alpha := range alphas {
		i, alpha := i, alpha
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			q, err := divergence.Evaluate(pair.Domain, pair.R1, pair.R2, pair.N1, pair.N2, alpha)
			if err != nil {
				return err
			}
			points[i] = Point{Alpha: alpha, Q: q}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// DivergenceResult holds the result of an async Divergence call.
type DivergenceResult struct {
	Q     float64
	Error error
}

// DivergenceAsync runs Divergence in a goroutine.
// Returns a channel that will receive the result when complete.
func DivergenceAsync[E comparable](x1, x2 types.Input[E], alpha float64) <-chan DivergenceResult {
	resultCh := make(chan DivergenceResult, 1)
	go func() {
		defer close(resultCh)
		q, err := Divergence(x1, x2, alpha)
		resultCh <- DivergenceResult{Q: q, Error: err}
	}()
	return resultCh
}
