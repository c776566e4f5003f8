package divergence

import (
	"errors"
	"math"
	"testing"

	"github.com/botirk38/rankturbulence/ranking"
)

const tolerance = 1e-9

// Ranks of mary/jane/chelsea/ann against ann/jane/barb/crystal.
var (
	scenarioDomain = []string{"mary", "jane", "chelsea", "ann", "barb", "crystal"}
	scenarioR1     = ranking.Ranks[string]{"mary": 1, "jane": 2, "chelsea": 3, "ann": 4, "barb": 5.5, "crystal": 5.5}
	scenarioR2     = ranking.Ranks[string]{"ann": 1, "jane": 2, "barb": 3, "crystal": 4, "mary": 5.5, "chelsea": 5.5}
)

func TestValidateAlpha(t *testing.T) {
	for _, alpha := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := ValidateAlpha(alpha); !errors.Is(err, ErrInvalidAlpha) {
			t.Errorf("Expected ErrInvalidAlpha for %v, got %v", alpha, err)
		}
	}
	for _, alpha := range []float64{1e-6, 0.5, 1, 3, 100} {
		if err := ValidateAlpha(alpha); err != nil {
			t.Errorf("Expected %v to be valid, got %v", alpha, err)
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		alpha float64
		want  float64
	}{
		{1.0, 0.5774345508177796},
		{0.5, 0.5732882786018235},
		{2.0, 0.578191369124781},
		{1.0 / 3.0, 0.5698502374088628},
	}

	for _, tt := range tests {
		q, err := Evaluate(scenarioDomain, scenarioR1, scenarioR2, 4, 4, tt.alpha)
		if err != nil {
			t.Fatalf("Evaluate(alpha=%v) failed: %v", tt.alpha, err)
		}
		if math.Abs(q-tt.want) > tolerance {
			t.Errorf("alpha=%v: expected %v, got %v", tt.alpha, tt.want, q)
		}
	}
}

func TestEvaluateByHand(t *testing.T) {
	// alpha = 1: exp = 1/2, mul = 2, normN1 = normN2 = 1/6
	inv := func(r float64) float64 { return 1 / r }
	var raw, n1, n2 float64
	for _, tau := range scenarioDomain {
		a, b := inv(scenarioR1[tau]), inv(scenarioR2[tau])
		raw += math.Sqrt(math.Abs(a - b))
		n1 += math.Sqrt(math.Abs(a - 1.0/6))
		n2 += math.Sqrt(math.Abs(1.0/6 - b))
	}
	want := 2 * raw / (2*n1 + 2*n2)

	q, err := Evaluate(scenarioDomain, scenarioR1, scenarioR2, 4, 4, 1)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if math.Abs(q-want) > tolerance {
		t.Errorf("Expected %v, got %v", want, q)
	}
}

func TestIdentity(t *testing.T) {
	for _, alpha := range []float64{0.1, 1, 10} {
		q, err := Evaluate(scenarioDomain, scenarioR1, scenarioR1, 4, 4, alpha)
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if math.Abs(q) > tolerance {
			t.Errorf("alpha=%v: expected 0 for identical ranks, got %v", alpha, q)
		}
	}
}

func TestCompute(t *testing.T) {
	res, err := Compute(scenarioDomain, scenarioR1, scenarioR2, 4, 4, 1)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if res.Normalizer <= 0 {
		t.Errorf("Expected positive normalizer, got %v", res.Normalizer)
	}
	mul := 2.0
	if math.Abs(mul*res.Raw/res.Normalizer-res.Q) > tolerance {
		t.Errorf("Expected Q = mul*Raw/Normalizer, got %v", res.Q)
	}
	if res.N1 != 4 || res.N2 != 4 || res.Alpha != 1 {
		t.Errorf("Unexpected result metadata: %+v", res)
	}
}

func TestContributions(t *testing.T) {
	contribs, err := Contributions(scenarioDomain, scenarioR1, scenarioR2, 4, 4, 1)
	if err != nil {
		t.Fatalf("Contributions failed: %v", err)
	}
	if len(contribs) != len(scenarioDomain) {
		t.Fatalf("Expected %d contributions, got %d", len(scenarioDomain), len(contribs))
	}

	var sum float64
	for i, c := range contribs {
		sum += c.Value
		if i > 0 && c.Value > contribs[i-1].Value {
			t.Errorf("Expected descending order at %d", i)
		}
	}
	if math.Abs(sum-0.5774345508177796) > tolerance {
		t.Errorf("Expected contributions to sum to Q, got %v", sum)
	}

	// jane holds rank 2 on both sides
	for _, c := range contribs {
		if c.Element == "jane" && c.Value != 0 {
			t.Errorf("Expected zero contribution for jane, got %v", c.Value)
		}
	}
	if top := contribs[0].Element; top != "mary" && top != "ann" {
		t.Errorf("Expected mary or ann to contribute most, got %s", top)
	}
}

func TestEvaluateErrors(t *testing.T) {
	t.Run("InvalidAlpha", func(t *testing.T) {
		_, err := Evaluate(scenarioDomain, scenarioR1, scenarioR2, 4, 4, 0)
		if !errors.Is(err, ErrInvalidAlpha) {
			t.Errorf("Expected ErrInvalidAlpha, got %v", err)
		}
	})

	t.Run("EmptyDomain", func(t *testing.T) {
		_, err := Evaluate([]string{}, ranking.Ranks[string]{}, ranking.Ranks[string]{}, 0, 0, 1)
		if !errors.Is(err, ErrEmptyDomain) {
			t.Errorf("Expected ErrEmptyDomain, got %v", err)
		}
	})

	t.Run("MissingRank", func(t *testing.T) {
		r2 := ranking.Ranks[string]{"mary": 1}
		_, err := Evaluate([]string{"mary", "jane"}, scenarioR1, r2, 4, 1, 1)
		if !errors.Is(err, ErrMissingRank) {
			t.Errorf("Expected ErrMissingRank, got %v", err)
		}
	})

	t.Run("ZeroSizes", func(t *testing.T) {
		r := ranking.Ranks[string]{"a": 1}
		_, err := Evaluate([]string{"a"}, r, r, 0, 0, 1)
		if !errors.Is(err, ErrUndefined) {
			t.Errorf("Expected ErrUndefined, got %v", err)
		}
	})
}
