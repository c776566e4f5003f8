package rankturbulence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/botirk38/rankturbulence/divergence"
	"github.com/botirk38/rankturbulence/options"
	"github.com/botirk38/rankturbulence/ranking"
	"github.com/botirk38/rankturbulence/tokenizer"
	"github.com/botirk38/rankturbulence/types"
)

// ErrSnapshotNotFound is returned when a compared snapshot does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Tracker keeps named count snapshots in a backend and compares them.
type Tracker[E comparable] struct {
	backend   types.SnapshotBackend[E]
	tokenizer types.Tokenizer
	alpha     float64
	logger    *slog.Logger
}

// BatchItem represents a snapshot update in batch operations.
type BatchItem[E comparable] struct {
	Name  string
	Input types.Input[E]
}

// New creates a Tracker with functional options.
func New[E comparable](opts ...options.Option[E]) (*Tracker[E], error) {
	cfg := options.NewConfig[E]()

	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t, err := NewTracker(cfg.Backend, cfg.Alpha, cfg.Logger)
	if err != nil {
		return nil, err
	}
	t.tokenizer = cfg.Tokenizer
	return t, nil
}

// NewTracker creates a Tracker over backend with a default alpha.
// A nil logger discards output.
func NewTracker[E comparable](backend types.SnapshotBackend[E], alpha float64, logger *slog.Logger) (*Tracker[E], error) {
	if backend == nil {
		return nil, errors.New("backend cannot be nil")
	}
	if err := divergence.ValidateAlpha(alpha); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = options.NewConfig[E]().Logger
	}

	return &Tracker[E]{
		backend:   backend,
		tokenizer: tokenizer.NewWordTokenizer(),
		alpha:     alpha,
		logger:    logger,
	}, nil
}

// Alpha returns the tracker's default inverse temperature.
func (t *Tracker[E]) Alpha() float64 {
	return t.alpha
}

// Record merges the counts of input into snapshot name.
func (t *Tracker[E]) Record(ctx context.Context, name string, input types.Input[E]) error {
	if name == "" {
		return errors.New("snapshot name cannot be empty")
	}
	if err := input.Validate(); err != nil {
		return err
	}

	counts := input.Counts()
	if err := t.backend.Add(ctx, name, counts); err != nil {
		return fmt.Errorf("record %s: %w", name, err)
	}

	t.logger.DebugContext(ctx, "recorded snapshot",
		slog.String("snapshot", name),
		slog.String("kind", input.Kind().String()),
		slog.Int("elements", len(counts)))
	return nil
}

// Snapshot returns the counts stored under name.
func (t *Tracker[E]) Snapshot(ctx context.Context, name string) (map[E]int, bool, error) {
	return t.backend.Get(ctx, name)
}

// Contains checks for a snapshot without reading it.
func (t *Tracker[E]) Contains(ctx context.Context, name string) (bool, error) {
	return t.backend.Contains(ctx, name)
}

// Delete removes a snapshot.
func (t *Tracker[E]) Delete(ctx context.Context, name string) error {
	return t.backend.Delete(ctx, name)
}

// Names returns the names of the stored snapshots.
func (t *Tracker[E]) Names(ctx context.Context) ([]string, error) {
	return t.backend.Names(ctx)
}

// Len returns the number of stored snapshots.
func (t *Tracker[E]) Len(ctx context.Context) (int, error) {
	return t.backend.Len(ctx)
}

// Flush removes every snapshot.
func (t *Tracker[E]) Flush(ctx context.Context) error {
	return t.backend.Flush(ctx)
}

// Close closes the underlying backend.
func (t *Tracker[E]) Close() error {
	return t.backend.Close()
}

// load reads both snapshots as count-map inputs.
func (t *Tracker[E]) load(ctx context.Context, a, b string) (types.Input[E], types.Input[E], error) {
	var none types.Input[E]

	ca, found, err := t.backend.Get(ctx, a)
	if err != nil {
		return none, none, err
	}
	if !found {
		return none, none, fmt.Errorf("%w: %s", ErrSnapshotNotFound, a)
	}

	cb, found, err := t.backend.Get(ctx, b)
	if err != nil {
		return none, none, err
	}
	if !found {
		return none, none, fmt.Errorf("%w: %s", ErrSnapshotNotFound, b)
	}

	return types.CountMap(ca), types.CountMap(cb), nil
}

// Compare returns the divergence between snapshots a and b at the
// tracker's alpha.
func (t *Tracker[E]) Compare(ctx context.Context, a, b string) (*Result[E], error) {
	return t.CompareAlpha(ctx, a, b, t.alpha)
}

// CompareAlpha returns the divergence between snapshots a and b.
func (t *Tracker[E]) CompareAlpha(ctx context.Context, a, b string, alpha float64) (*Result[E], error) {
	x1, x2, err := t.load(ctx, a, b)
	if err != nil {
		return nil, err
	}

	res, err := Compare(x1, x2, alpha)
	if err != nil {
		return nil, fmt.Errorf("compare %s to %s: %w", a, b, err)
	}

	t.logger.DebugContext(ctx, "compared snapshots",
		slog.String("a", a),
		slog.String("b", b),
		slog.Float64("alpha", alpha),
		slog.Float64("q", res.Q))
	return res, nil
}

// Spectrum evaluates the divergence between snapshots a and b at each alpha.
func (t *Tracker[E]) Spectrum(ctx context.Context, a, b string, alphas []float64) ([]Point, error) {
	x1, x2, err := t.load(ctx, a, b)
	if err != nil {
		return nil, err
	}
	return Spectrum(ctx, x1, x2, alphas)
}

// RecordBatch records several updates in order, stopping at the first error.
func (t *Tracker[E]) RecordBatch(ctx context.Context, items []BatchItem[E]) error {
	for _, item := range items {
		if err := t.Record(ctx, item.Name, item.Input); err != nil {
			return err
		}
	}
	return nil
}

// CompareBatch compares each named snapshot against baseline.
func (t *Tracker[E]) CompareBatch(ctx context.Context, baseline string, names []string) (map[string]float64, error) {
	base, found, err := t.backend.Get(ctx, baseline)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, baseline)
	}

	result := make(map[string]float64, len(names))
	for _, name := range names {
		counts, found, err := t.backend.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
		}

		pair, err := ranking.BuildPair(types.CountMap(base), types.CountMap(counts))
		if err != nil {
			return nil, err
		}
		q, err := divergence.Evaluate(pair.Domain, pair.R1, pair.R2, pair.N1, pair.N2, t.alpha)
		if err != nil {
			return nil, fmt.Errorf("compare %s to %s: %w", baseline, name, err)
		}
		result[name] = q
	}
	return result, nil
}

// RecordAsync records asynchronously.
// Returns a channel that will receive an error or nil when complete.
func (t *Tracker[E]) RecordAsync(ctx context.Context, name string, input types.Input[E]) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		errCh <- t.Record(ctx, name, input)
	}()
	return errCh
}

// CompareResult holds the result of an async Compare operation.
type CompareResult[E comparable] struct {
	Result *Result[E]
	Error  error
}

// CompareAsync compares snapshots asynchronously.
// Returns a channel that will receive the result when complete.
func (t *Tracker[E]) CompareAsync(ctx context.Context, a, b string) <-chan CompareResult[E] {
	resultCh := make(chan CompareResult[E], 1)
	go func() {
		defer close(resultCh)
		res, err := t.Compare(ctx, a, b)
		resultCh <- CompareResult[E]{Result: res, Error: err}
	}()
	return resultCh
}

// RecordText tokenizes text with the tracker's tokenizer and records the
// tokens as observations in snapshot name.
func RecordText(ctx context.Context, t *Tracker[string], name, text string) error {
	tokens, err := t.tokenizer.Tokenize(text)
	if err != nil {
		return fmt.Errorf("tokenize %s: %w", name, err)
	}
	return t.Record(ctx, name, types.Observations(tokens...))
}
