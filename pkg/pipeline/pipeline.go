// CLAUDE:SUMMARY Clean -> Tag -> Normalize for one address, and an order-preserving bounded worker pool for batches.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/addrnorm/pkg/address"
	"github.com/hazyhaar/addrnorm/pkg/tagger"
)

// Result is the normalized form of one input.
type Result struct {
	Input   string          `json:"input"`
	Fields  address.Fields  `json:"fields"`
	Removed []address.Field `json:"removed"`
}

// Populated counts the fields present.
func (r Result) Populated() int { return len(r.Fields) }

// Pipeline wires the pre-clean, a tagger and a normalizer.
type Pipeline struct {
	norm    *address.Normalizer
	tagger  tagger.Tagger
	workers int
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds the number of addresses processed concurrently by Batch.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger used for per-item debug output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New returns a Pipeline. Batch defaults to one worker per CPU.
func New(norm *address.Normalizer, t tagger.Tagger, opts ...Option) *Pipeline {
	p := &Pipeline{
		norm:    norm,
		tagger:  t,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Workers returns the batch concurrency limit.
func (p *Pipeline) Workers() int { return p.workers }

// Process normalizes one raw address. Input with nothing to tag yields an
// empty result rather than an error; the caller decides whether that is
// unparseable.
func (p *Pipeline) Process(ctx context.Context, raw string) (Result, error) {
	res := Result{Input: raw, Fields: address.Fields{}, Removed: []address.Field{}}
	tagging, err := p.tagger.Tag(ctx, p.norm.Clean(raw))
	if errors.Is(err, tagger.ErrEmpty) {
		return res, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("tag: %w", err)
	}
	if _, ok := tagging.(address.Ambiguous); ok {
		p.logger.Debug("ambiguous tagging", "input", raw)
	}
	res.Fields, res.Removed = p.norm.Normalize(tagging)
	return res, nil
}

// Batch processes inputs concurrently. Results keep the input order. A
// cancelled context stops scheduling and its error is returned.
func (p *Pipeline) Batch(ctx context.Context, inputs []string) ([]Result, error) {
	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, raw := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := p.Process(gctx, raw)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
