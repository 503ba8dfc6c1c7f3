package classify

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"piiredact/internal/core/labels"
	"piiredact/internal/core/span"
	perr "piiredact/internal/platform/errors"
	"piiredact/internal/platform/logger"
)

// DefaultMaxBatch caps candidates per request
const DefaultMaxBatch = 40

// Options tunes the runner
type Options struct {
	// Workers bounds in-flight classifier calls (0 = GOMAXPROCS)
	Workers int
	// MaxBatch caps candidates per request (0 = DefaultMaxBatch)
	MaxBatch int
	// RPS paces outbound calls; 0 disables pacing
	RPS   float64
	Burst int
}

// DefaultOptions is 4 workers, 40 per batch, unpaced
func DefaultOptions() Options { return Options{Workers: 4, MaxBatch: DefaultMaxBatch} }

// Runner drives a Classifier over many chunks
type Runner struct {
	clf     Classifier
	opts    Options
	limiter *rate.Limiter
}

// NewRunner builds a runner around clf
func NewRunner(clf Classifier, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = DefaultMaxBatch
	}
	r := &Runner{clf: clf, opts: opts}
	if opts.RPS > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.RPS), max(opts.Burst, 1))
	}
	return r
}

// Run classifies every chunk and merges replies in chunk then batch order.
// Unknown ids are ignored and labels outside the canonical set are dropped;
// "none" is kept. The first failing call cancels the rest
func (r *Runner) Run(ctx context.Context, chunks []span.Chunk) (span.Classification, error) {
	var batches []Batch
	for i, c := range chunks {
		batches = append(batches, Batches(i, c, r.opts.MaxBatch)...)
	}
	out := span.Classification{}
	if len(batches) == 0 {
		return out, nil
	}

	log := logger.C(ctx).With().Str("component", "classify").Logger()
	replies := make([]Response, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, b := range batches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return perr.FromContext(err, "classify: aborted")
			}
			if r.limiter != nil {
				if err := r.limiter.Wait(gctx); err != nil {
					return perr.FromContext(err, "classify: pacing")
				}
			}
			resp, err := r.clf.Classify(gctx, b.Request)
			if err != nil {
				return perr.WithOp(perr.FromContext(err, "classify: call failed"), "classify")
			}
			replies[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Int("batches", len(batches)).Msg("classifier run failed")
		return nil, err
	}

	dropped := 0
	for i, b := range batches {
		for id, lbl := range replies[i].Labels {
			if id < 0 || id >= len(b.Spans) || !labels.IsCanonical(lbl) {
				dropped++
				continue
			}
			out[b.Spans[id]] = lbl
		}
	}
	log.Debug().Int("chunks", len(chunks)).Int("batches", len(batches)).
		Int("labels", len(out)).Int("dropped", dropped).Msg("classifier run done")
	return out, nil
}
