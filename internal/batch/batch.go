// Package batch runs many compositions with bounded concurrency and
// collects per-job outcomes into a run report.
package batch

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/storyframe/internal/engine"
)

// DefaultConcurrency is the wave size: at most this many compositions
// run at once, and a wave is fully drained before the next one starts.
const DefaultConcurrency = 5

// Composer is the per-job composition entry point. engine.Engine is the
// production implementation.
type Composer interface {
	Compose(ctx context.Context, req engine.Request) (*engine.Result, error)
}

// Job is one composition in a batch run.
type Job struct {
	ID      int
	Request engine.Request
}

// Outcome pairs a job with what happened to it. Err holds validation
// errors; processing failures surface through Result.Success instead.
type Outcome struct {
	Job    Job
	Result *engine.Result
	Err    error
}

// Runner executes jobs in fixed-size waves. A job failure never aborts
// the run; every job gets its outcome recorded.
type Runner struct {
	Composer    Composer
	Concurrency int
	Log         *zap.Logger
}

// NewRunner creates a runner over the given composer.
func NewRunner(c Composer, concurrency int, log *zap.Logger) *Runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Composer: c, Concurrency: concurrency, Log: log}
}

// Run composes every job and returns outcomes in job order. Jobs are
// processed wave by wave: each wave of up to Concurrency jobs runs
// concurrently and completes entirely before the next wave begins, so
// peak memory stays bounded by the wave size.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Outcome {
	outcomes := make([]Outcome, len(jobs))

	for start := 0; start < len(jobs); start += r.Concurrency {
		end := start + r.Concurrency
		if end > len(jobs) {
			end = len(jobs)
		}

		r.Log.Info("batch wave",
			zap.Int("from", start+1),
			zap.Int("to", end),
			zap.Int("total", len(jobs)),
		)

		g, waveCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				res, err := r.Composer.Compose(waveCtx, jobs[i].Request)
				outcomes[i] = Outcome{Job: jobs[i], Result: res, Err: err}
				if err != nil {
					r.Log.Warn("job rejected",
						zap.Int("job", jobs[i].ID),
						zap.Error(err),
					)
				}
				// Errors stay in the outcome so the wave never cancels
				// its siblings.
				return nil
			})
		}
		// Only ctx cancellation can surface here; per-job errors are
		// already captured.
		if err := g.Wait(); err != nil {
			r.Log.Warn("batch wave interrupted", zap.Error(err))
		}

		if ctx.Err() != nil {
			for i := end; i < len(jobs); i++ {
				outcomes[i] = Outcome{Job: jobs[i], Err: ctx.Err()}
			}
			break
		}
	}

	return outcomes
}
