package engine

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kmeansgo/internal/chunk"
	"github.com/hupe1980/kmeansgo/model"
)

// Parallel runs the loop with fork-join worker teams over contiguous index
// ranges. Each iteration has three regions separated by barriers:
// accumulation into worker-private buffers with a serialized merge,
// normalization over disjoint centroid ranges, and assignment with per-worker
// churn tallies summed after the join. Apart from float summation order in
// the merge, the outcome matches Sequential for an equal random source,
// whatever the worker count.
type Parallel struct {
	Config

	// Workers is the team size for every parallel region. Zero or negative
	// selects runtime.GOMAXPROCS(0).
	Workers int
}

var _ Engine = (*Parallel)(nil)

// Name implements Engine.
func (e *Parallel) Name() string { return "parallel" }

// Run implements Engine.
func (e *Parallel) Run(ctx context.Context, points []model.Point, k int) (*Solution, error) {
	if sol, err := prepare(points, k); sol != nil || err != nil {
		return sol, err
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	log := e.logger()
	n := len(points)
	threshold := convergenceThreshold(n)
	maxIter := e.maxIterations()

	randomLabels(e.Rand, points, k)

	centroids := make([]model.Centroid, k)
	shared := newAccumulator(k)

	// Partitions are fixed for the whole run, so worker-private buffers are
	// allocated once and reset in place each iteration.
	pointRanges := chunk.Ranges(n, workers)
	centroidRanges := chunk.Ranges(k, workers)
	locals := make([]*accumulator, len(pointRanges))
	for i := range locals {
		locals[i] = newAccumulator(k)
	}
	changedBy := make([]int, len(pointRanges))

	var mu sync.Mutex

	var changes []int
	for iter := 1; ; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Accumulation region: private sums, one worker merges at a time.
		shared.reset()
		g, gctx := errgroup.WithContext(ctx)
		for w, r := range pointRanges {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				local := locals[w]
				local.reset()
				for i := r.Start; i < r.End; i++ {
					local.add(&points[i])
				}
				mu.Lock()
				shared.merge(local)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		// Normalization region: disjoint centroid ranges, no locking needed.
		g, gctx = errgroup.WithContext(ctx)
		for _, r := range centroidRanges {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				shared.apply(centroids, r.Start, r.End)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		// Assignment region: per-worker tallies, race-free reduction after the
		// join.
		g, gctx = errgroup.WithContext(ctx)
		for w, r := range pointRanges {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				changedBy[w] = assignRange(points, centroids, r.Start, r.End)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		changed := 0
		for _, c := range changedBy {
			changed += c
		}
		changes = append(changes, changed)

		log.DebugContext(ctx, "iteration complete",
			"engine", e.Name(),
			"iteration", iter,
			"workers", workers,
			"changed", changed,
			"threshold", threshold,
		)

		if changed <= threshold {
			return newSolution(points, centroids, iter, true, changes), nil
		}
		if iter >= maxIter {
			return newSolution(points, centroids, iter, false, changes), ErrMaxIterations
		}
	}
}
