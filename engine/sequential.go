package engine

import (
	"context"

	"github.com/hupe1980/kmeansgo/model"
)

// Sequential is the single-goroutine baseline. The other engines are measured
// against it and must produce the same labels for an equal random source.
type Sequential struct {
	Config
}

var _ Engine = (*Sequential)(nil)

// Name implements Engine.
func (e *Sequential) Name() string { return "sequential" }

// Run implements Engine.
func (e *Sequential) Run(ctx context.Context, points []model.Point, k int) (*Solution, error) {
	if sol, err := prepare(points, k); sol != nil || err != nil {
		return sol, err
	}

	log := e.logger()
	n := len(points)
	threshold := convergenceThreshold(n)
	maxIter := e.maxIterations()

	randomLabels(e.Rand, points, k)

	centroids := make([]model.Centroid, k)
	acc := newAccumulator(k)

	var changes []int
	for iter := 1; ; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Update step: rebuild every centroid from the current labels.
		acc.reset()
		for i := range points {
			acc.add(&points[i])
		}
		acc.apply(centroids, 0, k)

		// Assignment step.
		changed := assignRange(points, centroids, 0, n)
		changes = append(changes, changed)

		log.DebugContext(ctx, "iteration complete",
			"engine", e.Name(),
			"iteration", iter,
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
