package engine

import (
	"context"

	"github.com/hupe1980/kmeansgo/device"
	"github.com/hupe1980/kmeansgo/model"
)

// Offload keeps the loop on the host and ships the reassignment step to a
// device every iteration. Coordinates, centroids and current labels are
// staged into flat buffers and transferred on each invocation: the point
// arrays dominate the traffic and are deliberately re-sent rather than cached
// on the device, trading bandwidth for a stateless device contract.
//
// The host update step runs sequentially, so for an equal random source the
// labels and centroids match Sequential bit for bit.
type Offload struct {
	Config

	// Device executes the reassignment kernel. Required.
	Device device.Device
}

var _ Engine = (*Offload)(nil)

// Name implements Engine.
func (e *Offload) Name() string { return "offload" }

// Run implements Engine.
func (e *Offload) Run(ctx context.Context, points []model.Point, k int) (*Solution, error) {
	if e.Device == nil {
		return nil, ErrNilDevice
	}
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

	// Staging buffers live for the whole run; the device copies them in and
	// out per invocation. Coordinates never change after this fill.
	px := make([]float64, n)
	py := make([]float64, n)
	for i := range points {
		px[i] = points[i].X
		py[i] = points[i].Y
	}
	labels := make([]int32, n)
	cx := make([]float64, k)
	cy := make([]float64, k)

	var changes []int
	for iter := 1; ; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Host update step.
		acc.reset()
		for i := range points {
			acc.add(&points[i])
		}
		acc.apply(centroids, 0, k)

		// Stage the per-iteration inputs and run the offload region.
		for j := range centroids {
			cx[j] = centroids[j].X
			cy[j] = centroids[j].Y
		}
		for i := range points {
			labels[i] = int32(points[i].Label)
		}

		out, err := e.Device.Assign(ctx, device.AssignInput{
			PX:     px,
			PY:     py,
			CX:     cx,
			CY:     cy,
			Labels: labels,
		})
		if err != nil {
			return nil, err
		}

		for i := range points {
			points[i].Label = int(out.Labels[i])
		}
		changes = append(changes, out.Changed)

		log.DebugContext(ctx, "iteration complete",
			"engine", e.Name(),
			"iteration", iter,
			"device", e.Device.Info().Name,
			"changed", out.Changed,
			"threshold", threshold,
		)

		if out.Changed <= threshold {
			return newSolution(points, centroids, iter, true, changes), nil
		}
		if iter >= maxIter {
			return newSolution(points, centroids, iter, false, changes), ErrMaxIterations
		}
	}
}
