package engine

import (
	"context"
	"io"
	"log/slog"
	"math/rand"

	"github.com/hupe1980/kmeansgo/model"
)

// DefaultMaxIterations bounds the Lloyd loop when Config.MaxIterations is
// left unset.
const DefaultMaxIterations = 1000

// Engine runs Lloyd's algorithm over points, rewriting their labels in place.
type Engine interface {
	// Name returns the stable engine name used in logs and reports.
	Name() string

	// Run clusters points into k groups. Point labels are rewritten;
	// coordinates are never touched. On ErrMaxIterations the returned Solution
	// is still valid and describes the state after the last completed
	// iteration.
	Run(ctx context.Context, points []model.Point, k int) (*Solution, error)
}

// Config carries the knobs shared by all engines.
type Config struct {
	// Rand is the source for the initial random label assignment. When nil,
	// the process-wide source is used, matching the seed-once-per-process
	// behavior of time-seeded benchmarking. Inject a seeded source for
	// reproducible runs; initialization is always sequential, so equal sources
	// give equal initial labels on every engine.
	Rand *rand.Rand

	// MaxIterations caps the Lloyd loop. Zero or negative selects
	// DefaultMaxIterations.
	MaxIterations int

	// Logger receives per-iteration debug lines. nil discards.
	Logger *slog.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.Level(1000), // Unreachable level
}))

func (c Config) maxIterations() int {
	if c.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return c.MaxIterations
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}

// Solution is the outcome of a Run.
type Solution struct {
	// Centroids as produced by the final update step. A centroid with Count 0
	// kept the coordinates it had before that step. Member counts reflect the
	// labels the update step saw; the final assignment may have moved up to
	// threshold points afterwards.
	Centroids []model.Centroid

	// Labels is a copy of the final per-point cluster indexes. The same values
	// are left in the labels of the point slice passed to Run.
	Labels []int

	// Iterations is the number of update+assign passes executed. Zero for the
	// degenerate k <= 1 and k >= n paths.
	Iterations int

	// Converged reports whether the churn threshold stopped the loop, as
	// opposed to the iteration cap.
	Converged bool

	// Changes records how many points switched cluster in each iteration.
	Changes []int
}

// prepare validates the input and resolves the degenerate cases that skip the
// loop. It returns a non-nil Solution for k <= 1 and k >= n, an error for an
// empty dataset, and (nil, nil) when the full loop must run.
func prepare(points []model.Point, k int) (*Solution, error) {
	if len(points) == 0 {
		return nil, ErrEmptyDataset
	}
	if k <= 1 {
		return singleCluster(points), nil
	}
	if k >= len(points) {
		return singletonClusters(points, k), nil
	}
	return nil, nil
}

// singleCluster is the k <= 1 path: one centroid at the arithmetic mean,
// every label 0, no iteration.
func singleCluster(points []model.Point) *Solution {
	var sumX, sumY float64
	for i := range points {
		points[i].Label = 0
		sumX += points[i].X
		sumY += points[i].Y
	}

	n := len(points)
	centroid := model.Centroid{
		X:     sumX / float64(n),
		Y:     sumY / float64(n),
		Count: n,
	}

	return &Solution{
		Centroids: []model.Centroid{centroid},
		Labels:    labelsOf(points),
		Converged: true,
	}
}

// singletonClusters is the k >= n path: point i becomes the sole member of
// centroid i, in input order. Centroids beyond n stay zero-valued with
// Count 0.
func singletonClusters(points []model.Point, k int) *Solution {
	centroids := make([]model.Centroid, k)
	for i := range points {
		points[i].Label = i
		centroids[i] = model.Centroid{X: points[i].X, Y: points[i].Y, Count: 1}
	}

	return &Solution{
		Centroids: centroids,
		Labels:    labelsOf(points),
		Converged: true,
	}
}

func labelsOf(points []model.Point) []int {
	labels := make([]int, len(points))
	for i := range points {
		labels[i] = points[i].Label
	}
	return labels
}

func newSolution(points []model.Point, centroids []model.Centroid, iterations int, converged bool, changes []int) *Solution {
	return &Solution{
		Centroids:  centroids,
		Labels:     labelsOf(points),
		Iterations: iterations,
		Converged:  converged,
		Changes:    changes,
	}
}
