package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/kmeansgo/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// NormFloat64 returns a standard-normal pseudo-random number.
func (r *RNG) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.NormFloat64()
}

// Rand returns an unshared, identically-seeded source for injection into
// engines. The returned source is independent of the RNG's own stream.
func (r *RNG) Rand() *rand.Rand {
	return rand.New(rand.NewSource(r.seed))
}

// UniformPoints generates points with coordinates in [lo, hi).
// Locks only once per call.
func (r *RNG) UniformPoints(num int, lo, hi float64) []model.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := hi - lo
	points := make([]model.Point, num)
	for i := range points {
		points[i] = model.Point{
			X: lo + r.rand.Float64()*span,
			Y: lo + r.rand.Float64()*span,
		}
	}

	return points
}

// ClusteredPoints generates points grouped around random cluster centers.
// Centers are uniform in [0, 100)^2 and points are assigned round-robin with
// Gaussian noise of the given spread. Useful for convergence tests on
// non-uniform data.
func (r *RNG) ClusteredPoints(num, clusters int, spread float64) []model.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([]model.Point, clusters)
	for i := range centers {
		centers[i] = model.Point{
			X: r.rand.Float64() * 100,
			Y: r.rand.Float64() * 100,
		}
	}

	points := make([]model.Point, num)
	for i := range points {
		c := centers[i%clusters]
		points[i] = model.Point{
			X: c.X + r.rand.NormFloat64()*spread,
			Y: c.Y + r.rand.NormFloat64()*spread,
		}
	}

	return points
}

// SeparatedPoints generates points grouped around the given centers,
// round-robin with Gaussian noise of the given spread. Choose centers far
// apart relative to spread to make the true clustering unambiguous.
func (r *RNG) SeparatedPoints(num int, centers []model.Point, spread float64) []model.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]model.Point, num)
	for i := range points {
		c := centers[i%len(centers)]
		points[i] = model.Point{
			X: c.X + r.rand.NormFloat64()*spread,
			Y: c.Y + r.rand.NormFloat64()*spread,
		}
	}

	return points
}

// GridPoints generates an evenly spaced rows x cols lattice with the given
// step, starting at the origin. Deterministic; handy for exact-arithmetic
// assertions.
func GridPoints(rows, cols int, step float64) []model.Point {
	points := make([]model.Point, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			points = append(points, model.Point{
				X: float64(c) * step,
				Y: float64(r) * step,
			})
		}
	}
	return points
}
