package engine

import (
	"math/rand"

	"github.com/hupe1980/kmeansgo/distance"
	"github.com/hupe1980/kmeansgo/model"
)

// convergenceThreshold returns the churn level at which the loop stops: one
// ten-thousandth of the dataset, rounded down.
func convergenceThreshold(n int) int {
	return n / 10000
}

// randomLabels assigns every point a uniform random cluster in [0, k).
func randomLabels(rnd *rand.Rand, points []model.Point, k int) {
	if rnd == nil {
		for i := range points {
			points[i].Label = rand.Intn(k)
		}
		return
	}
	for i := range points {
		points[i].Label = rnd.Intn(k)
	}
}

// accumulator collects per-cluster coordinate sums and member counts for one
// update step. Parallel workers keep private accumulators and fold them into
// a shared one, so merge is the only operation that needs external locking.
type accumulator struct {
	sumX  []float64
	sumY  []float64
	count []int
}

func newAccumulator(k int) *accumulator {
	return &accumulator{
		sumX:  make([]float64, k),
		sumY:  make([]float64, k),
		count: make([]int, k),
	}
}

func (a *accumulator) reset() {
	for i := range a.count {
		a.sumX[i] = 0
		a.sumY[i] = 0
		a.count[i] = 0
	}
}

// add folds one point into its cluster's running sums.
func (a *accumulator) add(p *model.Point) {
	a.sumX[p.Label] += p.X
	a.sumY[p.Label] += p.Y
	a.count[p.Label]++
}

// merge folds other into a. The caller serializes concurrent merges.
func (a *accumulator) merge(other *accumulator) {
	for i := range a.count {
		a.sumX[i] += other.sumX[i]
		a.sumY[i] += other.sumY[i]
		a.count[i] += other.count[i]
	}
}

// apply rewrites centroids[start:end] from the accumulated sums. A cluster
// with no members keeps its previous coordinates and gets Count 0.
func (a *accumulator) apply(centroids []model.Centroid, start, end int) {
	for j := start; j < end; j++ {
		if a.count[j] > 0 {
			centroids[j].X = a.sumX[j] / float64(a.count[j])
			centroids[j].Y = a.sumY[j] / float64(a.count[j])
		}
		centroids[j].Count = a.count[j]
	}
}

// assignRange reassigns points[start:end] to their nearest centroid and
// returns how many labels changed.
func assignRange(points []model.Point, centroids []model.Centroid, start, end int) int {
	changed := 0
	for i := start; i < end; i++ {
		best := distance.NearestCentroid(points[i].X, points[i].Y, centroids)
		if best != points[i].Label {
			points[i].Label = best
			changed++
		}
	}
	return changed
}
