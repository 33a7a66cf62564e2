// Package distance provides the scalar distance kernel and the
// nearest-centroid classifier shared by every execution engine.
//
// The classifier's tie-break is part of the clustering contract: when two
// centroids are equidistant from a point, the lower index wins. Every engine,
// including the device kernel, must classify through this package so the rule
// is applied uniformly.
package distance

import (
	"math"

	"github.com/hupe1980/kmeansgo/model"
)

// SquaredL2 returns the squared Euclidean distance between (x1, y1) and
// (x2, y2). The square root is never taken: ordering by squared distance is
// identical and the classifier only compares.
func SquaredL2(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// NearestCentroid returns the index of the centroid closest to (x, y).
//
// The scan keeps the first minimum and replaces it only on a strictly smaller
// distance, so ties resolve to the lowest index. Reordering centroids changes
// tie results; callers must keep centroid order stable across iterations.
//
// Returns -1 when centroids is empty.
func NearestCentroid(x, y float64, centroids []model.Centroid) int {
	best := -1
	minDist := math.MaxFloat64

	for i := range centroids {
		if d := SquaredL2(x, y, centroids[i].X, centroids[i].Y); d < minDist {
			minDist = d
			best = i
		}
	}

	return best
}

// Nearest is the structure-of-arrays form of NearestCentroid, used at the
// device boundary where centroids travel as parallel coordinate slices.
// Tie-breaking matches NearestCentroid exactly.
//
// Returns -1 when cx is empty. Assumes len(cx) == len(cy) (caller's
// responsibility).
func Nearest(x, y float64, cx, cy []float64) int {
	best := -1
	minDist := math.MaxFloat64

	for i := range cx {
		if d := SquaredL2(x, y, cx[i], cy[i]); d < minDist {
			minDist = d
			best = i
		}
	}

	return best
}
