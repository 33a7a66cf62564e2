package kmeansgo

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/kmeansgo/engine"
	"github.com/hupe1980/kmeansgo/model"
)

// Termination reports why a run stopped.
type Termination int

const (
	// TerminationConverged means churn fell to the convergence threshold.
	TerminationConverged Termination = iota

	// TerminationMaxIterations means the iteration cap stopped the run
	// before convergence. The paired Result is the state after the last
	// completed iteration.
	TerminationMaxIterations
)

// String returns the stable termination name used in logs and reports.
func (t Termination) String() string {
	switch t {
	case TerminationConverged:
		return "converged"
	case TerminationMaxIterations:
		return "max_iterations"
	default:
		return fmt.Sprintf("termination(%d)", int(t))
	}
}

// Result is the outcome of one clustering run.
type Result struct {
	// Engine identifies the strategy that produced the result.
	Engine Engine

	// Centroids holds the cluster centers from the final update step. A
	// centroid whose cluster lost all members kept its previous coordinates
	// and reports Count 0.
	Centroids []model.Centroid

	// Labels holds the final cluster index of every input point, in input
	// order. The same values are left on the points passed to Cluster.
	Labels []int

	// Iterations is the number of update+assign passes executed. Zero for
	// the degenerate k <= 1 and k >= n paths.
	Iterations int

	// Changes records how many points switched cluster in each iteration.
	Changes []int

	// Termination reports why the run stopped.
	Termination Termination

	membersOnce sync.Once
	members     []*roaring.Bitmap
}

func newResult(kind Engine, sol *engine.Solution) *Result {
	term := TerminationConverged
	if !sol.Converged {
		term = TerminationMaxIterations
	}

	return &Result{
		Engine:      kind,
		Centroids:   sol.Centroids,
		Labels:      sol.Labels,
		Iterations:  sol.Iterations,
		Changes:     sol.Changes,
		Termination: term,
	}
}

// K returns the number of clusters in the result.
func (r *Result) K() int {
	return len(r.Centroids)
}

// TotalCount returns the sum of member counts across all centroids. After
// any completed update step it equals the number of input points.
func (r *Result) TotalCount() int {
	total := 0
	for _, c := range r.Centroids {
		total += c.Count
	}
	return total
}

// Members returns the set of point indexes carrying the given cluster's
// label. All bitmaps are built on first use and shared afterwards; treat
// them as read-only. Returns nil when cluster is out of range.
//
// Membership reflects the final Labels. Centroid counts come from the
// update step that preceded the final assignment, so a cardinality may
// differ from the matching Count by up to the churn threshold.
func (r *Result) Members(cluster int) *roaring.Bitmap {
	if cluster < 0 || cluster >= len(r.Centroids) {
		return nil
	}

	r.membersOnce.Do(func() {
		r.members = make([]*roaring.Bitmap, len(r.Centroids))
		for i := range r.members {
			r.members[i] = roaring.New()
		}
		for i, l := range r.Labels {
			if l >= 0 && l < len(r.members) {
				r.members[l].Add(uint32(i)) //nolint:gosec // point indexes fit uint32
			}
		}
	})

	return r.members[cluster]
}
