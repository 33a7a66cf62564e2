package model

import (
	"fmt"
)

// Point is a single 2-D observation.
//
// Label is the index of the cluster the point is currently assigned to.
// It is the only field an engine writes; X and Y stay untouched for the
// lifetime of a run.
type Point struct {
	X     float64
	Y     float64
	Label int
}

// String returns a compact representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)@%d", p.X, p.Y, p.Label)
}

// Centroid is a cluster center together with the number of points that
// contributed to it in the update step that produced it.
//
// A centroid whose cluster lost all members keeps the coordinates it had
// before the update and reports Count 0. It is never re-seeded.
type Centroid struct {
	X     float64
	Y     float64
	Count int
}

// String returns a compact representation of the centroid.
func (c Centroid) String() string {
	return fmt.Sprintf("(%.4f, %.4f) n=%d", c.X, c.Y, c.Count)
}
