// Package engine implements Lloyd's algorithm over 2-D points with three
// interchangeable execution strategies.
//
//   - Sequential: the single-goroutine baseline
//   - Parallel: shared-memory fork-join with worker-private accumulation buffers
//   - Offload: host-driven loop with the reassignment step executed on a device
//
// All three share the host-side primitives in this package (random label
// initialization, centroid accumulation, the churn-based stop rule), so for a
// given random source they walk through the same iterations and produce the
// same labels, up to float summation order in the parallel update.
//
// # Loop shape
//
// Each iteration first rebuilds every centroid from scratch (zero, accumulate,
// divide) from the current labels, then reassigns every point to its nearest
// centroid. The loop stops once the number of points that changed cluster in
// an iteration drops to n/10000 or below (integer division). Small datasets
// therefore demand zero churn. If the iteration cap is hit first, Run returns
// the Solution so far together with ErrMaxIterations.
//
// A cluster that loses all members keeps the centroid coordinates it had
// before the update and reports a zero count; it is never re-seeded.
//
// # Degenerate inputs
//
// k <= 1 and k >= n skip the loop entirely. The first collapses to a single
// mean cluster with every label 0. The second pins point i to its own
// singleton centroid i, in input order; when k > n the remaining centroids
// stay zero-valued with a zero count.
package engine
