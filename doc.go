// Package kmeansgo implements Lloyd's k-means clustering over 2-D points
// with three interchangeable execution engines:
//
//   - EngineSequential: single-goroutine baseline
//   - EngineParallel: shared-memory fork-join with worker-private accumulation
//   - EngineOffload: host loop with the reassignment step run on a device
//
// All engines iterate the same update/assign loop and stop once the number
// of points that change cluster in an iteration drops to one ten-thousandth
// of the dataset. Given equal random sources they produce identical label
// assignments; only the parallel engine's centroids may differ within float
// summation tolerance.
//
// # Quick Start
//
// Cluster points with the default sequential engine:
//
//	ctx := context.Background()
//	result, err := kmeansgo.Cluster(ctx, points, 5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, c := range result.Centroids {
//	    fmt.Printf("Cluster %d: centroid (%.4f, %.4f), points=%d\n", i, c.X, c.Y, c.Count)
//	}
//
// Or build a reusable Clusterer:
//
//	clusterer, err := kmeansgo.New(
//	    kmeansgo.WithEngine(kmeansgo.EngineParallel),
//	    kmeansgo.WithWorkers(8),
//	    kmeansgo.WithSeed(42),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := clusterer.Cluster(ctx, points, 5)
//
// # Engine Selection
//
// Pick the engine by workload:
//   - EngineSequential: small inputs, exact reproducibility for a seed
//   - EngineParallel: large n on multi-core hosts; WithWorkers sets the team
//   - EngineOffload: very large n*k, reassignment shipped to a device
//
// # Randomness and Reproducibility
//
// Initial labels are drawn from the configured random source. By default
// that is the process-wide source, so results differ run to run. WithSeed
// pins the full outcome: equal seeds give equal labels on every engine, and
// bit-identical centroids on the sequential and offload engines.
//
// Repeated Cluster calls on one Clusterer keep drawing from the same source,
// so within a run the calls are not independent replays. Build a fresh
// Clusterer (or pass WithSeed again) to restart the stream.
//
// # Iteration Cap
//
// Runs are bounded by WithMaxIterations (default 1000). If the churn
// threshold is not reached in time, Cluster returns the last state together
// with ErrDidNotConverge; the Result remains valid and Termination reports
// the cause.
package kmeansgo
