// Package testutil provides testing utilities for kmeansgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source and generators for
// synthetic 2-D datasets.
//
// # Synthetic Datasets
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(1000, 0, 100)            // uniform square
//	pts = rng.ClusteredPoints(1000, 5, 0.5)           // blobs, random centers
//	pts = rng.SeparatedPoints(200, centers, 0.5)      // blobs, explicit centers
//
// All generators return points with Label 0.
package testutil
