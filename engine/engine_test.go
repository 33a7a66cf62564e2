package engine

import (
	"context"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeansgo/device"
	"github.com/hupe1980/kmeansgo/model"
	"github.com/hupe1980/kmeansgo/testutil"
)

func seededConfig(seed int64) Config {
	return Config{Rand: rand.New(rand.NewSource(seed))}
}

// allEngines builds one engine of each kind, each with its own identically
// seeded source so initial labels match across them.
func allEngines(seed int64) []Engine {
	return []Engine{
		&Sequential{Config: seededConfig(seed)},
		&Parallel{Config: seededConfig(seed), Workers: 4},
		&Offload{Config: seededConfig(seed), Device: device.NewSim()},
	}
}

func blobs(n int) []model.Point {
	centers := []model.Point{
		{X: 10, Y: 10},
		{X: 90, Y: 12},
		{X: 50, Y: 85},
	}
	return testutil.NewRNG(1).SeparatedPoints(n, centers, 1.0)
}

func TestEngineNames(t *testing.T) {
	assert.Equal(t, "sequential", (&Sequential{}).Name())
	assert.Equal(t, "parallel", (&Parallel{}).Name())
	assert.Equal(t, "offload", (&Offload{}).Name())
}

func TestEnginesEmptyDataset(t *testing.T) {
	ctx := context.Background()

	for _, eng := range allEngines(1) {
		t.Run(eng.Name(), func(t *testing.T) {
			sol, err := eng.Run(ctx, nil, 3)
			assert.Nil(t, sol)
			assert.ErrorIs(t, err, ErrEmptyDataset)

			sol, err = eng.Run(ctx, []model.Point{}, 3)
			assert.Nil(t, sol)
			assert.ErrorIs(t, err, ErrEmptyDataset)
		})
	}
}

func TestEnginesSingleCluster(t *testing.T) {
	ctx := context.Background()

	for _, eng := range allEngines(1) {
		t.Run(eng.Name(), func(t *testing.T) {
			for _, k := range []int{1, 0, -2} {
				points := []model.Point{
					{X: 0, Y: 0, Label: 9},
					{X: 6, Y: 0, Label: 9},
					{X: 0, Y: 6, Label: 9},
					{X: 6, Y: 6, Label: 9},
				}

				sol, err := eng.Run(ctx, points, k)
				require.NoError(t, err, "k=%d", k)

				assert.Equal(t, []model.Centroid{{X: 3, Y: 3, Count: 4}}, sol.Centroids)
				assert.Equal(t, []int{0, 0, 0, 0}, sol.Labels)
				assert.Equal(t, 0, sol.Iterations)
				assert.True(t, sol.Converged)
			}
		})
	}
}

func TestEnginesSingletons(t *testing.T) {
	ctx := context.Background()
	const n = 1000

	for _, eng := range allEngines(1) {
		t.Run(eng.Name(), func(t *testing.T) {
			points := testutil.NewRNG(2).UniformPoints(n, 0, 100)

			sol, err := eng.Run(ctx, points, n)
			require.NoError(t, err)

			require.Len(t, sol.Centroids, n)
			total := 0
			for i, c := range sol.Centroids {
				assert.Equal(t, i, sol.Labels[i])
				assert.Equal(t, points[i].X, c.X)
				assert.Equal(t, points[i].Y, c.Y)
				assert.Equal(t, 1, c.Count)
				total += c.Count
			}
			assert.Equal(t, n, total)
			assert.Equal(t, 0, sol.Iterations)
		})
	}
}

func TestEnginesConverge(t *testing.T) {
	ctx := context.Background()
	const n, k = 300, 3

	for _, eng := range allEngines(7) {
		t.Run(eng.Name(), func(t *testing.T) {
			points := blobs(n)

			sol, err := eng.Run(ctx, points, k)
			require.NoError(t, err)
			require.True(t, sol.Converged)
			require.Len(t, sol.Centroids, k)
			require.Len(t, sol.Labels, n)
			assert.Equal(t, sol.Iterations, len(sol.Changes))
			assert.GreaterOrEqual(t, sol.Iterations, 1)

			// Member counts from the final update cover the whole dataset.
			total := 0
			for _, c := range sol.Centroids {
				total += c.Count
			}
			assert.Equal(t, n, total)

			for _, l := range sol.Labels {
				assert.GreaterOrEqual(t, l, 0)
				assert.Less(t, l, k)
			}

			// Post-hoc stability: reassigning against the returned centroids
			// moves no more than the churn threshold (zero for n=300).
			replay := slices.Clone(points)
			assert.LessOrEqual(t, assignRange(replay, sol.Centroids, 0, n), convergenceThreshold(n))
		})
	}
}

func TestEnginesSeedDeterminism(t *testing.T) {
	ctx := context.Background()
	const n, k, seed = 300, 3, 11

	t.Run("sequential", func(t *testing.T) {
		first, err := (&Sequential{Config: seededConfig(seed)}).Run(ctx, blobs(n), k)
		require.NoError(t, err)
		second, err := (&Sequential{Config: seededConfig(seed)}).Run(ctx, blobs(n), k)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("offload", func(t *testing.T) {
		first, err := (&Offload{Config: seededConfig(seed), Device: device.NewSim()}).Run(ctx, blobs(n), k)
		require.NoError(t, err)
		second, err := (&Offload{Config: seededConfig(seed), Device: device.NewSim()}).Run(ctx, blobs(n), k)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("parallel", func(t *testing.T) {
		// Merge order varies between runs, so centroid bits may wobble within
		// float tolerance; labels must not.
		first, err := (&Parallel{Config: seededConfig(seed), Workers: 4}).Run(ctx, blobs(n), k)
		require.NoError(t, err)
		second, err := (&Parallel{Config: seededConfig(seed), Workers: 4}).Run(ctx, blobs(n), k)
		require.NoError(t, err)

		assert.Equal(t, first.Labels, second.Labels)
		assert.Equal(t, first.Iterations, second.Iterations)
		requireCentroidsInEpsilon(t, first.Centroids, second.Centroids)
	})
}

func requireCentroidsInEpsilon(t *testing.T, want, got []model.Centroid) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InEpsilon(t, want[i].X, got[i].X, 1e-9, "centroid %d X", i)
		require.InEpsilon(t, want[i].Y, got[i].Y, 1e-9, "centroid %d Y", i)
		require.Equal(t, want[i].Count, got[i].Count, "centroid %d count", i)
	}
}

func TestCrossEngineEquivalence(t *testing.T) {
	ctx := context.Background()
	const n, k, seed = 300, 3, 23

	seq, err := (&Sequential{Config: seededConfig(seed)}).Run(ctx, blobs(n), k)
	require.NoError(t, err)

	t.Run("OffloadExact", func(t *testing.T) {
		// The offload engine updates on the host in the same order and the
		// device kernel evaluates the same float expressions, so the match is
		// bit-exact.
		off, err := (&Offload{Config: seededConfig(seed), Device: device.NewSim()}).Run(ctx, blobs(n), k)
		require.NoError(t, err)
		assert.Equal(t, seq, off)
	})

	t.Run("ParallelWithinTolerance", func(t *testing.T) {
		par, err := (&Parallel{Config: seededConfig(seed), Workers: 4}).Run(ctx, blobs(n), k)
		require.NoError(t, err)

		assert.Equal(t, seq.Labels, par.Labels)
		assert.Equal(t, seq.Iterations, par.Iterations)
		assert.Equal(t, seq.Changes, par.Changes)
		requireCentroidsInEpsilon(t, seq.Centroids, par.Centroids)
	})
}

func TestEnginesMaxIterations(t *testing.T) {
	ctx := context.Background()
	const n, k, seed = 1000, 8, 5

	configs := []Engine{
		&Sequential{Config: Config{Rand: rand.New(rand.NewSource(seed)), MaxIterations: 1}},
		&Parallel{Config: Config{Rand: rand.New(rand.NewSource(seed)), MaxIterations: 1}, Workers: 4},
		&Offload{Config: Config{Rand: rand.New(rand.NewSource(seed)), MaxIterations: 1}, Device: device.NewSim()},
	}

	for _, eng := range configs {
		t.Run(eng.Name(), func(t *testing.T) {
			// Uniform data with random initial labels churns heavily in the
			// first iteration, so a cap of one is always hit.
			points := testutil.NewRNG(3).UniformPoints(n, 0, 100)

			sol, err := eng.Run(ctx, points, k)
			require.ErrorIs(t, err, ErrMaxIterations)
			require.NotNil(t, sol)

			assert.False(t, sol.Converged)
			assert.Equal(t, 1, sol.Iterations)
			require.Len(t, sol.Changes, 1)
			assert.Greater(t, sol.Changes[0], convergenceThreshold(n))
			assert.Len(t, sol.Labels, n)
			assert.Len(t, sol.Centroids, k)
		})
	}
}

func TestEnginesContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, eng := range allEngines(1) {
		t.Run(eng.Name(), func(t *testing.T) {
			sol, err := eng.Run(ctx, blobs(100), 3)
			assert.Nil(t, sol)
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	assert.Equal(t, DefaultMaxIterations, c.maxIterations())
	assert.NotNil(t, c.logger())

	c = Config{MaxIterations: 7}
	assert.Equal(t, 7, c.maxIterations())
}
