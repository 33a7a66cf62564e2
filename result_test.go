package kmeansgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeansgo/engine"
	"github.com/hupe1980/kmeansgo/model"
)

func TestResultMembers(t *testing.T) {
	result := newResult(EngineSequential, &engine.Solution{
		Centroids: []model.Centroid{
			{X: 0, Y: 0, Count: 2},
			{X: 10, Y: 10, Count: 3},
		},
		Labels:    []int{0, 1, 1, 0, 1},
		Converged: true,
	})

	zero := result.Members(0)
	require.NotNil(t, zero)
	assert.Equal(t, uint64(2), zero.GetCardinality())
	assert.True(t, zero.Contains(0))
	assert.True(t, zero.Contains(3))

	one := result.Members(1)
	require.NotNil(t, one)
	assert.Equal(t, uint64(3), one.GetCardinality())
	assert.True(t, one.Contains(1))
	assert.True(t, one.Contains(2))
	assert.True(t, one.Contains(4))

	// Same backing bitmaps on repeated calls.
	assert.Same(t, zero, result.Members(0))

	// Out of range.
	assert.Nil(t, result.Members(-1))
	assert.Nil(t, result.Members(2))
}

func TestResultMembersCoverAllPoints(t *testing.T) {
	ctx := context.Background()
	const n, k = 300, 3

	result, err := Cluster(ctx, testBlobs(n), k, WithSeed(7))
	require.NoError(t, err)

	var total uint64
	for i := 0; i < result.K(); i++ {
		total += result.Members(i).GetCardinality()
	}
	assert.Equal(t, uint64(n), total)

	// Converged with threshold 0 at this size, so the final assignment
	// changed nothing and membership cardinalities match the counts.
	for i, c := range result.Centroids {
		assert.Equal(t, uint64(c.Count), result.Members(i).GetCardinality(), "cluster %d", i)
	}
}

func TestResultTotalCount(t *testing.T) {
	result := &Result{
		Centroids: []model.Centroid{
			{Count: 5},
			{Count: 0},
			{Count: 12},
		},
	}
	assert.Equal(t, 17, result.TotalCount())

	assert.Equal(t, 0, (&Result{}).TotalCount())
}

func TestNewResultTermination(t *testing.T) {
	converged := newResult(EngineParallel, &engine.Solution{Converged: true})
	assert.Equal(t, TerminationConverged, converged.Termination)
	assert.Equal(t, EngineParallel, converged.Engine)

	capped := newResult(EngineOffload, &engine.Solution{Converged: false})
	assert.Equal(t, TerminationMaxIterations, capped.Termination)
}
