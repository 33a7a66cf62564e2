package plot

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeansgo"
	"github.com/hupe1980/kmeansgo/model"
	"github.com/hupe1980/kmeansgo/testutil"
)

func clusteredResult(t *testing.T) ([]model.Point, *kmeansgo.Result) {
	t.Helper()

	centers := []model.Point{{X: 0, Y: 0}, {X: 500, Y: 0}, {X: 0, Y: 500}}
	points := testutil.NewRNG(5).SeparatedPoints(90, centers, 5)

	result, err := kmeansgo.Cluster(context.Background(), points, 3, kmeansgo.WithSeed(1))
	require.NoError(t, err)

	return points, result
}

func TestScatter(t *testing.T) {
	points, result := clusteredResult(t)

	var buf bytes.Buffer
	require.NoError(t, Scatter(&buf, points, result))

	out := buf.String()

	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "k-means scatter")

	for _, name := range []string{"Cluster 0", "Cluster 1", "Cluster 2", "Centroids"} {
		assert.Contains(t, out, name)
	}
}

func TestScatterTitleOption(t *testing.T) {
	points, result := clusteredResult(t)

	var buf bytes.Buffer
	require.NoError(t, Scatter(&buf, points, result, func(o *Options) {
		o.Title = "custom title"
	}))

	assert.Contains(t, buf.String(), "custom title")
}

func TestScatterShapeMismatch(t *testing.T) {
	points, result := clusteredResult(t)

	var buf bytes.Buffer
	err := Scatter(&buf, points[:len(points)-1], result)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestBar(t *testing.T) {
	_, result := clusteredResult(t)

	var buf bytes.Buffer
	require.NoError(t, Bar(&buf, result))

	out := buf.String()

	assert.Contains(t, out, "k-means cluster sizes")
	assert.Contains(t, out, `"bar"`)
}

func TestGetNewColor(t *testing.T) {
	color := ""
	for i := 0; i < 16; i++ {
		next := getNewColor(color)

		assert.NotEmpty(t, next)
		assert.NotEqual(t, color, next)

		color = next
	}
}
