package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeansgo/model"
)

const sampleCSV = `id,visits_x,visits_y
1,2.5,4.0
2,-1.0,0.25
3,10,20
`

var samplePoints = []model.Point{
	{X: 2.5, Y: 4.0},
	{X: -1.0, Y: 0.25},
	{X: 10, Y: 20},
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		points, err := Load(strings.NewReader(sampleCSV))
		require.NoError(t, err)
		assert.Equal(t, samplePoints, points)
	})

	t.Run("NoHeader", func(t *testing.T) {
		data := "1,2.5,4.0\n2,-1.0,0.25\n"
		points, err := Load(strings.NewReader(data), func(o *Options) {
			o.SkipHeader = false
		})
		require.NoError(t, err)
		assert.Equal(t, samplePoints[:2], points)
	})

	t.Run("ColumnSelection", func(t *testing.T) {
		data := "7.5;1.25\n-2;3\n"
		points, err := Load(strings.NewReader(data), func(o *Options) {
			o.Comma = ';'
			o.SkipHeader = false
			o.XCol = 0
			o.YCol = 1
		})
		require.NoError(t, err)
		assert.Equal(t, []model.Point{{X: 7.5, Y: 1.25}, {X: -2, Y: 3}}, points)
	})

	t.Run("ShortRowsSkipped", func(t *testing.T) {
		data := "id,x,y\n1,2.5,4.0\njunk\n2\n3,-1.0,0.25\n"
		points, err := Load(strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, samplePoints[:2], points)
	})

	t.Run("ParseErrorCarriesLine", func(t *testing.T) {
		data := "id,x,y\n1,2.5,4.0\n2,abc,0.25\n"
		_, err := Load(strings.NewReader(data))

		var parseErr *ErrParse
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 3, parseErr.Line)
		assert.Equal(t, 1, parseErr.Column)
		assert.Equal(t, "abc", parseErr.Value)
		assert.NotNil(t, parseErr.Unwrap())
	})

	t.Run("WhitespaceTolerated", func(t *testing.T) {
		data := "id,x,y\n1, 2.5 , 4.0\n"
		points, err := Load(strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, samplePoints[:1], points)
	})

	t.Run("Empty", func(t *testing.T) {
		points, err := Load(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, points)
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		points, err := Load(strings.NewReader("id,x,y\n"))
		require.NoError(t, err)
		assert.Empty(t, points)
	})

	t.Run("LabelsZero", func(t *testing.T) {
		points, err := Load(strings.NewReader(sampleCSV))
		require.NoError(t, err)
		for _, p := range points {
			assert.Equal(t, 0, p.Label)
		}
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	write := func(t *testing.T, name string, compress func(f *os.File)) string {
		t.Helper()
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		require.NoError(t, err)
		compress(f)
		require.NoError(t, f.Close())
		return path
	}

	t.Run("Plain", func(t *testing.T) {
		path := write(t, "points.csv", func(f *os.File) {
			_, err := f.WriteString(sampleCSV)
			require.NoError(t, err)
		})

		points, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, samplePoints, points)
	})

	t.Run("Gzip", func(t *testing.T) {
		path := write(t, "points.csv.gz", func(f *os.File) {
			gz := gzip.NewWriter(f)
			_, err := gz.Write([]byte(sampleCSV))
			require.NoError(t, err)
			require.NoError(t, gz.Close())
		})

		points, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, samplePoints, points)
	})

	t.Run("Zstd", func(t *testing.T) {
		path := write(t, "points.csv.zst", func(f *os.File) {
			zw, err := zstd.NewWriter(f)
			require.NoError(t, err)
			_, err = zw.Write([]byte(sampleCSV))
			require.NoError(t, err)
			require.NoError(t, zw.Close())
		})

		points, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, samplePoints, points)
	})

	t.Run("LZ4", func(t *testing.T) {
		path := write(t, "points.csv.lz4", func(f *os.File) {
			lw := lz4.NewWriter(f)
			_, err := lw.Write([]byte(sampleCSV))
			require.NoError(t, err)
			require.NoError(t, lw.Close())
		})

		points, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, samplePoints, points)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("CorruptGzip", func(t *testing.T) {
		path := write(t, "broken.csv.gz", func(f *os.File) {
			_, err := f.WriteString("not gzip data")
			require.NoError(t, err)
		})

		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}

func TestReplicate(t *testing.T) {
	base := []model.Point{
		{X: 1, Y: 2, Label: 3},
		{X: 4, Y: 5, Label: 6},
	}

	t.Run("FactorThree", func(t *testing.T) {
		out := Replicate(base, 3)
		require.Len(t, out, 6)

		// Whole-dataset copies in sequence, labels reset.
		for r := 0; r < 3; r++ {
			for i := range base {
				got := out[r*len(base)+i]
				assert.Equal(t, base[i].X, got.X)
				assert.Equal(t, base[i].Y, got.Y)
				assert.Equal(t, 0, got.Label)
			}
		}
	})

	t.Run("FactorOneCopies", func(t *testing.T) {
		out := Replicate(base, 1)
		require.Len(t, out, 2)

		// Fresh backing array: mutating the copy leaves the input alone.
		out[0].X = 99
		assert.Equal(t, 1.0, base[0].X)
	})

	t.Run("FactorBelowOne", func(t *testing.T) {
		assert.Len(t, Replicate(base, 0), 2)
		assert.Len(t, Replicate(base, -5), 2)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		assert.Empty(t, Replicate(nil, 10))
	})
}
