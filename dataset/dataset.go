// Package dataset loads 2-D observations from delimited text and inflates
// them in memory for benchmarking.
//
// The loader is a collaborator of the clustering core, not part of it: it
// produces a flat []model.Point and nothing else. Column defaults match the
// visits-per-customer CSV layout the benchmarks were written against (an id
// column followed by the two coordinates).
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/kmeansgo/model"
)

// Options configure the loader.
type Options struct {
	// Comma is the field delimiter. Defaults to ','.
	Comma rune

	// SkipHeader discards the first row. Defaults to true.
	SkipHeader bool

	// XCol and YCol are the zero-based columns holding the coordinates.
	// Default to 1 and 2 (column 0 is an id in the reference dataset).
	XCol int
	YCol int
}

// ErrParse indicates a row whose coordinate column does not parse as a float.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrParse struct {
	Line   int
	Column int
	Value  string
	cause  error
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf("dataset: line %d, column %d: cannot parse %q as float", e.Line, e.Column, e.Value)
}

func (e *ErrParse) Unwrap() error { return e.cause }

// Load reads points from delimited text.
//
// Rows that are too short to hold both coordinate columns are skipped, so
// trailing junk or blank lines do not abort a load. A row that has the
// columns but fails to parse them is an error: silently turning garbage into
// coordinates would shift every centroid.
//
// Loaded points carry Label 0. Load can return an empty slice; rejecting an
// empty dataset is the clusterer's job.
func Load(r io.Reader, optFns ...func(*Options)) ([]model.Point, error) {
	o := Options{
		Comma:      ',',
		SkipHeader: true,
		XCol:       1,
		YCol:       2,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	need := max(o.XCol, o.YCol) + 1

	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = o.Comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var points []model.Point

	line := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line+1, err)
		}
		line++

		if o.SkipHeader && line == 1 {
			continue
		}
		if len(record) < need {
			continue
		}

		x, err := parseFloat(record[o.XCol], line, o.XCol)
		if err != nil {
			return nil, err
		}
		y, err := parseFloat(record[o.YCol], line, o.YCol)
		if err != nil {
			return nil, err
		}

		points = append(points, model.Point{X: x, Y: y})
	}

	return points, nil
}

func parseFloat(s string, line, col int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ErrParse{Line: line, Column: col, Value: s, cause: err}
	}
	return v, nil
}

// LoadFile loads points from a file, transparently decompressing by
// extension: .gz, .zst and .lz4 are recognized, anything else is read as
// plain text.
func LoadFile(path string, optFns ...func(*Options)) ([]model.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	var r io.Reader = f

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("dataset: gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("dataset: zstd %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	case ".lz4":
		r = lz4.NewReader(f)
	}

	return Load(r, optFns...)
}

// Replicate concatenates factor copies of points to inflate the problem size
// for benchmarking. The result is always a fresh slice with every label
// reset to 0; factor <= 1 yields a plain copy.
func Replicate(points []model.Point, factor int) []model.Point {
	if factor < 1 {
		factor = 1
	}

	out := make([]model.Point, 0, len(points)*factor)
	for r := 0; r < factor; r++ {
		for i := range points {
			out = append(out, model.Point{X: points[i].X, Y: points[i].Y})
		}
	}

	return out
}
