// Package bench measures clustering engines against each other by running
// the same dataset repeatedly through each configuration and reporting
// total and per-run wall-clock time, iteration counts, termination tallies
// and speedup over a baseline.
//
// The harness is a collaborator of the clustering core: it owns repetition
// and timing, nothing else. Labels are reset between runs so every run
// starts from the same input state.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/kmeansgo"
	"github.com/hupe1980/kmeansgo/codec"
	"github.com/hupe1980/kmeansgo/device"
	"github.com/hupe1980/kmeansgo/model"
)

// DefaultRuns is the repetition count used when Runner.Runs is unset.
const DefaultRuns = 30

// Config describes one engine configuration to measure.
type Config struct {
	// Name labels the configuration in the report, e.g. "parallel-8".
	Name string

	// Options build the Clusterer for this configuration. The Clusterer is
	// built once and reused for every run, so a seeded source behaves like
	// one long benchmarking session rather than N identical replays.
	Options []kmeansgo.Option

	// Device, when set, contributes transfer statistics to the report
	// entry. Pass the same simulated device wired into Options via
	// kmeansgo.WithDevice.
	Device *device.Sim
}

// Runner runs every configuration Runs times over one dataset.
type Runner struct {
	// Runs is the number of measured repetitions per configuration.
	// Zero or negative selects DefaultRuns.
	Runs int

	// K is the cluster count handed to every run.
	K int

	// Configs are the configurations to measure, in report order. The
	// first entry is the speedup baseline, so by convention it is the
	// sequential engine.
	Configs []Config
}

// Run executes the benchmark. The point slice is relabeled in place, run
// after run; coordinates are never touched.
//
// A run that stops at the iteration cap is tallied, not fatal. Any other
// error aborts the benchmark.
func (r *Runner) Run(ctx context.Context, points []model.Point) (*Report, error) {
	runs := r.Runs
	if runs <= 0 {
		runs = DefaultRuns
	}
	if len(r.Configs) == 0 {
		return nil, errors.New("bench: no configurations")
	}

	report := &Report{
		Points:  len(points),
		K:       r.K,
		Runs:    runs,
		Entries: make([]Entry, 0, len(r.Configs)),
	}

	for _, cfg := range r.Configs {
		entry, err := r.measure(ctx, cfg, points, runs)
		if err != nil {
			return nil, fmt.Errorf("bench: config %q: %w", cfg.Name, err)
		}
		report.Entries = append(report.Entries, *entry)
	}

	// Speedup against the first entry's per-run average.
	baseline := report.Entries[0].AvgSeconds
	for i := range report.Entries {
		if report.Entries[i].AvgSeconds > 0 {
			report.Entries[i].Speedup = baseline / report.Entries[i].AvgSeconds
		}
	}

	return report, nil
}

func (r *Runner) measure(ctx context.Context, cfg Config, points []model.Point, runs int) (*Entry, error) {
	clusterer, err := kmeansgo.New(cfg.Options...)
	if err != nil {
		return nil, err
	}

	entry := &Entry{Name: cfg.Name}

	var before device.Stats
	if cfg.Device != nil {
		before = cfg.Device.Stats()
	}

	start := time.Now()
	for run := 0; run < runs; run++ {
		for i := range points {
			points[i].Label = 0
		}

		result, err := clusterer.Cluster(ctx, points, r.K)
		switch {
		case errors.Is(err, kmeansgo.ErrDidNotConverge):
			entry.CapReached++
		case err != nil:
			return nil, err
		default:
			entry.Converged++
		}

		entry.Engine = result.Engine.String()
		entry.Iterations += result.Iterations
	}
	total := time.Since(start)

	entry.TotalSeconds = total.Seconds()
	entry.AvgSeconds = total.Seconds() / float64(runs)
	entry.AvgIterations = float64(entry.Iterations) / float64(runs)

	if cfg.Device != nil {
		after := cfg.Device.Stats()
		entry.Device = &DeviceStats{
			Invocations: after.Invocations - before.Invocations,
			WorkItems:   after.WorkItems - before.WorkItems,
			BytesIn:     after.BytesIn - before.BytesIn,
			BytesOut:    after.BytesOut - before.BytesOut,
		}
	}

	return entry, nil
}

// Report is the outcome of one benchmark over all configurations.
type Report struct {
	Points  int     `json:"points"`
	K       int     `json:"k"`
	Runs    int     `json:"runs"`
	Entries []Entry `json:"entries"`
}

// Entry is the measurement of one configuration.
type Entry struct {
	Name          string  `json:"name"`
	Engine        string  `json:"engine"`
	TotalSeconds  float64 `json:"total_seconds"`
	AvgSeconds    float64 `json:"avg_seconds"`
	Iterations    int     `json:"iterations"`
	AvgIterations float64 `json:"avg_iterations"`
	Converged     int     `json:"converged"`
	CapReached    int     `json:"cap_reached"`

	// Speedup is the baseline's per-run average divided by this entry's.
	// The first entry is its own baseline, so it reports 1.
	Speedup float64 `json:"speedup"`

	// Device carries transfer statistics for offload configurations that
	// registered their simulated device.
	Device *DeviceStats `json:"device,omitempty"`
}

// DeviceStats is the device counter delta accumulated during an entry's runs.
type DeviceStats struct {
	Invocations int64 `json:"invocations"`
	WorkItems   int64 `json:"work_items"`
	BytesIn     int64 `json:"bytes_in"`
	BytesOut    int64 `json:"bytes_out"`
}

// WriteJSON encodes the report with the given codec. A nil codec selects
// codec.Default.
func (r *Report) WriteJSON(w io.Writer, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}

	data, err := c.Marshal(r)
	if err != nil {
		return fmt.Errorf("bench: encode report: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("bench: write report: %w", err)
	}

	return nil
}

// WriteText writes the human-readable summary, one line per configuration.
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "k-means benchmark: points=%d, k=%d, runs=%d\n", r.Points, r.K, r.Runs); err != nil {
		return err
	}

	for _, e := range r.Entries {
		if _, err := fmt.Fprintf(w, "%-16s total %.6f s, avg %.6f s, speedup %.2fx, avg iterations %.1f, converged %d/%d\n",
			e.Name, e.TotalSeconds, e.AvgSeconds, e.Speedup, e.AvgIterations, e.Converged, e.Converged+e.CapReached); err != nil {
			return err
		}
		if e.Device != nil {
			if _, err := fmt.Fprintf(w, "%-16s device: %d invocations, %d work items, %d bytes in, %d bytes out\n",
				"", e.Device.Invocations, e.Device.WorkItems, e.Device.BytesIn, e.Device.BytesOut); err != nil {
				return err
			}
		}
	}

	return nil
}
