package kmeansgo

import (
	"errors"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting run metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    runCounter   prometheus.Counter
//	    runHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordRun(engine string, n, k, iterations int, duration time.Duration, err error) {
//	    p.runCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordRun is called after each clustering run.
	// engine is the strategy name, n the number of points, k the cluster
	// count, iterations the update+assign passes executed, duration the
	// total wall time. err is nil on full convergence; best-effort results
	// report ErrDidNotConverge.
	RecordRun(engine string, n, k, iterations int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(string, int, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
	RunNonConverged atomic.Int64
	RunTotalNanos   atomic.Int64
	TotalIterations atomic.Int64
	TotalPoints     atomic.Int64
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(engine string, n, k, iterations int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	b.TotalIterations.Add(int64(iterations))
	b.TotalPoints.Add(int64(n))

	switch {
	case errors.Is(err, ErrDidNotConverge):
		b.RunNonConverged.Add(1)
	case err != nil:
		b.RunErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RunCount:        b.RunCount.Load(),
		RunErrors:       b.RunErrors.Load(),
		RunNonConverged: b.RunNonConverged.Load(),
		RunAvgNanos:     b.getAvgRunNanos(),
		TotalIterations: b.TotalIterations.Load(),
		TotalPoints:     b.TotalPoints.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgRunNanos() int64 {
	count := b.RunCount.Load()
	if count == 0 {
		return 0
	}
	return b.RunTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RunCount        int64
	RunErrors       int64
	RunNonConverged int64
	RunAvgNanos     int64
	TotalIterations int64
	TotalPoints     int64
}
