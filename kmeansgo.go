package kmeansgo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/kmeansgo/device"
	"github.com/hupe1980/kmeansgo/engine"
	"github.com/hupe1980/kmeansgo/model"
)

// Engine identifies an execution strategy.
type Engine int

const (
	// EngineSequential runs the loop on a single goroutine.
	EngineSequential Engine = iota

	// EngineParallel fans each loop region out over worker goroutines with
	// worker-private accumulation buffers.
	EngineParallel

	// EngineOffload keeps the loop on the host and ships the reassignment
	// step to a device every iteration.
	EngineOffload
)

// String returns the stable engine name used in logs and reports.
func (e Engine) String() string {
	switch e {
	case EngineSequential:
		return "sequential"
	case EngineParallel:
		return "parallel"
	case EngineOffload:
		return "offload"
	default:
		return fmt.Sprintf("engine(%d)", int(e))
	}
}

// defaultDevice is the process-wide simulated device shared by offload
// clusterers that do not bring their own. Lazily built so programs that
// never offload pay nothing.
var defaultDevice = sync.OnceValue(func() device.Device {
	return device.NewSim()
})

// Clusterer partitions caller-owned 2-D points into k clusters.
//
// A Clusterer is cheap to build and reusable, but calls on one instance must
// not overlap: points are relabeled in place and initial labels are drawn
// from a single random source. For concurrent clustering give each goroutine
// its own Clusterer.
type Clusterer struct {
	engine  engine.Engine
	kind    Engine
	metrics MetricsCollector
	logger  *Logger
}

// New creates a Clusterer. Without options it clusters sequentially with
// the process-wide random source and the default iteration cap.
func New(optFns ...Option) (*Clusterer, error) {
	opts := applyOptions(optFns)

	cfg := engine.Config{
		Rand:          opts.rand,
		MaxIterations: opts.maxIterations,
		Logger:        opts.logger.Logger,
	}

	var eng engine.Engine
	switch opts.engine {
	case EngineSequential:
		eng = &engine.Sequential{Config: cfg}
	case EngineParallel:
		eng = &engine.Parallel{Config: cfg, Workers: opts.workers}
	case EngineOffload:
		dev := opts.device
		if dev == nil {
			dev = defaultDevice()
		}
		eng = &engine.Offload{Config: cfg, Device: dev}
	default:
		return nil, &ErrInvalidEngine{Engine: opts.engine}
	}

	return &Clusterer{
		engine:  eng,
		kind:    opts.engine,
		metrics: opts.metricsCollector,
		logger:  opts.logger,
	}, nil
}

// Cluster groups points into k clusters and returns the final centroids and
// labels. Point labels are rewritten in place; coordinates are never
// touched.
//
// k <= 1 collapses to a single mean cluster and k >= len(points) pins every
// point to its own singleton cluster; neither iterates. An empty point
// slice fails with ErrEmptyDataset.
//
// When the iteration cap stops the run before the churn threshold is met,
// Cluster returns the Result of the last completed iteration together with
// ErrDidNotConverge, mirroring the io.EOF pairing convention. Callers that
// can use a best-effort clustering should check for that error explicitly:
//
//	result, err := clusterer.Cluster(ctx, points, k)
//	if err != nil && !errors.Is(err, kmeansgo.ErrDidNotConverge) {
//	    return err
//	}
func (c *Clusterer) Cluster(ctx context.Context, points []model.Point, k int) (*Result, error) {
	start := time.Now()

	sol, err := c.engine.Run(ctx, points, k)
	err = translateError(err)
	duration := time.Since(start)

	iterations := 0
	if sol != nil {
		iterations = sol.Iterations
	}
	c.metrics.RecordRun(c.kind.String(), len(points), k, iterations, duration, err)
	c.logger.LogRun(ctx, c.kind.String(), len(points), k, iterations, duration, err)

	if sol == nil {
		return nil, err
	}

	return newResult(c.kind, sol), err
}

// Cluster is a package-level convenience that builds a one-shot Clusterer.
func Cluster(ctx context.Context, points []model.Point, k int, optFns ...Option) (*Result, error) {
	c, err := New(optFns...)
	if err != nil {
		return nil, err
	}
	return c.Cluster(ctx, points, k)
}
