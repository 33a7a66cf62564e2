package kmeansgo

import (
	"log/slog"
	"math/rand"

	"github.com/hupe1980/kmeansgo/device"
)

type options struct {
	engine           Engine
	workers          int
	device           device.Device
	rand             *rand.Rand
	maxIterations    int
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures a Clusterer.
type Option func(*options)

// WithEngine selects the execution strategy. Defaults to EngineSequential.
func WithEngine(e Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

// WithWorkers sets the worker team size for EngineParallel. Values <= 0
// select runtime.GOMAXPROCS(0). Other engines ignore it.
//
// The final clustering is invariant to the worker count; only centroid
// float bits may differ within summation-order tolerance.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithDevice sets the device EngineOffload runs its reassignment kernel on.
// When unset, a process-wide simulated device is shared by all offload
// clusterers. Other engines ignore it.
func WithDevice(d device.Device) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithSeed makes runs reproducible by replacing the process-wide random
// source with a freshly seeded one. Equal seeds give equal initial labels,
// and therefore equal final labels, on every engine.
//
// The source lives as long as the Clusterer: repeated Cluster calls continue
// its stream rather than restarting it.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rand = rand.New(rand.NewSource(seed)) //nolint:gosec // reproducibility, not crypto
	}
}

// WithRand injects an explicit random source, for callers that manage their
// own streams. Overrides WithSeed. Pass nil to keep the process-wide source.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithMaxIterations caps the Lloyd loop. When the cap stops a run before
// convergence, Cluster returns the last state together with
// ErrDidNotConverge. Values <= 0 select the default of 1000.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithLogger configures structured logging for runs and per-iteration churn.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kmeansgo.BasicMetricsCollector{}
//	c, _ := kmeansgo.New(kmeansgo.WithMetricsCollector(metrics))
//	// ... run clusterings ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.RunCount, stats.RunAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		engine:           EngineSequential,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
