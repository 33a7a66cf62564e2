package kmeansgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/kmeansgo"
	"github.com/hupe1980/kmeansgo/device"
	"github.com/hupe1980/kmeansgo/model"
)

func examplePoints() []model.Point {
	return []model.Point{
		{X: 0.0, Y: 0.2}, {X: 0.2, Y: 0.0}, {X: 0.1, Y: 0.1},
		{X: 9.8, Y: 10.0}, {X: 10.0, Y: 9.9}, {X: 10.1, Y: 10.2},
	}
}

// Example demonstrates one-shot clustering with the package-level helper.
func Example() {
	ctx := context.Background()

	result, err := kmeansgo.Cluster(ctx, examplePoints(), 2, kmeansgo.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("clusters: %d, points: %d, converged: %v\n",
		result.K(), result.TotalCount(), result.Termination == kmeansgo.TerminationConverged)
	// Output: clusters: 2, points: 6, converged: true
}

// Example_parallel demonstrates the shared-memory parallel engine.
func Example_parallel() {
	ctx := context.Background()

	clusterer, err := kmeansgo.New(
		kmeansgo.WithEngine(kmeansgo.EngineParallel),
		kmeansgo.WithWorkers(4),
		kmeansgo.WithSeed(42),
	)
	if err != nil {
		log.Fatal(err)
	}

	result, err := clusterer.Cluster(ctx, examplePoints(), 2)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("engine: %s, clusters: %d\n", result.Engine, result.K())
	// Output: engine: parallel, clusters: 2
}

// Example_offload demonstrates running the reassignment step on a device.
func Example_offload() {
	ctx := context.Background()

	dev := device.NewSim(func(o *device.SimOptions) {
		o.Name = "wide-sim"
		o.Lanes = 8
	})
	defer dev.Close()

	result, err := kmeansgo.Cluster(ctx, examplePoints(), 2,
		kmeansgo.WithEngine(kmeansgo.EngineOffload),
		kmeansgo.WithDevice(dev),
		kmeansgo.WithSeed(42),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("engine: %s, clusters: %d\n", result.Engine, result.K())
	// Output: engine: offload, clusters: 2
}

// Example_seed demonstrates that equal seeds reproduce a clustering exactly.
func Example_seed() {
	ctx := context.Background()

	first, err := kmeansgo.Cluster(ctx, examplePoints(), 2, kmeansgo.WithSeed(7))
	if err != nil {
		log.Fatal(err)
	}

	second, err := kmeansgo.Cluster(ctx, examplePoints(), 2, kmeansgo.WithSeed(7))
	if err != nil {
		log.Fatal(err)
	}

	same := true
	for i := range first.Labels {
		if first.Labels[i] != second.Labels[i] {
			same = false
			break
		}
	}

	fmt.Printf("identical labels: %v\n", same)
	// Output: identical labels: true
}

// Example_metrics demonstrates collecting run metrics.
func Example_metrics() {
	ctx := context.Background()

	metrics := &kmeansgo.BasicMetricsCollector{}
	clusterer, err := kmeansgo.New(
		kmeansgo.WithSeed(42),
		kmeansgo.WithMetricsCollector(metrics),
	)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := clusterer.Cluster(ctx, examplePoints(), 2); err != nil {
			log.Fatal(err)
		}
	}

	stats := metrics.GetStats()
	fmt.Printf("runs: %d, points: %d\n", stats.RunCount, stats.TotalPoints)
	// Output: runs: 3, points: 18
}

// Example_members demonstrates cluster membership sets.
func Example_members() {
	ctx := context.Background()

	result, err := kmeansgo.Cluster(ctx, examplePoints(), 2, kmeansgo.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	var total uint64
	for i := 0; i < result.K(); i++ {
		total += result.Members(i).GetCardinality()
	}

	fmt.Printf("members across clusters: %d\n", total)
	// Output: members across clusters: 6
}
