package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hupe1980/kmeansgo"
	"github.com/hupe1980/kmeansgo/testutil"
)

func main() {
	seed := int64(4711)
	size := 50000
	k := 10

	rng := testutil.NewRNG(seed)
	points := rng.ClusteredPoints(size, k, 2.0)

	fmt.Println("--- Cluster ---")
	fmt.Println("Points:", size)
	fmt.Println("K:", k)

	ctx := context.Background()

	for _, engine := range []kmeansgo.Engine{
		kmeansgo.EngineSequential,
		kmeansgo.EngineParallel,
		kmeansgo.EngineOffload,
	} {
		start := time.Now()

		result, err := kmeansgo.Cluster(ctx, points, k,
			kmeansgo.WithEngine(engine),
			kmeansgo.WithSeed(seed),
		)
		if err != nil {
			log.Fatal(err)
		}

		end := time.Since(start)

		fmt.Printf("\n--- %s ---\n", engine)
		fmt.Printf("Seconds: %.3f\n", end.Seconds())
		fmt.Println("Iterations:", result.Iterations)
		fmt.Println("Termination:", result.Termination)

		for i, c := range result.Centroids {
			fmt.Printf("Cluster %d: centroid (%.4f, %.4f), points=%d\n", i, c.X, c.Y, c.Count)
		}
	}
}
