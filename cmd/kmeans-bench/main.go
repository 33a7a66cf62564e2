// Package main provides the kmeans-bench CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kmeansgo"
	"github.com/hupe1980/kmeansgo/bench"
	"github.com/hupe1980/kmeansgo/codec"
	"github.com/hupe1980/kmeansgo/dataset"
	"github.com/hupe1980/kmeansgo/device"
	"github.com/hupe1980/kmeansgo/model"
	"github.com/hupe1980/kmeansgo/plot"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kmeans-bench",
		Short: "k-means clustering and engine benchmarks over 2-D CSV datasets",
		Long: `kmeans-bench clusters 2-D datasets with Lloyd's algorithm and compares
the sequential, parallel and offload engines against each other.

Datasets are CSV files with x in the second and y in the third column;
gzip, zstd and lz4 compressed files are picked up by extension.`,
	}

	rootCmd.PersistentFlags().String("input", "", "CSV dataset (plain, .gz, .zst or .lz4)")
	rootCmd.PersistentFlags().Int("k", 5, "number of clusters")
	rootCmd.PersistentFlags().Int("replicate", 1, "dataset replication factor")
	rootCmd.PersistentFlags().Int64("seed", 0, "random seed for label init (0 uses the process source)")
	rootCmd.PersistentFlags().Int("max-iter", 0, "iteration cap (0 selects the default)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kmeans-bench v%s (%s)\n", version, commit)
		},
	})

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Cluster a dataset once and print the resulting centroids",
		RunE:  runRun,
	}
	runCmd.Flags().String("engine", "sequential", "engine: sequential, parallel or offload")
	runCmd.Flags().Int("workers", 0, "parallel worker count (0 uses GOMAXPROCS)")
	runCmd.Flags().Int("lanes", 0, "offload device lane count (0 uses GOMAXPROCS)")
	runCmd.Flags().String("report", "", "write a JSON run report to this file")
	runCmd.Flags().String("scatter", "", "write an HTML scatter chart to this file")
	runCmd.Flags().String("bar", "", "write an HTML bar chart to this file")
	rootCmd.AddCommand(runCmd)

	// Bench command
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the engines against each other",
		Long: `Bench runs the same clustering repeatedly through the sequential engine,
the parallel engine at several worker counts and the offload engine, and
reports total and per-run wall-clock time with speedup over sequential.`,
		RunE: runBench,
	}
	benchCmd.Flags().Int("runs", bench.DefaultRuns, "measured repetitions per configuration")
	benchCmd.Flags().IntSlice("workers", []int{1, 2, 4, 8, 16, 32}, "parallel worker counts to measure")
	benchCmd.Flags().Int("lanes", 0, "offload device lane count (0 uses GOMAXPROCS)")
	benchCmd.Flags().String("report", "", "write the JSON report to this file")
	rootCmd.AddCommand(benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	points, err := loadPoints(cmd)
	if err != nil {
		return err
	}

	k, _ := cmd.Flags().GetInt("k")
	engineName, _ := cmd.Flags().GetString("engine")

	engine, err := parseEngine(engineName)
	if err != nil {
		return err
	}

	optFns := append(commonOptions(cmd), kmeansgo.WithEngine(engine))

	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		optFns = append(optFns, kmeansgo.WithWorkers(workers))
	}

	if lanes, _ := cmd.Flags().GetInt("lanes"); lanes > 0 {
		dev := device.NewSim(func(o *device.SimOptions) {
			o.Lanes = lanes
		})
		defer dev.Close()

		optFns = append(optFns, kmeansgo.WithDevice(dev))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("dataset: %d points, k=%d\n\n", len(points), k)

	start := time.Now()
	result, err := kmeansgo.Cluster(ctx, points, k, optFns...)
	if err != nil && !errors.Is(err, kmeansgo.ErrDidNotConverge) {
		return fmt.Errorf("clustering: %w", err)
	}
	elapsed := time.Since(start)

	for i, centroid := range result.Centroids {
		fmt.Printf("Cluster %d: centroid (%.4f, %.4f), points=%d\n", i, centroid.X, centroid.Y, centroid.Count)
	}

	fmt.Printf("\n%s engine: %d iterations, %s, %.6f s\n",
		result.Engine, result.Iterations, result.Termination, elapsed.Seconds())

	if errors.Is(err, kmeansgo.ErrDidNotConverge) {
		fmt.Println("warning: iteration cap reached before convergence")
	}

	if path, _ := cmd.Flags().GetString("scatter"); path != "" {
		if err := writeChart(path, func(f *os.File) error {
			return plot.Scatter(f, points, result)
		}); err != nil {
			return fmt.Errorf("rendering scatter chart: %w", err)
		}
		fmt.Printf("scatter chart: %s\n", path)
	}

	if path, _ := cmd.Flags().GetString("bar"); path != "" {
		if err := writeChart(path, func(f *os.File) error {
			return plot.Bar(f, result)
		}); err != nil {
			return fmt.Errorf("rendering bar chart: %w", err)
		}
		fmt.Printf("bar chart: %s\n", path)
	}

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := writeRunReport(path, result, len(points), k, elapsed); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("report: %s\n", path)
	}

	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	points, err := loadPoints(cmd)
	if err != nil {
		return err
	}

	k, _ := cmd.Flags().GetInt("k")
	runs, _ := cmd.Flags().GetInt("runs")
	workerCounts, _ := cmd.Flags().GetIntSlice("workers")
	lanes, _ := cmd.Flags().GetInt("lanes")

	common := commonOptions(cmd)

	configs := []bench.Config{
		{Name: "sequential", Options: common},
	}

	for _, workers := range workerCounts {
		configs = append(configs, bench.Config{
			Name: fmt.Sprintf("parallel-%d", workers),
			Options: append(slices.Clone(common),
				kmeansgo.WithEngine(kmeansgo.EngineParallel),
				kmeansgo.WithWorkers(workers),
			),
		})
	}

	dev := device.NewSim(func(o *device.SimOptions) {
		if lanes > 0 {
			o.Lanes = lanes
		}
	})
	defer dev.Close()

	configs = append(configs, bench.Config{
		Name:   "offload",
		Device: dev,
		Options: append(slices.Clone(common),
			kmeansgo.WithEngine(kmeansgo.EngineOffload),
			kmeansgo.WithDevice(dev),
		),
	})

	runner := &bench.Runner{
		Runs:    runs,
		K:       k,
		Configs: configs,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := runner.Run(ctx, points)
	if err != nil {
		return err
	}

	if err := report.WriteText(os.Stdout); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating report: %w", err)
		}
		defer f.Close()

		if err := report.WriteJSON(f, codec.Default); err != nil {
			return err
		}
		fmt.Printf("report: %s\n", path)
	}

	return nil
}

// loadPoints reads the dataset named by --input and applies --replicate.
func loadPoints(cmd *cobra.Command) ([]model.Point, error) {
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		return nil, errors.New("--input is required")
	}

	points, err := dataset.LoadFile(input)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", input, err)
	}

	if replicate, _ := cmd.Flags().GetInt("replicate"); replicate > 1 {
		points = dataset.Replicate(points, replicate)
	}

	return points, nil
}

// commonOptions translates the persistent flags shared by run and bench.
func commonOptions(cmd *cobra.Command) []kmeansgo.Option {
	var optFns []kmeansgo.Option

	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		optFns = append(optFns, kmeansgo.WithSeed(seed))
	}

	if maxIter, _ := cmd.Flags().GetInt("max-iter"); maxIter > 0 {
		optFns = append(optFns, kmeansgo.WithMaxIterations(maxIter))
	}

	return append(optFns, kmeansgo.WithLogger(newLogger(cmd)))
}

func newLogger(cmd *cobra.Command) *kmeansgo.Logger {
	levelName, _ := cmd.Flags().GetString("log-level")

	var level slog.Level
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	if jsonLogs, _ := cmd.Flags().GetBool("log-json"); jsonLogs {
		return kmeansgo.NewJSONLogger(level)
	}

	return kmeansgo.NewTextLogger(level)
}

func parseEngine(name string) (kmeansgo.Engine, error) {
	switch strings.ToLower(name) {
	case "sequential", "seq":
		return kmeansgo.EngineSequential, nil
	case "parallel", "par":
		return kmeansgo.EngineParallel, nil
	case "offload", "off":
		return kmeansgo.EngineOffload, nil
	default:
		return 0, fmt.Errorf("unknown engine %q", name)
	}
}

func writeChart(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return render(f)
}

type runReport struct {
	Engine      string        `json:"engine"`
	Points      int           `json:"points"`
	K           int           `json:"k"`
	Iterations  int           `json:"iterations"`
	Termination string        `json:"termination"`
	Seconds     float64       `json:"seconds"`
	Centroids   []runCentroid `json:"centroids"`
}

type runCentroid struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Count int     `json:"count"`
}

func writeRunReport(path string, result *kmeansgo.Result, points, k int, elapsed time.Duration) error {
	report := runReport{
		Engine:      result.Engine.String(),
		Points:      points,
		K:           k,
		Iterations:  result.Iterations,
		Termination: result.Termination.String(),
		Seconds:     elapsed.Seconds(),
		Centroids:   make([]runCentroid, 0, len(result.Centroids)),
	}

	for _, centroid := range result.Centroids {
		report.Centroids = append(report.Centroids, runCentroid{
			X:     centroid.X,
			Y:     centroid.Y,
			Count: centroid.Count,
		})
	}

	data, err := codec.Default.Marshal(report)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
