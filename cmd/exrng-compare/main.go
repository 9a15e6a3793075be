// exrng-compare benchmarks the external buffer source against seeded and
// system generators, and reports throughput and byte statistics.
//
// Usage:
//
//	exrng-compare [--config file.yaml] [--runs N] [--size-mb N] [--generators a,b]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"exrng/internal/analysis"
	"exrng/internal/bench"
	"exrng/internal/config"
	"exrng/internal/generator"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var configPath string
	var sizeMB int

	flagSet := pflag.NewFlagSet("exrng-compare", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "YAML config file")
	flagSet.Int("runs", 0, "runs per generator")
	flagSet.IntVar(&sizeMB, "size-mb", 0, "bytes per run, in MiB")
	flagSet.Int("size-bytes", 0, "bytes per run (overrides --size-mb)")
	flagSet.Int("concurrency", 0, "maximum concurrent runs")
	flagSet.String("output", "", "output directory for CSV and sample files")
	flagSet.StringSlice("generators", nil, "generators to run (known: "+strings.Join(generator.Names(), ", ")+")")
	flagSet.String("seed", "", "hex seed for seeded generators and the external buffer")
	flagSet.String("log-level", "", "debug, info, warn or error")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, flagSet, sizeMB); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	seed, _ := cfg.Seed()
	generators, err := generator.LookupAll(cfg.Generators, seed)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting benchmark",
		"generators", len(generators),
		"runs", cfg.Runs,
		"size_bytes", cfg.SizeBytes,
		"concurrency", cfg.Concurrency,
		"output", cfg.OutputDir,
	)

	runner := bench.NewRunner(bench.Options{
		Runs:        cfg.Runs,
		Size:        cfg.SizeBytes,
		Concurrency: cfg.Concurrency,
		OutputDir:   cfg.OutputDir,
		SampleRuns:  cfg.SampleRuns,
		SampleBytes: cfg.SampleBytes,
	}, logger)

	start := time.Now()
	results := runner.Run(ctx, generators)
	elapsed := time.Since(start)

	failed := 0
	for _, result := range results {
		if result.Error != nil {
			failed++
		}
	}
	logger.Info("benchmark finished", "runs", len(results), "failed", failed, "elapsed", elapsed)

	detailedCSV := filepath.Join(cfg.OutputDir, "detailed_results.csv")
	if err := analysis.SaveCSV(detailedCSV, func(w io.Writer) error {
		return analysis.WriteResults(w, results)
	}); err != nil {
		return err
	}

	aggregated := analysis.Aggregate(results)
	aggregatedCSV := filepath.Join(cfg.OutputDir, "aggregated_results.csv")
	if err := analysis.SaveCSV(aggregatedCSV, func(w io.Writer) error {
		return analysis.WriteAggregated(w, aggregated)
	}); err != nil {
		return err
	}

	printSummary(stdout, generators, aggregated)
	fmt.Fprintf(stdout, "\nDetailed results:   %s\n", detailedCSV)
	fmt.Fprintf(stdout, "Aggregated results: %s\n", aggregatedCSV)
	return ctx.Err()
}

// applyFlags overlays flags the user actually set.
func applyFlags(cfg *config.Config, flagSet *pflag.FlagSet, sizeMB int) error {
	var err error
	if flagSet.Changed("runs") {
		cfg.Runs, err = flagSet.GetInt("runs")
	}
	if err == nil && flagSet.Changed("size-mb") {
		cfg.SizeBytes = sizeMB * 1024 * 1024
	}
	if err == nil && flagSet.Changed("size-bytes") {
		cfg.SizeBytes, err = flagSet.GetInt("size-bytes")
	}
	if err == nil && flagSet.Changed("concurrency") {
		cfg.Concurrency, err = flagSet.GetInt("concurrency")
	}
	if err == nil && flagSet.Changed("output") {
		cfg.OutputDir, err = flagSet.GetString("output")
	}
	if err == nil && flagSet.Changed("generators") {
		cfg.Generators, err = flagSet.GetStringSlice("generators")
	}
	if err == nil && flagSet.Changed("seed") {
		cfg.SeedHex, err = flagSet.GetString("seed")
	}
	if err == nil && flagSet.Changed("log-level") {
		cfg.LogLevel, err = flagSet.GetString("log-level")
	}
	return err
}

func printSummary(w io.Writer, generators []generator.Generator, aggregated map[string]analysis.Aggregated) {
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 90))
	fmt.Fprintln(w, "PERFORMANCE SUMMARY")
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 90))
	fmt.Fprintf(w, "%-22s %8s %12s %12s %12s %12s %10s\n",
		"Generator", "Success", "Avg MB/s", "Min MB/s", "Max MB/s", "Avg χ²", "Avg H")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, gen := range generators {
		agg, exists := aggregated[gen.Name()]
		if !exists || agg.TotalTests == 0 {
			continue
		}
		successRate := float64(agg.SuccessfulTests) / float64(agg.TotalTests) * 100
		fmt.Fprintf(w, "%-22s %7.1f%% %12.2f %12.2f %12.2f %12.2f %10.3f\n",
			agg.Name,
			successRate,
			agg.AvgThroughput,
			agg.MinThroughput,
			agg.MaxThroughput,
			agg.AvgAnalysis.ChiSquare,
			agg.AvgAnalysis.ShannonEntropy)
	}

	fmt.Fprintln(w, "\nχ² (chi-square): lower is more uniform, ~255 expected for random data")
	fmt.Fprintln(w, "H (Shannon entropy): bits per byte, 8.0 maximum")
}
