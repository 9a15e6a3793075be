// Package bench runs generators repeatedly and collects per-run statistics.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"exrng/internal/analysis"
	"exrng/internal/generator"
)

const maxRetries = 2

// Options configures a benchmark.
type Options struct {
	Runs        int
	Size        int
	Concurrency int

	// OutputDir receives raw samples. Empty disables sample files.
	OutputDir   string
	SampleRuns  int
	SampleBytes int

	// ProgressInterval is the minimum time between progress log lines.
	ProgressInterval time.Duration

	// Backoff is the base delay between retries; attempt k waits k*Backoff.
	Backoff time.Duration
}

// Runner executes benchmarks.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// NewRunner returns a Runner that logs to logger.
func NewRunner(opts Options, logger *slog.Logger) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = 5 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 100 * time.Millisecond
	}
	return &Runner{opts: opts, logger: logger}
}

// Run executes opts.Runs runs of every generator, at most opts.Concurrency
// at a time. Cancelling ctx stops scheduling new runs; runs already started
// finish and are included in the result.
func (r *Runner) Run(ctx context.Context, generators []generator.Generator) []analysis.Result {
	total := r.opts.Runs * len(generators)
	tracker := newProgressTracker(int64(total), r.opts.ProgressInterval, r.logger)
	results := make(chan analysis.Result, total)
	semaphore := make(chan struct{}, r.opts.Concurrency)
	var wg sync.WaitGroup

schedule:
	for _, gen := range generators {
		for run := 1; run <= r.opts.Runs; run++ {
			if err := ctx.Err(); err != nil {
				r.logger.Warn("benchmark cancelled", "error", err)
				break schedule
			}
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				r.logger.Warn("benchmark cancelled", "error", ctx.Err())
				break schedule
			}

			wg.Add(1)
			go func(gen generator.Generator, testRun int) {
				defer wg.Done()
				defer func() { <-semaphore }()

				results <- r.runSingle(ctx, gen, testRun)
				tracker.increment()
			}(gen, run)
		}
	}

	wg.Wait()
	close(results)

	all := make([]analysis.Result, 0, total)
	for result := range results {
		all = append(all, result)
	}
	return all
}

// runSingle runs one generator once, retrying failures. A panic inside the
// generator is reported as a failed run.
func (r *Runner) runSingle(ctx context.Context, gen generator.Generator, testRun int) (result analysis.Result) {
	result = analysis.Result{Name: gen.Name(), TestRun: testRun}

	var data []byte
	var err error
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic occurred: %v", recovered)
			data = nil
		}
		if err != nil {
			r.logger.Debug("run failed", "generator", gen.Name(), "run", testRun, "error", err)
		}
		if data != nil {
			result.Analysis = analysis.Analyze(data)
		}
		result.Error = err
	}()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		data, result.Duration, result.Throughput, err = measure(gen, r.opts.Size)
		if err == nil || attempt == maxRetries {
			break
		}
		select {
		case <-time.After(time.Duration(attempt+1) * r.opts.Backoff):
		case <-ctx.Done():
			err = fmt.Errorf("%w (after: %v)", ctx.Err(), err)
			return result
		}
	}

	if err == nil && r.opts.OutputDir != "" && testRun <= r.opts.SampleRuns {
		filename := SampleFilename(r.opts.OutputDir, gen.Name(), testRun)
		if saveErr := saveSample(data, filename, r.opts.SampleBytes); saveErr != nil {
			r.logger.Warn("saving sample", "file", filename, "error", saveErr)
		} else {
			result.Filename = filename
		}
	}
	return result
}

// measure times a single GenerateBytes call.
func measure(gen generator.Generator, size int) ([]byte, time.Duration, float64, error) {
	start := time.Now()
	data, err := gen.GenerateBytes(size)
	if err != nil {
		return nil, 0, 0, err
	}
	duration := max(time.Since(start), time.Microsecond)

	throughputMBs := float64(size) / duration.Seconds() / (1024 * 1024)
	return data, duration, throughputMBs, nil
}

// SampleFilename returns the sample path for a generator run.
func SampleFilename(dir, name string, testRun int) string {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	return filepath.Join(dir, fmt.Sprintf("%s_sample_run%d.bin", slug, testRun))
}

func saveSample(data []byte, filename string, sampleSize int) error {
	if sampleSize <= 0 || len(data) < sampleSize {
		sampleSize = len(data)
	}
	return os.WriteFile(filename, data[:sampleSize], 0644)
}
