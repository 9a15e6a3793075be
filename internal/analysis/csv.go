package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"
)

func millis(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Nanoseconds())/1e6, 'f', 2, 64)
}

func float(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// WriteResults writes one CSV row per run.
func WriteResults(w io.Writer, results []Result) error {
	writer := csv.NewWriter(w)

	header := []string{
		"Generator", "TestRun", "Duration_ms", "Throughput_MBps",
		"Mean", "ChiSquare", "MinFreq", "MaxFreq", "FreqRange",
		"ShannonEntropy", "Autocorrelation",
		"DataLength", "SampleFile", "Error",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range results {
		errorStr := ""
		if result.Error != nil {
			errorStr = result.Error.Error()
		}

		record := []string{
			result.Name,
			strconv.Itoa(result.TestRun),
			millis(result.Duration),
			float(result.Throughput, 2),
			float(result.Analysis.Mean, 2),
			float(result.Analysis.ChiSquare, 2),
			strconv.Itoa(result.Analysis.MinFreq),
			strconv.Itoa(result.Analysis.MaxFreq),
			strconv.Itoa(result.Analysis.FreqRange),
			float(result.Analysis.ShannonEntropy, 4),
			float(result.Analysis.Autocorrelation, 6),
			strconv.Itoa(result.Analysis.Length),
			result.Filename,
			errorStr,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteAggregated writes one CSV row per generator, sorted by name.
func WriteAggregated(w io.Writer, aggregated map[string]Aggregated) error {
	writer := csv.NewWriter(w)

	header := []string{
		"Generator", "TotalTests", "SuccessfulTests", "FailedTests",
		"AvgDuration_ms", "MinDuration_ms", "MaxDuration_ms",
		"AvgThroughput_MBps", "MinThroughput_MBps", "MaxThroughput_MBps",
		"AvgMean", "AvgChiSquare", "AvgFreqRange",
		"AvgShannonEntropy", "AvgAutocorrelation",
		"TotalDataGenerated_MB",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	names := make([]string, 0, len(aggregated))
	for name := range aggregated {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		agg := aggregated[name]
		record := []string{
			agg.Name,
			strconv.Itoa(agg.TotalTests),
			strconv.Itoa(agg.SuccessfulTests),
			strconv.Itoa(agg.FailedTests),
			millis(agg.AvgDuration),
			millis(agg.MinDuration),
			millis(agg.MaxDuration),
			float(agg.AvgThroughput, 2),
			float(agg.MinThroughput, 2),
			float(agg.MaxThroughput, 2),
			float(agg.AvgAnalysis.Mean, 2),
			float(agg.AvgAnalysis.ChiSquare, 2),
			strconv.Itoa(agg.AvgAnalysis.FreqRange),
			float(agg.AvgAnalysis.ShannonEntropy, 4),
			float(agg.AvgAnalysis.Autocorrelation, 6),
			float(float64(agg.TotalDataGenerated)/(1024*1024), 2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveCSV creates path and writes into it with write.
func SaveCSV(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()

	if err := write(file); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
