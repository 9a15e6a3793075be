// Package analysis computes byte-level statistics over generator output and
// aggregates them across runs.
package analysis

import (
	"math"
	"time"
)

// autocorrSampleLimit bounds the lag-1 autocorrelation scan.
const autocorrSampleLimit = 50000

// Analysis holds statistical analysis results
type Analysis struct {
	Length          int
	Mean            float64
	ChiSquare       float64
	MinFreq         int
	MaxFreq         int
	FreqRange       int
	ShannonEntropy  float64
	Autocorrelation float64
}

// Result is the outcome of one generator run.
type Result struct {
	Name       string
	TestRun    int
	Duration   time.Duration
	Throughput float64
	Analysis   Analysis
	Filename   string
	Error      error
}

// Aggregated summarizes every run of one generator.
type Aggregated struct {
	Name               string
	TotalTests         int
	SuccessfulTests    int
	FailedTests        int
	AvgDuration        time.Duration
	MinDuration        time.Duration
	MaxDuration        time.Duration
	AvgThroughput      float64
	MinThroughput      float64
	MaxThroughput      float64
	AvgAnalysis        Analysis
	TotalDataGenerated int64
}

// Analyze computes frequency, uniformity, entropy and serial correlation
// statistics for data.
func Analyze(data []byte) Analysis {
	if len(data) == 0 {
		return Analysis{}
	}

	var byteCounts [256]int
	sum := 0
	for _, b := range data {
		byteCounts[b]++
		sum += int(b)
	}

	expectedFreq := float64(len(data)) / 256.0
	chiSquare := 0.0
	shannon := 0.0
	minFreq, maxFreq := byteCounts[0], byteCounts[0]
	for _, count := range byteCounts {
		diff := float64(count) - expectedFreq
		chiSquare += (diff * diff) / expectedFreq

		if count > 0 {
			prob := float64(count) / float64(len(data))
			shannon -= prob * math.Log2(prob)
		}
		minFreq = min(minFreq, count)
		maxFreq = max(maxFreq, count)
	}

	return Analysis{
		Length:          len(data),
		Mean:            float64(sum) / float64(len(data)),
		ChiSquare:       chiSquare,
		MinFreq:         minFreq,
		MaxFreq:         maxFreq,
		FreqRange:       maxFreq - minFreq,
		ShannonEntropy:  shannon,
		Autocorrelation: autocorrelation(data),
	}
}

// autocorrelation is the fraction of adjacent equal bytes (lag 1) over at
// most autocorrSampleLimit bytes.
func autocorrelation(data []byte) float64 {
	sampleSize := min(len(data), autocorrSampleLimit)
	if sampleSize < 2 {
		return 0
	}
	matches := 0
	for i := 1; i < sampleSize; i++ {
		if data[i] == data[i-1] {
			matches++
		}
	}
	return float64(matches) / float64(sampleSize-1)
}

// Aggregate groups results by generator name.
func Aggregate(results []Result) map[string]Aggregated {
	aggregated := make(map[string]Aggregated)
	sums := make(map[string]*Analysis)
	durations := make(map[string]time.Duration)
	throughputs := make(map[string]float64)

	for _, result := range results {
		name := result.Name
		agg, exists := aggregated[name]
		if !exists {
			agg = Aggregated{
				Name:          name,
				MinDuration:   time.Duration(math.MaxInt64),
				MinThroughput: math.MaxFloat64,
			}
			sums[name] = &Analysis{}
		}

		agg.TotalTests++
		if result.Error != nil {
			agg.FailedTests++
			aggregated[name] = agg
			continue
		}

		agg.SuccessfulTests++
		agg.TotalDataGenerated += int64(result.Analysis.Length)
		agg.MinDuration = min(agg.MinDuration, result.Duration)
		agg.MaxDuration = max(agg.MaxDuration, result.Duration)
		agg.MinThroughput = min(agg.MinThroughput, result.Throughput)
		agg.MaxThroughput = max(agg.MaxThroughput, result.Throughput)
		durations[name] += result.Duration
		throughputs[name] += result.Throughput

		s := sums[name]
		s.Mean += result.Analysis.Mean
		s.ChiSquare += result.Analysis.ChiSquare
		s.MinFreq += result.Analysis.MinFreq
		s.MaxFreq += result.Analysis.MaxFreq
		s.FreqRange += result.Analysis.FreqRange
		s.ShannonEntropy += result.Analysis.ShannonEntropy
		s.Autocorrelation += result.Analysis.Autocorrelation

		aggregated[name] = agg
	}

	for name, agg := range aggregated {
		n := agg.SuccessfulTests
		if n == 0 {
			agg.MinDuration = 0
			agg.MinThroughput = 0
			aggregated[name] = agg
			continue
		}
		s := sums[name]
		agg.AvgDuration = durations[name] / time.Duration(n)
		agg.AvgThroughput = throughputs[name] / float64(n)
		agg.AvgAnalysis = Analysis{
			Mean:            s.Mean / float64(n),
			ChiSquare:       s.ChiSquare / float64(n),
			MinFreq:         s.MinFreq / n,
			MaxFreq:         s.MaxFreq / n,
			FreqRange:       s.FreqRange / n,
			ShannonEntropy:  s.ShannonEntropy / float64(n),
			Autocorrelation: s.Autocorrelation / float64(n),
		}
		aggregated[name] = agg
	}

	return aggregated
}
