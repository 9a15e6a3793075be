package analysis

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmpty(t *testing.T) {
	assert.Equal(t, Analysis{}, Analyze(nil))
}

func TestAnalyzeUniform(t *testing.T) {
	data := make([]byte, 256*4)
	for i := range data {
		data[i] = byte(i)
	}

	a := Analyze(data)

	assert.Equal(t, 1024, a.Length)
	assert.InDelta(t, 127.5, a.Mean, 1e-9)
	assert.InDelta(t, 0.0, a.ChiSquare, 1e-9)
	assert.Equal(t, 4, a.MinFreq)
	assert.Equal(t, 4, a.MaxFreq)
	assert.Equal(t, 0, a.FreqRange)
	assert.InDelta(t, 8.0, a.ShannonEntropy, 1e-9)
	assert.InDelta(t, 0.0, a.Autocorrelation, 1e-9)
}

func TestAnalyzeConstant(t *testing.T) {
	a := Analyze(bytes.Repeat([]byte{0x01}, 512))

	assert.InDelta(t, 1.0, a.Mean, 1e-9)
	assert.InDelta(t, 0.0, a.ShannonEntropy, 1e-9)
	assert.InDelta(t, 1.0, a.Autocorrelation, 1e-9)
	assert.Equal(t, 0, a.MinFreq)
	assert.Equal(t, 512, a.MaxFreq)
	// 255 empty bins contribute 2 each, the full bin (512-2)^2/2.
	assert.InDelta(t, 255*2.0+510.0*510.0/2.0, a.ChiSquare, 1e-6)
}

func TestAnalyzeSingleByte(t *testing.T) {
	a := Analyze([]byte{7})
	assert.Equal(t, 1, a.Length)
	assert.InDelta(t, 0.0, a.Autocorrelation, 1e-9)
}

func TestAggregate(t *testing.T) {
	results := []Result{
		{Name: "a", Duration: 2 * time.Millisecond, Throughput: 10, Analysis: Analysis{Length: 100, ShannonEntropy: 7}},
		{Name: "a", Duration: 4 * time.Millisecond, Throughput: 30, Analysis: Analysis{Length: 100, ShannonEntropy: 8}},
		{Name: "a", Error: errors.New("boom")},
		{Name: "b", Error: errors.New("boom")},
	}

	agg := Aggregate(results)
	require.Len(t, agg, 2)

	a := agg["a"]
	assert.Equal(t, 3, a.TotalTests)
	assert.Equal(t, 2, a.SuccessfulTests)
	assert.Equal(t, 1, a.FailedTests)
	assert.Equal(t, 3*time.Millisecond, a.AvgDuration)
	assert.Equal(t, 2*time.Millisecond, a.MinDuration)
	assert.Equal(t, 4*time.Millisecond, a.MaxDuration)
	assert.InDelta(t, 20.0, a.AvgThroughput, 1e-9)
	assert.InDelta(t, 10.0, a.MinThroughput, 1e-9)
	assert.InDelta(t, 30.0, a.MaxThroughput, 1e-9)
	assert.InDelta(t, 7.5, a.AvgAnalysis.ShannonEntropy, 1e-9)
	assert.Equal(t, int64(200), a.TotalDataGenerated)

	b := agg["b"]
	assert.Equal(t, 1, b.FailedTests)
	assert.Equal(t, 0, b.SuccessfulTests)
	assert.Zero(t, b.MinDuration)
	assert.Zero(t, b.MinThroughput)
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	err := WriteResults(&buf, []Result{
		{Name: "External Buffer", TestRun: 1, Duration: 1500 * time.Microsecond, Analysis: Analysis{Length: 64}},
		{Name: "System CSPRNG", TestRun: 2, Error: errors.New("read failed")},
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Generator", rows[0][0])
	assert.Equal(t, []string{"External Buffer", "1", "1.50"}, rows[1][:3])
	assert.Equal(t, "64", rows[1][11])
	assert.Equal(t, "read failed", rows[2][13])
}

func TestWriteAggregatedSorted(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAggregated(&buf, map[string]Aggregated{
		"zeta":  {Name: "zeta", TotalTests: 1},
		"alpha": {Name: "alpha", TotalTests: 2, TotalDataGenerated: 1024 * 1024},
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "alpha", rows[1][0])
	assert.Equal(t, "1.00", rows[1][15])
	assert.Equal(t, "zeta", rows[2][0])
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := SaveCSV(path, func(w io.Writer) error {
		_, err := w.Write([]byte("a,b\n"))
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestSaveCSVPropagatesWriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := SaveCSV(path, func(io.Writer) error { return errors.New("nope") })
	require.ErrorContains(t, err, "nope")
}

func TestSaveCSVMissingDirectory(t *testing.T) {
	err := SaveCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), func(io.Writer) error { return nil })
	require.Error(t, err)
}
