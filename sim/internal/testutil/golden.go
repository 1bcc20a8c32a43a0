// Package testutil provides shared test infrastructure for the array
// simulator: the golden scenario dataset and float comparison helpers.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one array shape, one request stream and the metrics it
// must produce. Disk and power timings come from the test's base config.
type GoldenTestCase struct {
	Name            string          `json:"name"`
	Disks           int             `json:"disks"`
	Replicas        int             `json:"replicas"`
	CacheMemories   int             `json:"cache_memories"`
	CacheCapacity   int             `json:"cache_capacity"`
	OverflowPolicy  string          `json:"overflow_policy"`
	ProactiveSpinUp bool            `json:"proactive_spin_up"`
	Requests        []GoldenRequest `json:"requests"`
	Metrics         GoldenMetrics   `json:"metrics"`
}

// GoldenRequest is one workload row.
type GoldenRequest struct {
	Time  float64 `json:"time"`
	Op    string  `json:"op"`
	Block int64   `json:"block"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	// exact counts
	Writes           int `json:"writes"`
	Reads            int `json:"reads"`
	CacheHits        int `json:"cache_hits"`
	Drains           int `json:"drains"`
	DrainedBlocks    int `json:"drained_blocks"`
	ProactiveSpinUps int `json:"proactive_spin_ups"`
	SpinUps          int `json:"spin_ups"`

	// derived from the simulation clock
	SimEndedTime float64 `json:"sim_ended_time_s"`
	ReadMeanS    float64 `json:"read_mean_s"`
	DrainMeanS   float64 `json:"drain_mean_s"`
	TotalEnergyJ float64 `json:"total_energy_j"`
	StandbyTimeS float64 `json:"standby_time_s"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
