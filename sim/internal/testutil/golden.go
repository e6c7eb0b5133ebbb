// Package testutil provides shared test infrastructure for the AoI simulator:
// the golden scenario dataset and float assertion helpers.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldenscenarios.json.
type GoldenDataset struct {
	Scenarios []GoldenScenario `json:"scenarios"`
}

// GoldenScenario is one reference run. Times are in milliseconds.
type GoldenScenario struct {
	Name               string        `json:"name"`
	Seed               int64         `json:"seed"`
	Flows              int           `json:"flows"`
	Packets            uint64        `json:"packets"`
	InitDelayMs        float64       `json:"init_delay_ms"`
	PeriodicityMs      float64       `json:"periodicity_ms"`
	HorizonMs          float64       `json:"horizon_ms"`
	ConfiguredGrant    bool          `json:"configured_grant"`
	ResourcesPerSlot   int           `json:"resources_per_slot"`
	SuccessProbability float64       `json:"success_probability"`
	MaxRetransmissions int           `json:"max_retransmissions"`
	Metrics            GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected outcome of a golden scenario.
type GoldenMetrics struct {
	// Exact match counts
	Created   int `json:"created"`
	Delivered int `json:"delivered"`
	Dropped   int `json:"dropped"`

	// Latency of delivered packets
	MeanLatencyMs float64 `json:"mean_latency_ms"`
	MaxLatencyMs  float64 `json:"max_latency_ms"`

	// Flow 1 end state
	FinalAoI float64 `json:"final_aoi"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldenscenarios.json")
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
