// Package testutil provides shared test infrastructure for the simulator.
// It holds the golden dataset types and loader used by sim/ test packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one hand-checked scenario. Times are in ticks.
type GoldenTestCase struct {
	Name          string        `json:"name"`
	Seed          int64         `json:"seed"`
	DurationTicks int64         `json:"duration_ticks"`
	Nodes         int           `json:"nodes"`
	Capacity      int           `json:"capacity"`
	UpdatePeriod  int64         `json:"update_period"`
	Distributions []string      `json:"distributions"`
	Metrics       GoldenMetrics `json:"metrics"`
}

// GoldenMetrics mirrors the result JSON of a run.
type GoldenMetrics struct {
	Pods           int `json:"pods"`
	NodeUpdates    int `json:"node_updates"`
	Success        int `json:"success"`
	FailedDirty    int `json:"failed_dirty"`
	FailedCapacity int `json:"failed_capacity"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("golden dataset has no tests")
	}

	return &dataset
}
