// Package testutil provides shared test infrastructure for the montesim engine.
// It consolidates golden dataset types and assertion helpers used across
// sim/randgen/ and sim/scenario/ test packages.
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
	Generators []GoldenGenerator `json:"generators"`
	Scenarios  []GoldenScenario  `json:"scenarios"`
}

// GoldenGenerator is one expected generator sequence.
type GoldenGenerator struct {
	Name       string  `json:"name"`
	Method     string  `json:"method"`
	A          int64   `json:"a,omitempty"`
	C          int64   `json:"c,omitempty"`
	M          int64   `json:"m,omitempty"`
	Seed       int64   `json:"seed"`
	Count      int     `json:"count"`
	States     []int64 `json:"states"`
	RangeCodes []int   `json:"range_codes"`
}

// GoldenScenario is one scenario file with its expected headline metrics.
type GoldenScenario struct {
	Name string `json:"name"`
	// File is relative to testdata/.
	File    string             `json:"file"`
	Metrics map[string]float64 `json:"metrics"`
}

// TestdataPath resolves elems under the repo root testdata/ directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, elems ...string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	parts := append([]string{filepath.Dir(thisFile), "..", "..", "..", "testdata"}, elems...)
	return filepath.Join(parts...)
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	data, err := os.ReadFile(TestdataPath(t, "goldendataset.json"))
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
