package scenario

import (
	"testing"

	"github.com/montesim/montesim/sim/internal/testutil"
)

func TestRun_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	if len(dataset.Scenarios) == 0 {
		t.Fatal("golden dataset has no scenario cases")
	}

	for _, tc := range dataset.Scenarios {
		t.Run(tc.Name, func(t *testing.T) {
			sc, err := Load(testutil.TestdataPath(t, tc.File))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			rep, err := Run(sc, nil)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			got := rep.Metrics()
			for name, want := range tc.Metrics {
				v, ok := got[name]
				if !ok {
					t.Errorf("metric %s missing from report", name)
					continue
				}
				testutil.AssertFloat64Equal(t, name, want, v, 1e-9)
			}
		})
	}
}
