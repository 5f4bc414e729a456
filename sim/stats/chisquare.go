// Package stats implements the randomness-quality tests (chi-square
// uniformity and lag-k autocorrelation) and the descriptive summaries used
// for replicated simulation runs.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/montesim/montesim/sim"
)

// Verdict is the outcome of the chi-square uniformity test.
type Verdict string

const (
	Accepted Verdict = "accepted"
	Rejected Verdict = "rejected"
)

// CriticalSource names where a chi-square critical value came from.
type CriticalSource string

const (
	SourceTable          CriticalSource = "table"
	SourceWilsonHilferty CriticalSource = "wilson-hilferty"
)

// TableMaxDF is the largest degrees of freedom covered by the reference table.
const TableMaxDF = 19

// TableAlphas are the significance levels of the reference table, in column order.
var TableAlphas = []float64{0.005, 0.01, 0.025, 0.05, 0.10}

// chiSquareTable holds upper-tail critical values indexed by df-1, then by TableAlphas.
var chiSquareTable = [TableMaxDF][5]float64{
	{7.88, 6.63, 5.02, 3.84, 2.71},
	{10.60, 9.21, 7.38, 5.99, 4.61},
	{12.84, 11.34, 9.35, 7.81, 6.25},
	{14.96, 13.28, 11.14, 9.49, 7.78},
	{16.7, 15.1, 12.8, 11.1, 9.2},
	{18.5, 16.8, 14.4, 12.6, 10.6},
	{20.3, 18.5, 16.0, 14.1, 12.0},
	{22.0, 20.1, 17.5, 15.5, 13.4},
	{23.6, 21.7, 19.0, 16.9, 14.7},
	{25.2, 23.2, 20.5, 18.3, 16.0},
	{26.8, 24.7, 21.9, 19.7, 17.3},
	{28.3, 26.2, 23.3, 21.0, 18.5},
	{29.8, 27.7, 24.7, 22.4, 19.8},
	{31.3, 29.1, 26.1, 23.7, 21.1},
	{32.8, 30.6, 27.5, 25.0, 22.3},
	{34.3, 32.0, 28.8, 26.3, 23.5},
	{35.7, 33.4, 30.2, 27.6, 24.8},
	{37.2, 34.8, 31.5, 28.9, 26.0},
	{38.6, 36.2, 32.9, 30.1, 27.2},
}

// wilsonHilfertyZ are the normal quantiles used beyond the table.
var wilsonHilfertyZ = map[float64]float64{
	0.10: 1.28,
	0.05: 1.645,
	0.01: 2.33,
}

// ChiSquareConfig is the input of ChiSquare.
type ChiSquareConfig struct {
	Sample    []float64
	Intervals int     // k
	Alpha     float64 // significance level
}

// IntervalRow is the per-interval calculation of the statistic.
type IntervalRow struct {
	Lower       float64 `json:"lower" yaml:"lower"`
	Upper       float64 `json:"upper" yaml:"upper"`
	Closed      bool    `json:"closed" yaml:"closed"` // upper bound included (last interval)
	Observed    int     `json:"observed" yaml:"observed"`
	Expected    float64 `json:"expected" yaml:"expected"`
	Diff        float64 `json:"diff" yaml:"diff"`
	DiffSquared float64 `json:"diff_squared" yaml:"diff_squared"`
	Term        float64 `json:"term" yaml:"term"`
}

// Label renders the interval as [lo, hi) or [lo, hi].
func (r IntervalRow) Label() string {
	closing := ")"
	if r.Closed {
		closing = "]"
	}
	return fmt.Sprintf("[%.2f, %.2f%s", r.Lower, r.Upper, closing)
}

// ChiSquareResult is the outcome of the uniformity test.
type ChiSquareResult struct {
	N              int            `json:"n" yaml:"n"`
	Intervals      int            `json:"intervals" yaml:"intervals"`
	DF             int            `json:"df" yaml:"df"`
	Alpha          float64        `json:"alpha" yaml:"alpha"`
	Calculated     float64        `json:"calculated" yaml:"calculated"`
	Critical       float64        `json:"critical" yaml:"critical"`
	CriticalSource CriticalSource `json:"critical_source" yaml:"critical_source"`
	// ExactCritical and PValue come from the chi-squared distribution itself
	// and are reported alongside the reference value; the verdict uses Critical.
	ExactCritical float64       `json:"exact_critical" yaml:"exact_critical"`
	PValue        float64       `json:"p_value" yaml:"p_value"`
	Rows          []IntervalRow `json:"rows" yaml:"rows"`
	Verdict       Verdict       `json:"verdict" yaml:"verdict"`
}

// ChiSquare tests the sample for uniformity on [0, 1].
//
// The interval i holds values in [i/k, (i+1)/k); the last one is closed so 1.0
// counts. χ² = Σ(Oi-Ei)²/Ei with Ei = N/k and df = k-1. Uniformity is
// accepted iff χ² is strictly below the critical value.
func ChiSquare(cfg ChiSquareConfig) (*ChiSquareResult, error) {
	n, k := len(cfg.Sample), cfg.Intervals
	if n == 0 {
		return nil, fmt.Errorf("%w: chi-square needs at least one sample value", sim.ErrInsufficientData)
	}
	if k < 2 {
		return nil, fmt.Errorf("%w: interval count must be at least 2, got %d", sim.ErrConfiguration, k)
	}
	for i, v := range cfg.Sample {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: sample value %d must lie in [0, 1], got %v", sim.ErrConfiguration, i+1, v)
		}
	}
	df := k - 1
	critical, source, err := CriticalValue(df, cfg.Alpha)
	if err != nil {
		return nil, err
	}

	observed := make([]int, k)
	for _, v := range cfg.Sample {
		idx := min(int(math.Floor(v*float64(k))), k-1)
		observed[idx]++
	}

	expected := float64(n) / float64(k)
	res := &ChiSquareResult{
		N:              n,
		Intervals:      k,
		DF:             df,
		Alpha:          cfg.Alpha,
		Critical:       critical,
		CriticalSource: source,
		Rows:           make([]IntervalRow, k),
	}
	for i := range observed {
		diff := float64(observed[i]) - expected
		row := IntervalRow{
			Lower:       float64(i) / float64(k),
			Upper:       float64(i+1) / float64(k),
			Closed:      i == k-1,
			Observed:    observed[i],
			Expected:    expected,
			Diff:        diff,
			DiffSquared: diff * diff,
			Term:        diff * diff / expected,
		}
		res.Calculated += row.Term
		res.Rows[i] = row
	}

	chi := distuv.ChiSquared{K: float64(df)}
	res.ExactCritical = chi.Quantile(1 - cfg.Alpha)
	res.PValue = chi.Survival(res.Calculated)
	res.Verdict = Rejected
	if res.Calculated < res.Critical {
		res.Verdict = Accepted
	}
	return res, nil
}

// CriticalValue returns the upper-tail critical value for df and alpha: the
// reference table for df ≤ 19, else the Wilson–Hilferty approximation.
func CriticalValue(df int, alpha float64) (float64, CriticalSource, error) {
	if df < 1 {
		return 0, "", fmt.Errorf("%w: degrees of freedom must be positive, got %d", sim.ErrConfiguration, df)
	}
	if df <= TableMaxDF {
		for col, a := range TableAlphas {
			if sameAlpha(a, alpha) {
				return chiSquareTable[df-1][col], SourceTable, nil
			}
		}
		return 0, "", fmt.Errorf("%w: alpha %v is not in the reference table %v", sim.ErrConfiguration, alpha, TableAlphas)
	}
	for a, z := range wilsonHilfertyZ {
		if sameAlpha(a, alpha) {
			return WilsonHilferty(df, z), SourceWilsonHilferty, nil
		}
	}
	return 0, "", fmt.Errorf("%w: alpha %v is unsupported beyond df %d (use 0.10, 0.05 or 0.01)", sim.ErrConfiguration, alpha, TableMaxDF)
}

// WilsonHilferty approximates the chi-squared quantile with normal quantile z:
// df·(1 - 2/(9df) + z·√(2/(9df)))³.
func WilsonHilferty(df int, z float64) float64 {
	d := float64(df)
	h := 2 / (9 * d)
	return d * math.Pow(1-h+z*math.Sqrt(h), 3)
}

func sameAlpha(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
