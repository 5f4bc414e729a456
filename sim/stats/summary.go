package stats

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/montesim/montesim/sim"
)

// Number is the set of element types the summary helpers accept.
type Number interface {
	int | int64 | float64
}

// Percentile returns the p-th percentile of sorted data, interpolating
// linearly between the two nearest ranks.
func Percentile[T Number](sorted []T, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := p / 100.0 * float64(n-1)
	lower := int(rank)
	upper := min(lower+1, n-1)
	if lower == upper || rank == float64(lower) {
		return float64(sorted[lower])
	}
	return float64(sorted[lower]) + float64(sorted[upper]-sorted[lower])*(rank-float64(lower))
}

// Mean returns the arithmetic mean, or 0 for no data.
func Mean[T Number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// Distribution describes a metric observed over replicated runs.
type Distribution struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	P50    float64 `json:"p50" yaml:"p50"`
	P90    float64 `json:"p90" yaml:"p90"`
	Max    float64 `json:"max" yaml:"max"`
}

func (d Distribution) String() string {
	return fmt.Sprintf("n=%d mean=%.4f sd=%.4f min=%.4f p50=%.4f p90=%.4f max=%.4f",
		d.Count, d.Mean, d.StdDev, d.Min, d.P50, d.P90, d.Max)
}

// Describe summarizes values. The standard deviation uses the unbiased
// estimator and is 0 for a single value.
func Describe(values []float64) (Distribution, error) {
	if len(values) == 0 {
		return Distribution{}, fmt.Errorf("%w: no values to describe", sim.ErrInsufficientData)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	d := Distribution{
		Count: len(sorted),
		Mean:  Mean(sorted),
		Min:   sorted[0],
		P50:   Percentile(sorted, 50),
		P90:   Percentile(sorted, 90),
		Max:   sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	return d, nil
}
