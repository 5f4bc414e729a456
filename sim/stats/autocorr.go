package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/montesim/montesim/sim"
)

// Independence is the outcome of the autocorrelation test.
type Independence string

const (
	Independent Independence = "independent"
	Dependent   Independence = "dependent"
)

const (
	DefaultMaxLag    = 10
	DefaultThreshold = 0.25
	// MinAutocorrelationSample is the smallest sample the test accepts.
	MinAutocorrelationSample = 3
)

// AutocorrelationConfig is the input of Autocorrelation. Zero MaxLag and
// Threshold select the defaults.
type AutocorrelationConfig struct {
	Sample    []float64
	MaxLag    int
	Threshold float64
}

// LagResult is the autocorrelation at one lag.
type LagResult struct {
	Lag  int     `json:"k" yaml:"k"`
	R    float64 `json:"r" yaml:"r"`
	AbsR float64 `json:"abs_r" yaml:"abs_r"`
}

// AutocorrelationResult is the outcome of the independence test.
type AutocorrelationResult struct {
	N           int          `json:"n" yaml:"n"`
	Mean        float64      `json:"mean" yaml:"mean"`
	Variance    float64      `json:"variance" yaml:"variance"`
	Lags        []LagResult  `json:"per_lag" yaml:"per_lag"`
	AverageAbsR float64      `json:"average_abs_r" yaml:"average_abs_r"`
	Threshold   float64      `json:"threshold" yaml:"threshold"`
	Verdict     Independence `json:"verdict" yaml:"verdict"`
}

// Autocorrelation computes, for k = 1..min(N-1, MaxLag),
//
//	r(k) = Σ_{i=1}^{N-k} (R_i - mean)(R_{i+k} - mean) / ((N-k)·variance)
//
// with the unbiased (N-1) variance. The sample is judged independent iff the
// average |r(k)| is below Threshold. A constant sample has no variance and
// fails with ErrComputation.
func Autocorrelation(cfg AutocorrelationConfig) (*AutocorrelationResult, error) {
	n := len(cfg.Sample)
	if n < MinAutocorrelationSample {
		return nil, fmt.Errorf("%w: autocorrelation needs at least %d values, got %d", sim.ErrInsufficientData, MinAutocorrelationSample, n)
	}
	maxLag, threshold := cfg.MaxLag, cfg.Threshold
	if maxLag == 0 {
		maxLag = DefaultMaxLag
	}
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("%w: max lag must be positive, got %d", sim.ErrConfiguration, maxLag)
	}
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("%w: threshold must be positive, got %v", sim.ErrConfiguration, threshold)
	}
	for i, v := range cfg.Sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: sample value %d is not finite", sim.ErrConfiguration, i+1)
		}
	}

	mean, variance := stat.MeanVariance(cfg.Sample, nil)
	if variance == 0 || constant(cfg.Sample) {
		return nil, fmt.Errorf("%w: sample variance is zero (all %d values equal %v)", sim.ErrComputation, n, cfg.Sample[0])
	}

	lags := min(n-1, maxLag)
	res := &AutocorrelationResult{
		N:         n,
		Mean:      mean,
		Variance:  variance,
		Lags:      make([]LagResult, 0, lags),
		Threshold: threshold,
	}
	sumAbs := 0.0
	for k := 1; k <= lags; k++ {
		num := 0.0
		for i := 0; i+k < n; i++ {
			num += (cfg.Sample[i] - mean) * (cfg.Sample[i+k] - mean)
		}
		r := num / (float64(n-k) * variance)
		res.Lags = append(res.Lags, LagResult{Lag: k, R: r, AbsR: math.Abs(r)})
		sumAbs += math.Abs(r)
	}
	res.AverageAbsR = sumAbs / float64(lags)
	res.Verdict = Dependent
	if res.AverageAbsR < threshold {
		res.Verdict = Independent
	}
	return res, nil
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
