package stats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montesim/montesim/sim"
)

func uniformSample(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = (float64(i) + 0.5) / float64(n)
	}
	return out
}

func TestChiSquare_PerfectlyUniformAcceptedAtEveryAlpha(t *testing.T) {
	// GIVEN 100 values spread 10 per interval
	sample := uniformSample(100)

	for _, alpha := range TableAlphas {
		// WHEN tested with k=10
		res, err := ChiSquare(ChiSquareConfig{Sample: sample, Intervals: 10, Alpha: alpha})
		require.NoError(t, err)

		// THEN χ² is 0 and uniformity is accepted
		assert.Equal(t, 0.0, res.Calculated, "alpha %v", alpha)
		assert.Equal(t, Accepted, res.Verdict, "alpha %v", alpha)
		assert.Equal(t, 9, res.DF)
		assert.Equal(t, SourceTable, res.CriticalSource)
		assert.InDelta(t, 1.0, res.PValue, 1e-9)
		for _, row := range res.Rows {
			assert.Equal(t, 10, row.Observed)
			assert.Equal(t, 10.0, row.Expected)
		}
	}
}

func TestChiSquare_SkewedSampleRejected(t *testing.T) {
	sample := make([]float64, 100)
	for i := range sample {
		sample[i] = 0.05
	}
	res, err := ChiSquare(ChiSquareConfig{Sample: sample, Intervals: 10, Alpha: 0.05})
	require.NoError(t, err)
	assert.InDelta(t, 900.0, res.Calculated, 1e-9)
	assert.Equal(t, Rejected, res.Verdict)
	assert.Equal(t, 16.9, res.Critical)
	assert.InDelta(t, 16.919, res.ExactCritical, 0.01)
	assert.Less(t, res.PValue, 1e-6)
}

func TestChiSquare_OneFallsInLastInterval(t *testing.T) {
	res, err := ChiSquare(ChiSquareConfig{Sample: []float64{0, 0.5, 1.0, 0.99}, Intervals: 2, Alpha: 0.05})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows[0].Observed)
	assert.Equal(t, 3, res.Rows[1].Observed)
	assert.True(t, res.Rows[1].Closed)
	assert.Equal(t, "[0.50, 1.00]", res.Rows[1].Label())
	assert.Equal(t, "[0.00, 0.50)", res.Rows[0].Label())
}

func TestChiSquare_BoundaryStatisticIsRejected(t *testing.T) {
	// Acceptance requires χ² strictly below the critical value. With k=2,
	// N=4 and all values low: χ² = (4-2)²/2 + (0-2)²/2 = 4 ≥ 3.84.
	res, err := ChiSquare(ChiSquareConfig{Sample: []float64{0.1, 0.1, 0.1, 0.1}, Intervals: 2, Alpha: 0.05})
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.Calculated)
	assert.Equal(t, Rejected, res.Verdict)
}

func TestCriticalValue(t *testing.T) {
	tests := []struct {
		df     int
		alpha  float64
		want   float64
		source CriticalSource
	}{
		{1, 0.05, 3.84, SourceTable},
		{9, 0.005, 23.6, SourceTable},
		{19, 0.10, 27.2, SourceTable},
		{25, 0.05, 37.65, SourceWilsonHilferty},
		{30, 0.01, 50.89, SourceWilsonHilferty},
	}
	for _, tc := range tests {
		got, src, err := CriticalValue(tc.df, tc.alpha)
		require.NoError(t, err)
		assert.Equal(t, tc.source, src, "df=%d alpha=%v", tc.df, tc.alpha)
		assert.InDelta(t, tc.want, got, 0.1, "df=%d alpha=%v", tc.df, tc.alpha)
	}
}

func TestChiSquare_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		cfg  ChiSquareConfig
		want error
	}{
		{"empty sample", ChiSquareConfig{Intervals: 10, Alpha: 0.05}, sim.ErrInsufficientData},
		{"one interval", ChiSquareConfig{Sample: []float64{0.5}, Intervals: 1, Alpha: 0.05}, sim.ErrConfiguration},
		{"value above one", ChiSquareConfig{Sample: []float64{1.5}, Intervals: 2, Alpha: 0.05}, sim.ErrConfiguration},
		{"negative value", ChiSquareConfig{Sample: []float64{-0.1}, Intervals: 2, Alpha: 0.05}, sim.ErrConfiguration},
		{"alpha not in table", ChiSquareConfig{Sample: []float64{0.5}, Intervals: 5, Alpha: 0.2}, sim.ErrConfiguration},
		{"alpha unsupported past table", ChiSquareConfig{Sample: []float64{0.5}, Intervals: 30, Alpha: 0.025}, sim.ErrConfiguration},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ChiSquare(tc.cfg)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}
