package dist

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montesim/montesim/sim"
)

func serviceRows() []Row {
	return []Row{
		{Value: 1, Probability: 0.10},
		{Value: 2, Probability: 0.20},
		{Value: 3, Probability: 0.30},
		{Value: 4, Probability: 0.25},
		{Value: 5, Probability: 0.10},
		{Value: 6, Probability: 0.05},
	}
}

func TestBuild_TwoDigitTable(t *testing.T) {
	tbl, err := Build(serviceRows())
	require.NoError(t, err)

	assert.Equal(t, 100, tbl.Base)
	assert.Equal(t, 2, tbl.Precision)
	want := [][2]int{{1, 10}, {11, 30}, {31, 60}, {61, 85}, {86, 95}, {96, 100}}
	wantCum := []float64{0.10, 0.30, 0.60, 0.85, 0.95, 1.00}
	for i, c := range tbl.Cells {
		assert.Equal(t, want[i][0], c.RangeStart, "row %d start", i+1)
		assert.Equal(t, want[i][1], c.RangeEnd, "row %d end", i+1)
		assert.InDelta(t, wantCum[i], c.Cumulative, 1e-12, "row %d cumulative", i+1)
		assert.Equal(t, 100, c.Base)
	}
	_, _, gap := tbl.Gap()
	assert.False(t, gap)
}

func TestBuild_ThreeDigitPrecisionSwitchesBase(t *testing.T) {
	rows := make([]Row, 8)
	for i := range rows {
		rows[i] = Row{Value: float64(i + 1), Probability: 0.125}
	}
	tbl, err := Build(rows)
	require.NoError(t, err)

	assert.Equal(t, 1000, tbl.Base)
	assert.Equal(t, 3, tbl.Precision)
	assert.Equal(t, 1, tbl.Cells[0].RangeStart)
	assert.Equal(t, 125, tbl.Cells[0].RangeEnd)
	assert.Equal(t, 876, tbl.Cells[7].RangeStart)
	assert.Equal(t, 1000, tbl.Cells[7].RangeEnd)
}

func TestBuild_PartitionsBaseWithoutGapsOrOverlaps(t *testing.T) {
	// Property: integer partitions of 100 give probabilities summing to exactly 1
	// at two decimals, so ranges must tile [1,100].
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 500; trial++ {
		remaining := 100
		var rows []Row
		for remaining > 0 {
			k := 1 + rng.Intn(remaining)
			if len(rows) == 8 {
				k = remaining
			}
			rows = append(rows, Row{Value: float64(len(rows)), Probability: float64(k) / 100})
			remaining -= k
		}
		tbl, err := Build(rows)
		require.NoError(t, err)
		require.Equal(t, 100, tbl.Base, "trial %d rows %+v", trial, rows)

		next := 1
		for i, c := range tbl.Cells {
			if c.RangeStart != next {
				t.Fatalf("trial %d row %d: start %d, want %d (rows %+v)", trial, i, c.RangeStart, next, rows)
			}
			if c.RangeEnd < c.RangeStart {
				t.Fatalf("trial %d row %d: empty range %d-%d", trial, i, c.RangeStart, c.RangeEnd)
			}
			next = c.RangeEnd + 1
		}
		if last := tbl.Cells[len(tbl.Cells)-1].RangeEnd; last != tbl.Base {
			t.Fatalf("trial %d: last range end %d, want %d", trial, last, tbl.Base)
		}
	}
}

func TestLookup_InvertsCodes(t *testing.T) {
	tbl, err := Build(serviceRows())
	require.NoError(t, err)

	tests := []struct {
		code int
		want float64
	}{
		{1, 1}, {10, 1}, {11, 2}, {30, 2}, {31, 3}, {60, 3},
		{61, 4}, {85, 4}, {86, 5}, {95, 5}, {96, 6}, {100, 6},
		{0, 6}, // "00" wraps to the base
	}
	for _, tt := range tests {
		v, fb := tbl.Resolve(tt.code)
		assert.Equal(t, tt.want, v, "code %d", tt.code)
		assert.False(t, fb, "code %d", tt.code)
		assert.Equal(t, tt.want, tbl.Lookup(tt.code))
	}
}

func TestLookup_UnderSumFallsBackToLastRow(t *testing.T) {
	// GIVEN probabilities summing to 0.8
	tbl, err := Build([]Row{{Value: 1, Probability: 0.5}, {Value: 2, Probability: 0.3}})
	require.NoError(t, err)

	// THEN codes 81..100 are uncovered
	from, to, ok := tbl.Gap()
	require.True(t, ok)
	assert.Equal(t, 81, from)
	assert.Equal(t, 100, to)
	adv, ok := tbl.CoverageAdvisory()
	require.True(t, ok)
	assert.Equal(t, sim.AdvisoryCoverageGap, adv.Kind)

	// AND a code in the gap resolves to the last row, flagged as fallback
	v, fb := tbl.Resolve(90)
	assert.Equal(t, 2.0, v)
	assert.True(t, fb)
}

func TestBuild_ClampsRangeStartToBase(t *testing.T) {
	tbl, err := Build([]Row{{Value: 1, Probability: 1.0}, {Value: 2, Probability: 0.1}})
	require.NoError(t, err)

	assert.Equal(t, 100, tbl.Cells[1].RangeStart)
	assert.Equal(t, 110, tbl.Cells[1].RangeEnd)
	// code 100 still resolves to the first matching row
	assert.Equal(t, 1.0, tbl.Lookup(100))
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, sim.ErrInsufficientData)

	_, err = Build([]Row{{Value: 1, Probability: -0.1}, {Value: 2, Probability: 1.1}})
	assert.ErrorIs(t, err, sim.ErrConfiguration)
}

func TestMap_RecordsFallback(t *testing.T) {
	tbl, err := Build([]Row{{Value: 3, Probability: 0.5}, {Value: 7, Probability: 0.25}})
	require.NoError(t, err)

	draws := tbl.Map([]int{10, 60, 99})
	assert.Equal(t, []Draw{
		{Code: 10, Value: 3},
		{Code: 60, Value: 7},
		{Code: 99, Value: 7, Fallback: true},
	}, draws)

	advs := FallbackAdvisories(draws)
	require.Len(t, advs, 1)
	assert.Equal(t, 3, advs[0].Index)
}

func TestRequireIntegral(t *testing.T) {
	ok, err := Build([]Row{{Value: 0, Probability: 0.5}, {Value: 4, Probability: 0.5}})
	require.NoError(t, err)
	assert.NoError(t, ok.RequireIntegral("demand"))

	frac, err := Build([]Row{{Value: 1.5, Probability: 1}})
	require.NoError(t, err)
	assert.ErrorIs(t, frac.RequireIntegral("demand"), sim.ErrConfiguration)
}

func TestTable_Mean(t *testing.T) {
	tbl, err := Build(serviceRows())
	require.NoError(t, err)
	assert.InDelta(t, 3.2, tbl.Mean(), 1e-9)
}
