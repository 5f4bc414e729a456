package randgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montesim/montesim/sim"
)

func TestGenerateMidSquare_TwoDigitSeedCycles(t *testing.T) {
	// GIVEN seed 23: 0529 -> 52, 2704 -> 70, 4900 -> 90, 8100 -> 10, 0100 -> 10
	seq, err := GenerateMidSquare(MidSquareParams{Seed: 23}, 5)
	require.NoError(t, err)

	wantStates := []int64{52, 70, 90, 10, 10}
	for i, st := range seq.Steps {
		assert.Equal(t, wantStates[i], st.State, "step %d", i+1)
		assert.Equal(t, int(wantStates[i]), st.RangeCode, "step %d", i+1)
	}
	assert.Equal(t, "0529", seq.Steps[0].Square)
	assert.Equal(t, "52", seq.Steps[0].Middle)

	// THEN the repeat of 10 is a cycle advisory, not an error
	require.Len(t, seq.Advisories, 1)
	assert.Equal(t, sim.AdvisoryCycle, seq.Advisories[0].Kind)
	assert.Equal(t, 5, seq.Advisories[0].Index)
}

func TestGenerateMidSquare_FourDigitSeed(t *testing.T) {
	seq, err := GenerateMidSquare(MidSquareParams{Seed: 1234}, 2)
	require.NoError(t, err)

	assert.Equal(t, "01522756", seq.Steps[0].Square)
	assert.Equal(t, int64(5227), seq.Steps[0].State)
	assert.Equal(t, 52, seq.Steps[0].RangeCode)
	assert.InDelta(t, 0.5227, seq.Steps[0].Uniform, 1e-12)

	assert.Equal(t, "27321529", seq.Steps[1].Square)
	assert.Equal(t, int64(3215), seq.Steps[1].State)
	assert.Equal(t, 32, seq.Steps[1].RangeCode)
	assert.Empty(t, seq.Advisories)
}

func TestGenerateMidSquare_ZeroCollapseThenStuck(t *testing.T) {
	// GIVEN seed 45: 2025 -> 02, 0004 -> 00, 0000 -> 00 ...
	seq, err := GenerateMidSquare(MidSquareParams{Seed: 45}, 5)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 100, 100, 100, 100}, seq.RangeCodes())
	require.Len(t, seq.Steps, 5, "generation continues past degeneracy")

	assert.Equal(t, 1, seq.Advisories.Count(sim.AdvisoryZeroCollapse))
	assert.Equal(t, 1, seq.Advisories.Count(sim.AdvisoryStuckAtZero))
	assert.False(t, seq.Advisories.Has(sim.AdvisoryCycle), "zero repeats are reported as stuck, not as a cycle")
	for _, a := range seq.Advisories {
		switch a.Kind {
		case sim.AdvisoryZeroCollapse:
			assert.Equal(t, 2, a.Index)
		case sim.AdvisoryStuckAtZero:
			assert.Equal(t, 3, a.Index)
		}
	}
}

func TestGenerateMidSquare_OddDigitSeedFlagged(t *testing.T) {
	// seed 5 (n=1): 25 -> "2", 04 -> "0"
	seq, err := GenerateMidSquare(MidSquareParams{Seed: 5}, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), seq.Steps[0].State)
	assert.Equal(t, 2, seq.Steps[0].RangeCode, "single-digit middle is the code itself")
	assert.Equal(t, 100, seq.Steps[1].RangeCode)
	require.NotEmpty(t, seq.Advisories)
	assert.Equal(t, sim.AdvisoryOddDigitSeed, seq.Advisories[0].Kind)
	assert.Equal(t, 0, seq.Advisories[0].Index)
}

func TestGenerateMidSquare_RejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name  string
		seed  int64
		count int
	}{
		{"zero seed", 0, 3},
		{"negative seed", -12, 3},
		{"too many digits", 1234567890, 3},
		{"negative count", 12, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateMidSquare(MidSquareParams{Seed: tt.seed}, tt.count)
			assert.ErrorIs(t, err, sim.ErrConfiguration)
		})
	}
}

func TestGenerateMidSquare_RangeCodeNeverZero(t *testing.T) {
	for seed := int64(1); seed < 2000; seed += 7 {
		seq, err := GenerateMidSquare(MidSquareParams{Seed: seed}, 40)
		require.NoError(t, err)
		for _, st := range seq.Steps {
			if st.RangeCode < 1 || st.RangeCode > 100 {
				t.Fatalf("seed %d step %d: code %d outside [1,100]", seed, st.Index, st.RangeCode)
			}
		}
	}
}
