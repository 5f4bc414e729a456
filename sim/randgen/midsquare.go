package randgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/montesim/montesim/sim"
)

// MaxMidSquareDigits bounds the seed length so the square fits in an int64.
const MaxMidSquareDigits = 9

// MidSquareParams holds the seed; its decimal length fixes the digit count n.
type MidSquareParams struct {
	Seed int64 `json:"seed" yaml:"seed"`
}

// Validate requires a positive seed of at most MaxMidSquareDigits digits.
func (p MidSquareParams) Validate() error {
	if p.Seed <= 0 {
		return fmt.Errorf("%w: middle-square seed must be positive, got %d", sim.ErrConfiguration, p.Seed)
	}
	if n := len(strconv.FormatInt(p.Seed, 10)); n > MaxMidSquareDigits {
		return fmt.Errorf("%w: middle-square seed has %d digits, at most %d supported", sim.ErrConfiguration, n, MaxMidSquareDigits)
	}
	return nil
}

// GenerateMidSquare produces count steps of the middle-square method.
//
// Each step squares Z, left-pads the square with zeros to 2n digits and keeps
// the n digits starting at offset n/2. The range code is the first two middle
// digits (or the whole middle when n = 1) with 0 remapped to 100; Uniform is
// Z / 10^n.
//
// Degeneracy is flagged, never fatal: an odd n, the state collapsing to zero,
// the state staying at zero on the following step, and the first repeat of a
// non-zero state.
func GenerateMidSquare(p MidSquareParams, count int) (*Sequence, error) {
	if err := validateCount(count); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := len(strconv.FormatInt(p.Seed, 10))
	scale := math.Pow10(n)
	seq := &Sequence{Method: MethodMidSquare, Seed: p.Seed, Steps: make([]Step, 0, count)}
	if n%2 != 0 {
		seq.Advisories = append(seq.Advisories, sim.Advisory{
			Kind:    sim.AdvisoryOddDigitSeed,
			Message: fmt.Sprintf("seed %d has an odd digit count (%d); the middle is taken off-centre", p.Seed, n),
		})
	}

	z := p.Seed
	seen := map[int64]int{z: 0}
	var cycleReported, collapseReported, stuckReported bool

	for i := 1; i <= count; i++ {
		square := strconv.FormatInt(z*z, 10)
		if pad := 2*n - len(square); pad > 0 {
			square = strings.Repeat("0", pad) + square
		}
		start := n / 2
		middle := square[start : start+n]
		next, _ := strconv.ParseInt(middle, 10, 64)

		code := int(next)
		if n >= 2 {
			code, _ = strconv.Atoi(middle[:2])
		}

		seq.Steps = append(seq.Steps, Step{
			Index:     i,
			State:     next,
			Uniform:   float64(next) / scale,
			Square:    square,
			Middle:    middle,
			RangeCode: toRangeCode(code),
		})

		switch {
		case next == 0 && z == 0:
			if !stuckReported {
				stuckReported = true
				seq.Advisories = append(seq.Advisories, sim.Advisory{
					Kind:    sim.AdvisoryStuckAtZero,
					Index:   i,
					Message: "state is stuck at zero; all remaining values are zero",
				})
				logrus.Debugf("midsquare: stuck at zero from step %d", i)
			}
		case next == 0:
			if !collapseReported {
				collapseReported = true
				seq.Advisories = append(seq.Advisories, sim.Advisory{
					Kind:    sim.AdvisoryZeroCollapse,
					Index:   i,
					Message: fmt.Sprintf("state collapsed to zero (square %s)", square),
				})
			}
		default:
			if prev, ok := seen[next]; ok {
				if !cycleReported {
					cycleReported = true
					seq.Advisories = append(seq.Advisories, sim.Advisory{
						Kind:    sim.AdvisoryCycle,
						Index:   i,
						Message: fmt.Sprintf("state %d first seen at step %d; cycle length %d", next, prev, i-prev),
					})
					logrus.Debugf("midsquare: cycle at step %d (state %d)", i, next)
				}
			} else {
				seen[next] = i
			}
		}
		z = next
	}
	return seq, nil
}
