package randgen

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/sirupsen/logrus"

	"github.com/montesim/montesim/sim"
)

// LCGParams parameterizes Z_i = (A·Z_{i-1} + C) mod M.
type LCGParams struct {
	A    int64 `json:"a" yaml:"a"`
	C    int64 `json:"c" yaml:"c"`
	M    int64 `json:"m" yaml:"m"`
	Seed int64 `json:"seed" yaml:"seed"`
}

// Validate rejects a zero or negative modulus before any step is computed.
func (p LCGParams) Validate() error {
	if p.M <= 0 {
		return fmt.Errorf("%w: lcg modulus m must be positive, got %d", sim.ErrConfiguration, p.M)
	}
	return nil
}

// GenerateLCG produces count steps of the linear congruential generator.
//
// U_i = Z_i / M and RN_i = floor(U_i·100) with 0 remapped to 100. Operands are
// first reduced into [0, M) with a floor modulus and the product is formed in
// 128 bits, so the state never overflows and never goes negative.
// A state that repeats an earlier one is reported once as a state-revisit
// advisory; generation continues.
func GenerateLCG(p LCGParams, count int) (*Sequence, error) {
	if err := validateCount(count); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m := uint64(p.M)
	a := floorMod(p.A, p.M)
	c := floorMod(p.C, p.M)
	z := floorMod(p.Seed, p.M)

	seq := &Sequence{Method: MethodLCG, Seed: p.Seed, Steps: make([]Step, 0, count)}
	seen := map[uint64]int{z: 0}
	revisitReported := false

	for i := 1; i <= count; i++ {
		hi, lo := bits.Mul64(a, z)
		lo, carry := bits.Add64(lo, c, 0)
		hi += carry
		z = bits.Rem64(hi, lo, m)

		u := float64(z) / float64(m)
		rn := toRangeCode(int(math.Floor(u * RangeCodeBase)))
		seq.Steps = append(seq.Steps, Step{Index: i, State: int64(z), Uniform: u, RangeCode: rn})

		if prev, ok := seen[z]; ok && !revisitReported {
			revisitReported = true
			seq.Advisories = append(seq.Advisories, sim.Advisory{
				Kind:    sim.AdvisoryStateRevisit,
				Index:   i,
				Message: fmt.Sprintf("state %d first seen at step %d; period %d", z, prev, i-prev),
			})
			logrus.Debugf("lcg: state %d revisited at step %d (first at %d)", z, i, prev)
		} else if !ok {
			seen[z] = i
		}
	}
	return seq, nil
}

// floorMod returns v mod m in [0, m) for m > 0.
func floorMod(v, m int64) uint64 {
	r := v % m
	if r < 0 {
		r += m
	}
	return uint64(r)
}
