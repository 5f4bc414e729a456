// Package randgen implements the two deterministic pseudo-random generators of
// the toolkit: the linear congruential generator and von Neumann's
// middle-square method. Both return structured step records; rendering them
// as tables is left to the caller.
package randgen

import (
	"fmt"
	"math"

	"github.com/montesim/montesim/sim"
)

// Method names a generator.
type Method string

const (
	MethodLCG       Method = "lcg"
	MethodMidSquare Method = "midsquare"
)

// ValidMethods is the set of recognized generator names.
var ValidMethods = map[Method]bool{MethodLCG: true, MethodMidSquare: true}

// RangeCodeBase is the width of the integer code every generator emits.
// Codes are in [1, RangeCodeBase]; a computed 0 wraps to RangeCodeBase.
const RangeCodeBase = 100

// Step is one generated value.
type Step struct {
	Index   int     `json:"index" yaml:"index"`
	State   int64   `json:"state" yaml:"state"`
	Uniform float64 `json:"uniform" yaml:"uniform"`
	// Square and Middle are populated by the middle-square method only:
	// the zero-padded square and the extracted middle digits.
	Square    string `json:"square,omitempty" yaml:"square,omitempty"`
	Middle    string `json:"middle,omitempty" yaml:"middle,omitempty"`
	RangeCode int    `json:"range_code" yaml:"range_code"`
}

// Sequence is the full output of one generator invocation.
type Sequence struct {
	Method Method `json:"method" yaml:"method"`
	// Seed is the initial state (the "step 0" row).
	Seed       int64          `json:"seed" yaml:"seed"`
	Steps      []Step         `json:"steps" yaml:"steps"`
	Advisories sim.Advisories `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

// RangeCodes returns the integer codes of every step, in order.
func (s *Sequence) RangeCodes() []int {
	codes := make([]int, len(s.Steps))
	for i, st := range s.Steps {
		codes[i] = st.RangeCode
	}
	return codes
}

// Uniforms returns the U_i values of every step, in order.
func (s *Sequence) Uniforms() []float64 {
	us := make([]float64, len(s.Steps))
	for i, st := range s.Steps {
		us[i] = st.Uniform
	}
	return us
}

// CodesAt returns range codes for a table of the given base. Base 100 uses
// the generator's own codes; any other base rescales U_i as floor(U_i·base),
// with 0 wrapping to base.
func (s *Sequence) CodesAt(base int) []int {
	if base == RangeCodeBase {
		return s.RangeCodes()
	}
	codes := make([]int, len(s.Steps))
	for i, st := range s.Steps {
		c := int(math.Floor(st.Uniform * float64(base)))
		if c == 0 {
			c = base
		}
		codes[i] = c
	}
	return codes
}

// Request selects a method and its parameters. Exactly one of LCG and
// MidSquare must be set, matching Method.
type Request struct {
	Method    Method           `json:"method" yaml:"method"`
	LCG       *LCGParams       `json:"lcg,omitempty" yaml:"lcg,omitempty"`
	MidSquare *MidSquareParams `json:"midsquare,omitempty" yaml:"midsquare,omitempty"`
	Count     int              `json:"count" yaml:"count"`
}

// Generate dispatches a Request to the selected generator. It is pure:
// every call re-seeds and regenerates from scratch.
func Generate(req Request) (*Sequence, error) {
	switch req.Method {
	case MethodLCG:
		if req.LCG == nil {
			return nil, fmt.Errorf("%w: method %q requires lcg parameters", sim.ErrConfiguration, req.Method)
		}
		return GenerateLCG(*req.LCG, req.Count)
	case MethodMidSquare:
		if req.MidSquare == nil {
			return nil, fmt.Errorf("%w: method %q requires midsquare parameters", sim.ErrConfiguration, req.Method)
		}
		return GenerateMidSquare(*req.MidSquare, req.Count)
	default:
		return nil, fmt.Errorf("%w: unknown generator method %q; valid: lcg, midsquare", sim.ErrConfiguration, req.Method)
	}
}

func validateCount(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: count must be non-negative, got %d", sim.ErrConfiguration, count)
	}
	return nil
}

// toRangeCode applies the wrap policy: 0 becomes RangeCodeBase.
func toRangeCode(v int) int {
	if v == 0 {
		return RangeCodeBase
	}
	return v
}
