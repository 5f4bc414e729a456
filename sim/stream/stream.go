// Package stream resolves the integer random-number codes a simulator
// consumes. Codes come from a manual list, from one of the deterministic
// generators, or from the injected random source; a manual list shorter than
// required is explicitly backfilled from that source.
package stream

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/randgen"
)

// Kind selects where codes come from.
type Kind string

const (
	// KindManual parses a comma/whitespace separated list and backfills.
	KindManual Kind = "manual"
	// KindLCG runs the linear congruential generator.
	KindLCG Kind = "lcg"
	// KindMidSquare runs the middle-square generator.
	KindMidSquare Kind = "midsquare"
	// KindRandom draws every code from the injected random source.
	KindRandom Kind = "random"
)

// ValidKinds is the set of recognized source kinds. Empty means random.
var ValidKinds = map[Kind]bool{"": true, KindManual: true, KindLCG: true, KindMidSquare: true, KindRandom: true}

// Source describes one random-number stream.
type Source struct {
	Kind      Kind                     `json:"kind" yaml:"kind"`
	Manual    string                   `json:"manual,omitempty" yaml:"manual,omitempty"`
	LCG       *randgen.LCGParams       `json:"lcg,omitempty" yaml:"lcg,omitempty"`
	MidSquare *randgen.MidSquareParams `json:"midsquare,omitempty" yaml:"midsquare,omitempty"`
}

// Validate checks that the kind is known and its parameters are present.
func (s Source) Validate() error {
	if !ValidKinds[s.Kind] {
		return fmt.Errorf("%w: unknown source kind %q; valid: manual, lcg, midsquare, random", sim.ErrConfiguration, s.Kind)
	}
	switch s.Kind {
	case KindLCG:
		if s.LCG == nil {
			return fmt.Errorf("%w: lcg source requires lcg parameters", sim.ErrConfiguration)
		}
		return s.LCG.Validate()
	case KindMidSquare:
		if s.MidSquare == nil {
			return fmt.Errorf("%w: midsquare source requires midsquare parameters", sim.ErrConfiguration)
		}
		return s.MidSquare.Validate()
	}
	return nil
}

// Numbers is a resolved stream.
type Numbers struct {
	Codes []int `json:"codes" yaml:"codes"`
	// Backfilled counts codes appended from the injected source.
	Backfilled int `json:"backfilled" yaml:"backfilled"`
	// Sequence holds the generator steps for lcg/midsquare sources.
	Sequence   *randgen.Sequence `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Advisories sim.Advisories    `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

// Resolve produces exactly count codes for a table of the given base.
// rng is only consulted for backfill and for KindRandom; it may be nil when
// neither applies.
func Resolve(src Source, count, base int, rng *rand.Rand) (*Numbers, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative, got %d", sim.ErrConfiguration, count)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	out := &Numbers{}
	var codes []int
	switch src.Kind {
	case KindManual:
		parsed, skipped := ParseManual(src.Manual, base)
		for _, tok := range skipped {
			out.Advisories = append(out.Advisories, sim.Advisory{
				Kind:    sim.AdvisorySkippedToken,
				Message: fmt.Sprintf("token %q is not an integer and was ignored", tok),
			})
		}
		codes = parsed
	case KindLCG, KindMidSquare:
		req := randgen.Request{Method: randgen.Method(src.Kind), LCG: src.LCG, MidSquare: src.MidSquare, Count: count}
		seq, err := randgen.Generate(req)
		if err != nil {
			return nil, err
		}
		out.Sequence = seq
		out.Advisories = append(out.Advisories, seq.Advisories...)
		codes = seq.CodesAt(base)
	}

	if len(codes) > count {
		codes = codes[:count]
	}
	filled, n, err := Backfill(codes, count, base, rng)
	if err != nil {
		return nil, err
	}
	out.Codes = filled
	out.Backfilled = n
	if n > 0 && src.Kind == KindManual {
		out.Advisories = append(out.Advisories, sim.Advisory{
			Kind:    sim.AdvisoryBackfill,
			Message: fmt.Sprintf("%d of %d numbers drawn from the random source", n, count),
		})
	}
	return out, nil
}

// ParseManual reads a comma and/or whitespace separated list of integer codes.
// "00" means 100 for base 100 and "000" means 1000 for base 1000; any other
// token that is not an integer is returned in skipped.
func ParseManual(text string, base int) (codes []int, skipped []string) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	for _, f := range fields {
		switch {
		case f == "00" && base == 100, f == "000" && base == 1000:
			codes = append(codes, base)
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			skipped = append(skipped, f)
			continue
		}
		codes = append(codes, v)
	}
	return codes, skipped
}

// Backfill pads codes up to count with uniform draws from [1, base] taken
// from rng, returning the padded slice and the number of codes added. The
// input slice is not modified.
func Backfill(codes []int, count, base int, rng *rand.Rand) ([]int, int, error) {
	out := make([]int, len(codes), max(count, len(codes)))
	copy(out, codes)
	missing := count - len(out)
	if missing <= 0 {
		return out, 0, nil
	}
	if rng == nil {
		return nil, 0, fmt.Errorf("%w: %d numbers missing and no random source injected", sim.ErrConfiguration, missing)
	}
	if base <= 0 {
		return nil, 0, fmt.Errorf("%w: backfill base must be positive, got %d", sim.ErrConfiguration, base)
	}
	for i := 0; i < missing; i++ {
		out = append(out, rng.Intn(base)+1)
	}
	logrus.Debugf("stream: backfilled %d of %d codes from base %d", missing, count, base)
	return out, missing, nil
}
