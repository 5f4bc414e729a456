package dist

import (
	"fmt"
	"math"

	"github.com/montesim/montesim/sim"
)

// Draw is one random number mapped through a table.
// Code is 0 when the value was supplied directly rather than drawn.
type Draw struct {
	Code     int     `json:"code" yaml:"code"`
	Value    float64 `json:"value" yaml:"value"`
	Fallback bool    `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Map inverts every code through the table, in order.
func (t *Table) Map(codes []int) []Draw {
	draws := make([]Draw, len(codes))
	for i, code := range codes {
		v, fb := t.Resolve(code)
		draws[i] = Draw{Code: code, Value: v, Fallback: fb}
	}
	return draws
}

// Fixed wraps literal values as draws with no range code.
func Fixed(values ...float64) []Draw {
	draws := make([]Draw, len(values))
	for i, v := range values {
		draws[i] = Draw{Value: v}
	}
	return draws
}

// FallbackAdvisories reports one range-fallback advisory per draw that used
// the last-row fallback. Index is 1-based.
func FallbackAdvisories(draws []Draw) sim.Advisories {
	var out sim.Advisories
	for i, d := range draws {
		if d.Fallback {
			out = append(out, sim.Advisory{
				Kind:    sim.AdvisoryRangeFallback,
				Index:   i + 1,
				Message: fmt.Sprintf("code %d is outside every range; used last row value %v", d.Code, d.Value),
			})
		}
	}
	return out
}

// CoverageAdvisory reports the uncovered top of the range, if any.
func (t *Table) CoverageAdvisory() (sim.Advisory, bool) {
	from, to, ok := t.Gap()
	if !ok {
		return sim.Advisory{}, false
	}
	return sim.Advisory{
		Kind:    sim.AdvisoryCoverageGap,
		Message: fmt.Sprintf("codes %d-%d are not covered (probabilities sum below 1); they resolve to the last row", from, to),
	}, true
}

// RequireIntegral checks that every table value is a non-negative integer.
// The inventory simulator counts units and days, so its tables must satisfy it.
func (t *Table) RequireIntegral(name string) error {
	for i, c := range t.Cells {
		if c.Value < 0 || c.Value != math.Trunc(c.Value) {
			return fmt.Errorf("%w: %s row %d: value must be a non-negative integer, got %v", sim.ErrConfiguration, name, i+1, c.Value)
		}
	}
	return nil
}
