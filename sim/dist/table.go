// Package dist implements the empirical-distribution inversion method shared
// by every simulator: a discrete probability table is turned into contiguous
// integer ranges over a base of 100 (or 1000), and a range code is inverted
// back to the table value whose range contains it.
package dist

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/montesim/montesim/sim"
)

const (
	// BaseTwoDigit is used when every probability has at most two decimals.
	BaseTwoDigit = 100
	// BaseThreeDigit is used as soon as one probability needs three or more.
	BaseThreeDigit = 1000
)

// Row is one (value, probability) entry as supplied by the caller.
type Row struct {
	Value       float64 `json:"value" yaml:"value"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// Cell is a Row with its derived cumulative probability and integer range.
type Cell struct {
	Value       float64 `json:"value" yaml:"value"`
	Probability float64 `json:"probability" yaml:"probability"`
	Cumulative  float64 `json:"cumulative" yaml:"cumulative"`
	RangeStart  int     `json:"range_start" yaml:"range_start"`
	RangeEnd    int     `json:"range_end" yaml:"range_end"`
	Base        int     `json:"base" yaml:"base"`
}

// Contains reports whether code falls in [RangeStart, RangeEnd].
func (c Cell) Contains(code int) bool {
	return code >= c.RangeStart && code <= c.RangeEnd
}

// Table is a built distribution. Cells are in input order.
type Table struct {
	Cells []Cell `json:"cells" yaml:"cells"`
	Base  int    `json:"base" yaml:"base"`
	// Precision is the number of decimals cumulative probabilities are rounded to.
	Precision int `json:"precision" yaml:"precision"`
}

// Build derives cumulative probabilities and ranges for rows.
//
// Working precision is 2 decimals (base 100) when every probability has at
// most two fractional digits, else 3 (base 1000). For each row
// rangeStart = round(prevCumulative·base)+1 and rangeEnd = round(cumulative·base);
// rangeStart is clamped to base when rounding pushes it over.
//
// Probabilities are not required to sum to 1. An under-sum leaves the final
// rangeEnd below base; codes in the gap resolve through the last-row fallback
// of Lookup (see Gap). An empty table is ErrInsufficientData; a negative or
// non-finite probability or value is ErrConfiguration.
func Build(rows []Row) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: probability table has no rows", sim.ErrInsufficientData)
	}
	for i, r := range rows {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return nil, fmt.Errorf("%w: row %d: value must be finite, got %v", sim.ErrConfiguration, i+1, r.Value)
		}
		if math.IsNaN(r.Probability) || math.IsInf(r.Probability, 0) || r.Probability < 0 {
			return nil, fmt.Errorf("%w: row %d: probability must be a finite non-negative number, got %v", sim.ErrConfiguration, i+1, r.Probability)
		}
	}

	precision, base := 2, BaseTwoDigit
	if maxDecimals(rows) > 2 {
		precision, base = 3, BaseThreeDigit
	}

	t := &Table{Cells: make([]Cell, 0, len(rows)), Base: base, Precision: precision}
	cumulative := 0.0
	for _, r := range rows {
		prev := cumulative
		cumulative = roundTo(cumulative+r.Probability, precision)
		start := int(math.Round(prev*float64(base))) + 1
		if start > base {
			start = base
		}
		t.Cells = append(t.Cells, Cell{
			Value:       r.Value,
			Probability: r.Probability,
			Cumulative:  cumulative,
			RangeStart:  start,
			RangeEnd:    int(math.Round(cumulative * float64(base))),
			Base:        base,
		})
	}
	return t, nil
}

// Lookup inverts a range code. Code 0 is read as base (the "00"/"000" wrap).
// The first cell whose range contains the code wins; when none does, the last
// row's value is returned. That fallback is a deliberate leniency for tables
// whose probabilities do not sum to 1; use Resolve to observe it.
func (t *Table) Lookup(code int) float64 {
	v, _ := t.Resolve(code)
	return v
}

// Resolve is Lookup that also reports whether the last-row fallback was used.
func (t *Table) Resolve(code int) (value float64, fallback bool) {
	if code == 0 {
		code = t.Base
	}
	for _, c := range t.Cells {
		if c.Contains(code) {
			return c.Value, false
		}
	}
	return t.Cells[len(t.Cells)-1].Value, true
}

// Gap returns the codes in [1, base] that no cell covers at the top of the
// range, i.e. (lastRangeEnd, base]. ok is false when the table is fully covered.
func (t *Table) Gap() (from, to int, ok bool) {
	last := t.Cells[len(t.Cells)-1].RangeEnd
	if last >= t.Base {
		return 0, 0, false
	}
	return last + 1, t.Base, true
}

// Values returns the distinct cell values in input order.
func (t *Table) Values() []float64 {
	out := make([]float64, len(t.Cells))
	for i, c := range t.Cells {
		out[i] = c.Value
	}
	return out
}

// Mean is the expected value Σ value·probability of the table as entered.
func (t *Table) Mean() float64 {
	m := 0.0
	for _, c := range t.Cells {
		m += c.Value * c.Probability
	}
	return m
}

// maxDecimals returns the largest count of fractional digits among the
// probabilities, using the shortest decimal representation of each float.
func maxDecimals(rows []Row) int {
	most := 0
	for _, r := range rows {
		s := strconv.FormatFloat(r.Probability, 'f', -1, 64)
		if i := strings.IndexByte(s, '.'); i >= 0 {
			most = max(most, len(s)-i-1)
		}
	}
	return most
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
