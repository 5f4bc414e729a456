package sim

import "fmt"

// AdvisoryKind classifies a non-fatal notice attached to otherwise valid output.
type AdvisoryKind string

const (
	// AdvisoryOddDigitSeed: middle-square seed has an odd digit count, so the
	// "middle" is off-centre by one digit.
	AdvisoryOddDigitSeed AdvisoryKind = "odd-digit-seed"
	// AdvisoryZeroCollapse: middle-square state reached zero.
	AdvisoryZeroCollapse AdvisoryKind = "zero-collapse"
	// AdvisoryStuckAtZero: middle-square state stayed at zero for another step;
	// every later value is zero as well.
	AdvisoryStuckAtZero AdvisoryKind = "stuck-at-zero"
	// AdvisoryCycle: middle-square state repeated a previously seen non-zero value.
	AdvisoryCycle AdvisoryKind = "cycle"
	// AdvisoryStateRevisit: LCG state repeated a previously seen value.
	AdvisoryStateRevisit AdvisoryKind = "state-revisit"
	// AdvisoryRangeFallback: a range code matched no table cell and the last
	// row's value was used instead.
	AdvisoryRangeFallback AdvisoryKind = "range-fallback"
	// AdvisoryCoverageGap: a distribution's ranges do not end at the base.
	AdvisoryCoverageGap AdvisoryKind = "coverage-gap"
	// AdvisoryBackfill: a manual number list was shorter than required and was
	// padded from the injected random source.
	AdvisoryBackfill AdvisoryKind = "backfill"
	// AdvisorySkippedToken: a manual list token was not an integer and was dropped.
	AdvisorySkippedToken AdvisoryKind = "skipped-token"
)

// Advisory is a DegenerateSequenceWarning or FallbackPolicy notice.
// Index is the 1-based step, customer or day it refers to (0 = whole run).
type Advisory struct {
	Kind    AdvisoryKind `json:"kind" yaml:"kind"`
	Index   int          `json:"index" yaml:"index"`
	Message string       `json:"message" yaml:"message"`
}

func (a Advisory) String() string {
	if a.Index > 0 {
		return fmt.Sprintf("[%s] #%d: %s", a.Kind, a.Index, a.Message)
	}
	return fmt.Sprintf("[%s] %s", a.Kind, a.Message)
}

// Advisories is an ordered list of notices with a few query helpers.
type Advisories []Advisory

// Has reports whether any advisory of the given kind is present.
func (as Advisories) Has(kind AdvisoryKind) bool {
	for _, a := range as {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// Count returns the number of advisories of the given kind.
func (as Advisories) Count(kind AdvisoryKind) int {
	n := 0
	for _, a := range as {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// WithPrefix returns a copy whose messages are prefixed with the stream name,
// used when merging advisories from several sources into one run report.
func (as Advisories) WithPrefix(prefix string) Advisories {
	out := make(Advisories, len(as))
	for i, a := range as {
		a.Message = prefix + ": " + a.Message
		out[i] = a
	}
	return out
}
