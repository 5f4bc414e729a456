// Package trace provides decision-trace recording for the simulators.
// It stores pure data types and has no dependencies on sim/ or its simulators.
package trace

// AssignmentRecord captures one server-assignment decision in the two-server model.
type AssignmentRecord struct {
	Customer int
	Clock    float64
	// FreeAt holds each server's next-free time as seen at Clock.
	FreeAt map[string]float64
	Chosen string
	Rule   string // one of the Rule* constants
	Start  float64
}

// OrderRecord captures one review-day ordering decision in the inventory model.
type OrderRecord struct {
	Day                 int
	Cycle               int
	EndInventory        int
	CumulativeShortage  int
	Quantity            int  // M - endInventory + cumulativeShortage
	Placed              bool // false when Quantity <= 0
	LeadTime            int
	ScheduledArrivalDay int
}

// Assignment rules, in evaluation order.
const (
	RuleBothIdle     = "both-idle"     // both free at arrival: tie-break preference
	RuleOnlyIdle     = "only-idle"     // exactly one free at arrival
	RuleEarliestFree = "earliest-free" // neither free: the one that frees first
)
