package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every assignment and ordering decision.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SimulationTrace collects decision records during a simulation run.
// A nil *SimulationTrace is valid and records nothing.
type SimulationTrace struct {
	Level       TraceLevel
	Assignments []AssignmentRecord
	Orders      []OrderRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	return &SimulationTrace{
		Level:       level,
		Assignments: make([]AssignmentRecord, 0),
		Orders:      make([]OrderRecord, 0),
	}
}

func (st *SimulationTrace) enabled() bool {
	return st != nil && st.Level == TraceLevelDecisions
}

// RecordAssignment appends an assignment decision record.
func (st *SimulationTrace) RecordAssignment(record AssignmentRecord) {
	if st.enabled() {
		st.Assignments = append(st.Assignments, record)
	}
}

// RecordOrder appends a review-day decision record.
func (st *SimulationTrace) RecordOrder(record OrderRecord) {
	if st.enabled() {
		st.Orders = append(st.Orders, record)
	}
}
