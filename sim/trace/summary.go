package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAssignments   int
	ServerDistribution map[string]int // server -> customers assigned
	RuleDistribution   map[string]int // rule -> times applied
	ReviewDecisions    int
	OrdersPlaced       int
	TotalOrdered       int
	MeanLeadTime       float64
	MaxOrderQuantity   int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ServerDistribution: make(map[string]int),
		RuleDistribution:   make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalAssignments = len(st.Assignments)
	for _, a := range st.Assignments {
		summary.ServerDistribution[a.Chosen]++
		summary.RuleDistribution[a.Rule]++
	}

	summary.ReviewDecisions = len(st.Orders)
	totalLead := 0
	for _, o := range st.Orders {
		if !o.Placed {
			continue
		}
		summary.OrdersPlaced++
		summary.TotalOrdered += o.Quantity
		totalLead += o.LeadTime
		if o.Quantity > summary.MaxOrderQuantity {
			summary.MaxOrderQuantity = o.Quantity
		}
	}
	if summary.OrdersPlaced > 0 {
		summary.MeanLeadTime = float64(totalLead) / float64(summary.OrdersPlaced)
	}

	return summary
}
