package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions int
	ExecutedCount  int
	FailedCount    int
	UnitsRequested int
	UnitsExecuted  int
	ArrivalCount   int
	ReasonCounts   map[string]int // decision reason → count
	FailureReasons map[string]int // error text → count
	SupplierCounts map[string]int // supplier id → executed orders
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ReasonCounts:   make(map[string]int),
		FailureReasons: make(map[string]int),
		SupplierCounts: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Decisions)
	for _, d := range st.Decisions {
		summary.ReasonCounts[d.Reason]++
		summary.UnitsRequested += d.Units
		if d.Executed {
			summary.ExecutedCount++
			summary.UnitsExecuted += d.Units
			summary.SupplierCounts[d.SupplierID]++
		} else {
			summary.FailedCount++
			summary.FailureReasons[d.Error]++
		}
	}
	summary.ArrivalCount = len(st.Arrivals)

	return summary
}
