// Package trace provides decision-trace recording for ordering-strategy analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// DecisionRecord captures a single ordering decision and what became of it.
type DecisionRecord struct {
	Day         int    // 0-based simulated day index
	Date        string // YYYY-MM-DD
	Strategy    string
	ProductID   string
	WarehouseID string
	SupplierID  string
	Units       int
	Reason      string
	Metadata    map[string]float64 // from OrderDecision.Metadata (may be nil)
	Executed    bool
	OrderID     int64  // 0 when not executed
	Error       string // why execution failed; empty when executed
}

// ArrivalRecord captures a delivery into a position.
type ArrivalRecord struct {
	Day         int
	Date        string
	OrderID     int64
	ProductID   string
	WarehouseID string
	Units       int
}
