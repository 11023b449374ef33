package sim

import (
	"time"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/trace"
)

// DefaultSeed is the seed used when none is configured.
const DefaultSeed int64 = 42

// SimulationConfig groups the parameters accepted by a run.
type SimulationConfig struct {
	Start                      time.Time // first simulated day (inclusive)
	End                        time.Time // last simulated day (inclusive)
	InitialInventoryMultiplier float64   // × base demand × supply days for opening stock
	Seed                       int64
	// Reserved for cost-model extensions; carried and reported, no effect on totals yet.
	EnableStockoutPenalty bool
	EnableHoldingCost     bool
	TraceLevel            trace.TraceLevel
}

// DefaultSimulationConfig returns a config for [start, end] with multiplier 1.0,
// the default seed, both reserved toggles on and decision tracing enabled.
func DefaultSimulationConfig(start, end time.Time) SimulationConfig {
	return SimulationConfig{
		Start:                      Day(start),
		End:                        Day(end),
		InitialInventoryMultiplier: 1.0,
		Seed:                       DefaultSeed,
		EnableStockoutPenalty:      true,
		EnableHoldingCost:          true,
		TraceLevel:                 trace.TraceLevelDecisions,
	}
}

// Validate reports the first invalid field as a *ConfigurationError.
func (c SimulationConfig) Validate() error {
	if c.Start.IsZero() {
		return &ConfigurationError{Field: "start date", Reason: "must be set"}
	}
	if c.End.IsZero() {
		return &ConfigurationError{Field: "end date", Reason: "must be set"}
	}
	if Day(c.End).Before(Day(c.Start)) {
		return &ConfigurationError{Field: "date range", Reason: "end date " + Day(c.End).Format(DateLayout) +
			" is before start date " + Day(c.Start).Format(DateLayout)}
	}
	if c.InitialInventoryMultiplier < 0 {
		return &ConfigurationError{Field: "initial inventory multiplier", Reason: "must be >= 0"}
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return &ConfigurationError{Field: "trace level", Reason: "unknown level " + string(c.TraceLevel)}
	}
	return nil
}

// Dates returns every simulated day in order.
func (c SimulationConfig) Dates() []time.Time {
	start, end := Day(c.Start), Day(c.End)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
