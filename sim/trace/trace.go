package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every ordering decision.
	TraceLevelDecisions TraceLevel = "decisions"
	// TraceLevelFull also captures every delivery.
	TraceLevelFull TraceLevel = "full"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	TraceLevelFull:      true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a run.
type SimulationTrace struct {
	Config    TraceConfig
	Decisions []DecisionRecord
	Arrivals  []ArrivalRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:    config,
		Decisions: make([]DecisionRecord, 0),
		Arrivals:  make([]ArrivalRecord, 0),
	}
}

// Enabled reports whether decisions are recorded at all.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level != TraceLevelNone && st.Config.Level != ""
}

// RecordDecision appends a decision record. No-op when tracing is disabled.
func (st *SimulationTrace) RecordDecision(record DecisionRecord) {
	if !st.Enabled() {
		return
	}
	st.Decisions = append(st.Decisions, record)
}

// RecordArrival appends an arrival record. Only kept at TraceLevelFull.
func (st *SimulationTrace) RecordArrival(record ArrivalRecord) {
	if st == nil || st.Config.Level != TraceLevelFull {
		return
	}
	st.Arrivals = append(st.Arrivals, record)
}
