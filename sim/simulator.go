// sim/simulator.go
package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/trace"
)

// progressInterval is how many simulated days pass between progress log lines.
const progressInterval = 100

// Simulator replays a demand trace over a fixed date window. It holds only
// read-only inputs, so the same Simulator can run several strategies on
// identical demand for A/B comparison; every Run starts from fresh state and
// a fresh RNG derived from the configured seed.
type Simulator struct {
	catalog *Catalog
	demand  *DemandTrace
	config  SimulationConfig
	dates   []time.Time

	// FilteredDemandRecords counts trace rows dated outside [Start, End].
	FilteredDemandRecords int
}

// NewSimulator validates cfg and filters the demand trace to the simulation window.
// Configuration problems are returned as *ConfigurationError before any state exists.
func NewSimulator(catalog *Catalog, demand *DemandTrace, cfg SimulationConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, &ConfigurationError{Field: "catalog", Reason: "must not be nil"}
	}
	if demand == nil {
		demand = NewDemandTrace(nil)
	}
	cfg.Start, cfg.End = Day(cfg.Start), Day(cfg.End)
	windowed, filtered := demand.Window(cfg.Start, cfg.End)
	if filtered > 0 {
		logrus.Warnf("%d demand records outside %s..%s dropped: %v", filtered,
			cfg.Start.Format(DateLayout), cfg.End.Format(DateLayout), ErrDataRange)
	}
	s := &Simulator{
		catalog:               catalog,
		demand:                windowed,
		config:                cfg,
		dates:                 cfg.Dates(),
		FilteredDemandRecords: filtered,
	}
	logrus.Infof("Simulator initialized: %s to %s, %d days, %d demand records, %d products, %d warehouses",
		cfg.Start.Format(DateLayout), cfg.End.Format(DateLayout), len(s.dates), windowed.Len(),
		catalog.NumProducts(), catalog.NumWarehouses())
	return s, nil
}

// Config returns the validated configuration.
func (s *Simulator) Config() SimulationConfig { return s.config }

// Catalog returns the run's reference catalog.
func (s *Simulator) Catalog() *Catalog { return s.catalog }

// Days returns the number of simulated days.
func (s *Simulator) Days() int { return len(s.dates) }

// RunResult bundles all outputs of one run.
type RunResult struct {
	RunID    string
	Strategy string
	Config   SimulationConfig
	State    *SimulationState
	Daily    []DailyMetrics
	Trace    *trace.SimulationTrace // empty when tracing is disabled

	FilteredDemandRecords int
	WallTime              time.Duration
}

// Orders returns the run's order log.
func (r *RunResult) Orders() []PurchaseOrder { return r.State.Orders }

// PositionDays returns simulated days × positions, the denominator of the stockout rate.
func (r *RunResult) PositionDays() int {
	return len(r.Daily) * r.State.Inventory.Len()
}

// Run simulates every day of the window with the given strategy. Each day runs
// advance clock → arrivals → sales → decide → place orders → snapshot to
// completion before the next begins. A decision that fails to execute is logged
// and traced; it never aborts the day.
func (s *Simulator) Run(strategy OrderingStrategy) (*RunResult, error) {
	if strategy == nil {
		return nil, fmt.Errorf("running simulation: nil ordering strategy")
	}
	wallStart := time.Now()

	state, err := NewSimulationState(s.catalog, s.config.Start, s.config.InitialInventoryMultiplier)
	if err != nil {
		return nil, fmt.Errorf("running simulation: %w", err)
	}
	rng := NewPartitionedRNG(NewSimulationKey(s.config.Seed))
	procurement := NewProcurement(rng.ForSubsystem(SubsystemProcurement))
	if rs, ok := strategy.(RandomizedStrategy); ok {
		rs.SetRNG(rng.ForSubsystem(SubsystemStrategy))
	}
	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: s.config.TraceLevel})

	logrus.Infof("Running strategy %q with seed %d (stockout penalty=%t, holding cost=%t)",
		strategy.Name(), s.config.Seed, s.config.EnableStockoutPenalty, s.config.EnableHoldingCost)

	daily := make([]DailyMetrics, 0, len(s.dates))
	for idx, date := range s.dates {
		if idx%progressInterval == 0 {
			logrus.Infof("[day %04d] %s (%.1f%%)", idx+1, date.Format(DateLayout),
				float64(idx)/float64(len(s.dates))*100)
		}
		dateStr := date.Format(DateLayout)

		state.AdvanceClock(date)

		arrived := procurement.ProcessArrivals(state, date)
		unitsArrived := 0
		for _, a := range arrived {
			unitsArrived += a.Units
			tr.RecordArrival(trace.ArrivalRecord{
				Day: idx, Date: dateStr, OrderID: a.OrderID,
				ProductID: a.Key.ProductID, WarehouseID: a.Key.WarehouseID, Units: a.Units,
			})
		}
		if logrus.IsLevelEnabled(logrus.DebugLevel) {
			if err := state.CheckInvariants(); err != nil {
				logrus.Errorf("[day %s] invariant violated after arrivals: %v", dateStr, err)
			}
		}

		ProcessSales(state, date, s.demand.ForDate(date))

		ordersToday := 0
		for _, decision := range strategy.Decide(state, s.catalog) {
			rec := trace.DecisionRecord{
				Day: idx, Date: dateStr, Strategy: strategy.Name(),
				ProductID: decision.ProductID, WarehouseID: decision.WarehouseID, SupplierID: decision.SupplierID,
				Units: decision.Units, Reason: decision.Reason, Metadata: decision.Metadata,
			}
			po, err := procurement.PlaceOrder(state, decision, s.catalog)
			if err != nil {
				logrus.Warnf("[day %s] skipping order for %s: %v", dateStr, decision.Key(), err)
				rec.Error = err.Error()
			} else {
				ordersToday++
				rec.Executed = true
				rec.OrderID = po.ID
			}
			tr.RecordDecision(rec)
		}

		daily = append(daily, TakeSnapshot(state, s.catalog, date, ordersToday, unitsArrived))
	}

	result := &RunResult{
		RunID:                 uuid.NewString(),
		Strategy:              strategy.Name(),
		Config:                s.config,
		State:                 state,
		Daily:                 daily,
		Trace:                 tr,
		FilteredDemandRecords: s.FilteredDemandRecords,
		WallTime:              time.Since(wallStart),
	}

	logrus.Infof("Simulation complete: revenue $%.2f, cost $%.2f, lost sales $%.2f, stockouts %d, orders %d (%s)",
		state.TotalRevenue, state.TotalCost, state.TotalLostSales, state.StockoutCount, len(state.Orders), result.WallTime)
	if state.SkippedDemandRecords > 0 {
		logrus.Warnf("%d demand records referenced unknown positions and were skipped", state.SkippedDemandRecords)
	}
	return result, nil
}
