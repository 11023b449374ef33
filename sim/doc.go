// Package sim provides the day-stepped inventory simulation and procurement engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - state.go / inventory.go: the aggregate root and per-(product, warehouse) positions
//   - procurement.go: arrivals, order placement and the cost model
//   - simulator.go: the day loop (arrivals → sales → decide → orders → snapshot)
//
// # Architecture
//
// The sim package owns the engine; supporting code lives in sub-packages:
//   - sim/metrics/: end-of-run PerformanceMetrics, A/B comparison, Prometheus export
//   - sim/trace/: decision trace recording
//   - sim/dataset/: CSV import of catalog and demand, CSV/JSON export of results
//   - sim/store/: SQLite and PostgreSQL persistence of inputs and run history
//
// # Key Interfaces
//
// OrderingStrategy is the single extension point: Decide(state, catalog) returns
// the day's order decisions. NewOrderingStrategy builds the built-in policies by
// name (reorder-point baseline, fixed-threshold).
//
// # Determinism
//
// All randomness comes from one PartitionedRNG seeded by SimulationConfig.Seed.
// Same seed, catalog, demand and window produce identical order logs and metrics.
package sim
