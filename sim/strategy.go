package sim

import (
	"fmt"
	"math/rand"
	"sort"
)

// OrderingStrategy decides what to buy each simulated day.
// Decide is called exactly once per day, after fulfillment and before procurement,
// and must treat state and catalog as read-only. Every returned decision is
// executed in order, without reordering or deduplication.
type OrderingStrategy interface {
	Name() string
	Decide(state *SimulationState, catalog *Catalog) []OrderDecision
}

// RandomizedStrategy is implemented by strategies that draw randomness.
// The simulator hands them the run's SubsystemStrategy RNG before the first day.
type RandomizedStrategy interface {
	OrderingStrategy
	SetRNG(rng *rand.Rand)
}

// StrategyConfig holds tunables for every built-in strategy.
// Zero values select the documented defaults.
type StrategyConfig struct {
	// reorder-point
	OrderMultiplier float64 `yaml:"order_multiplier"` // × base demand × supply days; default 1.2
	SkipProbability float64 `yaml:"skip_probability"` // chance a triggered reorder is not placed; default 0

	// fixed-threshold
	Threshold  int    `yaml:"threshold"`   // order when on_hand < threshold; default 70
	OrderUnits int    `yaml:"order_units"` // fixed quantity; default 50
	SupplierID string `yaml:"supplier_id"` // empty = product's assigned supplier
}

const (
	StrategyReorderPoint   = "reorder-point"
	StrategyFixedThreshold = "fixed-threshold"
)

// ValidStrategies is the set of recognized strategy names.
// Shared by IsValidStrategy and NewOrderingStrategy to avoid duplication.
var ValidStrategies = map[string]bool{"": true, StrategyReorderPoint: true, StrategyFixedThreshold: true}

// IsValidStrategy returns true if name is a recognized strategy.
func IsValidStrategy(name string) bool {
	return ValidStrategies[name]
}

// StrategyNames returns the recognized non-empty strategy names, sorted.
func StrategyNames() []string {
	names := make([]string, 0, len(ValidStrategies))
	for n := range ValidStrategies {
		if n != "" {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// NewOrderingStrategy creates a strategy by name.
// An empty string defaults to the reorder-point baseline.
// Panics on unrecognized names; callers validate with IsValidStrategy first.
func NewOrderingStrategy(name string, cfg StrategyConfig) OrderingStrategy {
	if !IsValidStrategy(name) {
		panic(fmt.Sprintf("unknown ordering strategy %q", name))
	}
	switch name {
	case "", StrategyReorderPoint:
		return NewReorderPointStrategy(cfg.OrderMultiplier, cfg.SkipProbability)
	case StrategyFixedThreshold:
		return NewFixedThresholdStrategy(cfg.Threshold, cfg.OrderUnits, cfg.SupplierID)
	default:
		panic(fmt.Sprintf("unhandled ordering strategy %q", name))
	}
}
