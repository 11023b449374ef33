package sim

import (
	"math"
	"math/rand"
)

const (
	defaultOrderMultiplier = 1.2
	reasonReorderPoint     = "reorder_point_triggered"
)

// ReorderPointStrategy is the benchmark policy: when a position is at or below
// its product's reorder point and has nothing on order, buy
// round(base_demand_daily × supply_days_target × multiplier) units from the
// product's assigned supplier, raised to the supplier's MOQ if needed.
//
// With a non-zero skip probability a triggered reorder is dropped that often,
// modelling a planner who sometimes misses the signal.
type ReorderPointStrategy struct {
	multiplier      float64
	skipProbability float64
	rng             *rand.Rand
}

// NewReorderPointStrategy creates the baseline. multiplier <= 0 selects 1.2;
// skipProbability is clamped to [0, 1].
func NewReorderPointStrategy(multiplier, skipProbability float64) *ReorderPointStrategy {
	if multiplier <= 0 {
		multiplier = defaultOrderMultiplier
	}
	return &ReorderPointStrategy{
		multiplier:      multiplier,
		skipProbability: math.Min(1, math.Max(0, skipProbability)),
	}
}

func (s *ReorderPointStrategy) Name() string { return StrategyReorderPoint }

// SetRNG installs the generator used for skip rolls.
func (s *ReorderPointStrategy) SetRNG(rng *rand.Rand) { s.rng = rng }

func (s *ReorderPointStrategy) Decide(state *SimulationState, catalog *Catalog) []OrderDecision {
	var decisions []OrderDecision
	for _, pos := range state.Inventory.Positions() {
		product, err := catalog.Product(pos.Key.ProductID)
		if err != nil {
			continue
		}
		if pos.OnHand > product.ReorderPoint || pos.OnOrder != 0 {
			continue
		}
		if s.skipProbability > 0 && s.rng != nil && s.rng.Float64() < s.skipProbability {
			continue
		}

		units := int(math.Round(product.BaseDemandDaily * product.SupplyDaysTarget * s.multiplier))
		if supplier, err := catalog.Supplier(product.SupplierID); err == nil && units < supplier.MOQUnits {
			units = supplier.MOQUnits
		}

		decisions = append(decisions, OrderDecision{
			ProductID:   product.ID,
			WarehouseID: pos.Key.WarehouseID,
			SupplierID:  product.SupplierID,
			Units:       units,
			Reason:      reasonReorderPoint,
			Metadata: map[string]float64{
				"reorder_point": float64(product.ReorderPoint),
				"inventory":     float64(pos.OnHand),
			},
		})
	}
	return decisions
}
