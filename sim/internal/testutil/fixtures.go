// Package testutil provides shared test fixtures for the simulator.
// It consolidates catalog builders and assertion helpers used across
// sim/ and its sub-package tests.
package testutil

import (
	"math"
	"testing"
	"time"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
)

// Start is the first day used by fixture traces.
var Start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// ScenarioProduct returns a product with 100 opening units (20/day × 5 days),
// reorder point 50, priced $25 and costing $10.
func ScenarioProduct() sim.Product {
	return sim.Product{
		ID:               "P1",
		Category:         "Electronics",
		UnitPrice:        25,
		UnitCost:         10,
		WeightKg:         0.5,
		BaseDemandDaily:  20,
		SupplyDaysTarget: 5,
		ReorderPoint:     50,
		SupplierID:       "S1",
	}
}

// ScenarioSupplier returns a deterministic supplier: 3-day lead time, no variance,
// always on time, MOQ 50, 5% discount from 500 units, $2/kg shipping.
func ScenarioSupplier() sim.Supplier {
	return sim.Supplier{
		ID:                "S1",
		LeadTimeDays:      3,
		LeadTimeStdDev:    0,
		ReliabilityScore:  1.0,
		MOQUnits:          50,
		DiscountThreshold: 500,
		DiscountPct:       0.05,
		ShippingCostPerKg: 2,
	}
}

// Catalog builds a catalog or fails the test.
func Catalog(t *testing.T, products []sim.Product, suppliers []sim.Supplier, warehouses ...string) *sim.Catalog {
	t.Helper()
	ws := make([]sim.Warehouse, 0, len(warehouses))
	for _, id := range warehouses {
		ws = append(ws, sim.Warehouse{ID: id})
	}
	c, err := sim.NewCatalog(products, suppliers, ws)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return c
}

// SingleCatalog is one product, one supplier, one warehouse "W1".
func SingleCatalog(t *testing.T, p sim.Product, s sim.Supplier) *sim.Catalog {
	t.Helper()
	return Catalog(t, []sim.Product{p}, []sim.Supplier{s}, "W1")
}

// FlatDemand returns units/day of productID at warehouseID for days days from Start.
func FlatDemand(productID, warehouseID string, units int, price float64, days int) []sim.DemandRecord {
	records := make([]sim.DemandRecord, 0, days)
	for d := 0; d < days; d++ {
		records = append(records, sim.DemandRecord{
			Date:        Start.AddDate(0, 0, d),
			ProductID:   productID,
			WarehouseID: warehouseID,
			Units:       units,
			UnitPrice:   price,
		})
	}
	return records
}

// Config returns the default config over days days from Start.
func Config(days int) sim.SimulationConfig {
	return sim.DefaultSimulationConfig(Start, Start.AddDate(0, 0, days-1))
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
