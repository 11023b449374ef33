package metrics

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/internal/testutil"
)

// runFlatDemand runs the reorder-point baseline on 20 units/day for days days.
func runFlatDemand(t *testing.T, days int) (*sim.Catalog, *sim.RunResult) {
	t.Helper()
	catalog := testutil.SingleCatalog(t, testutil.ScenarioProduct(), testutil.ScenarioSupplier())
	demand := sim.NewDemandTrace(testutil.FlatDemand("P1", "W1", 20, 25, days))
	s, err := sim.NewSimulator(catalog, demand, testutil.Config(days))
	require.NoError(t, err)
	result, err := s.Run(sim.NewReorderPointStrategy(1.2, 0))
	require.NoError(t, err)
	return catalog, result
}

func TestCalculate_FlatDemand(t *testing.T) {
	catalog, result := runFlatDemand(t, 10)

	m, err := Calculate(catalog, result)
	require.NoError(t, err)

	testutil.AssertFloat64Equal(t, "revenue", 5000, m.TotalRevenue, 1e-12)
	testutil.AssertFloat64Equal(t, "cost", 2640, m.TotalCost, 1e-12)
	testutil.AssertFloat64Equal(t, "profit", 2360, m.TotalProfit, 1e-12)
	testutil.AssertFloat64Equal(t, "margin", 47.2, m.ProfitMarginPct, 1e-9)
	assert.Equal(t, 2, m.TotalOrders)
	testutil.AssertFloat64Equal(t, "spend", 2400, m.TotalProcurementSpend, 1e-12)
	testutil.AssertFloat64Equal(t, "shipping", 240, m.TotalShippingCost, 1e-12)
	testutil.AssertFloat64Equal(t, "avg order value", 1200, m.AvgOrderValue, 1e-12)
	assert.Zero(t, m.OrdersWithDiscount)
	assert.Zero(t, m.DiscountCaptureRatePct)
	testutil.AssertFloat64Equal(t, "on-time", 100, m.OnTimeRatePct, 1e-12)
	testutil.AssertFloat64Equal(t, "avg units", 50, m.AvgInventoryUnits, 1e-12)
	testutil.AssertFloat64Equal(t, "avg value", 500, m.AvgInventoryValue, 1e-12)
	testutil.AssertFloat64Equal(t, "orders/day", 0.2, m.AvgOrdersPerDay, 1e-12)
	assert.Zero(t, m.StockoutIncidents)
	assert.Zero(t, m.StockoutRatePct)
	assert.Equal(t, 3.0, m.LeadTimeDays.Mean)
	assert.Equal(t, 10, m.Days)
}

func TestCalculate_AuditMatchesRunningCost(t *testing.T) {
	// GIVEN a run with a noisy supplier and a discount-crossing multiplier
	supplier := testutil.ScenarioSupplier()
	supplier.LeadTimeStdDev = 2
	supplier.ReliabilityScore = 0.8
	supplier.DiscountThreshold = 100
	catalog := testutil.SingleCatalog(t, testutil.ScenarioProduct(), supplier)
	demand := sim.NewDemandTrace(testutil.FlatDemand("P1", "W1", 25, 25, 90))
	s, err := sim.NewSimulator(catalog, demand, testutil.Config(90))
	require.NoError(t, err)
	result, err := s.Run(sim.NewReorderPointStrategy(1.2, 0))
	require.NoError(t, err)

	m, err := Calculate(catalog, result)
	require.NoError(t, err)

	// THEN re-derived product cost plus shipping equals the running cost total
	testutil.AssertFloat64Equal(t, "audit", result.State.TotalCost, m.TotalProcurementSpend+m.TotalShippingCost, 1e-9)
	assert.Equal(t, m.TotalOrders, m.OrdersWithDiscount)
	testutil.AssertFloat64Equal(t, "capture rate", 100, m.DiscountCaptureRatePct, 1e-12)
	assert.Greater(t, m.TotalDiscountSavings, 0.0)
}

func TestCalculate_StockoutRateUsesPositionDays(t *testing.T) {
	// GIVEN one product over two warehouses and demand only at W1
	catalog := testutil.Catalog(t, []sim.Product{testutil.ScenarioProduct()}, []sim.Supplier{testutil.ScenarioSupplier()}, "W1", "W2")
	cfg := testutil.Config(4)
	cfg.InitialInventoryMultiplier = 0
	demand := sim.NewDemandTrace(testutil.FlatDemand("P1", "W1", 5, 25, 4))
	s, err := sim.NewSimulator(catalog, demand, cfg)
	require.NoError(t, err)
	result, err := s.Run(sim.NewFixedThresholdStrategy(1, 1, "S9"))
	require.NoError(t, err)

	m, err := Calculate(catalog, result)
	require.NoError(t, err)

	// THEN four stockouts over 4 days × 2 positions is a 50% rate
	assert.Equal(t, 4, m.StockoutIncidents)
	testutil.AssertFloat64Equal(t, "stockout rate", 50, m.StockoutRatePct, 1e-12)
	assert.Zero(t, m.TotalRevenue)
	assert.Zero(t, m.ProfitMarginPct)
	assert.Zero(t, m.LostSalesPctOfRevenue)
}

func TestCalculate_UnknownSupplierInOrderLog_LookupError(t *testing.T) {
	_, result := runFlatDemand(t, 10)
	other := testutil.SingleCatalog(t, testutil.ScenarioProduct(), sim.Supplier{ID: "S2"})

	_, err := Calculate(other, result)

	require.Error(t, err)
	assert.True(t, errors.Is(err, sim.ErrLookup))
}

func TestCalculate_NilResult(t *testing.T) {
	_, err := Calculate(nil, nil)
	assert.Error(t, err)
}

func TestPerformanceMetrics_ToMap_And_String(t *testing.T) {
	catalog, result := runFlatDemand(t, 10)
	m, err := Calculate(catalog, result)
	require.NoError(t, err)

	kv := m.ToMap()
	assert.Equal(t, 5000.0, kv["total_revenue"])
	assert.Equal(t, 2.0, kv["total_orders"])
	assert.Contains(t, kv, "stockout_rate_pct")

	out := m.String()
	assert.Contains(t, out, "Performance Metrics Summary")
	assert.Contains(t, out, "5,000.00")
	assert.True(t, strings.Contains(out, "OPERATIONS:"))
}

func TestNewDistribution(t *testing.T) {
	assert.Equal(t, Distribution{}, NewDistribution(nil))

	d := NewDistribution([]float64{5, 1, 3, 2, 4})
	assert.Equal(t, 3.0, d.Mean)
	assert.Equal(t, 3.0, d.P50)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 5.0, d.Max)
	assert.Equal(t, 5, d.Count)
	testutil.AssertFloat64Equal(t, "p95", 4.8, d.P95, 1e-12)
}
