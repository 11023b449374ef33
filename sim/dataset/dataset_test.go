package dataset

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/internal/testutil"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/metrics"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// writeCatalogDir lays out a two-product catalog with extra columns the loader must ignore.
func writeCatalogDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, strings.Join([]string{
		"product_id,name,category,tier,unit_price,unit_cost,margin_pct,supplier_id,base_demand_daily,weight_kg,supply_days_target,reorder_point_units",
		"LAP-001,Laptop Budget Model-A,Laptops,Budget,499.99,350.00,30.0,SUP-A,12.5,2.1,30,150",
		"PHO-002,Phone Premium Model-B,Smartphones,Premium,899.00,600.00,33.3,SUP-B,20,0.3,21,200.0",
	}, "\n"))
	writeFile(t, dir, SuppliersFile, strings.Join([]string{
		"supplier_id,name,lead_time_days,lead_time_std_dev,moq_units,reliability_score,volume_discount_threshold_units,volume_discount_pct,shipping_cost_per_kg",
		"SUP-A,GlobalTech Solutions,14,3,50,0.94,200,0.05,2.50",
		"SUP-B,FastSupply Inc,7,2,100,0.88,300,0.03,1.80",
	}, "\n"))
	writeFile(t, dir, WarehousesFile, strings.Join([]string{
		"warehouse_id,location,capacity_units",
		"WH-EAST,\"Newark, NJ\",50000",
		"WH-WEST,\"Reno, NV\",40000",
	}, "\n"))
	return dir
}

func TestLoadCatalog_ReadsColumnsByName(t *testing.T) {
	dir := writeCatalogDir(t)

	catalog, err := LoadCatalog(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.NumProducts())
	assert.Equal(t, 2, catalog.NumWarehouses())
	p, err := catalog.Product("PHO-002")
	require.NoError(t, err)
	assert.Equal(t, 200, p.ReorderPoint)
	assert.Equal(t, "SUP-B", p.SupplierID)
	assert.Equal(t, 0.3, p.WeightKg)

	s, err := catalog.Supplier("SUP-A")
	require.NoError(t, err)
	assert.Equal(t, 14.0, s.LeadTimeDays)
	assert.Equal(t, 200, s.DiscountThreshold)
	assert.Equal(t, 0.05, s.DiscountPct)

	w, err := catalog.Warehouse("WH-EAST")
	require.NoError(t, err)
	assert.Equal(t, "Newark, NJ", w.Location)
	assert.Equal(t, 50000, w.CapacityUnits)
}

func TestLoadCatalog_MissingColumn_Fails(t *testing.T) {
	dir := writeCatalogDir(t)
	writeFile(t, dir, SuppliersFile, "supplier_id,lead_time_days\nSUP-A,14\n")

	_, err := LoadCatalog(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reliability_score")
}

func TestLoadCatalog_BadNumber_ReportsRow(t *testing.T) {
	dir := writeCatalogDir(t)
	writeFile(t, dir, WarehousesFile, "warehouse_id,capacity_units\nWH-EAST,lots\n")

	_, err := LoadCatalog(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "capacity_units")
}

func TestLoadCatalog_MissingFile_Fails(t *testing.T) {
	_, err := LoadCatalog(t.TempDir())
	assert.Error(t, err)
}

func TestReadDemand(t *testing.T) {
	in := strings.Join([]string{
		"date,product_id,warehouse_id,units_sold,unit_price,unit_cost,revenue",
		"2023-01-02,P1,W1,5,25.00,10.00,125.00",
		"2023-01-01,P1,W1,3,25.00,10.00,75.00",
		"2023-01-01,P1,W2,0,25.00,10.00,0",
	}, "\n")

	demand, err := ReadDemand(strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 3, demand.Len())
	first := demand.ForDate(testutil.Start)
	require.Len(t, first, 2)
	assert.Equal(t, 3, first[0].Units)
	assert.Equal(t, "W2", first[1].WarehouseID)
	assert.Equal(t, 10.0, first[0].UnitCost)
}

func TestReadDemand_Rejects(t *testing.T) {
	tests := map[string]string{
		"bad date":       "date,product_id,warehouse_id,units_sold,unit_price\n01/02/2023,P1,W1,5,25\n",
		"negative units": "date,product_id,warehouse_id,units_sold,unit_price\n2023-01-02,P1,W1,-5,25\n",
		"empty product":  "date,product_id,warehouse_id,units_sold,unit_price\n2023-01-02,,W1,5,25\n",
		"fractional":     "date,product_id,warehouse_id,units_sold,unit_price\n2023-01-02,P1,W1,5.5,25\n",
		"no header":      "",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadDemand(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func runScenario(t *testing.T) (*sim.Catalog, *sim.RunResult) {
	t.Helper()
	catalog := testutil.SingleCatalog(t, testutil.ScenarioProduct(), testutil.ScenarioSupplier())
	s, err := sim.NewSimulator(catalog, sim.NewDemandTrace(testutil.FlatDemand("P1", "W1", 20, 25, 10)), testutil.Config(10))
	require.NoError(t, err)
	result, err := s.Run(sim.NewReorderPointStrategy(1.2, 0))
	require.NoError(t, err)
	return catalog, result
}

func TestWriteOrdersAndDailyMetrics(t *testing.T) {
	_, result := runScenario(t)
	dir := t.TempDir()

	require.NoError(t, WriteOrders(filepath.Join(dir, "orders.csv"), result.Orders(), result.Config.End))
	require.NoError(t, WriteDailyMetrics(filepath.Join(dir, "daily.csv"), result.Daily))
	require.NoError(t, WriteDecisions(filepath.Join(dir, "decisions.csv"), result.Trace))

	orders := readCSV(t, filepath.Join(dir, "orders.csv"))
	require.Len(t, orders, 3)
	assert.Equal(t, orderColumns, orders[0])
	assert.Equal(t, "PO-00001", orders[1][0])
	assert.Equal(t, "2023-01-03", orders[1][1])
	assert.Equal(t, "1320.00", orders[1][9])
	assert.Equal(t, "2023-01-06", orders[1][13])
	assert.Equal(t, "arrived", orders[1][16])
	assert.Equal(t, "in_transit", orders[2][16])

	daily := readCSV(t, filepath.Join(dir, "daily.csv"))
	require.Len(t, daily, 11)
	assert.Equal(t, "2023-01-05", daily[5][0])
	assert.Equal(t, "1", daily[5][3])
	assert.Equal(t, "5000.00", daily[10][4])

	decisions := readCSV(t, filepath.Join(dir, "decisions.csv"))
	require.Len(t, decisions, 3)
	assert.Equal(t, "true", decisions[1][8])
	assert.Equal(t, "PO-00002", decisions[2][9])
}

func TestWriteMetricsJSON(t *testing.T) {
	catalog, result := runScenario(t)
	m, err := metrics.Calculate(catalog, result)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "metrics.json")

	require.NoError(t, WriteMetricsJSON(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 5000.0, doc["total_revenue"])
	assert.Equal(t, 2.0, doc["total_orders"])
	assert.Equal(t, "reorder-point", doc["strategy"])
}

func TestWriteComparisonJSON(t *testing.T) {
	rows := metrics.Compare(&metrics.PerformanceMetrics{TotalRevenue: 10}, &metrics.PerformanceMetrics{TotalRevenue: 20})
	path := filepath.Join(t.TempDir(), "comparison.json")

	require.NoError(t, WriteComparisonJSON(path, rows))

	var doc []metrics.ComparisonRow
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, rows, doc)
}

func TestWriteOrders_BadPath(t *testing.T) {
	assert.Error(t, WriteOrders(filepath.Join(t.TempDir(), "nope", "orders.csv"), nil, time.Time{}))
}
