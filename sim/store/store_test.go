package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/internal/testutil"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/metrics"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "nested", "scsim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	assert.Error(t, err)
	_, err = Open(context.Background(), "postgres", "")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))
	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "x = ?", lite.rebind("x = ?"))
}

func TestMigrate_Idempotent(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	p2 := testutil.ScenarioProduct()
	p2.ID = "P2"
	p2.ReorderPoint = 7
	want := testutil.Catalog(t, []sim.Product{testutil.ScenarioProduct(), p2}, []sim.Supplier{testutil.ScenarioSupplier()}, "W1", "W2")

	require.NoError(t, s.SaveCatalog(ctx, want))
	// Saving twice replaces rather than duplicates.
	require.NoError(t, s.SaveCatalog(ctx, want))
	got, err := s.LoadCatalog(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.Products(), got.Products())
	assert.Equal(t, want.Suppliers(), got.Suppliers())
	assert.Equal(t, want.Warehouses(), got.Warehouses())
}

func TestDemandRoundTrip_WindowAndOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	records := testutil.FlatDemand("P1", "W1", 20, 25, 5)
	records = append(records, sim.DemandRecord{Date: testutil.Start, ProductID: "P1", WarehouseID: "W2", Units: 4, UnitPrice: 25, UnitCost: 10})
	require.NoError(t, s.SaveDemand(ctx, sim.NewDemandTrace(records)))

	all, err := s.LoadDemand(ctx, testutil.Start.AddDate(-1, 0, 0), testutil.Start.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 6, all.Len())
	first := all.ForDate(testutil.Start)
	require.Len(t, first, 2)
	assert.Equal(t, "W1", first[0].WarehouseID)
	assert.Equal(t, "W2", first[1].WarehouseID)
	assert.Equal(t, 10.0, first[1].UnitCost)

	window, err := s.LoadDemand(ctx, testutil.Start.AddDate(0, 0, 1), testutil.Start.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, window.Len())

	open, err := s.LoadDemand(ctx, testutil.Start.AddDate(0, 0, 3), sim.SimulationConfig{}.End)
	require.NoError(t, err)
	assert.Equal(t, 2, open.Len())
}

func TestSaveRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	catalog := testutil.SingleCatalog(t, testutil.ScenarioProduct(), testutil.ScenarioSupplier())
	simulator, err := sim.NewSimulator(catalog, sim.NewDemandTrace(testutil.FlatDemand("P1", "W1", 20, 25, 10)), testutil.Config(10))
	require.NoError(t, err)
	result, err := simulator.Run(sim.NewReorderPointStrategy(1.2, 0))
	require.NoError(t, err)
	m, err := metrics.Calculate(catalog, result)
	require.NoError(t, err)

	require.NoError(t, s.SaveRun(ctx, result, m))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, result.RunID, runs[0].RunID)
	assert.Equal(t, sim.StrategyReorderPoint, runs[0].Strategy)
	assert.Equal(t, sim.DefaultSeed, runs[0].Seed)
	assert.Equal(t, 10, runs[0].Days)
	assert.Equal(t, 2, runs[0].Orders)
	assert.Equal(t, "2023-01-01", runs[0].StartDate)

	kv, err := s.LoadRunMetrics(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, m.ToMap(), kv)

	// THEN a duplicate run id is rejected and nothing partial is written
	assert.Error(t, s.SaveRun(ctx, result, m))
	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestLoadRunMetrics_Unknown(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadRunMetrics(context.Background(), "missing")
	assert.Error(t, err)
}
