package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/store"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--log", "error"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestRunCommand_WritesSummaryAndOutputs(t *testing.T) {
	// GIVEN ten days of flat demand on disk
	dataDir := writeDataDir(t)
	outDir := filepath.Join(t.TempDir(), "out")
	promFile := filepath.Join(t.TempDir(), "scsim.prom")

	// WHEN the baseline is run
	stdout := execute(t, "run", "--data-dir", dataDir, "--out", outDir, "--metrics-textfile", promFile)

	// THEN the summary is printed to stdout
	assert.Contains(t, stdout, "Performance Metrics Summary (reorder-point, 10 days)")
	assert.Contains(t, stdout, "5,000.00")

	// THEN every output file is written
	for _, name := range []string{"orders.csv", "daily_metrics.csv", "decisions.csv", "metrics.json"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	data, err := os.ReadFile(filepath.Join(outDir, "metrics.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2.0, doc["total_orders"])

	prom, err := os.ReadFile(promFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `scsim_performance_metric{metric="total_revenue",strategy="reorder-point"} 5000`)
}

func TestImportThenCompare_FromStore(t *testing.T) {
	// GIVEN CSV tables imported into a SQLite store
	dataDir := writeDataDir(t)
	dbPath := filepath.Join(t.TempDir(), "scsim.db")
	stdout := execute(t, "import", "--data-dir", dataDir, "--db", dbPath)
	assert.Contains(t, stdout, "Imported 1 products, 1 warehouses and 10 demand records")

	// WHEN baseline and fixed-threshold are compared from the store
	outDir := t.TempDir()
	stdout = execute(t, "compare", "--db", dbPath, "--out", outDir, "--start", "2023-01-01", "--end", "2023-01-10")

	// THEN the comparison table is printed and written
	assert.Contains(t, stdout, "BASELINE REORDER-POINT vs FIXED-THRESHOLD COMPARISON")
	assert.Contains(t, stdout, "Stockout Rate %")
	assert.FileExists(t, filepath.Join(outDir, "comparison.json"))
	assert.FileExists(t, filepath.Join(outDir, "baseline", "orders.csv"))
	assert.FileExists(t, filepath.Join(outDir, "alternative", "metrics.json"))

	// THEN both runs are recorded in the store
	st, err := store.Open(context.Background(), store.DriverSQLite, dbPath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// WHEN the run history is listed
	stdout = execute(t, "runs", "--db", dbPath)

	// THEN both strategies appear with their order counts
	assert.Contains(t, stdout, "RUN ID")
	assert.Contains(t, stdout, runs[0].RunID)
	assert.Contains(t, stdout, "reorder-point")
	assert.Contains(t, stdout, "fixed-threshold")

	// WHEN one run's KPIs are requested
	stdout = execute(t, "runs", "--db", dbPath, "--run-id", runs[0].RunID)

	// THEN its stored metrics are printed
	assert.Contains(t, stdout, "total_revenue")
	assert.Contains(t, stdout, "stockout_rate_pct")
}
