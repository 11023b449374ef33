package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
)

// writeDataDir lays out a one-product catalog and ten days of flat demand.
func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"products.csv": "product_id,category,unit_price,unit_cost,weight_kg,base_demand_daily,supply_days_target,reorder_point_units,supplier_id\n" +
			"P1,Electronics,25,10,0.5,20,5,50,S1\n",
		"suppliers.csv": "supplier_id,lead_time_days,lead_time_std_dev,reliability_score,moq_units,volume_discount_threshold_units,volume_discount_pct,shipping_cost_per_kg\n" +
			"S1,3,0,1.0,50,500,0.05,2\n",
		"warehouses.csv": "warehouse_id,location,capacity_units\nW1,Newark,10000\n",
	}
	var sales strings.Builder
	sales.WriteString("date,product_id,warehouse_id,units_sold,unit_price,unit_cost\n")
	for d := 1; d <= 10; d++ {
		fmt.Fprintf(&sales, "2023-01-%02d,P1,W1,20,25,10\n", d)
	}
	files["sales.csv"] = sales.String()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := sim.ParseDate(s)
	require.NoError(t, err)
	return d
}

func writeRunFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
