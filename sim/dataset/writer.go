package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/metrics"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/trace"
)

var orderColumns = []string{
	"order_id", "date", "product_id", "warehouse_id", "supplier_id", "units_ordered",
	"unit_cost", "product_cost", "shipping_cost", "total_cost", "volume_discount_applied",
	"expected_lead_time", "actual_lead_time", "arrival_date", "on_time", "reason", "status",
}

var dailyColumns = []string{
	"date", "total_inventory_units", "total_inventory_value", "positions_at_zero",
	"cumulative_revenue", "cumulative_cost", "cumulative_lost_sales", "cumulative_stockouts",
	"orders_placed", "units_arrived",
}

var decisionColumns = []string{
	"day", "date", "strategy", "product_id", "warehouse_id", "supplier_id", "units",
	"reason", "executed", "order_id", "error",
}

// money renders v rounded half away from zero to cents.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// writeCSV creates path and writes header plus rows.
func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing %s header: %w", path, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

// WriteOrders writes the order log, one row per purchase order, with each
// order's status as of asOf (normally the last simulated day).
func WriteOrders(path string, orders []sim.PurchaseOrder, asOf time.Time) error {
	rows := make([][]string, 0, len(orders))
	for _, po := range orders {
		rows = append(rows, []string{
			po.Label(),
			po.OrderDate.Format(sim.DateLayout),
			po.ProductID,
			po.WarehouseID,
			po.SupplierID,
			strconv.Itoa(po.Units),
			decimal.NewFromFloat(po.UnitCost).StringFixed(4),
			money(po.ProductCost),
			money(po.ShippingCost),
			money(po.TotalCost),
			strconv.FormatBool(po.VolumeDiscountApplied),
			strconv.Itoa(po.ExpectedLeadTimeDays),
			strconv.Itoa(po.ActualLeadTimeDays),
			po.ArrivalDate.Format(sim.DateLayout),
			strconv.FormatBool(po.OnTime),
			po.Reason,
			string(po.StatusAt(asOf)),
		})
	}
	return writeCSV(path, orderColumns, rows)
}

// WriteDailyMetrics writes one row per simulated day.
func WriteDailyMetrics(path string, daily []sim.DailyMetrics) error {
	rows := make([][]string, 0, len(daily))
	for _, d := range daily {
		rows = append(rows, []string{
			d.Date.Format(sim.DateLayout),
			strconv.Itoa(d.TotalInventoryUnits),
			money(d.TotalInventoryValue),
			strconv.Itoa(d.PositionsAtZero),
			money(d.CumulativeRevenue),
			money(d.CumulativeCost),
			money(d.CumulativeLostSales),
			strconv.Itoa(d.CumulativeStockouts),
			strconv.Itoa(d.OrdersPlacedToday),
			strconv.Itoa(d.UnitsArrived),
		})
	}
	return writeCSV(path, dailyColumns, rows)
}

// WriteDecisions writes the decision trace. A disabled trace yields a header-only file.
func WriteDecisions(path string, st *trace.SimulationTrace) error {
	var rows [][]string
	if st != nil {
		rows = make([][]string, 0, len(st.Decisions))
		for _, d := range st.Decisions {
			orderID := ""
			if d.Executed {
				orderID = fmt.Sprintf("PO-%05d", d.OrderID)
			}
			rows = append(rows, []string{
				strconv.Itoa(d.Day),
				d.Date,
				d.Strategy,
				d.ProductID,
				d.WarehouseID,
				d.SupplierID,
				strconv.Itoa(d.Units),
				d.Reason,
				strconv.FormatBool(d.Executed),
				orderID,
				d.Error,
			})
		}
	}
	return writeCSV(path, decisionColumns, rows)
}

// WriteMetricsJSON writes the KPI document as indented JSON.
func WriteMetricsJSON(path string, m *metrics.PerformanceMetrics) error {
	return writeJSON(path, m)
}

// WriteComparisonJSON writes comparison rows as indented JSON.
func WriteComparisonJSON(path string, rows []metrics.ComparisonRow) error {
	return writeJSON(path, rows)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
