package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/metrics"
)

// RunRow summarizes one stored run.
type RunRow struct {
	RunID     string
	Strategy  string
	Seed      int64
	StartDate string
	EndDate   string
	Days      int
	Orders    int
}

// SaveRun stores a run with its order log, daily metrics and KPI document in one transaction.
func (s *Store) SaveRun(ctx context.Context, result *sim.RunResult, m *metrics.PerformanceMetrics) error {
	cfg := result.Config
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO runs (run_id, strategy, seed, start_date, end_date, days,
			initial_inventory_multiplier, filtered_demand_records, skipped_demand_records, wall_time_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			result.RunID, result.Strategy, cfg.Seed, cfg.Start.Format(sim.DateLayout), cfg.End.Format(sim.DateLayout),
			len(result.Daily), cfg.InitialInventoryMultiplier, result.FilteredDemandRecords,
			result.State.SkippedDemandRecords, result.WallTime.Milliseconds()); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		orders := make([][]any, 0, len(result.Orders()))
		for _, po := range result.Orders() {
			orders = append(orders, []any{result.RunID, po.ID, po.OrderDate.Format(sim.DateLayout), po.ProductID,
				po.WarehouseID, po.SupplierID, po.Units, po.UnitCost, po.ProductCost, po.ShippingCost, po.TotalCost,
				boolInt(po.VolumeDiscountApplied), po.ExpectedLeadTimeDays, po.ActualLeadTimeDays,
				po.ArrivalDate.Format(sim.DateLayout), boolInt(po.OnTime), po.Reason})
		}
		if err := s.insertAll(ctx, tx, `INSERT INTO purchase_orders (run_id, order_id, order_date, product_id, warehouse_id,
			supplier_id, units, unit_cost, product_cost, shipping_cost, total_cost, volume_discount_applied,
			expected_lead_time, actual_lead_time, arrival_date, on_time, reason)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, orders); err != nil {
			return fmt.Errorf("insert purchase orders: %w", err)
		}

		daily := make([][]any, 0, len(result.Daily))
		for _, d := range result.Daily {
			daily = append(daily, []any{result.RunID, d.Date.Format(sim.DateLayout), d.TotalInventoryUnits,
				d.TotalInventoryValue, d.PositionsAtZero, d.CumulativeRevenue, d.CumulativeCost,
				d.CumulativeLostSales, d.CumulativeStockouts, d.OrdersPlacedToday, d.UnitsArrived})
		}
		if err := s.insertAll(ctx, tx, `INSERT INTO daily_metrics (run_id, date, total_inventory_units, total_inventory_value,
			positions_at_zero, cumulative_revenue, cumulative_cost, cumulative_lost_sales, cumulative_stockouts,
			orders_placed, units_arrived) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, daily); err != nil {
			return fmt.Errorf("insert daily metrics: %w", err)
		}

		if m == nil {
			return nil
		}
		kv := m.ToMap()
		keys := make([]string, 0, len(kv))
		for k := range kv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		perf := make([][]any, 0, len(keys))
		for _, k := range keys {
			perf = append(perf, []any{result.RunID, k, kv[k]})
		}
		if err := s.insertAll(ctx, tx, `INSERT INTO performance_metrics (run_id, metric, value) VALUES (?, ?, ?)`, perf); err != nil {
			return fmt.Errorf("insert performance metrics: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving run %s: %w", result.RunID, err)
	}
	return nil
}

// ListRuns returns stored runs ordered by run id.
func (s *Store) ListRuns(ctx context.Context) ([]RunRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT r.run_id, r.strategy, r.seed, r.start_date, r.end_date, r.days,
		(SELECT COUNT(*) FROM purchase_orders o WHERE o.run_id = r.run_id)
		FROM runs r ORDER BY r.run_id`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	var runs []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.RunID, &r.Strategy, &r.Seed, &r.StartDate, &r.EndDate, &r.Days, &r.Orders); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return runs, nil
}

// LoadRunMetrics returns the KPI document stored for runID.
func (s *Store) LoadRunMetrics(ctx context.Context, runID string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT metric, value FROM performance_metrics WHERE run_id = ?`), runID)
	if err != nil {
		return nil, fmt.Errorf("select performance metrics: %w", err)
	}
	out := make(map[string]float64)
	for rows.Next() {
		var (
			k string
			v float64
		)
		if err := rows.Scan(&k, &v); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan performance metric: %w", err)
		}
		out[k] = v
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no metrics stored for run %q", runID)
	}
	return out, nil
}
