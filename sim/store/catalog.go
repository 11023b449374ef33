package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
)

// SaveCatalog replaces the stored catalog with c.
func (s *Store) SaveCatalog(ctx context.Context, c *sim.Catalog) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"products", "suppliers", "warehouses"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		products := make([][]any, 0, c.NumProducts())
		for _, p := range c.Products() {
			products = append(products, []any{p.ID, p.Category, p.UnitPrice, p.UnitCost, p.WeightKg,
				p.BaseDemandDaily, p.SupplyDaysTarget, p.ReorderPoint, p.SupplierID})
		}
		if err := s.insertAll(ctx, tx, `INSERT INTO products (product_id, category, unit_price, unit_cost, weight_kg,
			base_demand_daily, supply_days_target, reorder_point_units, supplier_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, products); err != nil {
			return fmt.Errorf("insert products: %w", err)
		}

		var suppliers [][]any
		for _, sp := range c.Suppliers() {
			suppliers = append(suppliers, []any{sp.ID, sp.LeadTimeDays, sp.LeadTimeStdDev, sp.ReliabilityScore,
				sp.MOQUnits, sp.DiscountThreshold, sp.DiscountPct, sp.ShippingCostPerKg})
		}
		if err := s.insertAll(ctx, tx, `INSERT INTO suppliers (supplier_id, lead_time_days, lead_time_std_dev, reliability_score,
			moq_units, volume_discount_threshold_units, volume_discount_pct, shipping_cost_per_kg) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, suppliers); err != nil {
			return fmt.Errorf("insert suppliers: %w", err)
		}

		var warehouses [][]any
		for _, w := range c.Warehouses() {
			warehouses = append(warehouses, []any{w.ID, w.Location, w.CapacityUnits})
		}
		if err := s.insertAll(ctx, tx, `INSERT INTO warehouses (warehouse_id, location, capacity_units) VALUES (?, ?, ?)`, warehouses); err != nil {
			return fmt.Errorf("insert warehouses: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	logrus.Infof("Saved catalog: %d products, %d warehouses", c.NumProducts(), c.NumWarehouses())
	return nil
}

// LoadCatalog reads the stored catalog.
func (s *Store) LoadCatalog(ctx context.Context) (*sim.Catalog, error) {
	var products []sim.Product
	rows, err := s.db.QueryContext(ctx, `SELECT product_id, category, unit_price, unit_cost, weight_kg,
		base_demand_daily, supply_days_target, reorder_point_units, supplier_id FROM products ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	for rows.Next() {
		var p sim.Product
		if err := rows.Scan(&p.ID, &p.Category, &p.UnitPrice, &p.UnitCost, &p.WeightKg,
			&p.BaseDemandDaily, &p.SupplyDaysTarget, &p.ReorderPoint, &p.SupplierID); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	var suppliers []sim.Supplier
	rows, err = s.db.QueryContext(ctx, `SELECT supplier_id, lead_time_days, lead_time_std_dev, reliability_score,
		moq_units, volume_discount_threshold_units, volume_discount_pct, shipping_cost_per_kg FROM suppliers ORDER BY supplier_id`)
	if err != nil {
		return nil, fmt.Errorf("select suppliers: %w", err)
	}
	for rows.Next() {
		var sp sim.Supplier
		if err := rows.Scan(&sp.ID, &sp.LeadTimeDays, &sp.LeadTimeStdDev, &sp.ReliabilityScore,
			&sp.MOQUnits, &sp.DiscountThreshold, &sp.DiscountPct, &sp.ShippingCostPerKg); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, sp)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	var warehouses []sim.Warehouse
	rows, err = s.db.QueryContext(ctx, `SELECT warehouse_id, location, capacity_units FROM warehouses ORDER BY warehouse_id`)
	if err != nil {
		return nil, fmt.Errorf("select warehouses: %w", err)
	}
	for rows.Next() {
		var w sim.Warehouse
		if err := rows.Scan(&w.ID, &w.Location, &w.CapacityUnits); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return sim.NewCatalog(products, suppliers, warehouses)
}

// SaveDemand replaces the stored sales table with the trace, preserving record order.
func (s *Store) SaveDemand(ctx context.Context, demand *sim.DemandTrace) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sales"); err != nil {
			return fmt.Errorf("clear sales: %w", err)
		}
		rows := make([][]any, 0, demand.Len())
		for i, r := range demand.Records() {
			rows = append(rows, []any{i, r.Date.Format(sim.DateLayout), r.ProductID, r.WarehouseID, r.Units, r.UnitPrice, r.UnitCost})
		}
		if err := s.insertAll(ctx, tx, `INSERT INTO sales (seq, date, product_id, warehouse_id, units_sold, unit_price, unit_cost)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, rows); err != nil {
			return fmt.Errorf("insert sales: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving demand: %w", err)
	}
	logrus.Infof("Saved %d demand records", demand.Len())
	return nil
}

// LoadDemand reads sales dated within [start, end]. A zero bound is open.
func (s *Store) LoadDemand(ctx context.Context, start, end time.Time) (*sim.DemandTrace, error) {
	query := `SELECT date, product_id, warehouse_id, units_sold, unit_price, unit_cost FROM sales WHERE 1=1`
	var args []any
	if !start.IsZero() {
		query += ` AND date >= ?`
		args = append(args, sim.Day(start).Format(sim.DateLayout))
	}
	if !end.IsZero() {
		query += ` AND date <= ?`
		args = append(args, sim.Day(end).Format(sim.DateLayout))
	}
	query += ` ORDER BY date, seq`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}
	var records []sim.DemandRecord
	for rows.Next() {
		var (
			r    sim.DemandRecord
			date string
		)
		if err := rows.Scan(&date, &r.ProductID, &r.WarehouseID, &r.Units, &r.UnitPrice, &r.UnitCost); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if r.Date, err = sim.ParseDate(date); err != nil {
			_ = rows.Close()
			return nil, err
		}
		records = append(records, r)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return sim.NewDemandTrace(records), nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("iterate rows: %w", err)
	}
	return rows.Close()
}
