// Package store persists catalogs, demand traces and simulation runs in a SQL
// database. SQLite (pure Go, no cgo) and PostgreSQL (pgx) share one schema.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DefaultSQLitePath is used when the sqlite DSN is empty.
const DefaultSQLitePath = "scsim.db"

// Store is a handle on the simulation database.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and verifies the connection.
// "postgres" is accepted as an alias for DriverPostgres.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case "", DriverSQLite:
		driver = DriverSQLite
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		if dir := filepath.Dir(dsn); dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
				return nil, fmt.Errorf("create dirs: %w", err)
			}
		}
	case DriverPostgres, "postgres":
		driver = DriverPostgres
		if dsn == "" {
			return nil, fmt.Errorf("open postgres: empty DSN")
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q (want %s or %s)", driver, DriverSQLite, DriverPostgres)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One connection keeps :memory: databases shared across statements.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	logrus.Debugf("Opened %s store", driver)
	return &Store{db: db, driver: driver}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Driver returns the normalized driver name.
func (s *Store) Driver() string { return s.driver }

// rebind rewrites ? placeholders as $1..$n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		unit_price DOUBLE PRECISION NOT NULL,
		unit_cost DOUBLE PRECISION NOT NULL,
		weight_kg DOUBLE PRECISION NOT NULL,
		base_demand_daily DOUBLE PRECISION NOT NULL,
		supply_days_target DOUBLE PRECISION NOT NULL,
		reorder_point_units INTEGER NOT NULL,
		supplier_id TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		supplier_id TEXT PRIMARY KEY,
		lead_time_days DOUBLE PRECISION NOT NULL,
		lead_time_std_dev DOUBLE PRECISION NOT NULL,
		reliability_score DOUBLE PRECISION NOT NULL,
		moq_units INTEGER NOT NULL,
		volume_discount_threshold_units INTEGER NOT NULL,
		volume_discount_pct DOUBLE PRECISION NOT NULL,
		shipping_cost_per_kg DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS warehouses (
		warehouse_id TEXT PRIMARY KEY,
		location TEXT NOT NULL,
		capacity_units INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		seq INTEGER NOT NULL,
		date TEXT NOT NULL,
		product_id TEXT NOT NULL,
		warehouse_id TEXT NOT NULL,
		units_sold INTEGER NOT NULL,
		unit_price DOUBLE PRECISION NOT NULL,
		unit_cost DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sales_date_idx ON sales (date, seq)`,
	`CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		strategy TEXT NOT NULL,
		seed BIGINT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days INTEGER NOT NULL,
		initial_inventory_multiplier DOUBLE PRECISION NOT NULL,
		filtered_demand_records INTEGER NOT NULL,
		skipped_demand_records INTEGER NOT NULL,
		wall_time_ms BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_orders (
		run_id TEXT NOT NULL,
		order_id BIGINT NOT NULL,
		order_date TEXT NOT NULL,
		product_id TEXT NOT NULL,
		warehouse_id TEXT NOT NULL,
		supplier_id TEXT NOT NULL,
		units INTEGER NOT NULL,
		unit_cost DOUBLE PRECISION NOT NULL,
		product_cost DOUBLE PRECISION NOT NULL,
		shipping_cost DOUBLE PRECISION NOT NULL,
		total_cost DOUBLE PRECISION NOT NULL,
		volume_discount_applied INTEGER NOT NULL,
		expected_lead_time INTEGER NOT NULL,
		actual_lead_time INTEGER NOT NULL,
		arrival_date TEXT NOT NULL,
		on_time INTEGER NOT NULL,
		reason TEXT NOT NULL,
		PRIMARY KEY (run_id, order_id)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_metrics (
		run_id TEXT NOT NULL,
		date TEXT NOT NULL,
		total_inventory_units INTEGER NOT NULL,
		total_inventory_value DOUBLE PRECISION NOT NULL,
		positions_at_zero INTEGER NOT NULL,
		cumulative_revenue DOUBLE PRECISION NOT NULL,
		cumulative_cost DOUBLE PRECISION NOT NULL,
		cumulative_lost_sales DOUBLE PRECISION NOT NULL,
		cumulative_stockouts INTEGER NOT NULL,
		orders_placed INTEGER NOT NULL,
		units_arrived INTEGER NOT NULL,
		PRIMARY KEY (run_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS performance_metrics (
		run_id TEXT NOT NULL,
		metric TEXT NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, metric)
	)`,
}

// Migrate creates every table that does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// inTx runs fn in a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// insertAll prepares query once and executes it for every args row.
func (s *Store) insertAll(ctx context.Context, tx *sql.Tx, query string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, s.rebind(query))
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
