// Package dataset reads catalog and demand tables from CSV and writes run
// outputs (order log, daily metrics, KPI document) back to disk.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
)

// File names expected under a data directory.
const (
	ProductsFile   = "products.csv"
	SuppliersFile  = "suppliers.csv"
	WarehousesFile = "warehouses.csv"
	SalesFile      = "sales.csv"
)

var (
	productColumns = []string{
		"product_id", "category", "unit_price", "unit_cost", "weight_kg",
		"base_demand_daily", "supply_days_target", "reorder_point_units", "supplier_id",
	}
	supplierColumns = []string{
		"supplier_id", "lead_time_days", "lead_time_std_dev", "reliability_score", "moq_units",
		"volume_discount_threshold_units", "volume_discount_pct", "shipping_cost_per_kg",
	}
	warehouseColumns = []string{"warehouse_id"}
	salesColumns     = []string{"date", "product_id", "warehouse_id", "units_sold", "unit_price"}
)

// table is a parsed CSV file whose columns are addressed by header name.
// Columns not listed as required are allowed and ignored unless asked for.
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func readTable(path string, required []string) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()
	return parseTable(filepath.Base(path), file, required)
}

func parseTable(name string, r io.Reader, required []string) (*table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", name)
	}
	t := &table{name: name, columns: make(map[string]int, len(records[0])), rows: records[1:]}
	for i, col := range records[0] {
		t.columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s header missing columns %v", name, missing)
	}
	return t, nil
}

// row wraps one data row; the first parse error sticks and later reads return zero values.
type row struct {
	t      *table
	fields []string
	line   int
	err    error
}

func (t *table) row(i int) *row {
	return &row{t: t, fields: t.rows[i], line: i + 2}
}

func (r *row) str(col string) string {
	idx, ok := r.t.columns[col]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (r *row) number(col string) float64 {
	s := r.str(col)
	if s == "" || r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.err = fmt.Errorf("%s row %d: column %s: %w", r.t.name, r.line, col, err)
	}
	return v
}

// integer accepts integral floats such as "120.0", which pandas-written files contain.
func (r *row) integer(col string) int {
	s := r.str(col)
	if s == "" || r.err != nil {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		r.err = fmt.Errorf("%s row %d: column %s: %q is not an integer", r.t.name, r.line, col, s)
		return 0
	}
	return int(f)
}

func (r *row) id(col string) string {
	s := r.str(col)
	if s == "" && r.err == nil {
		r.err = fmt.Errorf("%s row %d: empty %s", r.t.name, r.line, col)
	}
	return s
}

// LoadCatalog reads products.csv, suppliers.csv and warehouses.csv from dir.
func LoadCatalog(dir string) (*sim.Catalog, error) {
	products, err := loadProducts(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, err
	}
	suppliers, err := loadSuppliers(filepath.Join(dir, SuppliersFile))
	if err != nil {
		return nil, err
	}
	warehouses, err := loadWarehouses(filepath.Join(dir, WarehousesFile))
	if err != nil {
		return nil, err
	}
	catalog, err := sim.NewCatalog(products, suppliers, warehouses)
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", dir, err)
	}
	logrus.Infof("Loaded catalog from %s: %d products, %d suppliers, %d warehouses",
		dir, len(products), len(suppliers), len(warehouses))
	return catalog, nil
}

func loadProducts(path string) ([]sim.Product, error) {
	t, err := readTable(path, productColumns)
	if err != nil {
		return nil, err
	}
	products := make([]sim.Product, 0, len(t.rows))
	for i := range t.rows {
		r := t.row(i)
		p := sim.Product{
			ID:               r.id("product_id"),
			Category:         r.str("category"),
			UnitPrice:        r.number("unit_price"),
			UnitCost:         r.number("unit_cost"),
			WeightKg:         r.number("weight_kg"),
			BaseDemandDaily:  r.number("base_demand_daily"),
			SupplyDaysTarget: r.number("supply_days_target"),
			ReorderPoint:     r.integer("reorder_point_units"),
			SupplierID:       r.id("supplier_id"),
		}
		if r.err != nil {
			return nil, r.err
		}
		products = append(products, p)
	}
	return products, nil
}

func loadSuppliers(path string) ([]sim.Supplier, error) {
	t, err := readTable(path, supplierColumns)
	if err != nil {
		return nil, err
	}
	suppliers := make([]sim.Supplier, 0, len(t.rows))
	for i := range t.rows {
		r := t.row(i)
		s := sim.Supplier{
			ID:                r.id("supplier_id"),
			LeadTimeDays:      r.number("lead_time_days"),
			LeadTimeStdDev:    r.number("lead_time_std_dev"),
			ReliabilityScore:  r.number("reliability_score"),
			MOQUnits:          r.integer("moq_units"),
			DiscountThreshold: r.integer("volume_discount_threshold_units"),
			DiscountPct:       r.number("volume_discount_pct"),
			ShippingCostPerKg: r.number("shipping_cost_per_kg"),
		}
		if r.err != nil {
			return nil, r.err
		}
		if s.ReliabilityScore < 0 || s.ReliabilityScore > 1 {
			return nil, fmt.Errorf("%s row %d: reliability_score %v outside [0, 1]", t.name, r.line, s.ReliabilityScore)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, nil
}

func loadWarehouses(path string) ([]sim.Warehouse, error) {
	t, err := readTable(path, warehouseColumns)
	if err != nil {
		return nil, err
	}
	warehouses := make([]sim.Warehouse, 0, len(t.rows))
	for i := range t.rows {
		r := t.row(i)
		w := sim.Warehouse{
			ID:            r.id("warehouse_id"),
			Location:      r.str("location"),
			CapacityUnits: r.integer("capacity_units"),
		}
		if r.err != nil {
			return nil, r.err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, nil
}

// LoadDemand reads sales.csv from dir. A unit_cost column is optional.
func LoadDemand(dir string) (*sim.DemandTrace, error) {
	path := filepath.Join(dir, SalesFile)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()
	return ReadDemand(file)
}

// ReadDemand parses a sales table from r.
func ReadDemand(r io.Reader) (*sim.DemandTrace, error) {
	t, err := parseTable(SalesFile, r, salesColumns)
	if err != nil {
		return nil, err
	}
	records := make([]sim.DemandRecord, 0, len(t.rows))
	for i := range t.rows {
		rw := t.row(i)
		date, err := sim.ParseDate(rw.id("date"))
		if rw.err != nil {
			return nil, rw.err
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", t.name, rw.line, err)
		}
		rec := sim.DemandRecord{
			Date:        date,
			ProductID:   rw.id("product_id"),
			WarehouseID: rw.id("warehouse_id"),
			Units:       rw.integer("units_sold"),
			UnitPrice:   rw.number("unit_price"),
			UnitCost:    rw.number("unit_cost"),
		}
		if rw.err != nil {
			return nil, rw.err
		}
		if rec.Units < 0 {
			return nil, fmt.Errorf("%s row %d: negative units_sold %d", t.name, rw.line, rec.Units)
		}
		records = append(records, rec)
	}
	logrus.Debugf("Read %d demand records", len(records))
	return sim.NewDemandTrace(records), nil
}
