package sim

import (
	"fmt"
	"sort"
)

// Product is an immutable catalog entry for a single SKU.
type Product struct {
	ID               string  `json:"product_id" yaml:"product_id"`
	Category         string  `json:"category" yaml:"category"`
	UnitPrice        float64 `json:"unit_price" yaml:"unit_price"`
	UnitCost         float64 `json:"unit_cost" yaml:"unit_cost"`
	WeightKg         float64 `json:"weight_kg" yaml:"weight_kg"`
	BaseDemandDaily  float64 `json:"base_demand_daily" yaml:"base_demand_daily"`
	SupplyDaysTarget float64 `json:"supply_days_target" yaml:"supply_days_target"`
	ReorderPoint     int     `json:"reorder_point_units" yaml:"reorder_point_units"`
	SupplierID       string  `json:"supplier_id" yaml:"supplier_id"`
}

// Supplier is an immutable catalog entry describing lead time, reliability and pricing rules.
type Supplier struct {
	ID                string  `json:"supplier_id" yaml:"supplier_id"`
	LeadTimeDays      float64 `json:"lead_time_days" yaml:"lead_time_days"`
	LeadTimeStdDev    float64 `json:"lead_time_std_dev" yaml:"lead_time_std_dev"`
	ReliabilityScore  float64 `json:"reliability_score" yaml:"reliability_score"` // probability of on-time delivery, 0-1
	MOQUnits          int     `json:"moq_units" yaml:"moq_units"`
	DiscountThreshold int     `json:"volume_discount_threshold_units" yaml:"volume_discount_threshold_units"`
	DiscountPct       float64 `json:"volume_discount_pct" yaml:"volume_discount_pct"` // fraction, 0.05 = 5%
	ShippingCostPerKg float64 `json:"shipping_cost_per_kg" yaml:"shipping_cost_per_kg"`
}

// Warehouse is only used to partition demand; the engine never mutates it.
type Warehouse struct {
	ID            string `json:"warehouse_id" yaml:"warehouse_id"`
	Location      string `json:"location" yaml:"location"`
	CapacityUnits int    `json:"capacity_units" yaml:"capacity_units"`
}

// Catalog is the read-only reference data for one run.
type Catalog struct {
	products   map[string]Product
	suppliers  map[string]Supplier
	warehouses map[string]Warehouse

	productIDs   []string // sorted
	supplierIDs  []string // sorted
	warehouseIDs []string // sorted
}

// NewCatalog indexes the given tables by id. Duplicate ids are rejected.
func NewCatalog(products []Product, suppliers []Supplier, warehouses []Warehouse) (*Catalog, error) {
	c := &Catalog{
		products:   make(map[string]Product, len(products)),
		suppliers:  make(map[string]Supplier, len(suppliers)),
		warehouses: make(map[string]Warehouse, len(warehouses)),
	}
	for _, p := range products {
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.products[p.ID] = p
		c.productIDs = append(c.productIDs, p.ID)
	}
	for _, s := range suppliers {
		if _, dup := c.suppliers[s.ID]; dup {
			return nil, fmt.Errorf("duplicate supplier id %q", s.ID)
		}
		c.suppliers[s.ID] = s
		c.supplierIDs = append(c.supplierIDs, s.ID)
	}
	for _, w := range warehouses {
		if _, dup := c.warehouses[w.ID]; dup {
			return nil, fmt.Errorf("duplicate warehouse id %q", w.ID)
		}
		c.warehouses[w.ID] = w
		c.warehouseIDs = append(c.warehouseIDs, w.ID)
	}
	sort.Strings(c.productIDs)
	sort.Strings(c.supplierIDs)
	sort.Strings(c.warehouseIDs)
	return c, nil
}

// Product returns the product with the given id or a *LookupError.
func (c *Catalog) Product(id string) (Product, error) {
	p, ok := c.products[id]
	if !ok {
		return Product{}, &LookupError{Kind: LookupProduct, ID: id}
	}
	return p, nil
}

// Supplier returns the supplier with the given id or a *LookupError.
func (c *Catalog) Supplier(id string) (Supplier, error) {
	s, ok := c.suppliers[id]
	if !ok {
		return Supplier{}, &LookupError{Kind: LookupSupplier, ID: id}
	}
	return s, nil
}

// Warehouse returns the warehouse with the given id or a *LookupError.
func (c *Catalog) Warehouse(id string) (Warehouse, error) {
	w, ok := c.warehouses[id]
	if !ok {
		return Warehouse{}, &LookupError{Kind: LookupWarehouse, ID: id}
	}
	return w, nil
}

// Products returns all products sorted by id.
func (c *Catalog) Products() []Product {
	out := make([]Product, 0, len(c.productIDs))
	for _, id := range c.productIDs {
		out = append(out, c.products[id])
	}
	return out
}

// Suppliers returns all suppliers sorted by id.
func (c *Catalog) Suppliers() []Supplier {
	out := make([]Supplier, 0, len(c.supplierIDs))
	for _, id := range c.supplierIDs {
		out = append(out, c.suppliers[id])
	}
	return out
}

// Warehouses returns all warehouses sorted by id.
func (c *Catalog) Warehouses() []Warehouse {
	out := make([]Warehouse, 0, len(c.warehouseIDs))
	for _, id := range c.warehouseIDs {
		out = append(out, c.warehouses[id])
	}
	return out
}

// NumProducts returns the number of products in the catalog.
func (c *Catalog) NumProducts() int { return len(c.productIDs) }

// NumWarehouses returns the number of warehouses in the catalog.
func (c *Catalog) NumWarehouses() int { return len(c.warehouseIDs) }
