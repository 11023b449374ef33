package sim

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PositionKey identifies one inventory position.
type PositionKey struct {
	ProductID   string
	WarehouseID string
}

func (k PositionKey) String() string {
	return k.ProductID + "@" + k.WarehouseID
}

// PendingArrival is an in-transit shipment for a position.
type PendingArrival struct {
	OrderID     int64
	ArrivalDate time.Time
	Units       int
}

// Position is the mutable stock record for one (product, warehouse) pair.
//
// Invariants, holding after the arrivals phase of every day:
//   - OnHand >= 0
//   - OnOrder == sum of Units over PendingArrivals
type Position struct {
	Key              PositionKey
	OnHand           int
	OnOrder          int
	PendingArrivals  []PendingArrival
	Stockouts        int
	LostSalesUnits   int
	LostSalesRevenue float64

	lastStockoutDay time.Time // day the last stockout was counted; zero if never
}

// PendingUnits sums the units of all pending arrivals.
func (p *Position) PendingUnits() int {
	total := 0
	for _, a := range p.PendingArrivals {
		total += a.Units
	}
	return total
}

// Inventory maps every catalog (product, warehouse) pair to its Position.
// Positions are created once by NewInventory and never removed during a run.
type Inventory struct {
	positions map[PositionKey]*Position
	keys      []PositionKey // product-major, warehouse-minor order
}

// NewInventory opens one position per (product, warehouse) pair with
// round(base_demand_daily × supply_days_target × initialMultiplier) units on hand.
func NewInventory(catalog *Catalog, initialMultiplier float64) (*Inventory, error) {
	if catalog == nil || catalog.NumProducts() == 0 {
		return nil, fmt.Errorf("initializing inventory: catalog has no products")
	}
	if catalog.NumWarehouses() == 0 {
		return nil, fmt.Errorf("initializing inventory: catalog has no warehouses")
	}
	inv := &Inventory{
		positions: make(map[PositionKey]*Position, catalog.NumProducts()*catalog.NumWarehouses()),
	}
	for _, p := range catalog.Products() {
		opening := int(math.Round(p.BaseDemandDaily * p.SupplyDaysTarget * initialMultiplier))
		if opening < 0 {
			opening = 0
		}
		for _, w := range catalog.Warehouses() {
			key := PositionKey{ProductID: p.ID, WarehouseID: w.ID}
			inv.positions[key] = &Position{Key: key, OnHand: opening}
			inv.keys = append(inv.keys, key)
		}
	}
	sort.Slice(inv.keys, func(i, j int) bool {
		if inv.keys[i].ProductID != inv.keys[j].ProductID {
			return inv.keys[i].ProductID < inv.keys[j].ProductID
		}
		return inv.keys[i].WarehouseID < inv.keys[j].WarehouseID
	})
	return inv, nil
}

// Get returns the position for key, if present.
func (inv *Inventory) Get(key PositionKey) (*Position, bool) {
	p, ok := inv.positions[key]
	return p, ok
}

// Len returns the number of positions.
func (inv *Inventory) Len() int { return len(inv.keys) }

// Keys returns position keys in deterministic order.
func (inv *Inventory) Keys() []PositionKey { return inv.keys }

// Positions returns all positions in deterministic order.
func (inv *Inventory) Positions() []*Position {
	out := make([]*Position, 0, len(inv.keys))
	for _, k := range inv.keys {
		out = append(out, inv.positions[k])
	}
	return out
}
