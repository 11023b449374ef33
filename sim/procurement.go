package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// Late deliveries add a delay drawn uniformly from [lateDelayMinDays, lateDelayMaxDays).
const (
	lateDelayMinDays = 2
	lateDelayMaxDays = 7
)

// Quote is the cost breakdown of buying Units of a product from a supplier.
type Quote struct {
	Units                 int
	BaseUnitCost          float64
	UnitCost              float64 // after volume discount
	ProductCost           float64
	ShippingCost          float64
	TotalCost             float64
	DiscountSavings       float64
	VolumeDiscountApplied bool
}

// PriceOrder applies the cost model: the product's unit cost, reduced by the
// supplier's discount when units >= the discount threshold, plus shipping
// of weight × units × cost per kg. It has no side effects.
func PriceOrder(product Product, supplier Supplier, units int) Quote {
	q := Quote{
		Units:        units,
		BaseUnitCost: product.UnitCost,
		UnitCost:     product.UnitCost,
	}
	if units >= supplier.DiscountThreshold {
		q.UnitCost *= 1 - supplier.DiscountPct
		q.VolumeDiscountApplied = true
	}
	q.ProductCost = float64(units) * q.UnitCost
	q.ShippingCost = product.WeightKg * float64(units) * supplier.ShippingCostPerKg
	q.TotalCost = q.ProductCost + q.ShippingCost
	if q.VolumeDiscountApplied {
		q.DiscountSavings = (q.BaseUnitCost - q.UnitCost) * float64(units)
	}
	return q
}

// Arrival is a shipment delivered into a position.
type Arrival struct {
	Key PositionKey
	PendingArrival
}

// Procurement turns order decisions into purchase orders and delivers them.
// It owns the run's procurement RNG and the order id sequence.
type Procurement struct {
	rng    *rand.Rand
	nextID int64
}

// NewProcurement creates a processor drawing all lead-time and reliability
// randomness from rng.
func NewProcurement(rng *rand.Rand) *Procurement {
	return &Procurement{rng: rng, nextID: 1}
}

// ProcessArrivals moves every pending arrival due on or before date into on-hand
// stock and returns the delivered shipments. Must run before ProcessSales on the
// same day so just-arrived stock is sellable.
func (pr *Procurement) ProcessArrivals(state *SimulationState, date time.Time) []Arrival {
	day := Day(date)
	var arrived []Arrival
	for _, pos := range state.Inventory.Positions() {
		if len(pos.PendingArrivals) == 0 {
			continue
		}
		remaining := pos.PendingArrivals[:0]
		for _, pa := range pos.PendingArrivals {
			if pa.ArrivalDate.After(day) {
				remaining = append(remaining, pa)
				continue
			}
			pos.OnHand += pa.Units
			pos.OnOrder -= pa.Units
			arrived = append(arrived, Arrival{Key: pos.Key, PendingArrival: pa})
			logrus.Debugf("[day %s] PO-%05d arrived: %d units into %s", day.Format(DateLayout), pa.OrderID, pa.Units, pos.Key)
		}
		pos.PendingArrivals = remaining
	}
	return arrived
}

// PlaceOrder executes one decision on the state's current date.
//
// Product, supplier and position are resolved before any random draw or total
// update, so a failed lookup returns a *LookupError and leaves the state and
// the RNG stream untouched.
func (pr *Procurement) PlaceOrder(state *SimulationState, decision OrderDecision, catalog *Catalog) (PurchaseOrder, error) {
	product, err := catalog.Product(decision.ProductID)
	if err != nil {
		return PurchaseOrder{}, err
	}
	supplier, err := catalog.Supplier(decision.SupplierID)
	if err != nil {
		return PurchaseOrder{}, err
	}
	pos, ok := state.Inventory.Get(decision.Key())
	if !ok {
		return PurchaseOrder{}, &LookupError{Kind: LookupPosition, ID: decision.Key().String()}
	}
	if decision.Units <= 0 {
		return PurchaseOrder{}, fmt.Errorf("order for %s: quantity %d must be positive", decision.Key(), decision.Units)
	}

	leadTime, onTime := pr.drawLeadTime(supplier)
	orderDate := state.CurrentDate
	arrival := orderDate.AddDate(0, 0, leadTime)

	quote := PriceOrder(product, supplier, decision.Units)
	state.TotalCost += quote.TotalCost

	po := PurchaseOrder{
		ID:                    pr.nextID,
		OrderDate:             orderDate,
		ProductID:             product.ID,
		WarehouseID:           decision.WarehouseID,
		SupplierID:            supplier.ID,
		Units:                 decision.Units,
		UnitCost:              quote.UnitCost,
		ProductCost:           quote.ProductCost,
		ShippingCost:          quote.ShippingCost,
		TotalCost:             quote.TotalCost,
		VolumeDiscountApplied: quote.VolumeDiscountApplied,
		ExpectedLeadTimeDays:  expectedLeadTime(supplier),
		ActualLeadTimeDays:    leadTime,
		ArrivalDate:           arrival,
		OnTime:                onTime,
		Reason:                decision.Reason,
	}
	pr.nextID++

	pos.OnOrder += po.Units
	pos.PendingArrivals = append(pos.PendingArrivals, PendingArrival{
		OrderID:     po.ID,
		ArrivalDate: arrival,
		Units:       po.Units,
	})
	state.Orders = append(state.Orders, po)

	logrus.Debugf("[day %s] %s placed: %d units of %s for %s from %s, lead %dd, total $%.2f",
		orderDate.Format(DateLayout), po.Label(), po.Units, po.ProductID, po.WarehouseID, po.SupplierID, leadTime, po.TotalCost)
	return po, nil
}

// expectedLeadTime is the supplier's nominal lead time in whole days, truncated
// with the same floor of 1 the draw applies.
func expectedLeadTime(s Supplier) int {
	return max(1, int(s.LeadTimeDays))
}

// drawLeadTime draws a normal lead time (truncated to whole days, at least 1),
// then a reliability roll; a roll above the supplier's score adds a late delay.
func (pr *Procurement) drawLeadTime(s Supplier) (int, bool) {
	leadTime := max(1, int(pr.rng.NormFloat64()*s.LeadTimeStdDev+s.LeadTimeDays))
	if pr.rng.Float64() > s.ReliabilityScore {
		delay := int(lateDelayMinDays + pr.rng.Float64()*(lateDelayMaxDays-lateDelayMinDays))
		return leadTime + delay, false
	}
	return leadTime, true
}
