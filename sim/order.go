package sim

import (
	"fmt"
	"time"
)

// OrderDecision is a strategy's request to buy Units of a product for a warehouse
// from a supplier. Reason and Metadata are carried into the order log for audit.
type OrderDecision struct {
	ProductID   string
	WarehouseID string
	SupplierID  string
	Units       int
	Reason      string
	Metadata    map[string]float64
}

// Key returns the position the decision replenishes.
func (d OrderDecision) Key() PositionKey {
	return PositionKey{ProductID: d.ProductID, WarehouseID: d.WarehouseID}
}

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	OrderInTransit OrderStatus = "in_transit"
	OrderArrived   OrderStatus = "arrived"
)

// PurchaseOrder is a finalized, immutable record of an executed decision.
// It is InTransit from the moment it is placed and becomes Arrived on
// ArrivalDate, after which it is purely historical.
type PurchaseOrder struct {
	ID          int64
	OrderDate   time.Time
	ProductID   string
	WarehouseID string
	SupplierID  string
	Units       int

	UnitCost              float64 // charged per unit, after any volume discount
	ProductCost           float64 // Units × UnitCost
	ShippingCost          float64
	TotalCost             float64 // ProductCost + ShippingCost
	VolumeDiscountApplied bool

	ExpectedLeadTimeDays int
	ActualLeadTimeDays   int // includes any late-delivery delay
	ArrivalDate          time.Time
	OnTime               bool

	Reason string
}

// Label renders the order id in the PO-00001 form used by order logs.
func (po PurchaseOrder) Label() string {
	return fmt.Sprintf("PO-%05d", po.ID)
}

// StatusAt returns the order's lifecycle state as of date.
func (po PurchaseOrder) StatusAt(date time.Time) OrderStatus {
	if Day(date).Before(po.ArrivalDate) {
		return OrderInTransit
	}
	return OrderArrived
}
