package sim

import (
	"fmt"
	"time"
)

// SimulationState is the aggregate root of a run. It is owned by exactly one
// run and mutated in place by the current phase; strategies only read it.
type SimulationState struct {
	CurrentDate time.Time
	Inventory   *Inventory
	// Orders is the append-only order log, in placement order.
	Orders []PurchaseOrder

	TotalRevenue   float64
	TotalCost      float64
	TotalLostSales float64
	StockoutCount  int

	// SkippedDemandRecords counts demand rows whose (product, warehouse) pair has
	// no position. They are ignored on purpose; the counter surfaces data quality.
	SkippedDemandRecords int
}

// NewSimulationState builds the opening state for a run starting on start.
func NewSimulationState(catalog *Catalog, start time.Time, initialMultiplier float64) (*SimulationState, error) {
	inv, err := NewInventory(catalog, initialMultiplier)
	if err != nil {
		return nil, err
	}
	return &SimulationState{
		CurrentDate: Day(start),
		Inventory:   inv,
		Orders:      make([]PurchaseOrder, 0),
	}, nil
}

// AdvanceClock moves the state's current date. It has no effect on inventory.
func (s *SimulationState) AdvanceClock(date time.Time) {
	s.CurrentDate = Day(date)
}

// Profit returns cumulative revenue minus cumulative cost.
func (s *SimulationState) Profit() float64 {
	return s.TotalRevenue - s.TotalCost
}

// CheckInvariants returns an error describing the first position that violates
// on_hand >= 0 or on_order == sum(pending arrivals).
func (s *SimulationState) CheckInvariants() error {
	for _, p := range s.Inventory.Positions() {
		if p.OnHand < 0 {
			return fmt.Errorf("position %s: on_hand %d is negative", p.Key, p.OnHand)
		}
		if pending := p.PendingUnits(); p.OnOrder != pending {
			return fmt.Errorf("position %s: on_order %d != pending arrivals %d", p.Key, p.OnOrder, pending)
		}
	}
	return nil
}
