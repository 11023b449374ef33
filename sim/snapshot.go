package sim

import "time"

// DailyMetrics is the end-of-day snapshot of a run.
type DailyMetrics struct {
	Date                time.Time
	TotalInventoryUnits int
	TotalInventoryValue float64 // on-hand units × product unit cost
	PositionsAtZero     int
	CumulativeRevenue   float64
	CumulativeCost      float64
	CumulativeLostSales float64
	CumulativeStockouts int
	OrdersPlacedToday   int
	UnitsArrived        int
}

// TakeSnapshot records the state at the end of date.
func TakeSnapshot(state *SimulationState, catalog *Catalog, date time.Time, ordersToday, unitsArrived int) DailyMetrics {
	m := DailyMetrics{
		Date:                Day(date),
		CumulativeRevenue:   state.TotalRevenue,
		CumulativeCost:      state.TotalCost,
		CumulativeLostSales: state.TotalLostSales,
		CumulativeStockouts: state.StockoutCount,
		OrdersPlacedToday:   ordersToday,
		UnitsArrived:        unitsArrived,
	}
	for _, pos := range state.Inventory.Positions() {
		m.TotalInventoryUnits += pos.OnHand
		if product, err := catalog.Product(pos.Key.ProductID); err == nil {
			m.TotalInventoryValue += float64(pos.OnHand) * product.UnitCost
		}
		if pos.OnHand == 0 {
			m.PositionsAtZero++
		}
	}
	return m
}
