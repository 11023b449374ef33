package sim

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SalesSummary describes one day's fulfillment pass.
type SalesSummary struct {
	UnitsDemanded  int
	UnitsServed    int
	UnitsLost      int
	Revenue        float64
	LostRevenue    float64
	NewStockouts   int
	SkippedRecords int
}

// ProcessSales applies the demand records dated on date against on-hand stock.
//
// Served units are min(on_hand, demand); the rest is lost and valued at the record's
// unit price. A stockout is counted when unmet demand leaves a position at zero,
// at most once per position per day. Records for pairs without a position are
// skipped and counted in state.SkippedDemandRecords.
func ProcessSales(state *SimulationState, date time.Time, records []DemandRecord) SalesSummary {
	day := Day(date)
	var sum SalesSummary
	for _, rec := range records {
		if !Day(rec.Date).Equal(day) {
			continue
		}
		pos, ok := state.Inventory.Get(rec.Key())
		if !ok {
			sum.SkippedRecords++
			state.SkippedDemandRecords++
			logrus.Debugf("[day %s] skipping demand for unknown position %s", day.Format(DateLayout), rec.Key())
			continue
		}
		if rec.Units <= 0 {
			continue
		}

		served := min(pos.OnHand, rec.Units)
		lost := rec.Units - served
		pos.OnHand = max(0, pos.OnHand-served)

		revenue := float64(served) * rec.UnitPrice
		state.TotalRevenue += revenue

		sum.UnitsDemanded += rec.Units
		sum.UnitsServed += served
		sum.Revenue += revenue

		if lost > 0 {
			lostRevenue := float64(lost) * rec.UnitPrice
			pos.LostSalesUnits += lost
			pos.LostSalesRevenue += lostRevenue
			state.TotalLostSales += lostRevenue

			sum.UnitsLost += lost
			sum.LostRevenue += lostRevenue

			if pos.OnHand == 0 && !pos.lastStockoutDay.Equal(day) {
				pos.Stockouts++
				pos.lastStockoutDay = day
				state.StockoutCount++
				sum.NewStockouts++
			}
		}
	}
	return sum
}
