// Package metrics turns a finished simulation run into end-of-run KPIs,
// compares a baseline run against an alternative, and exports both.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
)

// PerformanceMetrics is the flat end-of-run summary of one strategy.
type PerformanceMetrics struct {
	Strategy string `json:"strategy"`
	Days     int    `json:"days"`

	// Financial
	TotalRevenue    float64 `json:"total_revenue"`
	TotalCost       float64 `json:"total_cost"`
	TotalProfit     float64 `json:"total_profit"`
	ProfitMarginPct float64 `json:"profit_margin_pct"`

	// Lost sales
	TotalLostSales        float64 `json:"total_lost_sales"`
	LostSalesPctOfRevenue float64 `json:"lost_sales_pct_of_revenue"`

	// Procurement, re-derived per order from catalog and supplier terms
	TotalOrders           int     `json:"total_orders"`
	AvgOrderValue         float64 `json:"avg_order_value"`
	TotalProcurementSpend float64 `json:"total_procurement_spend"`
	TotalShippingCost     float64 `json:"total_shipping_cost"`
	OnTimeRatePct         float64 `json:"on_time_rate_pct"`

	// Discounts
	OrdersWithDiscount     int     `json:"orders_with_discount"`
	DiscountCaptureRatePct float64 `json:"discount_capture_rate_pct"`
	TotalDiscountSavings   float64 `json:"total_discount_savings"`

	// Inventory
	AvgInventoryValue float64 `json:"avg_inventory_value"`
	AvgInventoryUnits float64 `json:"avg_inventory_units"`
	StockoutIncidents int     `json:"stockout_incidents"`
	StockoutRatePct   float64 `json:"stockout_rate_pct"`

	// Operations
	AvgOrdersPerDay float64      `json:"avg_orders_per_day"`
	LeadTimeDays    Distribution `json:"lead_time_days"`
}

// Distribution captures a statistical summary of a metric.
type Distribution struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// NewDistribution computes a Distribution from raw values.
// Returns zero-value Distribution for empty input.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean:  stat.Mean(sorted, nil),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
}

// percentile computes the p-th percentile using linear interpolation.
// Input must be sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// Calculate derives PerformanceMetrics from a finished run.
//
// Procurement spend, shipping, discount count and savings are re-priced from
// the catalog for every logged order rather than read from the running cost
// total, so the two can be audited against each other. An order that no longer
// resolves against catalog yields a *sim.LookupError.
func Calculate(catalog *sim.Catalog, result *sim.RunResult) (*PerformanceMetrics, error) {
	if result == nil || result.State == nil {
		return nil, fmt.Errorf("calculating metrics: empty run result")
	}
	state := result.State
	m := &PerformanceMetrics{
		Strategy:          result.Strategy,
		Days:              len(result.Daily),
		TotalRevenue:      state.TotalRevenue,
		TotalCost:         state.TotalCost,
		TotalProfit:       state.Profit(),
		TotalLostSales:    state.TotalLostSales,
		StockoutIncidents: state.StockoutCount,
	}
	m.ProfitMarginPct = pct(m.TotalProfit, m.TotalRevenue)
	m.LostSalesPctOfRevenue = pct(m.TotalLostSales, m.TotalRevenue)

	orders := result.Orders()
	m.TotalOrders = len(orders)
	spend, shipping, savings := decimal.Zero, decimal.Zero, decimal.Zero
	onTime := 0
	leadTimes := make([]float64, 0, len(orders))
	for _, po := range orders {
		product, err := catalog.Product(po.ProductID)
		if err != nil {
			return nil, fmt.Errorf("auditing %s: %w", po.Label(), err)
		}
		supplier, err := catalog.Supplier(po.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("auditing %s: %w", po.Label(), err)
		}
		q := sim.PriceOrder(product, supplier, po.Units)
		spend = spend.Add(decimal.NewFromFloat(q.ProductCost))
		shipping = shipping.Add(decimal.NewFromFloat(q.ShippingCost))
		if q.VolumeDiscountApplied {
			m.OrdersWithDiscount++
			savings = savings.Add(decimal.NewFromFloat(q.DiscountSavings))
		}
		if po.OnTime {
			onTime++
		}
		leadTimes = append(leadTimes, float64(po.ActualLeadTimeDays))
	}
	m.TotalProcurementSpend = spend.InexactFloat64()
	m.TotalShippingCost = shipping.InexactFloat64()
	m.TotalDiscountSavings = savings.InexactFloat64()
	if m.TotalOrders > 0 {
		m.AvgOrderValue = spend.Div(decimal.NewFromInt(int64(m.TotalOrders))).InexactFloat64()
	}
	m.DiscountCaptureRatePct = pct(float64(m.OrdersWithDiscount), float64(m.TotalOrders))
	m.OnTimeRatePct = pct(float64(onTime), float64(m.TotalOrders))
	m.LeadTimeDays = NewDistribution(leadTimes)

	if n := len(result.Daily); n > 0 {
		values := make([]float64, n)
		units := make([]float64, n)
		for i, d := range result.Daily {
			values[i] = d.TotalInventoryValue
			units[i] = float64(d.TotalInventoryUnits)
		}
		m.AvgInventoryValue = stat.Mean(values, nil)
		m.AvgInventoryUnits = stat.Mean(units, nil)
		m.AvgOrdersPerDay = float64(m.TotalOrders) / float64(n)
	}
	m.StockoutRatePct = pct(float64(m.StockoutIncidents), float64(result.PositionDays()))
	return m, nil
}

// pct returns num/den as a percentage, or 0 when den is not positive.
func pct(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den * 100
}

// ToMap flattens the metrics into a key-value document keyed by the JSON names.
func (m *PerformanceMetrics) ToMap() map[string]float64 {
	return map[string]float64{
		"days":                      float64(m.Days),
		"total_revenue":             m.TotalRevenue,
		"total_cost":                m.TotalCost,
		"total_profit":              m.TotalProfit,
		"profit_margin_pct":         m.ProfitMarginPct,
		"total_lost_sales":          m.TotalLostSales,
		"lost_sales_pct_of_revenue": m.LostSalesPctOfRevenue,
		"total_orders":              float64(m.TotalOrders),
		"avg_order_value":           m.AvgOrderValue,
		"total_procurement_spend":   m.TotalProcurementSpend,
		"total_shipping_cost":       m.TotalShippingCost,
		"on_time_rate_pct":          m.OnTimeRatePct,
		"orders_with_discount":      float64(m.OrdersWithDiscount),
		"discount_capture_rate_pct": m.DiscountCaptureRatePct,
		"total_discount_savings":    m.TotalDiscountSavings,
		"avg_inventory_value":       m.AvgInventoryValue,
		"avg_inventory_units":       m.AvgInventoryUnits,
		"stockout_incidents":        float64(m.StockoutIncidents),
		"stockout_rate_pct":         m.StockoutRatePct,
		"avg_orders_per_day":        m.AvgOrdersPerDay,
		"lead_time_days_mean":       m.LeadTimeDays.Mean,
		"lead_time_days_p95":        m.LeadTimeDays.P95,
	}
}

// ruleWidth is the width of the separator lines in printed reports.
const ruleWidth = 70

// String renders the console summary with grouped thousands.
func (m *PerformanceMetrics) String() string {
	p := message.NewPrinter(language.English)
	rule := strings.Repeat("=", ruleWidth)
	var b strings.Builder
	line := func(format string, args ...any) { b.WriteString(p.Sprintf(format, args...) + "\n") }

	line("Performance Metrics Summary (%s, %d days)", m.Strategy, m.Days)
	line("%s", rule)
	line("FINANCIAL:")
	line("  Revenue:              $%15.2f", m.TotalRevenue)
	line("  Cost:                 $%15.2f", m.TotalCost)
	line("  Profit:               $%15.2f", m.TotalProfit)
	line("  Margin:               %14.2f%%", m.ProfitMarginPct)
	line("")
	line("LOST SALES:")
	line("  Lost Revenue:         $%15.2f", m.TotalLostSales)
	line("  %% of Revenue:         %14.2f%%", m.LostSalesPctOfRevenue)
	line("")
	line("PROCUREMENT:")
	line("  Total Orders:         %16d", m.TotalOrders)
	line("  Avg Order Value:      $%15.2f", m.AvgOrderValue)
	line("  Total Spend:          $%15.2f", m.TotalProcurementSpend)
	line("  Shipping Cost:        $%15.2f", m.TotalShippingCost)
	line("  On-Time Rate:         %14.2f%%", m.OnTimeRatePct)
	line("  Lead Time (mean/p95): %9.1f / %4.1f", m.LeadTimeDays.Mean, m.LeadTimeDays.P95)
	line("")
	line("DISCOUNTS:")
	line("  Orders w/ Discount:   %16d", m.OrdersWithDiscount)
	line("  Capture Rate:         %14.2f%%", m.DiscountCaptureRatePct)
	line("  Total Savings:        $%15.2f", m.TotalDiscountSavings)
	line("")
	line("INVENTORY:")
	line("  Avg Value:            $%15.2f", m.AvgInventoryValue)
	line("  Avg Units:            %16.0f", m.AvgInventoryUnits)
	line("  Stockout Count:       %16d", m.StockoutIncidents)
	line("  Stockout Rate:        %14.2f%%", m.StockoutRatePct)
	line("")
	line("OPERATIONS:")
	line("  Avg Orders/Day:       %16.2f", m.AvgOrdersPerDay)
	line("%s", rule)
	return b.String()
}
