package metrics

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Polarity says which direction of change is an improvement.
type Polarity string

const (
	HigherIsBetter Polarity = "higher"
	LowerIsBetter  Polarity = "lower"
)

// Verdict classifies the alternative's value against the baseline.
type Verdict string

const (
	VerdictBetter    Verdict = "better"
	VerdictWorse     Verdict = "worse"
	VerdictUnchanged Verdict = "unchanged"
)

// ComparisonRow is one metric of a baseline-versus-alternative comparison.
type ComparisonRow struct {
	Category    string   `json:"category"`
	Metric      string   `json:"metric"`
	Baseline    float64  `json:"baseline"`
	Alternative float64  `json:"alternative"`
	Delta       float64  `json:"delta"`
	DeltaPct    float64  `json:"delta_pct"`
	HasDeltaPct bool     `json:"has_delta_pct"` // false for metrics already expressed in percent
	Polarity    Polarity `json:"polarity"`
	Verdict     Verdict  `json:"verdict"`
}

// Symbol renders the verdict as the arrow used in printed tables.
func (r ComparisonRow) Symbol() string {
	switch r.Verdict {
	case VerdictBetter:
		return "✓"
	case VerdictWorse:
		return "✗"
	default:
		return "="
	}
}

type comparedMetric struct {
	category string
	name     string
	value    func(*PerformanceMetrics) float64
	percent  bool
	polarity Polarity
}

var comparedMetrics = []comparedMetric{
	{"Financial", "Revenue", func(m *PerformanceMetrics) float64 { return m.TotalRevenue }, false, HigherIsBetter},
	{"Financial", "Cost", func(m *PerformanceMetrics) float64 { return m.TotalCost }, false, LowerIsBetter},
	{"Financial", "Profit", func(m *PerformanceMetrics) float64 { return m.TotalProfit }, false, HigherIsBetter},
	{"Lost Sales", "Lost Revenue", func(m *PerformanceMetrics) float64 { return m.TotalLostSales }, false, LowerIsBetter},
	{"Procurement", "Total Spend", func(m *PerformanceMetrics) float64 { return m.TotalProcurementSpend }, false, LowerIsBetter},
	{"Procurement", "Shipping Cost", func(m *PerformanceMetrics) float64 { return m.TotalShippingCost }, false, LowerIsBetter},
	{"Procurement", "Discount Capture %", func(m *PerformanceMetrics) float64 { return m.DiscountCaptureRatePct }, true, HigherIsBetter},
	{"Procurement", "On-Time Rate %", func(m *PerformanceMetrics) float64 { return m.OnTimeRatePct }, true, HigherIsBetter},
	{"Inventory", "Avg Inventory Value", func(m *PerformanceMetrics) float64 { return m.AvgInventoryValue }, false, LowerIsBetter},
	{"Inventory", "Stockout Rate %", func(m *PerformanceMetrics) float64 { return m.StockoutRatePct }, true, LowerIsBetter},
}

// Compare builds the per-metric comparison of alternative against baseline.
// Percentage deltas are 0 when the baseline is 0.
func Compare(baseline, alternative *PerformanceMetrics) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(comparedMetrics))
	for _, cm := range comparedMetrics {
		b, a := cm.value(baseline), cm.value(alternative)
		row := ComparisonRow{
			Category:    cm.category,
			Metric:      cm.name,
			Baseline:    b,
			Alternative: a,
			Delta:       a - b,
			HasDeltaPct: !cm.percent,
			Polarity:    cm.polarity,
			Verdict:     verdict(b, a, cm.polarity),
		}
		if row.HasDeltaPct {
			row.DeltaPct = pctChange(b, a)
		}
		rows = append(rows, row)
	}
	return rows
}

func pctChange(baseline, alternative float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (alternative - baseline) / baseline * 100
}

func verdict(baseline, alternative float64, polarity Polarity) Verdict {
	switch {
	case alternative == baseline:
		return VerdictUnchanged
	case (alternative > baseline) == (polarity == HigherIsBetter):
		return VerdictBetter
	default:
		return VerdictWorse
	}
}

// compareRuleWidth is the width of the comparison table separators.
const compareRuleWidth = 100

// PrintComparison writes rows grouped by category in first-seen order.
// Values above 1,000 are shown as currency.
func PrintComparison(w io.Writer, baselineName, alternativeName string, rows []ComparisonRow) {
	p := message.NewPrinter(language.English)
	rule := strings.Repeat("=", compareRuleWidth)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s vs %s COMPARISON\n", strings.ToUpper(baselineName), strings.ToUpper(alternativeName))
	fmt.Fprintln(w, rule)

	category := ""
	for _, r := range rows {
		if r.Category != category {
			category = r.Category
			fmt.Fprintf(w, "\n%s:\n%s\n", category, strings.Repeat("-", compareRuleWidth))
		}
		var base, alt, delta string
		if r.Baseline > 1000 {
			base = p.Sprintf("$%.2f", r.Baseline)
			alt = p.Sprintf("$%.2f", r.Alternative)
			delta = p.Sprintf("$%.2f", r.Delta)
		} else {
			base = fmt.Sprintf("%.2f", r.Baseline)
			alt = fmt.Sprintf("%.2f", r.Alternative)
			delta = fmt.Sprintf("%+.2f", r.Delta)
		}
		deltaPct := ""
		if r.HasDeltaPct {
			deltaPct = fmt.Sprintf("(%+.2f%%)", r.DeltaPct)
		}
		fmt.Fprintf(w, "  %-25s: %20s → %20s  %20s %12s %s\n", r.Metric, base, alt, delta, deltaPct, r.Symbol())
	}
	fmt.Fprintln(w, rule)
}
