package metrics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowByMetric(t *testing.T, rows []ComparisonRow, metric string) ComparisonRow {
	t.Helper()
	for _, r := range rows {
		if r.Metric == metric {
			return r
		}
	}
	t.Fatalf("no comparison row for %q", metric)
	return ComparisonRow{}
}

func TestCompare_PolarityPerMetric(t *testing.T) {
	// GIVEN an alternative that earns more, spends less and stocks out more
	baseline := &PerformanceMetrics{TotalRevenue: 1000, TotalCost: 800, TotalProfit: 200, TotalLostSales: 50, StockoutRatePct: 1.5, DiscountCaptureRatePct: 10}
	alternative := &PerformanceMetrics{TotalRevenue: 1100, TotalCost: 700, TotalProfit: 400, TotalLostSales: 50, StockoutRatePct: 2.5, DiscountCaptureRatePct: 40}

	rows := Compare(baseline, alternative)

	// THEN higher revenue and lower cost are both better
	revenue := rowByMetric(t, rows, "Revenue")
	assert.Equal(t, VerdictBetter, revenue.Verdict)
	assert.Equal(t, 100.0, revenue.Delta)
	assert.InDelta(t, 10.0, revenue.DeltaPct, 1e-12)
	assert.True(t, revenue.HasDeltaPct)

	cost := rowByMetric(t, rows, "Cost")
	assert.Equal(t, VerdictBetter, cost.Verdict)
	assert.Equal(t, LowerIsBetter, cost.Polarity)
	assert.InDelta(t, -12.5, cost.DeltaPct, 1e-12)

	// THEN an equal value is unchanged and a higher stockout rate is worse
	assert.Equal(t, VerdictUnchanged, rowByMetric(t, rows, "Lost Revenue").Verdict)
	stockout := rowByMetric(t, rows, "Stockout Rate %")
	assert.Equal(t, VerdictWorse, stockout.Verdict)
	assert.False(t, stockout.HasDeltaPct)
	assert.Zero(t, stockout.DeltaPct)
	assert.Equal(t, 1.0, stockout.Delta)

	assert.Equal(t, VerdictBetter, rowByMetric(t, rows, "Discount Capture %").Verdict)
}

func TestCompare_ZeroBaseline_ZeroDeltaPct(t *testing.T) {
	rows := Compare(&PerformanceMetrics{}, &PerformanceMetrics{TotalShippingCost: 75})

	shipping := rowByMetric(t, rows, "Shipping Cost")
	assert.Equal(t, 75.0, shipping.Delta)
	assert.Zero(t, shipping.DeltaPct)
	assert.Equal(t, VerdictWorse, shipping.Verdict)
}

func TestCompare_IdenticalRuns_AllUnchanged(t *testing.T) {
	catalog, result := runFlatDemand(t, 10)
	m, err := Calculate(catalog, result)
	require.NoError(t, err)

	for _, r := range Compare(m, m) {
		assert.Equal(t, VerdictUnchanged, r.Verdict, r.Metric)
		assert.Zero(t, r.Delta, r.Metric)
	}
}

func TestPrintComparison_GroupsByCategory(t *testing.T) {
	baseline := &PerformanceMetrics{TotalRevenue: 12000, TotalCost: 800}
	alternative := &PerformanceMetrics{TotalRevenue: 13000, TotalCost: 900}
	var buf bytes.Buffer

	PrintComparison(&buf, "baseline", "fixed-threshold", Compare(baseline, alternative))

	out := buf.String()
	assert.Contains(t, out, "BASELINE vs FIXED-THRESHOLD COMPARISON")
	assert.Contains(t, out, "Financial:")
	assert.Contains(t, out, "Inventory:")
	assert.Contains(t, out, "$12,000.00")
	assert.Contains(t, out, "+100.00")
	assert.Contains(t, out, "(+8.33%)")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Financial:")))
}
