package metrics

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
)

// Exporter publishes run KPIs as Prometheus gauges on a private registry,
// suitable for a node_exporter textfile collector.
type Exporter struct {
	registry    *prometheus.Registry
	performance *prometheus.GaugeVec
	inventory   *prometheus.GaugeVec
	comparison  *prometheus.GaugeVec
}

// NewExporter creates an exporter with its own registry.
func NewExporter() *Exporter {
	registry := prometheus.NewRegistry()

	performance := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "scsim",
			Name:      "performance_metric",
			Help:      "End-of-run performance metric of a simulated strategy",
		},
		[]string{"strategy", "metric"},
	)
	inventory := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "scsim",
			Name:      "final_inventory_units",
			Help:      "On-hand units per position at the end of the run",
		},
		[]string{"strategy", "product", "warehouse"},
	)
	comparison := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "scsim",
			Name:      "comparison_delta",
			Help:      "Alternative minus baseline for a compared metric",
		},
		[]string{"metric", "verdict"},
	)
	registry.MustRegister(performance, inventory, comparison)

	return &Exporter{
		registry:    registry,
		performance: performance,
		inventory:   inventory,
		comparison:  comparison,
	}
}

// Registry returns the exporter's registry.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// RecordRun sets one gauge per PerformanceMetrics key and one per final position.
func (e *Exporter) RecordRun(result *sim.RunResult, m *PerformanceMetrics) {
	values := m.ToMap()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.performance.WithLabelValues(m.Strategy, k).Set(values[k])
	}
	if result == nil || result.State == nil {
		return
	}
	for _, pos := range result.State.Inventory.Positions() {
		e.inventory.WithLabelValues(m.Strategy, pos.Key.ProductID, pos.Key.WarehouseID).Set(float64(pos.OnHand))
	}
}

// RecordComparison sets the delta gauge for every comparison row.
func (e *Exporter) RecordComparison(rows []ComparisonRow) {
	for _, r := range rows {
		e.comparison.WithLabelValues(r.Metric, string(r.Verdict)).Set(r.Delta)
	}
}

// WriteTextfile writes the registry in text exposition format to path.
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
