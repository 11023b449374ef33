package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/dataset"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/metrics"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/store"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/trace"
)

// writeRunOutputs writes the order log, daily metrics, decision trace and KPI
// document of one run into dir.
func writeRunOutputs(dir string, result *sim.RunResult, m *metrics.PerformanceMetrics) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := dataset.WriteOrders(filepath.Join(dir, "orders.csv"), result.Orders(), result.Config.End); err != nil {
		return err
	}
	if err := dataset.WriteDailyMetrics(filepath.Join(dir, "daily_metrics.csv"), result.Daily); err != nil {
		return err
	}
	if result.Trace.Enabled() {
		if err := dataset.WriteDecisions(filepath.Join(dir, "decisions.csv"), result.Trace); err != nil {
			return err
		}
	}
	if err := dataset.WriteMetricsJSON(filepath.Join(dir, "metrics.json"), m); err != nil {
		return err
	}
	logrus.Infof("Wrote %s outputs to %s", result.Strategy, dir)
	return nil
}

// saveRun records the run in the store when one is configured.
func saveRun(ctx context.Context, o *options, result *sim.RunResult, m *metrics.PerformanceMetrics) error {
	if o.DB == "" {
		return nil
	}
	st, err := store.Open(ctx, o.DBDriver, o.DB)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	if err := st.Migrate(ctx); err != nil {
		return err
	}
	if err := st.SaveRun(ctx, result, m); err != nil {
		return err
	}
	logrus.Infof("Saved run %s to %s store", result.RunID, st.Driver())
	return nil
}

// logTraceSummary reports decision counts at info level.
func logTraceSummary(result *sim.RunResult) {
	if !result.Trace.Enabled() {
		return
	}
	s := trace.Summarize(result.Trace)
	logrus.Infof("%s decisions: %d total, %d executed, %d failed, %d units executed",
		result.Strategy, s.TotalDecisions, s.ExecutedCount, s.FailedCount, s.UnitsExecuted)
	for reason, n := range s.FailureReasons {
		logrus.Warnf("%s: %d decisions failed: %s", result.Strategy, n, reason)
	}
}
