package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/dataset"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/metrics"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/store"
)

var logLevel string // Log verbosity level

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:           "scsim",
	Short:         "Day-stepped inventory and procurement simulator",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		return nil
	},
}

// runCmd simulates one strategy and reports its KPIs.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one ordering strategy over the demand trace",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		in, err := loadInputs(ctx, opts)
		if err != nil {
			return err
		}
		s, err := newSimulator(in, opts)
		if err != nil {
			return err
		}

		result, err := s.Run(sim.NewOrderingStrategy(opts.Strategy, opts.strategyParams(opts.Strategy)))
		if err != nil {
			return err
		}
		logTraceSummary(result)
		m, err := metrics.Calculate(in.catalog, result)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), m.String())

		if opts.Out != "" {
			if err := writeRunOutputs(opts.Out, result, m); err != nil {
				return err
			}
		}
		if err := saveRun(ctx, opts, result, m); err != nil {
			return err
		}
		if opts.MetricsTextfile != "" {
			exporter := metrics.NewExporter()
			exporter.RecordRun(result, m)
			if err := exporter.WriteTextfile(opts.MetricsTextfile); err != nil {
				return err
			}
		}
		return nil
	},
}

// compareCmd runs a baseline and an alternative on identical inputs.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare an alternative strategy against the baseline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		if opts.Baseline == opts.Alternative {
			logrus.Warnf("Baseline and alternative are both %q; every delta will be zero", opts.Alternative)
		}
		in, err := loadInputs(ctx, opts)
		if err != nil {
			return err
		}
		s, err := newSimulator(in, opts)
		if err != nil {
			return err
		}

		exporter := metrics.NewExporter()
		var results [2]*sim.RunResult
		var summaries [2]*metrics.PerformanceMetrics
		for i, name := range []string{opts.Baseline, opts.Alternative} {
			result, err := s.Run(sim.NewOrderingStrategy(name, opts.strategyParams(name)))
			if err != nil {
				return err
			}
			logTraceSummary(result)
			m, err := metrics.Calculate(in.catalog, result)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), m.String())
			exporter.RecordRun(result, m)
			if err := saveRun(ctx, opts, result, m); err != nil {
				return err
			}
			results[i], summaries[i] = result, m
		}

		rows := metrics.Compare(summaries[0], summaries[1])
		metrics.PrintComparison(cmd.OutOrStdout(), "baseline "+results[0].Strategy, results[1].Strategy, rows)
		exporter.RecordComparison(rows)

		if opts.Out != "" {
			for i, label := range []string{"baseline", "alternative"} {
				if err := writeRunOutputs(filepath.Join(opts.Out, label), results[i], summaries[i]); err != nil {
					return err
				}
			}
			if err := dataset.WriteComparisonJSON(filepath.Join(opts.Out, "comparison.json"), rows); err != nil {
				return err
			}
		}
		if opts.MetricsTextfile != "" {
			if err := exporter.WriteTextfile(opts.MetricsTextfile); err != nil {
				return err
			}
		}
		return nil
	},
}

// importCmd loads CSV tables into the SQL store.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load CSV catalog and demand tables into a SQL store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		if opts.DB == "" {
			opts.DB = store.DefaultSQLitePath
		}
		catalog, err := dataset.LoadCatalog(opts.DataDir)
		if err != nil {
			return err
		}
		demand, err := dataset.LoadDemand(opts.DataDir)
		if err != nil {
			return err
		}
		st, err := store.Open(ctx, opts.DBDriver, opts.DB)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		if err := st.SaveCatalog(ctx, catalog); err != nil {
			return err
		}
		if err := st.SaveDemand(ctx, demand); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products, %d warehouses and %d demand records into %s\n",
			catalog.NumProducts(), catalog.NumWarehouses(), demand.Len(), opts.DB)
		return nil
	},
}

// runsCmd lists stored runs, or prints one run's KPI document.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs recorded in the SQL store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		st, err := store.Open(ctx, opts.DBDriver, opts.DB)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if runID, _ := cmd.Flags().GetString(keyRunID); runID != "" {
			kv, err := st.LoadRunMetrics(ctx, runID)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(kv))
			for k := range kv {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "%-28s %14.4f\n", k, kv[k])
			}
			return nil
		}

		runs, err := st.ListRuns(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-36s  %-16s  %6s  %-10s  %-10s  %5s  %6s\n", "RUN ID", "STRATEGY", "SEED", "START", "END", "DAYS", "ORDERS")
		for _, r := range runs {
			fmt.Fprintf(w, "%-36s  %-16s  %6d  %-10s  %-10s  %5d  %6d\n", r.RunID, r.Strategy, r.Seed, r.StartDate, r.EndDate, r.Days, r.Orders)
		}
		return nil
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, keyLog, "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	addSharedFlags(runCmd)
	runCmd.Flags().String(keyStrategy, sim.StrategyReorderPoint, fmt.Sprintf("Ordering strategy %v", sim.StrategyNames()))

	addSharedFlags(compareCmd)
	compareCmd.Flags().String(keyBaseline, sim.StrategyReorderPoint, "Baseline strategy")
	compareCmd.Flags().String(keyAlternative, sim.StrategyFixedThreshold, "Alternative strategy")

	importCmd.Flags().String(keyDataDir, "data/raw", "Directory holding the CSV tables")
	importCmd.Flags().String(keyDB, store.DefaultSQLitePath, "Database DSN")
	importCmd.Flags().String(keyDBDriver, store.DriverSQLite, "Database driver (sqlite, pgx)")

	runsCmd.Flags().String(keyDB, store.DefaultSQLitePath, "Database DSN")
	runsCmd.Flags().String(keyDBDriver, store.DriverSQLite, "Database driver (sqlite, pgx)")
	runsCmd.Flags().String(keyRunID, "", "Print the stored KPIs of this run instead of the run list")

	rootCmd.AddCommand(runCmd, compareCmd, importCmd, runsCmd)
}
