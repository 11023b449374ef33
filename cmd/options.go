package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/trace"
)

// envPrefix namespaces environment overrides, e.g. SCSIM_SEED or SCSIM_DATA_DIR.
const envPrefix = "SCSIM"

// Option keys double as flag names.
const (
	keyConfig            = "config"
	keyDataDir           = "data-dir"
	keyDB                = "db"
	keyDBDriver          = "db-driver"
	keyStart             = "start"
	keyEnd               = "end"
	keySeed              = "seed"
	keyInitialMultiplier = "initial-multiplier"
	keyStockoutPenalty   = "stockout-penalty"
	keyHoldingCost       = "holding-cost"
	keyTraceLevel        = "trace-level"
	keyOut               = "out"
	keyLog               = "log"
	keyMetricsTextfile   = "metrics-textfile"
	keyStrategy          = "strategy"
	keyBaseline          = "baseline"
	keyAlternative       = "alternative"
	keyRunID             = "run-id"
)

// options is the resolved configuration of one command invocation.
// Precedence: flag > SCSIM_* environment > run file > flag default.
type options struct {
	DataDir         string
	DB              string
	DBDriver        string
	Start           time.Time // zero = first demand date
	End             time.Time // zero = last demand date
	Seed            int64
	Multiplier      float64
	StockoutPenalty bool
	HoldingCost     bool
	TraceLevel      trace.TraceLevel
	Out             string
	MetricsTextfile string

	Strategy    string
	Baseline    string
	Alternative string

	run *RunConfig // nil without --config
}

// addSharedFlags registers the flags every data-consuming command accepts.
func addSharedFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(keyConfig, "", "YAML run file (strictly parsed)")
	f.String(keyDataDir, "data/raw", "Directory holding products.csv, suppliers.csv, warehouses.csv and sales.csv")
	f.String(keyDB, "", "Database DSN; when set, catalog and demand are read from the store instead of CSV")
	f.String(keyDBDriver, "sqlite", "Database driver (sqlite, pgx)")
	f.String(keyStart, "", "First simulated day, YYYY-MM-DD (default: first demand date)")
	f.String(keyEnd, "", "Last simulated day, YYYY-MM-DD (default: last demand date)")
	f.Int64(keySeed, sim.DefaultSeed, "Seed for lead-time and reliability draws")
	f.Float64(keyInitialMultiplier, 1.0, "Opening stock as a multiple of base demand × supply days")
	f.Bool(keyStockoutPenalty, true, "Reserved stockout-penalty accounting toggle")
	f.Bool(keyHoldingCost, true, "Reserved holding-cost accounting toggle")
	f.String(keyTraceLevel, string(trace.TraceLevelDecisions), "Decision trace level (none, decisions, full)")
	f.String(keyOut, "", "Directory for order log, daily metrics, decision trace and KPI JSON")
	f.String(keyMetricsTextfile, "", "Write KPIs in Prometheus text format to this file")
}

// resolveOptions layers run file, environment and flags into options.
func resolveOptions(cmd *cobra.Command) (*options, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	opts := &options{}
	if path := v.GetString(keyConfig); path != "" {
		rc, err := LoadRunConfig(path)
		if err != nil {
			return nil, err
		}
		for k, val := range rc.viperDefaults() {
			v.SetDefault(k, val)
		}
		opts.run = rc
	}

	var err error
	if opts.Start, err = optionalDate(v.GetString(keyStart)); err != nil {
		return nil, fmt.Errorf("--%s: %w", keyStart, err)
	}
	if opts.End, err = optionalDate(v.GetString(keyEnd)); err != nil {
		return nil, fmt.Errorf("--%s: %w", keyEnd, err)
	}
	opts.DataDir = v.GetString(keyDataDir)
	opts.DB = v.GetString(keyDB)
	opts.DBDriver = v.GetString(keyDBDriver)
	opts.Seed = v.GetInt64(keySeed)
	opts.Multiplier = v.GetFloat64(keyInitialMultiplier)
	opts.StockoutPenalty = v.GetBool(keyStockoutPenalty)
	opts.HoldingCost = v.GetBool(keyHoldingCost)
	opts.TraceLevel = trace.TraceLevel(v.GetString(keyTraceLevel))
	opts.Out = v.GetString(keyOut)
	opts.MetricsTextfile = v.GetString(keyMetricsTextfile)
	opts.Strategy = v.GetString(keyStrategy)
	opts.Baseline = v.GetString(keyBaseline)
	opts.Alternative = v.GetString(keyAlternative)

	for _, name := range []string{opts.Strategy, opts.Baseline, opts.Alternative} {
		if !sim.IsValidStrategy(name) {
			return nil, fmt.Errorf("unknown strategy %q (valid: %v)", name, sim.StrategyNames())
		}
	}
	return opts, nil
}

func optionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return sim.ParseDate(s)
}

// strategyParams returns the run file's tunables for name, preferring the
// baseline section when both sections name the same strategy.
func (o *options) strategyParams(name string) sim.StrategyConfig {
	if o.run == nil {
		return sim.StrategyConfig{}
	}
	if o.run.Baseline.Name == name || (name == sim.StrategyReorderPoint && o.run.Baseline.Name == "") {
		return o.run.Baseline.Params
	}
	if o.run.Alternative.Name == name {
		return o.run.Alternative.Params
	}
	return sim.StrategyConfig{}
}

// simulationConfig builds the engine config for [start, end].
func (o *options) simulationConfig(start, end time.Time) sim.SimulationConfig {
	cfg := sim.DefaultSimulationConfig(start, end)
	cfg.Seed = o.Seed
	cfg.InitialInventoryMultiplier = o.Multiplier
	cfg.EnableStockoutPenalty = o.StockoutPenalty
	cfg.EnableHoldingCost = o.HoldingCost
	cfg.TraceLevel = o.TraceLevel
	return cfg
}
