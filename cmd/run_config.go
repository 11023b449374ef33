package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
)

// StrategySpec names a strategy and its tunables in a run file.
type StrategySpec struct {
	Name   string             `yaml:"name"`
	Params sim.StrategyConfig `yaml:"params"`
}

// DatabaseConfig selects the SQL store used as the data source.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// RunConfig is the YAML run file accepted by --config.
// All sections must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	Start                      string   `yaml:"start"`
	End                        string   `yaml:"end"`
	Seed                       *int64   `yaml:"seed"`
	InitialInventoryMultiplier *float64 `yaml:"initial_inventory_multiplier"`
	EnableStockoutPenalty      *bool    `yaml:"enable_stockout_penalty"`
	EnableHoldingCost          *bool    `yaml:"enable_holding_cost"`
	TraceLevel                 string   `yaml:"trace_level"`

	DataDir         string         `yaml:"data_dir"`
	Database        DatabaseConfig `yaml:"database"`
	OutputDir       string         `yaml:"output_dir"`
	MetricsTextfile string         `yaml:"metrics_textfile"`

	Baseline    StrategySpec `yaml:"baseline"`
	Alternative StrategySpec `yaml:"alternative"`
}

// LoadRunConfig parses a run file with strict field checking: typos are errors.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	for _, spec := range []StrategySpec{cfg.Baseline, cfg.Alternative} {
		if !sim.IsValidStrategy(spec.Name) {
			return nil, fmt.Errorf("run config %s: unknown strategy %q (valid: %v)", path, spec.Name, sim.StrategyNames())
		}
	}
	return &cfg, nil
}

// viperDefaults maps set run-file fields onto option keys. Keys absent from the
// file are omitted so flag defaults still apply.
func (c *RunConfig) viperDefaults() map[string]any {
	out := map[string]any{}
	set := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	set(keyStart, c.Start)
	set(keyEnd, c.End)
	set(keyTraceLevel, c.TraceLevel)
	set(keyDataDir, c.DataDir)
	set(keyDBDriver, c.Database.Driver)
	set(keyDB, c.Database.DSN)
	set(keyOut, c.OutputDir)
	set(keyMetricsTextfile, c.MetricsTextfile)
	set(keyStrategy, c.Baseline.Name)
	set(keyBaseline, c.Baseline.Name)
	set(keyAlternative, c.Alternative.Name)
	if c.Seed != nil {
		out[keySeed] = *c.Seed
	}
	if c.InitialInventoryMultiplier != nil {
		out[keyInitialMultiplier] = *c.InitialInventoryMultiplier
	}
	if c.EnableStockoutPenalty != nil {
		out[keyStockoutPenalty] = *c.EnableStockoutPenalty
	}
	if c.EnableHoldingCost != nil {
		out[keyHoldingCost] = *c.EnableHoldingCost
	}
	return out
}
