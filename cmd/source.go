package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/dataset"
	"github.com/orodriguezh33/Supply-Chain-Agentic-AI-Optimizer/sim/store"
)

// inputs are the read-only tables a run consumes.
type inputs struct {
	catalog *sim.Catalog
	demand  *sim.DemandTrace
}

// loadInputs reads catalog and demand from the store when --db is set, else from CSV.
func loadInputs(ctx context.Context, o *options) (*inputs, error) {
	if o.DB != "" {
		st, err := store.Open(ctx, o.DBDriver, o.DB)
		if err != nil {
			return nil, err
		}
		defer func() { _ = st.Close() }()
		catalog, err := st.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		demand, err := st.LoadDemand(ctx, o.Start, o.End)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Loaded %d demand records from %s store", demand.Len(), st.Driver())
		return &inputs{catalog: catalog, demand: demand}, nil
	}

	catalog, err := dataset.LoadCatalog(o.DataDir)
	if err != nil {
		return nil, err
	}
	demand, err := dataset.LoadDemand(o.DataDir)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded %d demand records from %s", demand.Len(), o.DataDir)
	return &inputs{catalog: catalog, demand: demand}, nil
}

// window returns the simulation window, defaulting open bounds to the demand span.
func (in *inputs) window(o *options) (time.Time, time.Time, error) {
	start, end := o.Start, o.End
	records := in.demand.Records()
	if start.IsZero() || end.IsZero() {
		if len(records) == 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("no demand records to derive the simulation window from; pass --start and --end")
		}
		if start.IsZero() {
			start = records[0].Date
		}
		if end.IsZero() {
			end = records[len(records)-1].Date
		}
	}
	return start, end, nil
}

// newSimulator builds a simulator over the resolved window.
func newSimulator(in *inputs, o *options) (*sim.Simulator, error) {
	start, end, err := in.window(o)
	if err != nil {
		return nil, err
	}
	return sim.NewSimulator(in.catalog, in.demand, o.simulationConfig(start, end))
}
