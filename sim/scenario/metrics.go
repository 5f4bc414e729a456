package scenario

import (
	"fmt"
	"slices"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/queue"
	"github.com/montesim/montesim/sim/stats"
)

// Headline metric names per kind. The first of each list is the default.
var metricNames = map[Kind][]string{
	KindSingleServer: {"average_wait", "utilization", "probability_wait", "average_in_system", "probability_idle"},
	KindDualServer:   {"average_queue", "probability_wait", "able_utilization", "baker_utilization", "end_time"},
	KindInventory:    {"average_ending_inventory", "total_shortage", "shortage_days", "orders_placed", "total_ordered"},
}

// MetricNames lists the headline metrics a kind reports.
func MetricNames(kind Kind) []string {
	return slices.Clone(metricNames[kind])
}

// DefaultMetric is the metric replications summarize when none is named.
func DefaultMetric(kind Kind) string {
	if names := metricNames[kind]; len(names) > 0 {
		return names[0]
	}
	return ""
}

// Metrics returns the headline scalars of the run.
func (r *Report) Metrics() map[string]float64 {
	m := make(map[string]float64)
	switch {
	case r.SingleServer != nil:
		s := r.SingleServer.Summary
		m["average_wait"] = s.AverageWait
		m["utilization"] = s.Utilization
		m["probability_wait"] = s.ProbabilityWait
		m["average_in_system"] = s.AverageInSystem
		m["probability_idle"] = s.ProbabilityIdle
	case r.DualServer != nil:
		s := r.DualServer.Summary
		m["average_queue"] = s.AverageQueue
		m["probability_wait"] = s.ProbabilityWait
		m["able_utilization"] = s.PerServer[queue.Able].Utilization
		m["baker_utilization"] = s.PerServer[queue.Baker].Utilization
		m["end_time"] = s.EndTime
	case r.Inventory != nil:
		s := r.Inventory.Summary
		m["average_ending_inventory"] = s.AverageEndingInventory
		m["total_shortage"] = float64(s.TotalShortage)
		m["shortage_days"] = float64(s.ShortageDays)
		m["orders_placed"] = float64(s.OrdersPlaced)
		m["total_ordered"] = float64(s.TotalOrdered)
	}
	return m
}

// Replication is the outcome of running one scenario several times.
type Replication struct {
	Name         string             `json:"name,omitempty" yaml:"name,omitempty"`
	Kind         Kind               `json:"kind" yaml:"kind"`
	Metric       string             `json:"metric" yaml:"metric"`
	Seed         int64              `json:"seed" yaml:"seed"`
	Values       []float64          `json:"values" yaml:"values"`
	Distribution stats.Distribution `json:"distribution" yaml:"distribution"`
	Advisories   sim.Advisories     `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

// Replicate runs sc n times. Replica i draws its random and backfilled codes
// from key.Replica(i), so replica 0 reproduces a plain Run with the same key.
// Only random and backfilled codes vary between replicas; generator and
// complete manual streams repeat. onDone, when set, is called after each replica.
func Replicate(sc *Scenario, key sim.SimulationKey, n int, metric string, onDone func(i int)) (*Replication, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: replication count must be positive, got %d", sim.ErrConfiguration, n)
	}
	if metric == "" {
		metric = DefaultMetric(sc.Kind)
	}
	if !slices.Contains(metricNames[sc.Kind], metric) {
		return nil, fmt.Errorf("%w: unknown metric %q for %s; valid: %v", sim.ErrConfiguration, metric, sc.Kind, metricNames[sc.Kind])
	}

	out := &Replication{Name: sc.Name, Kind: sc.Kind, Metric: metric, Seed: int64(key), Values: make([]float64, 0, n)}
	for i := 0; i < n; i++ {
		rep, err := Run(sc, sim.NewPartitionedRNG(key.Replica(i)))
		if err != nil {
			return nil, fmt.Errorf("replica %d: %w", i, err)
		}
		out.Values = append(out.Values, rep.Metrics()[metric])
		if i == 0 {
			out.Advisories = rep.Advisories
		}
		if onDone != nil {
			onDone(i)
		}
	}
	d, err := stats.Describe(out.Values)
	if err != nil {
		return nil, err
	}
	out.Distribution = d
	return out, nil
}
