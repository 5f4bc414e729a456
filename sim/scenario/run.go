package scenario

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/dist"
	"github.com/montesim/montesim/sim/inventory"
	"github.com/montesim/montesim/sim/queue"
	"github.com/montesim/montesim/sim/stream"
	"github.com/montesim/montesim/sim/trace"
)

// Table and stream names used as report keys and advisory prefixes.
const (
	NameInterarrival = "interarrival"
	NameService      = "service"
	NameAble         = "able"
	NameBaker        = "baker"
	NameDemand       = "demand"
	NameLeadTime     = "lead_time"
)

// Report is the outcome of one scenario run.
type Report struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind Kind   `json:"kind" yaml:"kind"`
	Seed int64  `json:"seed" yaml:"seed"`

	Tables  map[string]*dist.Table     `json:"tables" yaml:"tables"`
	Streams map[string]*stream.Numbers `json:"streams" yaml:"streams"`

	SingleServer *queue.SingleServerResult `json:"single_server,omitempty" yaml:"single_server,omitempty"`
	DualServer   *queue.DualServerResult   `json:"dual_server,omitempty" yaml:"dual_server,omitempty"`
	Inventory    *inventory.Result         `json:"inventory,omitempty" yaml:"inventory,omitempty"`

	Trace        *trace.SimulationTrace `json:"trace,omitempty" yaml:"trace,omitempty"`
	TraceSummary *trace.TraceSummary    `json:"trace_summary,omitempty" yaml:"trace_summary,omitempty"`
	Advisories   sim.Advisories         `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

// Run builds the tables, resolves every random-number stream and runs the
// selected simulator. rng supplies random and backfilled codes, one isolated
// stream per subsystem; when nil, one is derived from the scenario seed.
func Run(sc *Scenario, rng *sim.PartitionedRNG) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed))
	}
	b := &builder{
		rng: rng,
		rep: &Report{
			Name:    sc.Name,
			Kind:    sc.Kind,
			Seed:    int64(rng.Key()),
			Tables:  make(map[string]*dist.Table),
			Streams: make(map[string]*stream.Numbers),
		},
	}
	var st *trace.SimulationTrace
	if trace.TraceLevel(sc.Trace) == trace.TraceLevelDecisions {
		st = trace.NewSimulationTrace(trace.TraceLevelDecisions)
		b.rep.Trace = st
	}

	var err error
	switch sc.Kind {
	case KindSingleServer:
		err = b.runSingle(sc.SingleServer)
	case KindDualServer:
		err = b.runDual(sc.DualServer, st)
	case KindInventory:
		err = b.runInventory(sc.Inventory, st)
	}
	if err != nil {
		return nil, err
	}
	if st != nil {
		b.rep.TraceSummary = trace.Summarize(st)
	}
	for _, a := range b.rep.Advisories {
		logrus.Debugf("scenario %q: %s", sc.Name, a)
	}
	return b.rep, nil
}

type builder struct {
	rng *sim.PartitionedRNG
	rep *Report
}

func (b *builder) table(name string, rows []dist.Row) (*dist.Table, error) {
	t, err := dist.Build(rows)
	if err != nil {
		return nil, fmt.Errorf("%s table: %w", name, err)
	}
	b.rep.Tables[name] = t
	if adv, ok := t.CoverageAdvisory(); ok {
		b.rep.Advisories = append(b.rep.Advisories, sim.Advisories{adv}.WithPrefix(name)...)
	}
	return t, nil
}

func (b *builder) codes(name string, src stream.Source, count, base int, subsystem string) ([]int, error) {
	var r *rand.Rand
	if src.Kind == stream.KindRandom || src.Kind == "" || src.Kind == stream.KindManual {
		r = b.rng.ForSubsystem(subsystem)
	}
	nums, err := stream.Resolve(src, count, base, r)
	if err != nil {
		return nil, fmt.Errorf("%s stream: %w", name, err)
	}
	b.rep.Streams[name] = nums
	b.rep.Advisories = append(b.rep.Advisories, nums.Advisories.WithPrefix(name)...)
	return nums.Codes, nil
}

func (b *builder) draws(name string, t *dist.Table, codes []int) []dist.Draw {
	d := t.Map(codes)
	b.rep.Advisories = append(b.rep.Advisories, dist.FallbackAdvisories(d).WithPrefix(name)...)
	return d
}

// interarrivals resolves one code per customer, by position. Code #1 belongs
// to the first customer, who arrives at clock 0, so it is drawn but never used.
func (b *builder) interarrivals(rows []dist.Row, src stream.Source, customers int) ([]dist.Draw, error) {
	t, err := b.table(NameInterarrival, rows)
	if err != nil {
		return nil, err
	}
	codes, err := b.codes(NameInterarrival, src, customers, t.Base, sim.SubsystemInterarrival)
	if err != nil {
		return nil, err
	}
	d := t.Map(codes)
	for _, a := range dist.FallbackAdvisories(d) {
		if a.Index == 1 {
			continue
		}
		b.rep.Advisories = append(b.rep.Advisories, sim.Advisories{a}.WithPrefix(NameInterarrival)...)
	}
	return d, nil
}

func (b *builder) runSingle(spec *SingleServerSpec) error {
	iats, err := b.interarrivals(spec.Interarrival, spec.InterarrivalSource, spec.Customers)
	if err != nil {
		return err
	}
	svc, err := b.table(NameService, spec.Service)
	if err != nil {
		return err
	}
	codes, err := b.codes(NameService, spec.ServiceSource, spec.Customers, svc.Base, sim.SubsystemService)
	if err != nil {
		return err
	}
	res, err := queue.SimulateSingleServer(queue.SingleServerConfig{
		Customers:     spec.Customers,
		Interarrivals: iats,
		Services:      b.draws(NameService, svc, codes),
	})
	if err != nil {
		return err
	}
	b.rep.SingleServer = res
	return nil
}

func (b *builder) runDual(spec *DualServerSpec, st *trace.SimulationTrace) error {
	pref, err := queue.ParseServer(spec.Preference)
	if err != nil {
		return err
	}
	iats, err := b.interarrivals(spec.Interarrival, spec.InterarrivalSource, spec.Customers)
	if err != nil {
		return err
	}
	able, err := b.table(NameAble, spec.Able)
	if err != nil {
		return err
	}
	baker, err := b.table(NameBaker, spec.Baker)
	if err != nil {
		return err
	}
	if able.Base != baker.Base {
		return fmt.Errorf("%w: able and baker tables share one service stream and must have the same base, got %d and %d",
			sim.ErrConfiguration, able.Base, baker.Base)
	}
	codes, err := b.codes(NameService, spec.ServiceSource, spec.Customers, able.Base, sim.SubsystemService)
	if err != nil {
		return err
	}
	res, err := queue.SimulateDualServer(queue.DualServerConfig{
		Customers:     spec.Customers,
		Preference:    pref,
		Interarrivals: iats,
		ServiceCodes:  codes,
		ServiceTables: map[queue.Server]*dist.Table{queue.Able: able, queue.Baker: baker},
		Trace:         st,
	})
	if err != nil {
		return err
	}
	b.rep.DualServer = res
	b.rep.Advisories = append(b.rep.Advisories, res.Fallbacks.WithPrefix(NameService)...)
	return nil
}

func (b *builder) runInventory(spec *InventorySpec, st *trace.SimulationTrace) error {
	demand, err := b.table(NameDemand, spec.Demand)
	if err != nil {
		return err
	}
	if err := demand.RequireIntegral(NameDemand); err != nil {
		return err
	}
	lead, err := b.table(NameLeadTime, spec.LeadTime)
	if err != nil {
		return err
	}
	if err := lead.RequireIntegral(NameLeadTime); err != nil {
		return err
	}
	days := spec.ReviewPeriod * spec.Cycles
	dCodes, err := b.codes(NameDemand, spec.DemandSource, days, demand.Base, sim.SubsystemDemand)
	if err != nil {
		return err
	}
	lCodes, err := b.codes(NameLeadTime, spec.LeadTimeSource, spec.Cycles, lead.Base, sim.SubsystemLeadTime)
	if err != nil {
		return err
	}
	res, err := inventory.Simulate(inventory.Config{
		OrderUpTo:        spec.OrderUpTo,
		ReviewPeriod:     spec.ReviewPeriod,
		InitialInventory: spec.InitialInventory,
		Cycles:           spec.Cycles,
		InitialOrder:     spec.InitialOrder,
		Demands:          b.draws(NameDemand, demand, dCodes),
		LeadTimes:        b.draws(NameLeadTime, lead, lCodes),
		Trace:            st,
	})
	if err != nil {
		return err
	}
	b.rep.Inventory = res
	return nil
}
