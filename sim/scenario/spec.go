// Package scenario assembles a complete simulation run from one YAML
// document: the probability tables, the random-number sources feeding them
// and the simulator parameters. It is the request/response surface of the
// engine; the CLI and the replication driver both go through Run.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/dist"
	"github.com/montesim/montesim/sim/inventory"
	"github.com/montesim/montesim/sim/queue"
	"github.com/montesim/montesim/sim/stream"
	"github.com/montesim/montesim/sim/trace"
)

// Kind selects the simulator a scenario runs.
type Kind string

const (
	KindSingleServer Kind = "single-server"
	KindDualServer   Kind = "dual-server"
	KindInventory    Kind = "inventory"
)

var validKinds = map[Kind]bool{KindSingleServer: true, KindDualServer: true, KindInventory: true}

// Kinds lists the recognized scenario kinds.
func Kinds() []Kind {
	return []Kind{KindSingleServer, KindDualServer, KindInventory}
}

// Scenario is the top-level YAML document. Exactly the section matching
// Kind must be present.
type Scenario struct {
	Name string `yaml:"name,omitempty"`
	Kind Kind   `yaml:"kind"`
	// Seed keys the injected random source used for random and backfilled codes.
	Seed  int64  `yaml:"seed,omitempty"`
	Trace string `yaml:"trace,omitempty"`

	SingleServer *SingleServerSpec `yaml:"single_server,omitempty"`
	DualServer   *DualServerSpec   `yaml:"dual_server,omitempty"`
	Inventory    *InventorySpec    `yaml:"inventory,omitempty"`
}

// SingleServerSpec configures a single-server queue run.
type SingleServerSpec struct {
	Customers          int           `yaml:"customers"`
	Interarrival       []dist.Row    `yaml:"interarrival"`
	Service            []dist.Row    `yaml:"service"`
	InterarrivalSource stream.Source `yaml:"interarrival_source,omitempty"`
	ServiceSource      stream.Source `yaml:"service_source,omitempty"`
}

// DualServerSpec configures an Able/Baker run. One service stream feeds
// both servers' tables.
type DualServerSpec struct {
	Customers          int           `yaml:"customers"`
	Preference         string        `yaml:"preference,omitempty"`
	Interarrival       []dist.Row    `yaml:"interarrival"`
	Able               []dist.Row    `yaml:"able"`
	Baker              []dist.Row    `yaml:"baker"`
	InterarrivalSource stream.Source `yaml:"interarrival_source,omitempty"`
	ServiceSource      stream.Source `yaml:"service_source,omitempty"`
}

// InventorySpec configures a periodic-review (M, N) run.
type InventorySpec struct {
	OrderUpTo        int                `yaml:"order_up_to"`
	ReviewPeriod     int                `yaml:"review_period"`
	InitialInventory int                `yaml:"initial_inventory"`
	Cycles           int                `yaml:"cycles"`
	InitialOrder     *inventory.Backlog `yaml:"initial_order,omitempty"`
	Demand           []dist.Row         `yaml:"demand"`
	LeadTime         []dist.Row         `yaml:"lead_time"`
	DemandSource     stream.Source      `yaml:"demand_source,omitempty"`
	LeadTimeSource   stream.Source      `yaml:"lead_time_source,omitempty"`
}

// Load reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario document strictly and validates it.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: parsing scenario: %v", sim.ErrConfiguration, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the kind, the matching section and every source.
// Simulator-level checks (counts, draw values) run again inside Run.
func (s *Scenario) Validate() error {
	if !validKinds[s.Kind] {
		return fmt.Errorf("%w: unknown scenario kind %q; valid: single-server, dual-server, inventory", sim.ErrConfiguration, s.Kind)
	}
	if !trace.IsValidTraceLevel(s.Trace) {
		return fmt.Errorf("%w: unknown trace level %q; valid: none, decisions", sim.ErrConfiguration, s.Trace)
	}
	sections := 0
	for _, present := range []bool{s.SingleServer != nil, s.DualServer != nil, s.Inventory != nil} {
		if present {
			sections++
		}
	}
	if sections != 1 {
		return fmt.Errorf("%w: scenario must contain exactly one simulator section, got %d", sim.ErrConfiguration, sections)
	}

	switch s.Kind {
	case KindSingleServer:
		if s.SingleServer == nil {
			return missingSection(s.Kind, "single_server")
		}
		return s.SingleServer.validate()
	case KindDualServer:
		if s.DualServer == nil {
			return missingSection(s.Kind, "dual_server")
		}
		return s.DualServer.validate()
	default:
		if s.Inventory == nil {
			return missingSection(s.Kind, "inventory")
		}
		return s.Inventory.validate()
	}
}

func missingSection(kind Kind, key string) error {
	return fmt.Errorf("%w: %s scenario requires a %q section", sim.ErrConfiguration, kind, key)
}

func (s *SingleServerSpec) validate() error {
	if s.Customers <= 0 {
		return fmt.Errorf("%w: single_server.customers must be positive, got %d", sim.ErrConfiguration, s.Customers)
	}
	return validateSources(
		namedSource{"single_server.interarrival_source", s.InterarrivalSource},
		namedSource{"single_server.service_source", s.ServiceSource},
	)
}

func (s *DualServerSpec) validate() error {
	if s.Customers <= 0 {
		return fmt.Errorf("%w: dual_server.customers must be positive, got %d", sim.ErrConfiguration, s.Customers)
	}
	if _, err := queue.ParseServer(s.Preference); err != nil {
		return fmt.Errorf("dual_server.preference: %w", err)
	}
	return validateSources(
		namedSource{"dual_server.interarrival_source", s.InterarrivalSource},
		namedSource{"dual_server.service_source", s.ServiceSource},
	)
}

func (s *InventorySpec) validate() error {
	if s.ReviewPeriod <= 0 || s.Cycles <= 0 {
		return fmt.Errorf("%w: inventory.review_period and inventory.cycles must be positive, got %d and %d",
			sim.ErrConfiguration, s.ReviewPeriod, s.Cycles)
	}
	return validateSources(
		namedSource{"inventory.demand_source", s.DemandSource},
		namedSource{"inventory.lead_time_source", s.LeadTimeSource},
	)
}

type namedSource struct {
	name string
	src  stream.Source
}

func validateSources(sources ...namedSource) error {
	for _, ns := range sources {
		if err := ns.src.Validate(); err != nil {
			return fmt.Errorf("%s: %w", ns.name, err)
		}
	}
	return nil
}
