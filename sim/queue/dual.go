package queue

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/dist"
	"github.com/montesim/montesim/sim/trace"
)

// Server names one of the two servers of the dual-server model.
type Server string

const (
	Able  Server = "Able"
	Baker Server = "Baker"
)

// Servers lists both servers in tie-break order.
var Servers = []Server{Able, Baker}

// ParseServer accepts a server name case-insensitively. Empty means Able.
func ParseServer(name string) (Server, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "able":
		return Able, nil
	case "baker":
		return Baker, nil
	default:
		return "", fmt.Errorf("%w: unknown server %q (valid: Able, Baker)", sim.ErrConfiguration, name)
	}
}

// DualServerConfig groups the inputs of one two-server run.
//
// Service times are heterogeneous: one shared stream of service range codes
// is inverted through the table of whichever server the customer is
// assigned to.
type DualServerConfig struct {
	Customers int
	// Preference breaks the tie when both servers are idle at an arrival.
	Preference Server
	// Interarrivals[0] is ignored; the first customer arrives at clock 0.
	Interarrivals []dist.Draw
	ServiceCodes  []int
	ServiceTables map[Server]*dist.Table
	// Trace is optional; nil records nothing.
	Trace *trace.SimulationTrace
}

// Validate checks counts, tables and interarrival values.
func (c DualServerConfig) Validate() error {
	if c.Customers <= 0 {
		return fmt.Errorf("%w: customer count must be positive, got %d", sim.ErrConfiguration, c.Customers)
	}
	if c.Preference != Able && c.Preference != Baker {
		return fmt.Errorf("%w: preference must be Able or Baker, got %q", sim.ErrConfiguration, c.Preference)
	}
	if len(c.Interarrivals) < c.Customers {
		return fmt.Errorf("%w: need %d interarrival draws, got %d", sim.ErrConfiguration, c.Customers, len(c.Interarrivals))
	}
	if len(c.ServiceCodes) < c.Customers {
		return fmt.Errorf("%w: need %d service codes, got %d", sim.ErrConfiguration, c.Customers, len(c.ServiceCodes))
	}
	for _, srv := range Servers {
		t := c.ServiceTables[srv]
		if t == nil {
			return fmt.Errorf("%w: missing service table for %s", sim.ErrConfiguration, srv)
		}
		for i, cell := range t.Cells {
			if err := validateDuration(string(srv)+" service", i+1, cell.Value); err != nil {
				return err
			}
		}
	}
	for i := 1; i < c.Customers; i++ {
		if err := validateDuration("interarrival", i+1, c.Interarrivals[i].Value); err != nil {
			return err
		}
	}
	return nil
}

// DualServerRow is the event-log entry of one customer.
type DualServerRow struct {
	Customer     int        `json:"customer" yaml:"customer"`
	Interarrival *dist.Draw `json:"interarrival,omitempty" yaml:"interarrival,omitempty"`
	Arrival      float64    `json:"arrival" yaml:"arrival"`
	Server       Server     `json:"server" yaml:"server"`
	Rule         string     `json:"rule" yaml:"rule"`
	Service      dist.Draw  `json:"service" yaml:"service"`
	Begin        float64    `json:"begin" yaml:"begin"`
	End          float64    `json:"end" yaml:"end"`
	Queue        float64    `json:"queue" yaml:"queue"`
}

// ServerTotals aggregates one server's share of the run.
type ServerTotals struct {
	Customers   int     `json:"customers" yaml:"customers"`
	Service     float64 `json:"service" yaml:"service"`
	Utilization float64 `json:"utilization" yaml:"utilization"`
}

// DualServerSummary holds the terminal aggregates of a run.
type DualServerSummary struct {
	Customers       int                     `json:"customers" yaml:"customers"`
	TotalService    float64                 `json:"total_service" yaml:"total_service"`
	TotalQueue      float64                 `json:"total_queue" yaml:"total_queue"`
	AverageQueue    float64                 `json:"average_queue" yaml:"average_queue"`
	Waited          int                     `json:"waited" yaml:"waited"`
	ProbabilityWait float64                 `json:"probability_wait" yaml:"probability_wait"`
	EndTime         float64                 `json:"end_time" yaml:"end_time"`
	PerServer       map[Server]ServerTotals `json:"per_server" yaml:"per_server"`
}

// DualServerResult is the full output of SimulateDualServer.
type DualServerResult struct {
	Rows    []DualServerRow   `json:"rows" yaml:"rows"`
	Summary DualServerSummary `json:"summary" yaml:"summary"`
	// Fallbacks are the service draws that used the last-row fallback.
	Fallbacks sim.Advisories `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
}

// SimulateDualServer steps N customers through two servers. At each arrival:
//
//  1. both idle: the preferred server takes the customer;
//  2. exactly one idle: that one;
//  3. neither idle: the one that frees first, Able on a tie.
//
// Service starts at max(arrival, server free time). Per-server utilization is
// that server's service total over the makespan.
func SimulateDualServer(cfg DualServerConfig) (*DualServerResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &DualServerResult{Rows: make([]DualServerRow, 0, cfg.Customers)}
	s := &res.Summary
	s.Customers = cfg.Customers
	s.PerServer = make(map[Server]ServerTotals, len(Servers))

	freeAt := map[Server]float64{Able: 0, Baker: 0}
	clock := 0.0
	for i := 0; i < cfg.Customers; i++ {
		row := DualServerRow{Customer: i + 1}
		if i > 0 {
			iat := cfg.Interarrivals[i]
			row.Interarrival = &iat
			clock += iat.Value
		}
		row.Arrival = clock

		row.Server, row.Rule = assign(clock, freeAt, cfg.Preference)
		code := cfg.ServiceCodes[i]
		v, fb := cfg.ServiceTables[row.Server].Resolve(code)
		row.Service = dist.Draw{Code: code, Value: v, Fallback: fb}
		if fb {
			res.Fallbacks = append(res.Fallbacks, sim.Advisory{
				Kind:    sim.AdvisoryRangeFallback,
				Index:   i + 1,
				Message: fmt.Sprintf("%s service code %d is outside every range; used last row value %v", row.Server, code, v),
			})
		}

		cfg.Trace.RecordAssignment(trace.AssignmentRecord{
			Customer: row.Customer,
			Clock:    clock,
			FreeAt:   map[string]float64{string(Able): freeAt[Able], string(Baker): freeAt[Baker]},
			Chosen:   string(row.Server),
			Rule:     row.Rule,
			Start:    max(clock, freeAt[row.Server]),
		})

		row.Begin = max(clock, freeAt[row.Server])
		row.End = row.Begin + row.Service.Value
		row.Queue = row.Begin - clock
		freeAt[row.Server] = row.End

		tot := s.PerServer[row.Server]
		tot.Customers++
		tot.Service += row.Service.Value
		s.PerServer[row.Server] = tot

		s.TotalService += row.Service.Value
		s.TotalQueue += row.Queue
		if row.Queue > 0 {
			s.Waited++
		}
		s.EndTime = max(s.EndTime, row.End)

		logrus.Debugf("dual: customer %d arrives %.2f -> %s (%s) begins %.2f ends %.2f",
			row.Customer, row.Arrival, row.Server, row.Rule, row.Begin, row.End)
		res.Rows = append(res.Rows, row)
	}

	n := float64(cfg.Customers)
	s.AverageQueue = s.TotalQueue / n
	s.ProbabilityWait = float64(s.Waited) / n
	for _, srv := range Servers {
		tot := s.PerServer[srv]
		if s.EndTime > 0 {
			tot.Utilization = tot.Service / s.EndTime
		}
		s.PerServer[srv] = tot
	}
	return res, nil
}

// assign applies the three assignment rules in order.
func assign(clock float64, freeAt map[Server]float64, pref Server) (Server, string) {
	var idle []Server
	for _, srv := range Servers {
		if freeAt[srv] <= clock {
			idle = append(idle, srv)
		}
	}
	switch len(idle) {
	case 2:
		return pref, trace.RuleBothIdle
	case 1:
		return idle[0], trace.RuleOnlyIdle
	}
	if freeAt[Able] <= freeAt[Baker] {
		return Able, trace.RuleEarliestFree
	}
	return Baker, trace.RuleEarliestFree
}
