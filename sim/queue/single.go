// Package queue implements the queueing simulators: a single-server queue and
// a two-server queue with heterogeneous service-time tables (Able/Baker).
// Both step customers in arrival order and keep per-server busy-until times;
// there is no future-event list because service is non-preemptive FIFO.
package queue

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/dist"
)

// SingleServerConfig groups the inputs of one single-server run.
type SingleServerConfig struct {
	Customers int
	// Interarrivals[i] is the gap before customer i+1. Index 0 is ignored:
	// the first customer arrives at clock 0.
	Interarrivals []dist.Draw
	Services      []dist.Draw
}

// Validate checks counts and draw values before any row is produced.
func (c SingleServerConfig) Validate() error {
	if c.Customers <= 0 {
		return fmt.Errorf("%w: customer count must be positive, got %d", sim.ErrConfiguration, c.Customers)
	}
	if len(c.Interarrivals) < c.Customers {
		return fmt.Errorf("%w: need %d interarrival draws, got %d", sim.ErrConfiguration, c.Customers, len(c.Interarrivals))
	}
	if len(c.Services) < c.Customers {
		return fmt.Errorf("%w: need %d service draws, got %d", sim.ErrConfiguration, c.Customers, len(c.Services))
	}
	for i := 1; i < c.Customers; i++ {
		if err := validateDuration("interarrival", i+1, c.Interarrivals[i].Value); err != nil {
			return err
		}
	}
	for i := 0; i < c.Customers; i++ {
		if err := validateDuration("service", i+1, c.Services[i].Value); err != nil {
			return err
		}
	}
	return nil
}

// SingleServerRow is the event-log entry of one customer. Rows are written once.
type SingleServerRow struct {
	Customer     int        `json:"customer" yaml:"customer"`
	Interarrival *dist.Draw `json:"interarrival,omitempty" yaml:"interarrival,omitempty"`
	Arrival      float64    `json:"arrival" yaml:"arrival"`
	Service      dist.Draw  `json:"service" yaml:"service"`
	Begin        float64    `json:"begin" yaml:"begin"`
	End          float64    `json:"end" yaml:"end"`
	Wait         float64    `json:"wait" yaml:"wait"`
	InSystem     float64    `json:"in_system" yaml:"in_system"`
	Idle         float64    `json:"idle" yaml:"idle"`
}

// SingleServerSummary holds the terminal aggregates of a run.
type SingleServerSummary struct {
	Customers     int     `json:"customers" yaml:"customers"`
	AverageWait   float64 `json:"average_wait" yaml:"average_wait"`
	Utilization   float64 `json:"utilization" yaml:"utilization"`
	TotalWait     float64 `json:"total_wait" yaml:"total_wait"`
	TotalService  float64 `json:"total_service" yaml:"total_service"`
	TotalInSystem float64 `json:"total_in_system" yaml:"total_in_system"`
	TotalIdle     float64 `json:"total_idle" yaml:"total_idle"`
	Waited        int     `json:"waited" yaml:"waited"`
	EndTime       float64 `json:"end_time" yaml:"end_time"`

	ProbabilityWait     float64 `json:"probability_wait" yaml:"probability_wait"`
	AverageWaitOfWaiter float64 `json:"average_wait_of_waiter" yaml:"average_wait_of_waiter"`
	AverageInSystem     float64 `json:"average_in_system" yaml:"average_in_system"`
	AverageService      float64 `json:"average_service" yaml:"average_service"`
	AverageInterarrival float64 `json:"average_interarrival" yaml:"average_interarrival"`
	ProbabilityIdle     float64 `json:"probability_idle" yaml:"probability_idle"`
}

// SingleServerResult is the full output of SimulateSingleServer.
type SingleServerResult struct {
	Rows    []SingleServerRow   `json:"rows" yaml:"rows"`
	Summary SingleServerSummary `json:"summary" yaml:"summary"`
}

// SimulateSingleServer steps N customers through one FIFO server:
//
//	clock_i = clock_{i-1} + IAT_i   (clock_1 = 0)
//	begin_i = max(clock_i, end_{i-1})
//	end_i   = begin_i + service_i
//	wait_i  = begin_i - clock_i,  system_i = end_i - clock_i
//	idle_i  = max(0, begin_i - end_{i-1}) for i > 1, else 0
//
// Average wait is Σwait/N and utilization Σservice/end_N (0 when end_N is 0).
func SimulateSingleServer(cfg SingleServerConfig) (*SingleServerResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &SingleServerResult{Rows: make([]SingleServerRow, 0, cfg.Customers)}
	s := &res.Summary
	s.Customers = cfg.Customers

	clock, prevEnd, totalIAT := 0.0, 0.0, 0.0
	for i := 0; i < cfg.Customers; i++ {
		row := SingleServerRow{Customer: i + 1, Service: cfg.Services[i]}
		if i > 0 {
			iat := cfg.Interarrivals[i]
			row.Interarrival = &iat
			clock += iat.Value
			totalIAT += iat.Value
		}
		row.Arrival = clock
		row.Begin = math.Max(clock, prevEnd)
		row.End = row.Begin + row.Service.Value
		row.Wait = row.Begin - clock
		row.InSystem = row.End - clock
		if i > 0 {
			row.Idle = math.Max(0, row.Begin-prevEnd)
		}
		prevEnd = row.End

		s.TotalWait += row.Wait
		s.TotalInSystem += row.InSystem
		s.TotalIdle += row.Idle
		s.TotalService += row.Service.Value
		if row.Wait > 0 {
			s.Waited++
		}
		logrus.Debugf("single: customer %d arrives %.2f begins %.2f ends %.2f (wait %.2f)",
			row.Customer, row.Arrival, row.Begin, row.End, row.Wait)
		res.Rows = append(res.Rows, row)
	}

	n := float64(cfg.Customers)
	s.EndTime = prevEnd
	s.AverageWait = s.TotalWait / n
	s.AverageInSystem = s.TotalInSystem / n
	s.AverageService = s.TotalService / n
	s.ProbabilityWait = float64(s.Waited) / n
	if s.Waited > 0 {
		s.AverageWaitOfWaiter = s.TotalWait / float64(s.Waited)
	}
	if cfg.Customers > 1 {
		s.AverageInterarrival = totalIAT / (n - 1)
	}
	if s.EndTime > 0 {
		s.Utilization = s.TotalService / s.EndTime
		s.ProbabilityIdle = s.TotalIdle / s.EndTime
	}
	return res, nil
}

func validateDuration(name string, customer int, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: customer %d: %s time must be a finite non-negative number, got %v", sim.ErrConfiguration, customer, name, v)
	}
	return nil
}
