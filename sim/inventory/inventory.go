// Package inventory implements the periodic-review (M, N) inventory simulator.
//
// Every N days the on-hand level is reviewed and an order is placed to bring
// it back up to M, plus whatever shortage has accumulated so far. Orders
// travel for a drawn lead time and are received at the start of a later day.
package inventory

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/dist"
	"github.com/montesim/montesim/sim/trace"
)

// Backlog is an order already in transit when the run starts.
// It is received at the start of day DaysUntilArrival+1.
type Backlog struct {
	Quantity         int `json:"quantity" yaml:"quantity"`
	DaysUntilArrival int `json:"days_until_arrival" yaml:"days_until_arrival"`
}

// Config groups the inputs of one inventory run.
type Config struct {
	OrderUpTo        int // M
	ReviewPeriod     int // N, in days
	InitialInventory int
	Cycles           int
	InitialOrder     *Backlog
	// Demands holds one draw per day; at least ReviewPeriod·Cycles are needed.
	Demands []dist.Draw
	// LeadTimes is consumed one draw per placed order; at least Cycles are needed.
	LeadTimes []dist.Draw
	Trace     *trace.SimulationTrace
}

// Days returns the simulated horizon, N·cycles.
func (c Config) Days() int {
	return c.ReviewPeriod * c.Cycles
}

// Validate checks the policy parameters and every draw value.
func (c Config) Validate() error {
	switch {
	case c.OrderUpTo < 0:
		return fmt.Errorf("%w: order-up-to level M must be non-negative, got %d", sim.ErrConfiguration, c.OrderUpTo)
	case c.ReviewPeriod <= 0:
		return fmt.Errorf("%w: review period N must be positive, got %d", sim.ErrConfiguration, c.ReviewPeriod)
	case c.Cycles <= 0:
		return fmt.Errorf("%w: cycle count must be positive, got %d", sim.ErrConfiguration, c.Cycles)
	case c.InitialInventory < 0:
		return fmt.Errorf("%w: initial inventory must be non-negative, got %d", sim.ErrConfiguration, c.InitialInventory)
	}
	if b := c.InitialOrder; b != nil {
		if b.Quantity < 0 || b.DaysUntilArrival < 0 {
			return fmt.Errorf("%w: initial order needs non-negative quantity and days, got %+v", sim.ErrConfiguration, *b)
		}
	}
	if len(c.Demands) < c.Days() {
		return fmt.Errorf("%w: need %d demand draws, got %d", sim.ErrConfiguration, c.Days(), len(c.Demands))
	}
	if len(c.LeadTimes) < c.Cycles {
		return fmt.Errorf("%w: need %d lead-time draws, got %d", sim.ErrConfiguration, c.Cycles, len(c.LeadTimes))
	}
	if err := requireUnits("demand", c.Demands[:c.Days()]); err != nil {
		return err
	}
	return requireUnits("lead time", c.LeadTimes[:c.Cycles])
}

func requireUnits(name string, draws []dist.Draw) error {
	for i, d := range draws {
		if d.Value < 0 || d.Value != math.Trunc(d.Value) || d.Value > math.MaxInt32 {
			return fmt.Errorf("%w: %s %d must be a non-negative integer, got %v", sim.ErrConfiguration, name, i+1, d.Value)
		}
	}
	return nil
}

// Order is a replenishment placed on a review day.
type Order struct {
	Quantity   int       `json:"quantity" yaml:"quantity"`
	LeadTime   dist.Draw `json:"lead_time" yaml:"lead_time"`
	ArrivalDay int       `json:"arrival_day" yaml:"arrival_day"`
}

// Row is the log entry of one simulated day.
type Row struct {
	Day                int       `json:"day" yaml:"day"`
	Cycle              int       `json:"cycle" yaml:"cycle"`
	DayInCycle         int       `json:"day_in_cycle" yaml:"day_in_cycle"`
	Received           int       `json:"received" yaml:"received"`
	BeginInventory     int       `json:"begin_inventory" yaml:"begin_inventory"`
	Demand             dist.Draw `json:"demand" yaml:"demand"`
	EndInventory       int       `json:"end_inventory" yaml:"end_inventory"`
	Shortfall          int       `json:"shortfall" yaml:"shortfall"`
	CumulativeShortage int       `json:"cumulative_shortage" yaml:"cumulative_shortage"`
	Review             bool      `json:"review" yaml:"review"`
	Order              *Order    `json:"order,omitempty" yaml:"order,omitempty"`
	// DaysUntilArrival is the newest pending order's countdown, nil when none is pending.
	DaysUntilArrival *int `json:"days_until_arrival,omitempty" yaml:"days_until_arrival,omitempty"`
}

// Summary holds the terminal aggregates of a run.
type Summary struct {
	Days                   int     `json:"days" yaml:"days"`
	AverageEndingInventory float64 `json:"average_ending_inventory" yaml:"average_ending_inventory"`
	TotalShortage          int     `json:"total_shortage" yaml:"total_shortage"`
	ShortageDays           int     `json:"shortage_days" yaml:"shortage_days"`
	OrdersPlaced           int     `json:"orders_placed" yaml:"orders_placed"`
	TotalOrdered           int     `json:"total_ordered" yaml:"total_ordered"`
	FinalInventory         int     `json:"final_inventory" yaml:"final_inventory"`
	InTransit              int     `json:"in_transit" yaml:"in_transit"`
}

// Result is the full output of Simulate.
type Result struct {
	Rows    []Row   `json:"rows" yaml:"rows"`
	Summary Summary `json:"summary" yaml:"summary"`
}

// Simulate runs the day loop for day = 1..N·cycles:
//
//  1. receive every ready pending order;
//  2. record the beginning inventory;
//  3. satisfy the day's demand, adding any shortfall to the cumulative shortage;
//  4. on review days (day mod N == 0) order Q = M - end + cumulativeShortage when Q > 0;
//  5. age pending orders.
//
// The cumulative shortage is never reset, so every later order keeps including it.
func Simulate(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	days := cfg.Days()
	res := &Result{Rows: make([]Row, 0, days)}
	pending := &PendingOrders{}
	if b := cfg.InitialOrder; b != nil && b.Quantity > 0 {
		// Lands at the start of day d+1 for every d, 1 included.
		pending.Enqueue(PendingOrder{
			ArrivalDay:    b.DaysUntilArrival + 1,
			Quantity:      b.Quantity,
			DaysRemaining: max(b.DaysUntilArrival-1, 0),
			ReadyToArrive: b.DaysUntilArrival == 0,
		})
	}

	onHand := cfg.InitialInventory
	shortage := 0
	leadIdx := 0
	endSum := 0
	for day := 1; day <= days; day++ {
		row := Row{
			Day:        day,
			Cycle:      (day-1)/cfg.ReviewPeriod + 1,
			DayInCycle: (day-1)%cfg.ReviewPeriod + 1,
			Review:     day%cfg.ReviewPeriod == 0,
		}

		row.Received = pending.Receive()
		onHand += row.Received
		if newest, ok := pending.Newest(); ok {
			left := newest.DaysRemaining
			row.DaysUntilArrival = &left
		}
		row.BeginInventory = onHand

		row.Demand = cfg.Demands[day-1]
		demand := int(row.Demand.Value)
		if demand > onHand {
			row.Shortfall = demand - onHand
			shortage += row.Shortfall
			onHand = 0
		} else {
			onHand -= demand
		}
		row.EndInventory = onHand
		row.CumulativeShortage = shortage

		if row.Review {
			q := cfg.OrderUpTo - onHand + shortage
			rec := trace.OrderRecord{
				Day:                day,
				Cycle:              row.Cycle,
				EndInventory:       onHand,
				CumulativeShortage: shortage,
				Quantity:           q,
			}
			if q > 0 {
				lt := cfg.LeadTimes[leadIdx]
				leadIdx++
				lead := int(lt.Value)
				row.Order = &Order{Quantity: q, LeadTime: lt, ArrivalDay: day + lead + 1}
				pending.Enqueue(PendingOrder{ArrivalDay: row.Order.ArrivalDay, Quantity: q, DaysRemaining: lead})
				row.DaysUntilArrival = &lead

				rec.Placed = true
				rec.LeadTime = lead
				rec.ScheduledArrivalDay = row.Order.ArrivalDay
				res.Summary.OrdersPlaced++
				res.Summary.TotalOrdered += q
				logrus.Debugf("inventory: day %d review orders %d (lead time %d, arrives day %d)", day, q, lead, row.Order.ArrivalDay)
			} else {
				logrus.Debugf("inventory: day %d review skips order (Q=%d)", day, q)
			}
			cfg.Trace.RecordOrder(rec)
		}

		if row.Shortfall > 0 {
			res.Summary.ShortageDays++
		}
		endSum += row.EndInventory
		res.Rows = append(res.Rows, row)
		pending.Age()
	}

	s := &res.Summary
	s.Days = days
	s.AverageEndingInventory = float64(endSum) / float64(days)
	s.TotalShortage = shortage
	s.FinalInventory = onHand
	s.InTransit = pending.Outstanding()
	return res, nil
}
