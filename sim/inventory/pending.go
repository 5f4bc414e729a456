// Implements the PendingOrders list, which holds replenishment orders that
// have been placed but not yet received. Orders are enqueued on review days.

package inventory

import (
	"fmt"
	"strings"
)

// PendingOrder is an order in transit.
//
// DaysRemaining counts down once per day after the order is placed. The day
// it is observed at zero the order becomes ReadyToArrive, and its quantity is
// added to on-hand inventory at the start of the following day.
type PendingOrder struct {
	ArrivalDay    int  `json:"arrival_day" yaml:"arrival_day"`
	Quantity      int  `json:"quantity" yaml:"quantity"`
	DaysRemaining int  `json:"days_remaining" yaml:"days_remaining"`
	ReadyToArrive bool `json:"ready_to_arrive" yaml:"ready_to_arrive"`
}

func (o PendingOrder) String() string {
	return fmt.Sprintf("{qty=%d day=%d left=%d ready=%t}", o.Quantity, o.ArrivalDay, o.DaysRemaining, o.ReadyToArrive)
}

// PendingOrders represents the FIFO list of orders in transit.
type PendingOrders struct {
	orders []PendingOrder // oldest first
}

// Enqueue adds an order to the back of the list.
func (po *PendingOrders) Enqueue(o PendingOrder) {
	po.orders = append(po.orders, o)
}

func (po *PendingOrders) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, o := range po.orders {
		sb.WriteString(o.String())
		if i < len(po.orders)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of orders in transit.
func (po *PendingOrders) Len() int {
	return len(po.orders)
}

// Newest returns the most recently placed order.
// The boolean is false when nothing is in transit.
func (po *PendingOrders) Newest() (PendingOrder, bool) {
	if len(po.orders) == 0 {
		return PendingOrder{}, false
	}
	return po.orders[len(po.orders)-1], true
}

// Items returns a copy of the orders in transit, oldest first.
func (po *PendingOrders) Items() []PendingOrder {
	out := make([]PendingOrder, len(po.orders))
	copy(out, po.orders)
	return out
}

// Receive removes every ready order and returns their total quantity.
func (po *PendingOrders) Receive() int {
	received := 0
	kept := po.orders[:0]
	for _, o := range po.orders {
		if o.ReadyToArrive {
			received += o.Quantity
			continue
		}
		kept = append(kept, o)
	}
	po.orders = kept
	return received
}

// Age advances every order by one day. An order that was already at zero
// becomes ready; the others count down and stay not ready.
func (po *PendingOrders) Age() {
	for i := range po.orders {
		o := &po.orders[i]
		if o.DaysRemaining == 0 {
			o.ReadyToArrive = true
			continue
		}
		o.DaysRemaining--
	}
}

// Outstanding returns the total quantity still in transit.
func (po *PendingOrders) Outstanding() int {
	total := 0
	for _, o := range po.orders {
		total += o.Quantity
	}
	return total
}
