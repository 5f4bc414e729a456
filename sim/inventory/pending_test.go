package inventory

import "testing"

func TestPendingOrders_Newest_Empty(t *testing.T) {
	// GIVEN an empty list
	po := &PendingOrders{}

	// WHEN Newest() is called
	_, ok := po.Newest()

	// THEN nothing is reported
	if ok {
		t.Error("Newest on empty list: got ok=true, want false")
	}
}

func TestPendingOrders_Newest_ReturnsLastEnqueued(t *testing.T) {
	po := &PendingOrders{}
	po.Enqueue(PendingOrder{Quantity: 5, DaysRemaining: 2})
	po.Enqueue(PendingOrder{Quantity: 7, DaysRemaining: 1})

	got, ok := po.Newest()
	if !ok || got.Quantity != 7 {
		t.Errorf("Newest: got %v (ok=%t), want quantity 7", got, ok)
	}
	if po.Len() != 2 {
		t.Errorf("Newest modified list length: got %d, want 2", po.Len())
	}
}

func TestPendingOrders_AgeThenReceive(t *testing.T) {
	// GIVEN an order with one day remaining
	po := &PendingOrders{}
	po.Enqueue(PendingOrder{Quantity: 8, DaysRemaining: 1})

	// WHEN it ages once
	po.Age()

	// THEN it reaches zero but is not yet ready
	if got := po.Receive(); got != 0 {
		t.Fatalf("Receive after first Age: got %d, want 0", got)
	}

	// WHEN it ages again
	po.Age()

	// THEN it is ready and is received exactly once
	if got := po.Receive(); got != 8 {
		t.Errorf("Receive after second Age: got %d, want 8", got)
	}
	if po.Len() != 0 {
		t.Errorf("received order still pending: %s", po)
	}
	if got := po.Receive(); got != 0 {
		t.Errorf("second Receive: got %d, want 0", got)
	}
}

func TestPendingOrders_ReceiveKeepsOrderOfRemaining(t *testing.T) {
	po := &PendingOrders{}
	po.Enqueue(PendingOrder{Quantity: 1, ReadyToArrive: true})
	po.Enqueue(PendingOrder{Quantity: 2, DaysRemaining: 3})
	po.Enqueue(PendingOrder{Quantity: 4, ReadyToArrive: true})
	po.Enqueue(PendingOrder{Quantity: 8, DaysRemaining: 1})

	if got := po.Receive(); got != 5 {
		t.Errorf("Receive: got %d, want 5", got)
	}
	items := po.Items()
	if len(items) != 2 || items[0].Quantity != 2 || items[1].Quantity != 8 {
		t.Errorf("remaining orders: got %v, want quantities [2 8]", items)
	}
	if po.Outstanding() != 10 {
		t.Errorf("Outstanding: got %d, want 10", po.Outstanding())
	}
}

func TestPendingOrders_String(t *testing.T) {
	po := &PendingOrders{}
	if po.String() != "[]" {
		t.Errorf("empty String: got %q", po.String())
	}
	po.Enqueue(PendingOrder{ArrivalDay: 9, Quantity: 3, DaysRemaining: 2})
	want := "[{qty=3 day=9 left=2 ready=false}]"
	if po.String() != want {
		t.Errorf("String: got %q, want %q", po.String(), want)
	}
}
