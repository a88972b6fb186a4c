package model

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{OrderPending, OrderConfirmed},
		{OrderPending, OrderCancelled},
		{OrderConfirmed, OrderCompleted},
		{OrderConfirmed, OrderCancelled},
		{OrderCancelled, OrderConfirmed},
	}
	for _, p := range allowed {
		if !CanTransition(p[0], p[1]) {
			t.Fatalf("expected %s -> %s allowed", p[0], p[1])
		}
	}

	denied := [][2]string{
		{OrderCompleted, OrderCancelled},
		{OrderCompleted, OrderConfirmed},
		{OrderCompleted, OrderPending},
		{OrderCancelled, OrderPending},
		{OrderCancelled, OrderCompleted},
		{OrderConfirmed, OrderPending},
		{OrderPending, OrderCompleted},
		{OrderPending, OrderPending},
	}
	for _, p := range denied {
		if CanTransition(p[0], p[1]) {
			t.Fatalf("expected %s -> %s denied", p[0], p[1])
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	if CanTransition("REFUNDED", OrderCancelled) {
		t.Fatalf("expected unknown source status denied")
	}
	if CanTransition(OrderPending, "REFUNDED") {
		t.Fatalf("expected unknown target status denied")
	}
}

func TestIsActiveStatus(t *testing.T) {
	if !IsActiveStatus(OrderPending) || !IsActiveStatus(OrderConfirmed) {
		t.Fatalf("expected PENDING and CONFIRMED active")
	}
	if IsActiveStatus(OrderCancelled) || IsActiveStatus(OrderCompleted) {
		t.Fatalf("expected CANCELLED and COMPLETED inactive")
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{OrderPending, OrderConfirmed, OrderCancelled, OrderCompleted} {
		if !IsValidStatus(s) {
			t.Fatalf("expected %s valid", s)
		}
	}
	if IsValidStatus("pending") {
		t.Fatalf("statuses are case sensitive")
	}
	if IsValidStatus("") {
		t.Fatalf("empty status is not valid")
	}
}
