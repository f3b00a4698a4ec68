package orders

import (
	"strings"
	"testing"

	"github.com/hamzat06/esk-sub000/internal/models"
)

func TestHappyPathTransitions(t *testing.T) {
	path := []models.OrderStatus{
		models.StatusPendingPayment,
		models.StatusPending,
		models.StatusConfirmed,
		models.StatusPreparing,
		models.StatusReady,
		models.StatusDelivered,
	}

	for i := 0; i < len(path)-1; i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", path[i], path[i+1])
		}
	}
}

func TestSkippingStepsIsRejected(t *testing.T) {
	cases := []struct{ from, to models.OrderStatus }{
		{models.StatusPending, models.StatusPreparing},
		{models.StatusPending, models.StatusDelivered},
		{models.StatusConfirmed, models.StatusReady},
		{models.StatusPendingPayment, models.StatusConfirmed},
	}
	for _, c := range cases {
		if CanTransition(c.from, c.to) {
			t.Fatalf("%s -> %s skips steps and must be rejected", c.from, c.to)
		}
	}
}

func TestBackwardsTransitionsAreRejected(t *testing.T) {
	if CanTransition(models.StatusReady, models.StatusPreparing) {
		t.Fatal("orders must not move backwards")
	}
	if CanTransition(models.StatusConfirmed, models.StatusPending) {
		t.Fatal("orders must not move backwards")
	}
}

func TestAnyNonTerminalStatusCanCancel(t *testing.T) {
	for _, from := range []models.OrderStatus{
		models.StatusPendingPayment, models.StatusPending, models.StatusConfirmed,
		models.StatusPreparing, models.StatusReady,
	} {
		if !CanTransition(from, models.StatusCancelled) {
			t.Fatalf("expected %s -> cancelled to be allowed", from)
		}
	}
}

func TestTerminalStatusesRejectEverything(t *testing.T) {
	all := []models.OrderStatus{
		models.StatusPendingPayment, models.StatusPending, models.StatusConfirmed,
		models.StatusPreparing, models.StatusReady, models.StatusDelivered,
		models.StatusCancelled,
	}
	for _, terminal := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled} {
		if !IsTerminal(terminal) {
			t.Fatalf("%s should be terminal", terminal)
		}
		for _, to := range all {
			if CanTransition(terminal, to) {
				t.Fatalf("%s is terminal, %s -> %s must be rejected", terminal, terminal, to)
			}
		}
	}
	if IsTerminal(models.StatusPending) {
		t.Fatal("pending is not terminal")
	}
}

func TestTransitionErrorListsAlternatives(t *testing.T) {
	err := TransitionError(models.StatusPending, models.StatusDelivered)
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "confirmed") || !strings.Contains(msg, "cancelled") {
		t.Fatalf("error should list valid next statuses, got: %s", msg)
	}

	err = TransitionError(models.StatusDelivered, models.StatusPending)
	if !strings.Contains(err.Error(), "terminal") {
		t.Fatalf("terminal error should say so, got: %s", err)
	}
}
