package orders

import (
	"fmt"
	"strings"

	"github.com/hamzat06/esk-sub000/internal/models"
)

// validNext is the authoritative transition table. The happy path runs
// pending_payment -> pending -> confirmed -> preparing -> ready -> delivered;
// any non-terminal state may be cancelled. delivered and cancelled are
// terminal: updates against them are rejected, never silently ignored.
var validNext = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.StatusPendingPayment: {models.StatusPending: true, models.StatusCancelled: true},
	models.StatusPending:        {models.StatusConfirmed: true, models.StatusCancelled: true},
	models.StatusConfirmed:      {models.StatusPreparing: true, models.StatusCancelled: true},
	models.StatusPreparing:      {models.StatusReady: true, models.StatusCancelled: true},
	models.StatusReady:          {models.StatusDelivered: true, models.StatusCancelled: true},
	models.StatusDelivered:      {},
	models.StatusCancelled:      {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to models.OrderStatus) bool {
	return validNext[from][to]
}

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status models.OrderStatus) bool {
	return len(validNext[status]) == 0
}

// ValidTransitionsFrom returns the legal next statuses, in display order.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	ordered := []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		models.StatusReady, models.StatusDelivered, models.StatusCancelled,
	}
	var nexts []models.OrderStatus
	for _, s := range ordered {
		if validNext[status][s] {
			nexts = append(nexts, s)
		}
	}
	return nexts
}

// TransitionError builds the operator-facing explanation for a rejected
// status change, listing what would have been allowed.
func TransitionError(from, to models.OrderStatus) error {
	nexts := ValidTransitionsFrom(from)
	if len(nexts) == 0 {
		return fmt.Errorf("order is %s, a terminal status that cannot change", from)
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return fmt.Errorf("cannot move order from %s to %s; valid next statuses: %s",
		from, to, strings.Join(parts, ", "))
}
