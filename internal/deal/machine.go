// Package deal implements the deal lifecycle state machine.
//
// The happy path is pending -> confirmed -> shipped -> delivered; any
// non-terminal state may move to cancelled. Delivered and cancelled are
// absorbing.
package deal

import (
	"errors"
	"fmt"

	"github.com/twa-market/marketplace-go-app/internal/models"
)

// ErrInvalidTransition is returned when a requested status change is not
// permitted by the state machine.
var ErrInvalidTransition = errors.New("invalid deal status transition")

// DefaultCancelReason is recorded when a buyer cancels without giving one.
const DefaultCancelReason = "Cancelled by buyer"

var transitions = map[models.DealStatus][]models.DealStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:   {models.StatusDelivered, models.StatusCancelled},
}

// IsTerminal reports whether no transition leaves s
func IsTerminal(s models.DealStatus) bool {
	return s == models.StatusDelivered || s == models.StatusCancelled
}

// CanTransition reports whether from -> to is a legal transition
func CanTransition(from, to models.DealStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether a buyer-initiated cancel is legal from s.
// Admins may still cancel a shipped deal via Transition; buyers may not.
func CanCancel(s models.DealStatus) bool {
	return s == models.StatusPending || s == models.StatusConfirmed
}

// Transition validates the requested status change and returns a descriptive
// error wrapping ErrInvalidTransition when it is not allowed
func Transition(from, to models.DealStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
