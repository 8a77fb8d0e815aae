package service

import (
	"errors"
	"fmt"

	"github.com/driveloop/carrental-api/internal/models"
)

var (
	ErrCarNotFound      = errors.New("car not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrPurchaseNotFound = errors.New("purchase record not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrInvalidDateRange = errors.New("end date must be after start date")
	ErrDateConflict     = errors.New("car is not available for these dates")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrMissingPurchaseRef marks a verified webhook whose session
	// carries no purchase id in its metadata; the payload is the
	// caller's defect, not ours.
	ErrMissingPurchaseRef = errors.New("checkout session carries no purchase reference")

	// ErrReconcileInconsistent marks a detected inconsistency during
	// reconciliation: the referenced car vanished, or the payment
	// landed on a booking already in a terminal state. The purchase is
	// left non-terminal so the money state stays visible for recovery.
	ErrReconcileInconsistent = errors.New("payment cannot be reconciled with current booking state")
)

// TransitionError reports a booking lifecycle transition attempted from
// an illegal source state, naming the state the transition requires.
type TransitionError struct {
	From     models.BookingStatus
	Required models.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking is %s; only %s bookings allow this action", e.From, e.Required)
}
