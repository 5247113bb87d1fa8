package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/stagebook/stagebook-api/internal/models"
)

// BookingFSM wraps a booking with its status state machine
type BookingFSM struct {
	booking *models.Booking
	fsm     *fsm.FSM
}

// NewBookingFSM creates a new booking state machine
func NewBookingFSM(booking *models.Booking) *BookingFSM {
	bfsm := &BookingFSM{
		booking: booking,
	}

	bfsm.fsm = fsm.NewFSM(
		booking.BookingStatus,
		fsm.Events{
			// pending → confirmed
			{Name: "confirm", Src: []string{models.BookingStatusPending}, Dst: models.BookingStatusConfirmed},

			// confirmed → completed
			{Name: "complete", Src: []string{models.BookingStatusConfirmed}, Dst: models.BookingStatusCompleted},

			// pending/confirmed → cancelled
			{Name: "cancel", Src: []string{models.BookingStatusPending, models.BookingStatusConfirmed}, Dst: models.BookingStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return bfsm
}

// Confirm transitions the booking to confirmed state
func (b *BookingFSM) Confirm(ctx context.Context) error {
	if !b.booking.MayConfirm() {
		return fmt.Errorf("booking cannot be confirmed in current state: %s", b.booking.BookingStatus)
	}

	if err := b.fsm.Event(ctx, "confirm"); err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	b.booking.BookingStatus = b.fsm.Current()
	return nil
}

// Complete transitions the booking to completed state
func (b *BookingFSM) Complete(ctx context.Context) error {
	if !b.booking.MayComplete() {
		return fmt.Errorf("booking cannot be completed in current state: %s", b.booking.BookingStatus)
	}

	if err := b.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete booking: %w", err)
	}

	b.booking.BookingStatus = b.fsm.Current()
	return nil
}

// Cancel transitions the booking to cancelled state
func (b *BookingFSM) Cancel(ctx context.Context) error {
	if !b.booking.MayCancel() {
		return fmt.Errorf("booking cannot be cancelled in current state: %s", b.booking.BookingStatus)
	}

	if err := b.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	b.booking.BookingStatus = b.fsm.Current()
	return nil
}

// Current returns the current state
func (b *BookingFSM) Current() string {
	return b.fsm.Current()
}

// Can checks if a transition is possible
func (b *BookingFSM) Can(event string) bool {
	return b.fsm.Can(event)
}
