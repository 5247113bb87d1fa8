package statemachine

import (
	"context"
	"testing"

	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmFromPending(t *testing.T) {
	booking := &models.Booking{BookingStatus: models.BookingStatusPending}
	bfsm := NewBookingFSM(booking)

	require.NoError(t, bfsm.Confirm(context.Background()))
	assert.Equal(t, models.BookingStatusConfirmed, booking.BookingStatus)
	assert.Equal(t, models.BookingStatusConfirmed, bfsm.Current())
}

func TestCompleteFromConfirmed(t *testing.T) {
	booking := &models.Booking{BookingStatus: models.BookingStatusConfirmed}
	bfsm := NewBookingFSM(booking)

	require.NoError(t, bfsm.Complete(context.Background()))
	assert.Equal(t, models.BookingStatusCompleted, booking.BookingStatus)
}

func TestCompleteFromPendingFails(t *testing.T) {
	booking := &models.Booking{BookingStatus: models.BookingStatusPending}
	bfsm := NewBookingFSM(booking)

	err := bfsm.Complete(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.BookingStatus)
}

func TestCancelFromPendingAndConfirmed(t *testing.T) {
	for _, status := range []string{models.BookingStatusPending, models.BookingStatusConfirmed} {
		booking := &models.Booking{BookingStatus: status}
		bfsm := NewBookingFSM(booking)

		require.NoError(t, bfsm.Cancel(context.Background()))
		assert.Equal(t, models.BookingStatusCancelled, booking.BookingStatus)
	}
}

func TestCancelFromCompletedFails(t *testing.T) {
	booking := &models.Booking{BookingStatus: models.BookingStatusCompleted}
	bfsm := NewBookingFSM(booking)

	err := bfsm.Cancel(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.BookingStatusCompleted, booking.BookingStatus)
}

func TestTerminalStatesAllowNothing(t *testing.T) {
	for _, status := range []string{models.BookingStatusCompleted, models.BookingStatusCancelled} {
		bfsm := NewBookingFSM(&models.Booking{BookingStatus: status})

		assert.False(t, bfsm.Can("confirm"), status)
		assert.False(t, bfsm.Can("complete"), status)
		assert.False(t, bfsm.Can("cancel"), status)
	}
}

func TestCanReflectsCurrentState(t *testing.T) {
	bfsm := NewBookingFSM(&models.Booking{BookingStatus: models.BookingStatusPending})

	assert.True(t, bfsm.Can("confirm"))
	assert.True(t, bfsm.Can("cancel"))
	assert.False(t, bfsm.Can("complete"))
}
