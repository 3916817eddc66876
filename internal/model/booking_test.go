package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTimeSlot(t *testing.T) {
	assert.True(t, ValidTimeSlot(SlotAfternoon))
	assert.True(t, ValidTimeSlot(SlotEvening))
	assert.False(t, ValidTimeSlot("morning"))
	assert.False(t, ValidTimeSlot(""))
	assert.False(t, ValidTimeSlot("Evening")) // enumeration is lower case
}

func TestBookingStatusClassification(t *testing.T) {
	assert.True(t, ActiveBookingStatus(BookingStatusPending))
	assert.True(t, ActiveBookingStatus(BookingStatusApproved))
	assert.False(t, ActiveBookingStatus(BookingStatusRejected))
	assert.False(t, ActiveBookingStatus(BookingStatusCancelled))

	assert.True(t, TerminalBookingStatus(BookingStatusRejected))
	assert.True(t, TerminalBookingStatus(BookingStatusCancelled))
	assert.False(t, TerminalBookingStatus(BookingStatusPending))
	assert.False(t, TerminalBookingStatus(BookingStatusApproved))
}
