package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivityCapacity(t *testing.T) {
	cases := []struct {
		name      string
		slots     int
		count     int
		full      bool
		remaining int
	}{
		{name: "empty", slots: 3, count: 0, full: false, remaining: 3},
		{name: "last slot", slots: 1, count: 0, full: false, remaining: 1},
		{name: "exactly full", slots: 1, count: 1, full: true, remaining: 0},
		{name: "zero capacity", slots: 0, count: 0, full: true, remaining: 0},
		{name: "overbooked legacy row", slots: 2, count: 5, full: true, remaining: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := Activity{AvailableSlots: tc.slots, RegisteredCount: tc.count}
			assert.Equal(t, tc.full, a.IsFull())
			assert.Equal(t, tc.remaining, a.SlotsRemaining())
		})
	}
}

func TestEmployeeRequestAddressing(t *testing.T) {
	broadcast := EmployeeRequest{}
	assert.True(t, broadcast.IsBroadcast())
	assert.True(t, broadcast.AddressedTo(1))
	assert.True(t, broadcast.AddressedTo(2))

	target := int64(1)
	targeted := EmployeeRequest{StudentID: &target}
	assert.False(t, targeted.IsBroadcast())
	assert.True(t, targeted.AddressedTo(1))
	assert.False(t, targeted.AddressedTo(2))
}

func TestEnums(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.False(t, UserRole("admin").Valid())
	assert.True(t, ApplicationStatusRejected.Known())
	assert.False(t, ApplicationStatus("on hold").Known())
	assert.True(t, NotificationWarning.Valid())
	assert.False(t, NotificationType("urgent").Valid())
}
