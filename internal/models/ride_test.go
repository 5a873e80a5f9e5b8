package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRideTransition(t *testing.T) {
	testCases := []struct {
		name  string
		from  string
		to    string
		valid bool
	}{
		{"pending to accepted", RideStatusPending, RideStatusAccepted, true},
		{"accepted to in_progress", RideStatusAccepted, RideStatusInProgress, true},
		{"in_progress to completed", RideStatusInProgress, RideStatusCompleted, true},
		{"pending to cancelled", RideStatusPending, RideStatusCancelled, true},
		{"accepted to cancelled", RideStatusAccepted, RideStatusCancelled, true},
		{"in_progress to cancelled", RideStatusInProgress, RideStatusCancelled, true},

		// No skipping forward
		{"pending to in_progress", RideStatusPending, RideStatusInProgress, false},
		{"pending to completed", RideStatusPending, RideStatusCompleted, false},
		{"accepted to completed", RideStatusAccepted, RideStatusCompleted, false},

		// No moving backwards
		{"accepted to pending", RideStatusAccepted, RideStatusPending, false},
		{"in_progress to accepted", RideStatusInProgress, RideStatusAccepted, false},

		// Terminal states allow nothing
		{"completed to cancelled", RideStatusCompleted, RideStatusCancelled, false},
		{"cancelled to pending", RideStatusCancelled, RideStatusPending, false},
		{"completed to in_progress", RideStatusCompleted, RideStatusInProgress, false},

		{"unknown status", "parked", RideStatusAccepted, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidRideTransition(tc.from, tc.to))
		})
	}
}

func TestIsTerminalRideStatus(t *testing.T) {
	assert.True(t, IsTerminalRideStatus(RideStatusCompleted))
	assert.True(t, IsTerminalRideStatus(RideStatusCancelled))
	assert.False(t, IsTerminalRideStatus(RideStatusPending))
	assert.False(t, IsTerminalRideStatus(RideStatusAccepted))
	assert.False(t, IsTerminalRideStatus(RideStatusInProgress))
}

func TestValidVehicleType(t *testing.T) {
	assert.True(t, ValidVehicleType(VehicleTypeAuto))
	assert.True(t, ValidVehicleType(VehicleTypeCar))
	assert.True(t, ValidVehicleType(VehicleTypeBike))
	assert.False(t, ValidVehicleType(""))
	assert.False(t, ValidVehicleType("truck"))
	assert.False(t, ValidVehicleType("Car"))
}
