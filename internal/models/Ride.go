// internal/models/ride.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Ride statuses. Transitions run one way along
// pending -> accepted -> in_progress -> completed, with cancelled
// reachable from any non-terminal state.
const (
	RideStatusPending    = "pending"
	RideStatusAccepted   = "accepted"
	RideStatusInProgress = "in_progress"
	RideStatusCompleted  = "completed"
	RideStatusCancelled  = "cancelled"
)

// Vehicle types a ride can be requested for. A driver's available-rides
// listing filters on an exact match against their DriverProfile.
const (
	VehicleTypeAuto = "auto"
	VehicleTypeCar  = "car"
	VehicleTypeBike = "bike"
)

type Ride struct {
	gorm.Model
	CustomerID    uint      `json:"customer_id" gorm:"index"`
	DriverID      *uint     `json:"driver_id" gorm:"index"` // nil until a driver accepts
	FromLocation  string    `json:"from_location"`
	ToLocation    string    `json:"to_location"`
	FromLatitude  *float64  `json:"from_latitude"`
	FromLongitude *float64  `json:"from_longitude"`
	ToLatitude    *float64  `json:"to_latitude"`
	ToLongitude   *float64  `json:"to_longitude"`
	PickupTime    time.Time `json:"pickup_time"`
	VehicleType   string    `json:"vehicle_type"`
	DistanceKm    *float64  `json:"distance_km"` // set with FinalFare at completion
	EstimatedFare int       `json:"estimated_fare"`
	FinalFare     *float64  `json:"final_fare"`
	Status        string    `json:"status" gorm:"index;default:pending"`
	Notes         string    `json:"notes"`
}

// rideTransitions is the full set of legal status moves.
var rideTransitions = map[string][]string{
	RideStatusPending:    {RideStatusAccepted, RideStatusCancelled},
	RideStatusAccepted:   {RideStatusInProgress, RideStatusCancelled},
	RideStatusInProgress: {RideStatusCompleted, RideStatusCancelled},
	RideStatusCompleted:  {},
	RideStatusCancelled:  {},
}

// ValidRideTransition reports whether a ride may move from one status
// to another. Terminal states (completed, cancelled) allow nothing.
func ValidRideTransition(from, to string) bool {
	for _, next := range rideTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalRideStatus reports whether no further transition is legal.
func IsTerminalRideStatus(status string) bool {
	return status == RideStatusCompleted || status == RideStatusCancelled
}

// ValidVehicleType reports whether t is one of the three supported
// vehicle types. Anything else is a validation error, never defaulted.
func ValidVehicleType(t string) bool {
	switch t {
	case VehicleTypeAuto, VehicleTypeCar, VehicleTypeBike:
		return true
	}
	return false
}
