// internal/models/driver_profile.go
package models

import "gorm.io/gorm"

// DriverProfile is the driver's onboarding record. A user with role
// "driver" but no DriverProfile row has not finished onboarding and
// cannot accept rides.
type DriverProfile struct {
	gorm.Model
	UserID           uint     `json:"user_id" gorm:"uniqueIndex"`
	VehicleType      string   `json:"vehicle_type"` // "auto", "car", "bike"
	VehicleNumber    string   `json:"vehicle_number"`
	LicenseNumber    string   `json:"license_number"`
	IsAvailable      bool     `json:"is_available" gorm:"default:false"`
	CurrentLatitude  *float64 `json:"current_latitude"`
	CurrentLongitude *float64 `json:"current_longitude"`
}
