package models

import "gorm.io/gorm"

// RideNotification is an in-app notification row created as a side
// effect of a ride lifecycle transition, addressed to a single user.
type RideNotification struct {
	gorm.Model
	RideID  uint   `json:"ride_id" gorm:"index"`
	UserID  uint   `json:"user_id" gorm:"index"`
	Message string `json:"message"`
	IsRead  bool   `json:"is_read" gorm:"default:false"`
}
