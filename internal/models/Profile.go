// internal/models/profile.go
package models

import "gorm.io/gorm"

// Profile holds the display identity for every user, customer or driver.
// Created inside the signup transaction, one per User.
type Profile struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"uniqueIndex"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	UserType string `json:"user_type"` // mirrors User.Role: "customer" or "driver"
}
