package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // "customer", "driver"

	// Actor-specific relations
	Profile       *Profile       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile,omitempty"`
	DriverProfile *DriverProfile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"driver_profile,omitempty"`
}
