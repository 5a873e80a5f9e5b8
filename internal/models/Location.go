package models

import "gorm.io/gorm"

// Location is a saved pickup/dropoff place. The catalog is public:
// any caller may list locations, authenticated users may add them.
type Location struct {
	gorm.Model
	Name      string  `json:"name" binding:"required"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
