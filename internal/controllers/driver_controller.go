package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"localride/internal/middleware"
	"localride/internal/models"
	"localride/internal/rides"
	"localride/internal/store"
)

// DriverController manages the driver's own onboarding record:
// vehicle details, availability and current position.
type DriverController struct {
	Store *store.Store
	Hub   rides.Publisher
}

func NewDriverController(st *store.Store, hub rides.Publisher) *DriverController {
	return &DriverController{Store: st, Hub: hub}
}

type driverProfileInput struct {
	VehicleType   string `json:"vehicle_type" binding:"required"`
	VehicleNumber string `json:"vehicle_number" binding:"required"`
	LicenseNumber string `json:"license_number"`
}

// UpsertProfile creates or updates the authenticated driver's profile.
func (dc *DriverController) UpsertProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	var input driverProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !models.ValidVehicleType(input.VehicleType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_type must be one of auto, car, bike"})
		return
	}

	dp := models.DriverProfile{
		UserID:        userID,
		VehicleType:   input.VehicleType,
		VehicleNumber: input.VehicleNumber,
		LicenseNumber: input.LicenseNumber,
	}
	if err := dc.Store.UpsertDriverProfile(&dp); err != nil {
		logrus.WithError(err).Error("Failed to upsert driver profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save driver profile"})
		return
	}

	dc.Hub.Publish(userID, "driver_profile.updated", dp)
	c.JSON(http.StatusOK, gin.H{"driver_profile": dp})
}

// GetMyProfile returns the authenticated driver's profile.
func (dc *DriverController) GetMyProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	dp, err := dc.Store.GetDriverProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver profile not found. Complete onboarding first."})
			return
		}
		logrus.WithError(err).Error("Error fetching driver profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch driver profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"driver_profile": dp})
}

type availabilityInput struct {
	// Pointer to differentiate between missing and false
	IsAvailable *bool `json:"is_available"`
}

// SetAvailability toggles whether the driver appears in the available
// pool.
func (dc *DriverController) SetAvailability(c *gin.Context) {
	userID := middleware.UserID(c)

	var input availabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if input.IsAvailable == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_available is required"})
		return
	}

	dp, err := dc.Store.SetDriverAvailability(userID, *input.IsAvailable)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver profile not found. Complete onboarding first."})
			return
		}
		logrus.WithError(err).Error("Failed to update driver availability")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update availability"})
		return
	}

	dc.Hub.Publish(userID, "driver_profile.updated", dp)
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated successfully.", "driver_profile": dp})
}

type locationInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateLocation records the driver's current position.
func (dc *DriverController) UpdateLocation(c *gin.Context) {
	userID := middleware.UserID(c)

	var input locationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if input.Latitude == nil || input.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}

	if err := dc.Store.UpdateDriverLocation(userID, *input.Latitude, *input.Longitude); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver profile not found. Complete onboarding first."})
			return
		}
		logrus.WithError(err).Error("Failed to update driver location")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location updated successfully."})
}
