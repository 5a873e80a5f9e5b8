package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"localride/internal/middleware"
	"localride/internal/rides"
)

// RideController exposes the ride lifecycle over HTTP. All guard logic
// lives in the rides service; this layer binds JSON, reads the caller
// from the token claims, and maps domain errors to status codes.
type RideController struct {
	Rides *rides.Service
}

func NewRideController(svc *rides.Service) *RideController {
	return &RideController{Rides: svc}
}

type createRideInput struct {
	FromLocation  string    `json:"from_location"`
	ToLocation    string    `json:"to_location"`
	FromLatitude  *float64  `json:"from_latitude"`
	FromLongitude *float64  `json:"from_longitude"`
	ToLatitude    *float64  `json:"to_latitude"`
	ToLongitude   *float64  `json:"to_longitude"`
	PickupTime    time.Time `json:"pickup_time"`
	VehicleType   string    `json:"vehicle_type"`
	Notes         string    `json:"notes"`
}

// CreateRide books a ride for the authenticated customer.
func (rc *RideController) CreateRide(c *gin.Context) {
	userID := middleware.UserID(c)

	var input createRideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	ride, err := rc.Rides.Create(userID, rides.CreateInput{
		FromLocation:  input.FromLocation,
		ToLocation:    input.ToLocation,
		FromLatitude:  input.FromLatitude,
		FromLongitude: input.FromLongitude,
		ToLatitude:    input.ToLatitude,
		ToLongitude:   input.ToLongitude,
		PickupTime:    input.PickupTime,
		VehicleType:   input.VehicleType,
		Notes:         input.Notes,
	})
	if err != nil {
		respondRideError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "ride": ride})
}

// AcceptRide claims a pending ride for the authenticated driver.
func (rc *RideController) AcceptRide(c *gin.Context) {
	userID := middleware.UserID(c)

	rideID, ok := parseRideID(c)
	if !ok {
		return
	}

	if _, err := rc.Rides.Accept(userID, rideID); err != nil {
		respondRideError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// StartRide moves the driver's accepted ride to in_progress.
func (rc *RideController) StartRide(c *gin.Context) {
	userID := middleware.UserID(c)

	rideID, ok := parseRideID(c)
	if !ok {
		return
	}

	ride, err := rc.Rides.Start(userID, rideID)
	if err != nil {
		respondRideError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "ride": ride})
}

type completeRideInput struct {
	DistanceKm *float64 `json:"distance_km"`
	FinalFare  *float64 `json:"final_fare"`
}

// CompleteRide finishes the driver's in-progress ride with the final
// distance and fare.
func (rc *RideController) CompleteRide(c *gin.Context) {
	userID := middleware.UserID(c)

	rideID, ok := parseRideID(c)
	if !ok {
		return
	}

	var input completeRideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	ride, err := rc.Rides.Complete(userID, rideID, input.DistanceKm, input.FinalFare)
	if err != nil {
		respondRideError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "ride": ride})
}

// CancelRide cancels a non-terminal ride the caller is a party to.
func (rc *RideController) CancelRide(c *gin.Context) {
	userID := middleware.UserID(c)

	rideID, ok := parseRideID(c)
	if !ok {
		return
	}

	ride, err := rc.Rides.Cancel(userID, rideID)
	if err != nil {
		respondRideError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "ride": ride})
}

// GetRide returns one ride if the caller is its customer or driver.
func (rc *RideController) GetRide(c *gin.Context) {
	userID := middleware.UserID(c)

	rideID, ok := parseRideID(c)
	if !ok {
		return
	}

	ride, err := rc.Rides.Get(userID, rideID)
	if err != nil {
		respondRideError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ride": ride})
}

// ListCustomerRides is the customer's ride history.
func (rc *RideController) ListCustomerRides(c *gin.Context) {
	userID := middleware.UserID(c)

	ridesList, err := rc.Rides.ListForCustomer(userID)
	if err != nil {
		logrus.WithError(err).Error("Error listing customer rides")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing rides"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ridesList})
}

// ListDriverRides lists rides assigned to the authenticated driver.
func (rc *RideController) ListDriverRides(c *gin.Context) {
	userID := middleware.UserID(c)

	ridesList, err := rc.Rides.ListForDriver(userID)
	if err != nil {
		logrus.WithError(err).Error("Error listing driver rides")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing rides"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ridesList})
}

// ListAvailableRides lists pending rides matching the driver's vehicle type.
func (rc *RideController) ListAvailableRides(c *gin.Context) {
	userID := middleware.UserID(c)

	ridesList, err := rc.Rides.ListAvailable(userID)
	if err != nil {
		respondRideError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ridesList})
}

func parseRideID(c *gin.Context) (uint, bool) {
	rideID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ride ID format."})
		return 0, false
	}
	return uint(rideID), true
}

// respondRideError maps lifecycle errors onto HTTP statuses.
func respondRideError(c *gin.Context, err error) {
	switch {
	case rides.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, rides.ErrProfileNotFound),
		errors.Is(err, rides.ErrDriverProfileNotFound),
		errors.Is(err, rides.ErrRideNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, rides.ErrRideUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).Error("Unexpected ride operation error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
