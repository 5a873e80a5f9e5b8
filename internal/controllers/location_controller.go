package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"localride/internal/models"
	"localride/internal/store"
)

// LocationController serves the public pickup/dropoff catalog.
type LocationController struct {
	Store *store.Store
}

func NewLocationController(st *store.Store) *LocationController {
	return &LocationController{Store: st}
}

// ListLocations is public: the catalog is readable by anyone.
func (lc *LocationController) ListLocations(c *gin.Context) {
	locations, err := lc.Store.ListLocations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch locations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": locations})
}

// CreateLocation adds a saved place. Any authenticated user may add one.
func (lc *LocationController) CreateLocation(c *gin.Context) {
	var input models.Location
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := lc.Store.CreateLocation(&input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create location: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"location": input})
}
