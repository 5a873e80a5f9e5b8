package routes

import (
	"github.com/gin-gonic/gin"

	"localride/internal/controllers"
	"localride/internal/middleware"
)

func LocationRoutes(r *gin.Engine, lc *controllers.LocationController) {
	// Catalog reads are public; writes need a logged-in user.
	r.GET("/locations", lc.ListLocations)

	locations := r.Group("/locations")
	locations.Use(middleware.RequireAuth())
	{
		locations.POST("", lc.CreateLocation)
	}
}
