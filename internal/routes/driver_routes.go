package routes

import (
	"github.com/gin-gonic/gin"

	"localride/internal/controllers"
	"localride/internal/middleware"
)

func DriverRoutes(r *gin.Engine, rc *controllers.RideController, dc *controllers.DriverController) {
	driver := r.Group("/driver")
	driver.Use(middleware.RequireAuthWithRole("driver"))
	{
		driver.PUT("/profile", dc.UpsertProfile)
		driver.GET("/profile", dc.GetMyProfile)
		driver.PATCH("/availability", dc.SetAvailability)
		driver.PATCH("/location", dc.UpdateLocation)

		driver.GET("/rides/available", rc.ListAvailableRides)
		driver.GET("/rides", rc.ListDriverRides)
		driver.POST("/rides/:id/accept", rc.AcceptRide)
		driver.POST("/rides/:id/start", rc.StartRide)
		driver.POST("/rides/:id/complete", rc.CompleteRide)
		driver.POST("/rides/:id/cancel", rc.CancelRide)
	}
}
