package routes

import (
	"github.com/gin-gonic/gin"

	"localride/internal/controllers"
	"localride/internal/middleware"
)

func CustomerRoutes(r *gin.Engine, rc *controllers.RideController) {
	customer := r.Group("/customer")
	customer.Use(middleware.RequireAuthWithRole("customer"))
	{
		customer.POST("/rides", rc.CreateRide)
		customer.GET("/rides", rc.ListCustomerRides)
		customer.GET("/rides/:id", rc.GetRide)
		customer.POST("/rides/:id/cancel", rc.CancelRide)
	}
}
