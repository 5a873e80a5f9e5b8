package routes

import (
	"github.com/gin-gonic/gin"

	"localride/internal/controllers"
	"localride/internal/middleware"
)

func NotificationRoutes(r *gin.Engine, nc *controllers.NotificationController) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.RequireAuth())
	{
		notifications.GET("", nc.ListMyNotifications)
		notifications.POST("/:id/read", nc.MarkRead)
	}
}
