package routes

import (
	"github.com/gin-gonic/gin"

	"localride/internal/realtime"
)

func WebSocketRoutes(r *gin.Engine, hub *realtime.Hub) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/feed", hub.HandleFeed)
	}
}
