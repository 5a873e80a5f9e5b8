package routes

import (
	"github.com/gin-gonic/gin"

	"localride/internal/controllers"
)

func AuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", ac.SignupUser)
		auth.POST("/login", ac.LoginUser)
	}
}
