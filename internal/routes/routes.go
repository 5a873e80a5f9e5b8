package routes

import (
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"localride/internal/controllers"
	"localride/internal/realtime"
)

// Deps bundles the wired controllers so each route file stays a
// one-liner per endpoint, the way the dashboard consumes them.
type Deps struct {
	Auth          *controllers.AuthController
	Rides         *controllers.RideController
	Driver        *controllers.DriverController
	Notifications *controllers.NotificationController
	Locations     *controllers.LocationController
	Hub           *realtime.Hub
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()

	// Recovery middleware
	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlogger.SetLogger())

	AuthRoutes(r, d.Auth)
	CustomerRoutes(r, d.Rides)
	DriverRoutes(r, d.Rides, d.Driver)
	NotificationRoutes(r, d.Notifications)
	LocationRoutes(r, d.Locations)
	WebSocketRoutes(r, d.Hub)

	return r
}
