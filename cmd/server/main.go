package main

import (
	"log"
	"net/http"

	"localride/internal/config"
	"localride/internal/controllers"
	"localride/internal/logger"
	"localride/internal/middleware"
	"localride/internal/notify"
	"localride/internal/realtime"
	"localride/internal/rides"
	"localride/internal/routes"
	"localride/internal/store"
)

func main() {
	// Load configuration from .env / environment
	cfg := config.Load()

	// Initialize structured logging to file
	logger.Setup(cfg.LogFile)

	// Connect to the database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	st := store.New(db)

	// Email is optional; without SMTP config sends become no-ops.
	var mailer notify.Mailer = notify.Noop{}
	if cfg.SMTPHost != "" {
		mailer, err = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		if err != nil {
			log.Fatalf("mailer init failed: %v", err)
		}
	}

	hub := realtime.NewHub()
	rideService := rides.NewService(st, mailer, hub)

	// Setup Gin router
	r := routes.SetupRouter(routes.Deps{
		Auth:          controllers.NewAuthController(db),
		Rides:         controllers.NewRideController(rideService),
		Driver:        controllers.NewDriverController(st, hub),
		Notifications: controllers.NewNotificationController(st),
		Locations:     controllers.NewLocationController(st),
		Hub:           hub,
	})

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Printf("🚀 Server running at %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, handler))
}
