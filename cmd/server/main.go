package main

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/andreazevedo1975/OldKut-sub000/internal/metrics"
	"github.com/andreazevedo1975/OldKut-sub000/internal/router"
	"github.com/andreazevedo1975/OldKut-sub000/internal/validators"
	"github.com/andreazevedo1975/OldKut-sub000/pkg/config"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg := config.Load()

	// Initialize backing-store connections
	conns, err := config.InitConns(log)
	if err != nil {
		log.Fatalf("Failed to initialize connections: %v", err)
	}
	defer conns.Close()

	// Metrics
	m := metrics.InitMetrics()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e, m)

	// Setup routes and dependencies
	notifier, err := router.SetupRoutes(e, conns.Postgres, conns.Mongo, conns.Redis, conns.Nats, cfg.JWTSecret, m, log)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}
	defer notifier.Stop()

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
