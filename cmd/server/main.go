package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gdg-garage/wedding-rsvp-api/internal/auth"
	"github.com/gdg-garage/wedding-rsvp-api/internal/config"
	"github.com/gdg-garage/wedding-rsvp-api/internal/database"
	"github.com/gdg-garage/wedding-rsvp-api/internal/handlers"
	"github.com/gdg-garage/wedding-rsvp-api/internal/logger"
	"github.com/gdg-garage/wedding-rsvp-api/internal/metrics"
	"github.com/gdg-garage/wedding-rsvp-api/internal/rsvp"
	"github.com/gdg-garage/wedding-rsvp-api/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
	}

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, host routes will reject every request")
	}

	// Initialize Services
	ledger := rsvp.NewLedger()
	resolver := rsvp.NewResolver(db, ledger)
	coordinator := rsvp.NewCoordinator(db, ledger)
	aggregator := rsvp.NewAggregator(db)
	setup := store.New(db)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg)
	rsvpHandler := handlers.NewRSVPHandler(resolver, coordinator, setup, m)
	hostHandler := handlers.NewHostHandler(authHandler, setup, aggregator)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, authHandler, rsvpHandler, hostHandler, m)

	// Start Server
	log.Info("starting server", zap.String("port", cfg.Port), zap.String("driver", cfg.DatabaseDriver))
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
