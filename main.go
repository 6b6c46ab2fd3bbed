package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicbase/patients-be/internal/api"
	"github.com/clinicbase/patients-be/internal/auth"
	"github.com/clinicbase/patients-be/internal/config"
	"github.com/clinicbase/patients-be/internal/database"
	"github.com/clinicbase/patients-be/internal/logger"
	"github.com/clinicbase/patients-be/internal/models"
	"github.com/clinicbase/patients-be/internal/monitoring"
	"github.com/clinicbase/patients-be/internal/services"
	"github.com/clinicbase/patients-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init()

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up WebSocket Hub for the live audit feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	patientService := services.NewPatientService(db)
	eventService := services.NewEventService(db, hub)

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Provision the initial doctor account if configured
	if cfg.BootstrapUsername != "" && cfg.BootstrapPassword != "" {
		if err := userService.EnsureUser(cfg.BootstrapUsername, cfg.BootstrapPassword, models.RoleDoctor); err != nil {
			log.Fatalf("Failed to provision bootstrap account: %v", err)
		}
	}

	// Set up and run the background audit event pruner
	pruner := monitoring.NewEventPruner(eventService, cfg.EventRetentionDays, cfg.EventPruneSchedule)
	if err := pruner.Start(); err != nil {
		log.Fatalf("Failed to start event pruner: %v", err)
	}

	// Set up router
	router := api.NewRouter(hub, codec, userService, patientService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	pruner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
