package main

import (
	"fmt"
	"log"
	"net/http"

	"GreenCampus.dumpsterSync/internal/config"
	"GreenCampus.dumpsterSync/internal/controller"
	"GreenCampus.dumpsterSync/internal/routes"
	"GreenCampus.dumpsterSync/internal/service"
	"github.com/spf13/pflag"
)

func main() {
	envFile := pflag.String("env-file", ".env", "file with environment variables to load")
	port := pflag.String("port", "", "port to listen on (overrides PORT)")
	pflag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if *port != "" {
		cfg.Port = *port
	}

	// Initialize service and controller
	syncService, cleanup := service.NewSyncServiceFromConfig(cfg)
	defer cleanup()
	syncController := controller.NewSyncController(syncService)

	router := routes.SetupRouter(syncController, cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		log.Println("SYNC_JWT_SECRET is not set, /sync accepts unauthenticated requests")
	}

	serverAddress := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Server is running at: http://localhost%s", serverAddress)
	if err := http.ListenAndServe(serverAddress, router); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
