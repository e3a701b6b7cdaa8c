// Command sync pulls the latest dumpster reading from Soracom Harvest and
// writes it to the dumpster feature layer on ArcGIS. It is meant to be run
// periodically by an external scheduler.
package main

import (
	"context"
	"log"

	"GreenCampus.dumpsterSync/internal/config"
	"GreenCampus.dumpsterSync/internal/service"
	"github.com/spf13/pflag"
)

func main() {
	envFile := pflag.String("env-file", ".env", "file with environment variables to load")
	pflag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	syncService, cleanup := service.NewSyncServiceFromConfig(cfg)
	defer cleanup()

	// A failed run is reported on the console only; the exit status stays 0.
	result, err := syncService.Run(context.Background())
	if err != nil {
		log.Printf("❌ Sync failed: %v", err)
		return
	}
	log.Printf("Updated %s (objectId %d) at %d", result.DumpsterID, result.ObjectID, result.LastUpdated)
}
