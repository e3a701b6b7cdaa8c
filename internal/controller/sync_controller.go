package controller

import (
	"context"
	"log"
	"net/http"

	"GreenCampus.dumpsterSync/internal/models"
	"GreenCampus.dumpsterSync/internal/utils"
)

// Syncer runs one sync.
type Syncer interface {
	Run(ctx context.Context) (models.SyncResult, error)
}

// SyncController handles HTTP requests that trigger a sync.
type SyncController struct {
	syncer Syncer
}

// NewSyncController creates a new SyncController.
func NewSyncController(syncer Syncer) *SyncController {
	return &SyncController{
		syncer: syncer,
	}
}

// HandleSync runs a sync and answers with its result.
func (c *SyncController) HandleSync(w http.ResponseWriter, r *http.Request) {
	log.Printf("Sync triggered by %s", r.RemoteAddr)

	result, err := c.syncer.Run(r.Context())
	if err != nil {
		utils.RespondWithError(w, models.ToAPIError(err))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// HandleHealth reports that the process is up.
func (c *SyncController) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
