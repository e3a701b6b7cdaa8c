package routes

import (
	"net/http"

	"GreenCampus.dumpsterSync/internal/controller"
	"GreenCampus.dumpsterSync/internal/middleware"
	"github.com/gorilla/mux"
)

// SetupRouter registers all application routes.
func SetupRouter(c *controller.SyncController, jwtSecret string) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", c.HandleHealth).Methods(http.MethodGet)
	router.Handle("/sync", middleware.RequireJWT(jwtSecret)(http.HandlerFunc(c.HandleSync))).Methods(http.MethodPost)

	return router
}
