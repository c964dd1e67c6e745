package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/birdahonk/fantasy-football-sub001/internal/api/handlers"
	"github.com/birdahonk/fantasy-football-sub001/internal/services"
	"github.com/birdahonk/fantasy-football-sub001/pkg/database"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(
	group *gin.RouterGroup,
	db *database.DB,
	newResolver services.ResolverFactory,
	store *services.ReportStore,
	rosterSync *services.RosterSyncService,
	breakers *services.CircuitBreakerService,
	logger *logrus.Logger,
) {
	resolutionHandler := handlers.NewResolutionHandler(newResolver, store, rosterSync, breakers, logger)
	healthHandler := handlers.NewHealthHandler(db)

	// Resolution endpoints
	group.POST("/resolve", resolutionHandler.ResolvePlayers)
	group.POST("/sync", resolutionHandler.SyncRoster)
	group.GET("/sync/status", resolutionHandler.GetSyncStatus)

	// Run history endpoints
	group.GET("/resolutions", resolutionHandler.ListRuns)
	group.GET("/resolutions/:id", resolutionHandler.GetRun)
	group.GET("/resolutions/:id/unmatched", resolutionHandler.GetUnmatched)

	// Provider status
	group.GET("/providers/:tag/status", resolutionHandler.GetProviderStatus)

	// Readiness probe (liveness lives at root level in main)
	group.GET("/ready", healthHandler.GetReady)
}
