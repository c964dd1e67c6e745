package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
	"github.com/birdahonk/fantasy-football-sub001/internal/services"
	"github.com/birdahonk/fantasy-football-sub001/pkg/utils"
)

type ResolutionHandler struct {
	newResolver services.ResolverFactory
	store       *services.ReportStore
	sync        *services.RosterSyncService
	breakers    *services.CircuitBreakerService
	logger      *logrus.Logger
}

func NewResolutionHandler(
	newResolver services.ResolverFactory,
	store *services.ReportStore,
	sync *services.RosterSyncService,
	breakers *services.CircuitBreakerService,
	logger *logrus.Logger,
) *ResolutionHandler {
	return &ResolutionHandler{
		newResolver: newResolver,
		store:       store,
		sync:        sync,
		breakers:    breakers,
		logger:      logger,
	}
}

type resolveRequest struct {
	Players   []resolver.PlayerQuery `json:"players" binding:"required,min=1"`
	Providers []string               `json:"providers"`
}

// ResolvePlayers resolves an ad-hoc list of player references against the
// requested providers and returns the composite profiles. Each request is
// its own resolver session. Nothing is persisted; use the sync endpoint for
// recorded runs.
func (h *ResolutionHandler) ResolvePlayers(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid resolve request", err.Error())
		return
	}

	providers := resolver.AllProviders
	if len(req.Providers) > 0 {
		providers = providers[:0:0]
		for _, raw := range req.Providers {
			provider, err := resolver.ParseProvider(raw)
			if err != nil {
				utils.SendValidationError(c, "Unknown provider", err.Error())
				return
			}
			providers = append(providers, provider)
		}
	}

	profiles := h.newResolver().ResolveRoster(c.Request.Context(), req.Players, providers)
	utils.SendSuccess(c, profiles)
}

// SyncRoster triggers a full roster resolution cycle and persists the run.
func (h *ResolutionHandler) SyncRoster(c *gin.Context) {
	runID, err := h.sync.SyncNow(c.Request.Context(), "api")
	if err != nil {
		h.logger.Errorf("On-demand roster sync failed: %v", err)
		utils.SendInternalError(c, "Roster sync failed")
		return
	}
	utils.SendSuccess(c, gin.H{"run_id": runID})
}

// GetSyncStatus reports the scheduler state.
func (h *ResolutionHandler) GetSyncStatus(c *gin.Context) {
	utils.SendSuccess(c, h.sync.GetStatus())
}

// ListRuns returns recent resolution runs, newest first.
func (h *ResolutionHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.store.ListRuns(limit)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch resolution runs")
		return
	}
	utils.SendSuccess(c, runs)
}

// GetRun returns one run with its per-player outcomes.
func (h *ResolutionHandler) GetRun(c *gin.Context) {
	run, err := h.store.GetRun(c.Param("id"))
	if err != nil {
		utils.SendNotFound(c, "Resolution run not found")
		return
	}
	utils.SendSuccess(c, run)
}

// GetUnmatched lists the players that failed to resolve in a run.
func (h *ResolutionHandler) GetUnmatched(c *gin.Context) {
	rows, err := h.store.UnmatchedPlayers(c.Param("id"))
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch unmatched players")
		return
	}
	utils.SendSuccess(c, rows)
}

// GetProviderStatus reports directory and circuit state for one provider,
// read from the most recent sync cycle's session.
func (h *ResolutionHandler) GetProviderStatus(c *gin.Context) {
	provider, err := resolver.ParseProvider(c.Param("tag"))
	if err != nil {
		utils.SendValidationError(c, "Unknown provider", err.Error())
		return
	}

	status := gin.H{
		"provider":       provider,
		"directory_size": -1,
		"circuit_state":  h.breakers.GetState(string(provider)).String(),
	}
	if res := h.sync.CurrentResolver(); res != nil {
		directories := res.Directories()
		status["directory_size"] = directories.Size(provider)
		if unknown := res.Normalizer().UnknownAbbrs(provider); len(unknown) > 0 {
			status["unknown_team_abbrs"] = unknown
		}
		if fetchErr := directories.FetchError(provider); fetchErr != nil {
			status["fetch_error"] = fetchErr.Error()
		}
	}
	utils.SendSuccess(c, status)
}
