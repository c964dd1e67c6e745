package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/birdahonk/fantasy-football-sub001/internal/api"
	"github.com/birdahonk/fantasy-football-sub001/internal/api/middleware"
	"github.com/birdahonk/fantasy-football-sub001/internal/providers"
	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
	"github.com/birdahonk/fantasy-football-sub001/internal/services"
	"github.com/birdahonk/fantasy-football-sub001/pkg/config"
	"github.com/birdahonk/fantasy-football-sub001/pkg/database"
	"github.com/birdahonk/fantasy-football-sub001/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger("", cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis. The redis cache is an optimization only; the engine
	// runs (refetching directories each session) without it.
	var cacheService *services.CacheService
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warnf("Redis unavailable, directory caching disabled: %v", err)
	} else {
		cacheService = services.NewCacheService(redisClient)
		defer redisClient.Close()
	}

	// Circuit breakers wrap every outbound provider call
	breakers := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, 60*time.Second, log)

	// Provider clients
	var clientCache providers.Cache
	if cacheService != nil {
		clientCache = cacheService
	}
	yahooClient := providers.NewYahooClient(nil, cfg.YahooLeagueKey, cfg.YahooTeamKey, clientCache, log)
	sleeperClient := providers.NewSleeperClient(clientCache, log)
	tank01Client := providers.NewTank01Client(cfg.RapidAPIKey, cfg.Tank01RateLimit, cfg.Tank01BurstLimit, clientCache, log)

	registry := providers.NewRegistry(breakers, log, yahooClient, sleeperClient, tank01Client)
	registry.SetFetchTimeout(cfg.DirectoryFetchTimeout)

	// Resolution engine. Sessions are short-lived: every sync cycle and every
	// ad-hoc resolve request builds a fresh resolver.
	newResolver := func() *resolver.Resolver {
		return resolver.New(resolver.Options{
			Fetcher:       registry,
			Searcher:      registry,
			LookupTimeout: cfg.RemoteLookupTimeout,
			Logger:        log,
		})
	}

	// Persistence + scheduled sync
	reportStore := services.NewReportStore(db, log)
	syncInterval, err := time.ParseDuration(cfg.RosterSyncInterval)
	if err != nil {
		log.Warnf("Invalid sync interval, using default 4h: %v", err)
		syncInterval = 4 * time.Hour
	}
	rosterSync := services.NewRosterSyncService(yahooClient, newResolver, reportStore, cacheService, log, syncInterval)
	if cfg.EnableBackgroundJobs {
		if err := rosterSync.Start(cfg.SkipInitialSync); err != nil {
			log.Errorf("Failed to start roster sync: %v", err)
		}
		defer rosterSync.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorLogger(log))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, newResolver, reportStore, rosterSync, breakers, log)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
