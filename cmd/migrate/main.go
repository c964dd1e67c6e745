package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/birdahonk/fantasy-football-sub001/internal/models"
	"github.com/birdahonk/fantasy-football-sub001/pkg/config"
	"github.com/birdahonk/fantasy-football-sub001/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db, cfg.DatabaseDriver); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB, driver string) error {
	if driver != "sqlite" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
			return fmt.Errorf("failed to create UUID extension: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&models.ResolutionRun{},
		&models.ResolvedPlayer{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_resolved_players_run_provider ON resolved_players(run_id, provider)",
		"CREATE INDEX IF NOT EXISTS idx_resolved_players_status ON resolved_players(status)",
		"CREATE INDEX IF NOT EXISTS idx_resolution_runs_started_at ON resolution_runs(started_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Children first to respect foreign keys
	tables := []string{
		"resolved_players",
		"resolution_runs",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB) error {
	now := time.Now().UTC()
	run := &models.ResolutionRun{
		ID:             uuid.NewString(),
		Trigger:        "manual",
		Providers:      pq.StringArray{"yahoo", "sleeper", "tank01"},
		TotalPlayers:   3,
		MatchedCount:   4,
		UnmatchedCount: 1,
		SyntheticCount: 1,
		StartedAt:      now.Add(-time.Minute),
		CompletedAt:    now,
		Players: []models.ResolvedPlayer{
			{PlayerName: "Justin Jefferson", TeamAbbr: "MIN", Position: "WR", Provider: "sleeper", Status: "matched", StrategyName: "exact_name", Confidence: 90, ProviderID: "6794"},
			{PlayerName: "Justin Jefferson", TeamAbbr: "MIN", Position: "WR", Provider: "tank01", Status: "matched", StrategyName: "xref_id", Confidence: 100, ProviderID: "4362249"},
			{PlayerName: "Mike Evans", TeamAbbr: "TB", Position: "WR", Provider: "sleeper", Status: "matched", StrategyName: "nickname_exact", Confidence: 70, ProviderID: "1689"},
			{PlayerName: "Mike Evans", TeamAbbr: "TB", Position: "WR", Provider: "tank01", Status: "unmatched"},
			{PlayerName: "Washington", TeamAbbr: "WSH", Position: "DEF", Provider: "tank01", Status: "matched", StrategyName: "team_defense_synthesis", Confidence: 50, ProviderID: "DEF_32", Synthetic: true},
		},
	}

	if err := db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to seed resolution run: %w", err)
	}

	logrus.Infof("Seeded resolution run %s with %d player rows", run.ID, len(run.Players))
	return nil
}
