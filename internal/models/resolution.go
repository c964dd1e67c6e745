package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/birdahonk/fantasy-football-sub001/pkg/database"
)

// ResolutionRun records one full roster resolution cycle.
type ResolutionRun struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	Trigger        string         `gorm:"size:20" json:"trigger"` // scheduled, manual, api
	Providers      pq.StringArray `gorm:"type:text[]" json:"providers"`
	TotalPlayers   int            `json:"total_players"`
	MatchedCount   int            `json:"matched_count"`
	UnmatchedCount int            `json:"unmatched_count"`
	SyntheticCount int            `json:"synthetic_count"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    time.Time      `json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`

	Players []ResolvedPlayer `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"players,omitempty"`
}

// ResolvedPlayer is one (player, provider) outcome within a run.
type ResolvedPlayer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RunID        string         `gorm:"index;size:36" json:"run_id"`
	PlayerName   string         `gorm:"size:100;index" json:"player_name"`
	TeamAbbr     string         `gorm:"size:10" json:"team_abbr"`
	Position     string         `gorm:"size:10" json:"position"`
	Provider     string         `gorm:"size:20;index" json:"provider"`
	Status       string         `gorm:"size:20" json:"status"`
	StrategyName string         `gorm:"size:40" json:"strategy_name"`
	Confidence   int            `json:"confidence"`
	ProviderID   string         `gorm:"size:40" json:"provider_id"`
	Synthetic    bool           `json:"synthetic"`
	Enrichment   datatypes.JSON `json:"enrichment"`
	CreatedAt    time.Time      `json:"created_at"`
}

// GetRunWithPlayers fetches a run and its per-player rows.
func GetRunWithPlayers(db *database.DB, runID string) (*ResolutionRun, error) {
	var run ResolutionRun
	err := db.Preload("Players").Where("id = ?", runID).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func ListRuns(db *database.DB, limit int) ([]ResolutionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []ResolutionRun
	err := db.Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
