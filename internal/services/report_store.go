package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/birdahonk/fantasy-football-sub001/internal/models"
	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
	"github.com/birdahonk/fantasy-football-sub001/pkg/database"
)

// ReportStore persists resolution runs. The resolution core never touches
// it; the store consumes finished CompositeProfiles at the service boundary.
type ReportStore struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewReportStore(db *database.DB, logger *logrus.Logger) *ReportStore {
	return &ReportStore{db: db, logger: logger}
}

// SaveRun writes one resolution cycle and its per-player outcomes.
func (s *ReportStore) SaveRun(trigger string, providers []resolver.Provider, profiles []resolver.CompositeProfile, startedAt time.Time) (*models.ResolutionRun, error) {
	providerNames := make(pq.StringArray, 0, len(providers))
	for _, provider := range providers {
		providerNames = append(providerNames, string(provider))
	}

	run := &models.ResolutionRun{
		ID:           uuid.NewString(),
		Trigger:      trigger,
		Providers:    providerNames,
		TotalPlayers: len(profiles),
		StartedAt:    startedAt,
		CompletedAt:  time.Now().UTC(),
	}

	for _, profile := range profiles {
		for _, provider := range providers {
			result, ok := profile.Results[provider]
			if !ok {
				continue
			}
			row := models.ResolvedPlayer{
				PlayerName: profile.Query.DisplayName,
				TeamAbbr:   profile.Query.TeamAbbr,
				Position:   profile.Query.Position,
				Provider:   string(provider),
				Status:     string(result.Status),
			}
			if result.Matched() {
				run.MatchedCount++
				row.StrategyName = result.Strategy
				row.Confidence = result.Confidence
				row.ProviderID = result.Record.ProviderID
				row.Synthetic = result.Record.Synthetic
				if result.Record.Synthetic {
					run.SyntheticCount++
				}
				row.Enrichment = marshalEnrichment(profile, provider)
			} else {
				run.UnmatchedCount++
			}
			run.Players = append(run.Players, row)
		}
	}

	if err := s.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to save resolution run: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":    run.ID,
		"players":   run.TotalPlayers,
		"matched":   run.MatchedCount,
		"unmatched": run.UnmatchedCount,
	}).Info("Resolution run persisted")

	return run, nil
}

// GetRun fetches one run with its players.
func (s *ReportStore) GetRun(runID string) (*models.ResolutionRun, error) {
	return models.GetRunWithPlayers(s.db, runID)
}

// ListRuns returns recent runs without player rows.
func (s *ReportStore) ListRuns(limit int) ([]models.ResolutionRun, error) {
	return models.ListRuns(s.db, limit)
}

// UnmatchedPlayers lists the names that failed to resolve in a run, one row
// per (player, provider) miss.
func (s *ReportStore) UnmatchedPlayers(runID string) ([]models.ResolvedPlayer, error) {
	var rows []models.ResolvedPlayer
	err := s.db.Where("run_id = ? AND status = ?", runID, string(resolver.StatusUnmatched)).
		Order("player_name").Find(&rows).Error
	return rows, err
}

// CleanupOldRuns deletes runs older than the retention window.
func (s *ReportStore) CleanupOldRuns(retention time.Duration) error {
	cutoff := time.Now().UTC().Add(-retention)
	result := s.db.Where("started_at < ?", cutoff).Delete(&models.ResolutionRun{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup old runs: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Infof("Cleaned up %d old resolution runs", result.RowsAffected)
	}
	return nil
}

type enrichmentPayload struct {
	InjuryStatus    string  `json:"injury_status,omitempty"`
	ProjectedPoints float64 `json:"projected_points,omitempty"`
	DepthChartRank  string  `json:"depth_chart_rank,omitempty"`
	Trending        string  `json:"trending,omitempty"`
	ByeWeek         string  `json:"bye_week,omitempty"`
}

func marshalEnrichment(profile resolver.CompositeProfile, provider resolver.Provider) datatypes.JSON {
	payload := enrichmentPayload{}
	for _, v := range profile.InjuryStatuses {
		if v.Provider == provider {
			payload.InjuryStatus = v.Value
		}
	}
	for _, v := range profile.ProjectedPoints {
		if v.Provider == provider {
			payload.ProjectedPoints = v.Value
		}
	}
	for _, v := range profile.DepthChartRanks {
		if v.Provider == provider {
			payload.DepthChartRank = v.Value
		}
	}
	for _, v := range profile.TrendingSignals {
		if v.Provider == provider {
			payload.Trending = v.Value
		}
	}
	for _, v := range profile.ByeWeeks {
		if v.Provider == provider {
			payload.ByeWeek = v.Value
		}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
