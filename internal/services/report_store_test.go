package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/birdahonk/fantasy-football-sub001/internal/models"
	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
	"github.com/birdahonk/fantasy-football-sub001/pkg/database"
)

func setupTestStore(t *testing.T) *ReportStore {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	db := &database.DB{DB: gormDB}
	require.NoError(t, db.AutoMigrate(&models.ResolutionRun{}, &models.ResolvedPlayer{}))

	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)

	return NewReportStore(db, log)
}

func sampleProfiles() []resolver.CompositeProfile {
	evans := resolver.CompositeProfile{
		CanonicalName: "Mike Evans",
		Query:         resolver.PlayerQuery{DisplayName: "Mike Evans", TeamAbbr: "TB", Position: "WR"},
		Results: map[resolver.Provider]resolver.MatchResult{
			resolver.ProviderSleeper: {
				Status:     resolver.StatusMatched,
				Record:     &resolver.ProviderRecord{ProviderID: "3214", FullName: "Mike Evans", TeamAbbr: "TB", Position: "WR"},
				Confidence: resolver.ConfidenceExactName,
				Strategy:   "exact_name",
			},
			resolver.ProviderTank01: {Status: resolver.StatusUnmatched},
		},
		InjuryStatuses: []resolver.ProvenancedValue{
			{Provider: resolver.ProviderSleeper, Value: "Questionable"},
		},
	}
	defense := resolver.CompositeProfile{
		CanonicalName: "Washington Defense",
		Query:         resolver.PlayerQuery{DisplayName: "Washington", TeamAbbr: "WSH", Position: "DEF"},
		Results: map[resolver.Provider]resolver.MatchResult{
			resolver.ProviderTank01: {
				Status:     resolver.StatusMatched,
				Record:     &resolver.ProviderRecord{ProviderID: "DEF_32", FullName: "Washington Defense", TeamAbbr: "WSH", Position: "DEF", Synthetic: true},
				Confidence: resolver.ConfidenceSynthetic,
				Strategy:   "team_defense_synthesis",
			},
		},
	}
	return []resolver.CompositeProfile{evans, defense}
}

func TestSaveRunCountsOutcomes(t *testing.T) {
	store := setupTestStore(t)
	providers := []resolver.Provider{resolver.ProviderSleeper, resolver.ProviderTank01}

	run, err := store.SaveRun("manual", providers, sampleProfiles(), time.Now().UTC())
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "manual", run.Trigger)
	assert.Equal(t, 2, run.TotalPlayers)
	assert.Equal(t, 2, run.MatchedCount)
	assert.Equal(t, 1, run.UnmatchedCount)
	assert.Equal(t, 1, run.SyntheticCount)
	assert.Len(t, run.Players, 3)
}

func TestGetRunRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	providers := []resolver.Provider{resolver.ProviderSleeper, resolver.ProviderTank01}

	saved, err := store.SaveRun("api", providers, sampleProfiles(), time.Now().UTC())
	require.NoError(t, err)

	loaded, err := store.GetRun(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.Len(t, loaded.Players, 3)

	var evansRow *models.ResolvedPlayer
	for i := range loaded.Players {
		if loaded.Players[i].PlayerName == "Mike Evans" && loaded.Players[i].Provider == "sleeper" {
			evansRow = &loaded.Players[i]
		}
	}
	require.NotNil(t, evansRow)
	assert.Equal(t, "matched", evansRow.Status)
	assert.Equal(t, "3214", evansRow.ProviderID)
	assert.Equal(t, resolver.ConfidenceExactName, evansRow.Confidence)
	assert.Contains(t, string(evansRow.Enrichment), "Questionable")
}

func TestUnmatchedPlayers(t *testing.T) {
	store := setupTestStore(t)
	providers := []resolver.Provider{resolver.ProviderSleeper, resolver.ProviderTank01}

	run, err := store.SaveRun("scheduled", providers, sampleProfiles(), time.Now().UTC())
	require.NoError(t, err)

	rows, err := store.UnmatchedPlayers(run.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Mike Evans", rows[0].PlayerName)
	assert.Equal(t, "tank01", rows[0].Provider)
}

func TestListRunsOrdering(t *testing.T) {
	store := setupTestStore(t)
	providers := []resolver.Provider{resolver.ProviderSleeper}

	first, err := store.SaveRun("manual", providers, nil, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	second, err := store.SaveRun("manual", providers, nil, time.Now().UTC())
	require.NoError(t, err)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)
}

func TestCleanupOldRuns(t *testing.T) {
	store := setupTestStore(t)
	providers := []resolver.Provider{resolver.ProviderSleeper}

	old, err := store.SaveRun("scheduled", providers, nil, time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, err)
	recent, err := store.SaveRun("scheduled", providers, nil, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, store.CleanupOldRuns(24*time.Hour))

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, recent.ID, runs[0].ID)
	assert.NotEqual(t, old.ID, runs[0].ID)
}
