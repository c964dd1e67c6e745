package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
)

// RosterSource provides the roster whose players get resolved each cycle.
// The Yahoo client satisfies it; tests inject a stub.
type RosterSource interface {
	FetchTeamRoster(ctx context.Context) ([]resolver.PlayerQuery, error)
}

// ResolverFactory builds a fresh session-scoped Resolver. Each resolution
// cycle gets its own so memoized results and directory snapshots never
// outlive the cycle.
type ResolverFactory func() *resolver.Resolver

// RosterSyncService runs scheduled resolution cycles: pull the roster,
// resolve every player across all providers, persist the run. Every cycle
// opens a new resolver session; roster moves and injury updates between
// cycles are always observed.
type RosterSyncService struct {
	roster       RosterSource
	newResolver  ResolverFactory
	store        *ReportStore
	cache        *CacheService
	logger       *logrus.Logger
	cron         *cron.Cron
	mu           sync.Mutex
	isRunning    bool
	current      *resolver.Resolver
	syncInterval time.Duration
	lastSyncAt   time.Time
	lastRunID    string
	lastError    string
}

// NewRosterSyncService creates a new roster sync service
func NewRosterSyncService(
	roster RosterSource,
	newResolver ResolverFactory,
	store *ReportStore,
	cache *CacheService,
	logger *logrus.Logger,
	syncInterval time.Duration,
) *RosterSyncService {
	return &RosterSyncService{
		roster:       roster,
		newResolver:  newResolver,
		store:        store,
		cache:        cache,
		logger:       logger,
		cron:         cron.New(),
		syncInterval: syncInterval,
	}
}

// Start begins the scheduled roster resolution. When skipInitial is false the
// first cycle runs immediately in the background.
func (s *RosterSyncService) Start(skipInitial bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("roster sync is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.syncInterval.String())
	_, err := s.cron.AddFunc(schedule, s.runScheduledSync)
	if err != nil {
		return fmt.Errorf("failed to schedule roster sync: %w", err)
	}

	// Daily cleanup of stale runs
	_, err = s.cron.AddFunc("0 3 * * *", s.cleanupOldRuns)
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	if !skipInitial {
		go s.runScheduledSync()
	}

	s.logger.Info("Roster sync service started")
	return nil
}

// Stop halts the scheduled resolution and waits for in-flight jobs.
func (s *RosterSyncService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Roster sync service stopped")
}

// SyncNow runs one resolution cycle on demand and returns the run id.
func (s *RosterSyncService) SyncNow(ctx context.Context, trigger string) (string, error) {
	startedAt := time.Now().UTC()

	queries, err := s.roster.FetchTeamRoster(ctx)
	if err != nil {
		s.recordError(err)
		return "", fmt.Errorf("failed to fetch roster: %w", err)
	}

	s.logger.Infof("Resolving %d roster players across %d providers", len(queries), len(resolver.AllProviders))

	res := s.newResolver()
	s.mu.Lock()
	s.current = res
	s.mu.Unlock()

	profiles := res.ResolveRoster(ctx, queries, resolver.AllProviders)

	run, err := s.store.SaveRun(trigger, resolver.AllProviders, profiles, startedAt)
	if err != nil {
		s.recordError(err)
		return "", err
	}

	if s.cache != nil {
		s.cache.SetSimple(RosterCacheKey("latest"), profiles, 30*time.Minute)
	}

	s.mu.Lock()
	s.lastSyncAt = time.Now().UTC()
	s.lastRunID = run.ID
	s.lastError = ""
	s.mu.Unlock()

	return run.ID, nil
}

// SyncStatus is a snapshot of the service state for the API.
type SyncStatus struct {
	Running    bool      `json:"running"`
	Interval   string    `json:"interval"`
	LastSyncAt time.Time `json:"last_sync_at,omitempty"`
	LastRunID  string    `json:"last_run_id,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
}

// CurrentResolver returns the session used by the most recent sync cycle, or
// nil before the first one. Status endpoints read its directory state.
func (s *RosterSyncService) CurrentResolver() *resolver.Resolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// GetStatus returns the current service state.
func (s *RosterSyncService) GetStatus() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SyncStatus{
		Running:    s.isRunning,
		Interval:   s.syncInterval.String(),
		LastSyncAt: s.lastSyncAt,
		LastRunID:  s.lastRunID,
		LastError:  s.lastError,
	}
}

func (s *RosterSyncService) runScheduledSync() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.SyncNow(ctx, "scheduled"); err != nil {
		s.logger.Errorf("Scheduled roster sync failed: %v", err)
	}
}

func (s *RosterSyncService) cleanupOldRuns() {
	if err := s.store.CleanupOldRuns(30 * 24 * time.Hour); err != nil {
		s.logger.Errorf("Run cleanup failed: %v", err)
	}
}

func (s *RosterSyncService) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}
