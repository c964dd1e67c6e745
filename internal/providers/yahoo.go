package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
)

const (
	yahooBaseURL      = "https://fantasysports.yahooapis.com/fantasy/v2"
	yahooPageSize     = 25
	yahooMaxPages     = 60
	yahooDirectoryTTL = 6 * time.Hour
)

// YahooClient adapts the Yahoo Fantasy API. Yahoo is the source-of-truth
// roster; OAuth session management lives outside this package. Callers
// inject an http.Client whose transport already attaches credentials.
type YahooClient struct {
	httpClient *http.Client
	baseURL    string
	leagueKey  string
	teamKey    string
	cache      Cache
	logger     *logrus.Logger
}

func NewYahooClient(sessionClient *http.Client, leagueKey, teamKey string, cache Cache, logger *logrus.Logger) *YahooClient {
	if sessionClient == nil {
		sessionClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &YahooClient{
		httpClient: sessionClient,
		baseURL:    yahooBaseURL,
		leagueKey:  leagueKey,
		teamKey:    teamKey,
		cache:      cache,
		logger:     logger,
	}
}

func (c *YahooClient) Provider() resolver.Provider { return resolver.ProviderYahoo }

// FetchTeamRoster retrieves the managed team's current roster as queries for
// the resolution engine. Each query carries the Yahoo player id as its
// cross-reference SourceID.
func (c *YahooClient) FetchTeamRoster(ctx context.Context) ([]resolver.PlayerQuery, error) {
	rosterURL := fmt.Sprintf("%s/team/%s/roster?format=json", c.baseURL, c.teamKey)
	players, err := c.fetchPlayers(ctx, rosterURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch yahoo roster: %w", err)
	}

	queries := make([]resolver.PlayerQuery, 0, len(players))
	for _, record := range players {
		queries = append(queries, resolver.PlayerQuery{
			DisplayName: record.FullName,
			TeamAbbr:    record.TeamAbbr,
			Position:    record.Position,
			SourceID:    record.ProviderID,
			Source:      resolver.ProviderYahoo,
		})
	}
	return queries, nil
}

// FetchDirectory pages through the league's player directory.
func (c *YahooClient) FetchDirectory(ctx context.Context) ([]resolver.ProviderRecord, error) {
	cacheKey := fmt.Sprintf("yahoo:players:%s", c.leagueKey)
	if c.cache != nil {
		var cached []resolver.ProviderRecord
		if err := c.cache.GetSimple(cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	var records []resolver.ProviderRecord
	for page := 0; page < yahooMaxPages; page++ {
		pageURL := fmt.Sprintf("%s/league/%s/players;start=%d;count=%d?format=json",
			c.baseURL, c.leagueKey, page*yahooPageSize, yahooPageSize)
		players, err := c.fetchPlayers(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch yahoo player page %d: %w", page, err)
		}
		records = append(records, players...)
		if len(players) < yahooPageSize {
			break
		}
	}

	if c.cache != nil && len(records) > 0 {
		if err := c.cache.SetSimple(cacheKey, records, yahooDirectoryTTL); err != nil {
			c.logger.Warnf("Failed to cache yahoo directory: %v", err)
		}
	}
	return records, nil
}

// SearchByName uses the league players collection's search filter.
func (c *YahooClient) SearchByName(ctx context.Context, name string) ([]resolver.ProviderRecord, error) {
	searchURL := fmt.Sprintf("%s/league/%s/players;search=%s?format=json",
		c.baseURL, c.leagueKey, url.QueryEscape(name))
	players, err := c.fetchPlayers(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to search yahoo players: %w", err)
	}
	return players, nil
}

func (c *YahooClient) fetchPlayers(ctx context.Context, requestURL string) ([]resolver.ProviderRecord, error) {
	var raw map[string]interface{}
	if err := makeRequest(ctx, c.httpClient, requestURL, nil, &raw, c.logger); err != nil {
		return nil, err
	}
	return parseYahooPlayers(raw), nil
}
