package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
)

const (
	sleeperBaseURL          = "https://api.sleeper.app/v1"
	sleeperDirectoryTTL     = 6 * time.Hour
	sleeperTrendingLookback = 24 // hours
	sleeperTrendingLimit    = 50
)

// SleeperClient adapts the Sleeper public API into ProviderRecords. Sleeper's
// bulk player map carries cross-reference ids to Yahoo and ESPN, which is
// what makes the xref strategy work for it.
type SleeperClient struct {
	httpClient *http.Client
	baseURL    string
	cache      Cache
	logger     *logrus.Logger
}

func NewSleeperClient(cache Cache, logger *logrus.Logger) *SleeperClient {
	return &SleeperClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    sleeperBaseURL,
		cache:      cache,
		logger:     logger,
	}
}

func (c *SleeperClient) Provider() resolver.Provider { return resolver.ProviderSleeper }

type sleeperPlayer struct {
	PlayerID        string          `json:"player_id"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	FullName        string          `json:"full_name"`
	Team            string          `json:"team"`
	Position        string          `json:"position"`
	InjuryStatus    string          `json:"injury_status"`
	DepthChartOrder *int            `json:"depth_chart_order"`
	Active          bool            `json:"active"`
	YahooID         json.RawMessage `json:"yahoo_id"`
	EspnID          json.RawMessage `json:"espn_id"`
	GsisID          string          `json:"gsis_id"`
	ByeWeek         *int            `json:"bye_week"`
}

type sleeperTrendingEntry struct {
	PlayerID string `json:"player_id"`
	Count    int    `json:"count"`
}

// FetchDirectory retrieves the full NFL player map plus the trending-add
// list, flattening both into ProviderRecords.
func (c *SleeperClient) FetchDirectory(ctx context.Context) ([]resolver.ProviderRecord, error) {
	cacheKey := "sleeper:players:nfl"
	if c.cache != nil {
		var cached []resolver.ProviderRecord
		if err := c.cache.GetSimple(cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	var playerMap map[string]sleeperPlayer
	url := fmt.Sprintf("%s/players/nfl", c.baseURL)
	if err := makeRequest(ctx, c.httpClient, url, nil, &playerMap, c.logger); err != nil {
		return nil, fmt.Errorf("failed to fetch sleeper player map: %w", err)
	}

	trending := c.fetchTrendingAdds(ctx)

	// Keyed map in, sorted slice out: directory order must be stable across
	// runs for deterministic ambiguity handling.
	ids := make([]string, 0, len(playerMap))
	for id := range playerMap {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]resolver.ProviderRecord, 0, len(playerMap))
	for _, id := range ids {
		player := playerMap[id]
		if player.FullName == "" && player.Position != resolver.PositionDefense {
			continue
		}
		records = append(records, c.toRecord(id, player, trending))
	}

	if c.cache != nil && len(records) > 0 {
		if err := c.cache.SetSimple(cacheKey, records, sleeperDirectoryTTL); err != nil {
			c.logger.Warnf("Failed to cache sleeper directory: %v", err)
		}
	}

	return records, nil
}

func (c *SleeperClient) toRecord(id string, player sleeperPlayer, trending map[string]int) resolver.ProviderRecord {
	payload := make(map[string]string)
	if yahooID := rawNumericID(player.YahooID); yahooID != "" {
		payload["yahoo_id"] = yahooID
	}
	if espnID := rawNumericID(player.EspnID); espnID != "" {
		payload["espn_id"] = espnID
	}
	if player.GsisID != "" {
		payload["gsis_id"] = player.GsisID
	}
	if player.InjuryStatus != "" {
		payload[resolver.PayloadInjuryStatus] = player.InjuryStatus
	}
	if player.DepthChartOrder != nil {
		payload[resolver.PayloadDepthChartRank] = strconv.Itoa(*player.DepthChartOrder)
	}
	if player.ByeWeek != nil {
		payload[resolver.PayloadByeWeek] = strconv.Itoa(*player.ByeWeek)
	}
	if count, ok := trending[id]; ok {
		payload[resolver.PayloadTrending] = fmt.Sprintf("+%d adds/24h", count)
	}

	fullName := player.FullName
	if fullName == "" {
		// Team defense entries carry no full_name; Sleeper keys them by abbr.
		fullName = resolver.TeamName(player.Team) + " Defense"
	}

	return resolver.ProviderRecord{
		ProviderID: id,
		FullName:   fullName,
		TeamAbbr:   player.Team,
		Position:   player.Position,
		Payload:    payload,
	}
}

// fetchTrendingAdds pulls the most-added player list. Trending is an
// enrichment signal only; failures degrade to an empty map.
func (c *SleeperClient) fetchTrendingAdds(ctx context.Context) map[string]int {
	var entries []sleeperTrendingEntry
	url := fmt.Sprintf("%s/players/nfl/trending/add?lookback_hours=%d&limit=%d",
		c.baseURL, sleeperTrendingLookback, sleeperTrendingLimit)
	if err := makeRequest(ctx, c.httpClient, url, nil, &entries, c.logger); err != nil {
		c.logger.Warnf("Failed to fetch sleeper trending adds: %v", err)
		return nil
	}
	trending := make(map[string]int, len(entries))
	for _, entry := range entries {
		trending[entry.PlayerID] = entry.Count
	}
	return trending
}

// SearchByName scans the bulk directory. Sleeper exposes no single-player
// search endpoint, so the fallback lookup reuses the (cached) player map.
func (c *SleeperClient) SearchByName(ctx context.Context, name string) ([]resolver.ProviderRecord, error) {
	directory, err := c.FetchDirectory(ctx)
	if err != nil {
		return nil, err
	}
	normalized := resolver.NormalizeName(name)
	var matches []resolver.ProviderRecord
	for _, record := range directory {
		if resolver.NormalizeName(record.FullName) == normalized {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

// rawNumericID renders sleeper's sometimes-number sometimes-string xref ids
// as a plain string.
func rawNumericID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatInt(asNumber, 10)
	}
	return ""
}
