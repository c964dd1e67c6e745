package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
)

const (
	tank01Host         = "tank01-nfl-live-in-game-real-time-statistics-nfl.p.rapidapi.com"
	tank01DirectoryTTL = 6 * time.Hour
)

// Tank01Client adapts the tank01 RapidAPI NFL service. RapidAPI meters by
// request, so every outbound call passes through a rate limiter first.
type Tank01Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	cache      Cache
	logger     *logrus.Logger
}

// NewTank01Client builds the client. requestsPerMinute and burst bound the
// RapidAPI call rate.
func NewTank01Client(apiKey string, requestsPerMinute, burst int, cache Cache, logger *logrus.Logger) *Tank01Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	if burst <= 0 {
		burst = 5
	}
	return &Tank01Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://" + tank01Host,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
		cache:      cache,
		logger:     logger,
	}
}

func (c *Tank01Client) Provider() resolver.Provider { return resolver.ProviderTank01 }

type tank01Player struct {
	PlayerID           string `json:"playerID"`
	LongName           string `json:"longName"`
	Team               string `json:"team"`
	Pos                string `json:"pos"`
	YahooPlayerID      string `json:"yahooPlayerID"`
	SleeperBotID       string `json:"sleeperBotID"`
	EspnID             string `json:"espnID"`
	DepthChartPosition string `json:"depthChartPosition"`
	Injury             struct {
		Designation string `json:"designation"`
	} `json:"injury"`
}

type tank01ListResponse struct {
	StatusCode int            `json:"statusCode"`
	Body       []tank01Player `json:"body"`
}

type tank01InfoResponse struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

func (c *Tank01Client) headers() map[string]string {
	return map[string]string{
		"X-RapidAPI-Key":  c.apiKey,
		"X-RapidAPI-Host": tank01Host,
	}
}

// FetchDirectory retrieves the full tank01 player list.
func (c *Tank01Client) FetchDirectory(ctx context.Context) ([]resolver.ProviderRecord, error) {
	cacheKey := "tank01:players:nfl"
	if c.cache != nil {
		var cached []resolver.ProviderRecord
		if err := c.cache.GetSimple(cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var resp tank01ListResponse
	listURL := fmt.Sprintf("%s/getNFLPlayerList", c.baseURL)
	if err := makeRequest(ctx, c.httpClient, listURL, c.headers(), &resp, c.logger); err != nil {
		return nil, fmt.Errorf("failed to fetch tank01 player list: %w", err)
	}

	records := make([]resolver.ProviderRecord, 0, len(resp.Body))
	for _, player := range resp.Body {
		records = append(records, c.toRecord(player))
	}

	if c.cache != nil && len(records) > 0 {
		if err := c.cache.SetSimple(cacheKey, records, tank01DirectoryTTL); err != nil {
			c.logger.Warnf("Failed to cache tank01 directory: %v", err)
		}
	}

	return records, nil
}

func (c *Tank01Client) toRecord(player tank01Player) resolver.ProviderRecord {
	payload := make(map[string]string)
	if player.YahooPlayerID != "" {
		payload["yahoo_id"] = player.YahooPlayerID
	}
	if player.SleeperBotID != "" {
		payload["sleeper_id"] = player.SleeperBotID
	}
	if player.EspnID != "" {
		payload["espn_id"] = player.EspnID
	}
	if player.DepthChartPosition != "" {
		payload[resolver.PayloadDepthChartRank] = player.DepthChartPosition
	}
	if player.Injury.Designation != "" {
		payload[resolver.PayloadInjuryStatus] = player.Injury.Designation
	}
	return resolver.ProviderRecord{
		ProviderID: player.PlayerID,
		FullName:   player.LongName,
		TeamAbbr:   player.Team,
		Position:   player.Pos,
		Payload:    payload,
	}
}

// SearchByName hits the single-player info endpoint. The body shape varies:
// one candidate comes back as an object, several as an array.
func (c *Tank01Client) SearchByName(ctx context.Context, name string) ([]resolver.ProviderRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	infoURL := fmt.Sprintf("%s/getNFLPlayerInfo?playerName=%s&getStats=false",
		c.baseURL, url.QueryEscape(name))
	var resp tank01InfoResponse
	if err := makeRequest(ctx, c.httpClient, infoURL, c.headers(), &resp, c.logger); err != nil {
		return nil, fmt.Errorf("failed to search tank01 player: %w", err)
	}
	if len(resp.Body) == 0 {
		return nil, nil
	}

	var many []tank01Player
	if err := json.Unmarshal(resp.Body, &many); err == nil {
		records := make([]resolver.ProviderRecord, 0, len(many))
		for _, player := range many {
			records = append(records, c.toRecord(player))
		}
		return records, nil
	}

	var one tank01Player
	if err := json.Unmarshal(resp.Body, &one); err != nil {
		return nil, fmt.Errorf("unexpected tank01 search body: %w", err)
	}
	if one.PlayerID == "" {
		return nil, nil
	}
	return []resolver.ProviderRecord{c.toRecord(one)}, nil
}
