package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
)

func newSleeperTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/players/nfl", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"4034": {
				"player_id": "4034",
				"first_name": "Michael",
				"last_name": "Evans",
				"full_name": "Michael Evans",
				"team": "TB",
				"position": "WR",
				"injury_status": "Questionable",
				"depth_chart_order": 1,
				"active": true,
				"yahoo_id": 28389,
				"espn_id": "16737",
				"gsis_id": "00-0031408"
			},
			"WSH": {
				"player_id": "WSH",
				"team": "WSH",
				"position": "DEF",
				"active": true
			},
			"9999": {
				"player_id": "9999",
				"first_name": "",
				"last_name": "",
				"full_name": "",
				"team": null,
				"position": "TE",
				"active": false
			}
		}`))
	})
	mux.HandleFunc("/players/nfl/trending/add", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"player_id": "4034", "count": 1200}]`))
	})
	return httptest.NewServer(mux)
}

func TestSleeperFetchDirectory(t *testing.T) {
	server := newSleeperTestServer(t)
	defer server.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	client := NewSleeperClient(nil, logger)
	client.baseURL = server.URL

	records, err := client.FetchDirectory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "nameless non-DEF entries are skipped")

	byID := map[string]resolver.ProviderRecord{}
	for _, record := range records {
		byID[record.ProviderID] = record
	}

	evans, ok := byID["4034"]
	require.True(t, ok)
	assert.Equal(t, "Michael Evans", evans.FullName)
	assert.Equal(t, "TB", evans.TeamAbbr)
	assert.Equal(t, "WR", evans.Position)
	assert.Equal(t, "28389", evans.Payload["yahoo_id"], "numeric xref ids become strings")
	assert.Equal(t, "16737", evans.Payload["espn_id"])
	assert.Equal(t, "00-0031408", evans.Payload["gsis_id"])
	assert.Equal(t, "Questionable", evans.Payload[resolver.PayloadInjuryStatus])
	assert.Equal(t, "1", evans.Payload[resolver.PayloadDepthChartRank])
	assert.Equal(t, "+1200 adds/24h", evans.Payload[resolver.PayloadTrending])

	defense, ok := byID["WSH"]
	require.True(t, ok)
	assert.Equal(t, "Washington Defense", defense.FullName)
	assert.Equal(t, resolver.PositionDefense, defense.Position)
}

func TestSleeperSearchByNameScansDirectory(t *testing.T) {
	server := newSleeperTestServer(t)
	defer server.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	client := NewSleeperClient(nil, logger)
	client.baseURL = server.URL

	matches, err := client.SearchByName(context.Background(), "michael evans")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "4034", matches[0].ProviderID)

	matches, err = client.SearchByName(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSleeperDirectoryOrderIsStable(t *testing.T) {
	server := newSleeperTestServer(t)
	defer server.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	var firstOrder []string
	for i := 0; i < 3; i++ {
		client := NewSleeperClient(nil, logger)
		client.baseURL = server.URL
		records, err := client.FetchDirectory(context.Background())
		require.NoError(t, err)
		order := make([]string, len(records))
		for j, record := range records {
			order[j] = record.ProviderID
		}
		if firstOrder == nil {
			firstOrder = order
		} else {
			assert.Equal(t, firstOrder, order)
		}
	}
}
