package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDirectory() []ProviderRecord {
	return []ProviderRecord{
		{
			ProviderID: "4034",
			FullName:   "Michael Evans",
			TeamAbbr:   "TB",
			Position:   "WR",
			Payload:    map[string]string{"yahoo_id": "28389"},
		},
		{
			ProviderID: "6794",
			FullName:   "Justin Jefferson",
			TeamAbbr:   "MIN",
			Position:   "WR",
		},
		{
			ProviderID: "5850",
			FullName:   "Josh Allen",
			TeamAbbr:   "BUF",
			Position:   "QB",
		},
		{
			ProviderID: "7107",
			FullName:   "Josh Allen",
			TeamAbbr:   "JAX",
			Position:   "LB",
		},
	}
}

func TestXrefIDStrategy(t *testing.T) {
	strategy := &XrefIDStrategy{}
	directory := testDirectory()

	t.Run("payload xref wins regardless of spelling", func(t *testing.T) {
		q := PlayerQuery{DisplayName: "Mikey Evans Sr.", TeamAbbr: "NE", SourceID: "28389", Source: ProviderYahoo}
		match := strategy.TryMatch(context.Background(), q, ProviderSleeper, directory)
		require.NotNil(t, match)
		assert.Equal(t, "4034", match.Record.ProviderID)
		assert.Equal(t, ConfidenceXrefID, match.Confidence)
		assert.Equal(t, "xref_id", match.Strategy)
	})

	t.Run("direct provider id also matches", func(t *testing.T) {
		q := PlayerQuery{DisplayName: "whoever", SourceID: "6794"}
		match := strategy.TryMatch(context.Background(), q, ProviderSleeper, directory)
		require.NotNil(t, match)
		assert.Equal(t, "6794", match.Record.ProviderID)
	})

	t.Run("no source id skips the stage", func(t *testing.T) {
		q := PlayerQuery{DisplayName: "Michael Evans", TeamAbbr: "TB"}
		assert.Nil(t, strategy.TryMatch(context.Background(), q, ProviderSleeper, directory))
	})
}

func TestExactNameStrategy(t *testing.T) {
	logger, _ := newCapturedLogger()
	norm := NewNormalizer(logger)
	strategy := &ExactNameStrategy{Norm: norm, Logger: logger}
	directory := testDirectory()

	tests := []struct {
		name       string
		query      PlayerQuery
		expectedID string
	}{
		{
			"name team and position align",
			PlayerQuery{DisplayName: "Justin Jefferson", TeamAbbr: "MIN", Position: "WR", Source: ProviderYahoo},
			"6794",
		},
		{
			"missing team is non-disqualifying",
			PlayerQuery{DisplayName: "Justin Jefferson", Position: "WR"},
			"6794",
		},
		{
			"position disambiguates duplicate names",
			PlayerQuery{DisplayName: "Josh Allen", Position: "LB"},
			"7107",
		},
		{
			"conflicting team disqualifies",
			PlayerQuery{DisplayName: "Justin Jefferson", TeamAbbr: "GB", Source: ProviderYahoo},
			"",
		},
		{
			"conflicting position disqualifies",
			PlayerQuery{DisplayName: "Justin Jefferson", TeamAbbr: "MIN", Position: "TE", Source: ProviderYahoo},
			"",
		},
		{
			"nickname divergence is not exact",
			PlayerQuery{DisplayName: "Mike Evans", TeamAbbr: "TB", Position: "WR", Source: ProviderYahoo},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := strategy.TryMatch(context.Background(), tt.query, ProviderSleeper, directory)
			if tt.expectedID == "" {
				assert.Nil(t, match)
				return
			}
			require.NotNil(t, match)
			assert.Equal(t, tt.expectedID, match.Record.ProviderID)
			assert.Equal(t, ConfidenceExactName, match.Confidence)
		})
	}
}

func TestExactNameAmbiguityTakesFirstInDirectoryOrder(t *testing.T) {
	logger, hook := newCapturedLogger()
	norm := NewNormalizer(logger)
	strategy := &ExactNameStrategy{Norm: norm, Logger: logger}

	// No team, no position: both Josh Allens survive the filters.
	q := PlayerQuery{DisplayName: "Josh Allen"}
	match := strategy.TryMatch(context.Background(), q, ProviderSleeper, testDirectory())
	require.NotNil(t, match)
	assert.Equal(t, "5850", match.Record.ProviderID)
	assert.Equal(t, 1, hook.count("Ambiguous match, taking first directory-order candidate"))
}

func TestLastNameTeamStrategy(t *testing.T) {
	logger, _ := newCapturedLogger()
	norm := NewNormalizer(logger)
	strategy := &LastNameTeamStrategy{Norm: norm, Logger: logger}
	directory := testDirectory()

	t.Run("last name plus canonical team", func(t *testing.T) {
		q := PlayerQuery{DisplayName: "J. Jefferson", TeamAbbr: "MIN", Source: ProviderYahoo}
		match := strategy.TryMatch(context.Background(), q, ProviderSleeper, directory)
		require.NotNil(t, match)
		assert.Equal(t, "6794", match.Record.ProviderID)
		assert.Equal(t, ConfidenceLastNameTeam, match.Confidence)
	})

	t.Run("team normalization bridges provider spellings", func(t *testing.T) {
		directory := []ProviderRecord{{ProviderID: "x", FullName: "Terry McLaurin", TeamAbbr: "WSH", Position: "WR"}}
		q := PlayerQuery{DisplayName: "T. McLaurin", TeamAbbr: "WAS", Source: ProviderYahoo}
		match := strategy.TryMatch(context.Background(), q, ProviderTank01, directory)
		require.NotNil(t, match)
	})

	t.Run("skipped without query team", func(t *testing.T) {
		q := PlayerQuery{DisplayName: "Justin Jefferson"}
		assert.Nil(t, strategy.TryMatch(context.Background(), q, ProviderSleeper, directory))
	})

	t.Run("skipped without record team", func(t *testing.T) {
		directory := []ProviderRecord{{ProviderID: "x", FullName: "Justin Jefferson", Position: "WR"}}
		q := PlayerQuery{DisplayName: "Justin Jefferson", TeamAbbr: "MIN", Source: ProviderYahoo}
		assert.Nil(t, strategy.TryMatch(context.Background(), q, ProviderSleeper, directory))
	})

	t.Run("position soft filter still applies", func(t *testing.T) {
		q := PlayerQuery{DisplayName: "Josh Allen", TeamAbbr: "BUF", Position: "LB", Source: ProviderYahoo}
		assert.Nil(t, strategy.TryMatch(context.Background(), q, ProviderSleeper, directory))
	})

	t.Run("declines nickname-equivalent first names", func(t *testing.T) {
		q := PlayerQuery{DisplayName: "Mike Evans", TeamAbbr: "TB", Position: "WR", Source: ProviderYahoo}
		assert.Nil(t, strategy.TryMatch(context.Background(), q, ProviderSleeper, directory))
	})
}

func TestNicknameStrategy(t *testing.T) {
	logger, _ := newCapturedLogger()
	norm := NewNormalizer(logger)
	strategy := &NicknameStrategy{Norm: norm, Logger: logger}
	directory := testDirectory()

	t.Run("mike matches michael", func(t *testing.T) {
		q := PlayerQuery{DisplayName: "Mike Evans", TeamAbbr: "TB", Position: "WR", Source: ProviderYahoo}
		match := strategy.TryMatch(context.Background(), q, ProviderSleeper, directory)
		require.NotNil(t, match)
		assert.Equal(t, "4034", match.Record.ProviderID)
		assert.Equal(t, ConfidenceNickname, match.Confidence)
	})

	t.Run("reverse direction michael matches mike", func(t *testing.T) {
		directory := []ProviderRecord{{ProviderID: "y", FullName: "Mike Williams", TeamAbbr: "LAC", Position: "WR"}}
		q := PlayerQuery{DisplayName: "Michael Williams", TeamAbbr: "LAC", Position: "WR", Source: ProviderYahoo}
		match := strategy.TryMatch(context.Background(), q, ProviderSleeper, directory)
		require.NotNil(t, match)
	})

	t.Run("last name must match exactly", func(t *testing.T) {
		q := PlayerQuery{DisplayName: "Mike Evan", TeamAbbr: "TB", Source: ProviderYahoo}
		assert.Nil(t, strategy.TryMatch(context.Background(), q, ProviderSleeper, directory))
	})

	t.Run("unrelated first names do not match", func(t *testing.T) {
		q := PlayerQuery{DisplayName: "Steve Evans", TeamAbbr: "TB", Source: ProviderYahoo}
		assert.Nil(t, strategy.TryMatch(context.Background(), q, ProviderSleeper, directory))
	})
}

type fakeSearcher struct {
	results []ProviderRecord
	err     error
	delay   time.Duration
	calls   int
}

func (f *fakeSearcher) SearchByName(ctx context.Context, provider Provider, name string) ([]ProviderRecord, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.results, f.err
}

func TestRemoteLookupStrategy(t *testing.T) {
	logger, _ := newCapturedLogger()
	norm := NewNormalizer(logger)

	t.Run("accepts first name-and-team compatible candidate", func(t *testing.T) {
		searcher := &fakeSearcher{results: []ProviderRecord{
			{ProviderID: "no-1", FullName: "Chris Olave Jr.", TeamAbbr: "DEN"},
			{ProviderID: "no-2", FullName: "Chris Olave", TeamAbbr: "NO"},
		}}
		strategy := &RemoteLookupStrategy{Norm: norm, Searcher: searcher, Timeout: time.Second, Logger: logger}
		q := PlayerQuery{DisplayName: "Chris Olave", TeamAbbr: "NO", Source: ProviderYahoo}
		match := strategy.TryMatch(context.Background(), q, ProviderTank01, nil)
		require.NotNil(t, match)
		assert.Equal(t, "no-2", match.Record.ProviderID)
		assert.Equal(t, ConfidenceRemoteLookup, match.Confidence)
	})

	t.Run("missing team on either side is acceptable", func(t *testing.T) {
		searcher := &fakeSearcher{results: []ProviderRecord{{ProviderID: "p", FullName: "Chris Olave"}}}
		strategy := &RemoteLookupStrategy{Norm: norm, Searcher: searcher, Timeout: time.Second, Logger: logger}
		q := PlayerQuery{DisplayName: "Chris Olave", TeamAbbr: "NO", Source: ProviderYahoo}
		require.NotNil(t, strategy.TryMatch(context.Background(), q, ProviderTank01, nil))
	})

	t.Run("transport failure degrades to no candidate", func(t *testing.T) {
		searcher := &fakeSearcher{err: errors.New("connection refused")}
		strategy := &RemoteLookupStrategy{Norm: norm, Searcher: searcher, Timeout: time.Second, Logger: logger}
		q := PlayerQuery{DisplayName: "Chris Olave"}
		assert.Nil(t, strategy.TryMatch(context.Background(), q, ProviderTank01, nil))
	})

	t.Run("timeout degrades to no candidate", func(t *testing.T) {
		searcher := &fakeSearcher{delay: 200 * time.Millisecond, results: []ProviderRecord{{FullName: "Chris Olave"}}}
		strategy := &RemoteLookupStrategy{Norm: norm, Searcher: searcher, Timeout: 10 * time.Millisecond, Logger: logger}
		q := PlayerQuery{DisplayName: "Chris Olave"}
		assert.Nil(t, strategy.TryMatch(context.Background(), q, ProviderTank01, nil))
	})

	t.Run("nil searcher skips the stage", func(t *testing.T) {
		strategy := &RemoteLookupStrategy{Norm: norm, Logger: logger}
		assert.Nil(t, strategy.TryMatch(context.Background(), PlayerQuery{DisplayName: "x"}, ProviderTank01, nil))
	})
}
