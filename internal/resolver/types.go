package resolver

import (
	"fmt"
	"strings"
)

// Provider identifies one of the external player data sources.
type Provider string

const (
	ProviderYahoo   Provider = "yahoo"
	ProviderSleeper Provider = "sleeper"
	ProviderTank01  Provider = "tank01"
)

// AllProviders lists every supported provider tag.
var AllProviders = []Provider{ProviderYahoo, ProviderSleeper, ProviderTank01}

// ParseProvider converts a string into a known Provider tag.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderYahoo:
		return ProviderYahoo, nil
	case ProviderSleeper:
		return ProviderSleeper, nil
	case ProviderTank01:
		return ProviderTank01, nil
	}
	return "", fmt.Errorf("unknown provider: %q", s)
}

// PositionDefense marks team-defense/special-teams pseudo-players.
const PositionDefense = "DEF"

// PlayerQuery is a player reference taken from the source roster, to be
// resolved against each target provider's directory.
type PlayerQuery struct {
	DisplayName string   `json:"display_name"`
	TeamAbbr    string   `json:"team_abbr"`
	Position    string   `json:"position"`
	SourceID    string   `json:"source_id,omitempty"`
	Source      Provider `json:"source,omitempty"`
}

// ProviderRecord is one entry in a provider's player directory. Records are
// immutable once fetched; the directory cache owns them for the session.
type ProviderRecord struct {
	ProviderID string            `json:"provider_id"`
	FullName   string            `json:"full_name"`
	TeamAbbr   string            `json:"team_abbr"`
	Position   string            `json:"position"`
	Payload    map[string]string `json:"payload,omitempty"`
	Synthetic  bool              `json:"synthetic,omitempty"`
}

// MatchStatus is the outcome class of a resolution attempt.
type MatchStatus string

const (
	StatusMatched   MatchStatus = "matched"
	StatusUnmatched MatchStatus = "unmatched"
)

// Confidence tiers, fixed per strategy.
const (
	ConfidenceXrefID       = 100
	ConfidenceExactName    = 90
	ConfidenceLastNameTeam = 75
	ConfidenceNickname     = 70
	ConfidenceRemoteLookup = 60
	ConfidenceSynthetic    = 50
)

// MatchResult is the outcome of resolving one PlayerQuery against one
// provider. Created once per (query, provider) pair and never mutated.
type MatchResult struct {
	Status     MatchStatus     `json:"status"`
	Record     *ProviderRecord `json:"record,omitempty"`
	Confidence int             `json:"confidence,omitempty"`
	Strategy   string          `json:"strategy,omitempty"`
}

// Unmatched returns the canonical no-match result.
func Unmatched() MatchResult {
	return MatchResult{Status: StatusUnmatched}
}

// Matched reports whether the result carries a record.
func (m MatchResult) Matched() bool {
	return m.Status == StatusMatched && m.Record != nil
}

// CanonicalKey is the normalized cache/equality key for a query: case-folded
// (last_name, first_name) plus the canonical team abbreviation.
type CanonicalKey string

// ProvenancedValue is an enrichment value tagged with the provider that
// supplied it. Conflicting values from different providers are retained side
// by side rather than collapsed.
type ProvenancedValue struct {
	Provider Provider `json:"provider"`
	Value    string   `json:"value"`
}

// ProvenancedFloat is a numeric enrichment value with provenance.
type ProvenancedFloat struct {
	Provider Provider `json:"provider"`
	Value    float64  `json:"value"`
}

// CompositeProfile is the merged cross-provider view of one player. It is
// built after all per-provider results are available and read-only afterward.
type CompositeProfile struct {
	CanonicalName   string                   `json:"canonical_name"`
	Query           PlayerQuery              `json:"query"`
	Results         map[Provider]MatchResult `json:"results"`
	InjuryStatuses  []ProvenancedValue       `json:"injury_statuses,omitempty"`
	ProjectedPoints []ProvenancedFloat       `json:"projected_points,omitempty"`
	DepthChartRanks []ProvenancedValue       `json:"depth_chart_ranks,omitempty"`
	TrendingSignals []ProvenancedValue       `json:"trending_signals,omitempty"`
	ByeWeeks        []ProvenancedValue       `json:"bye_weeks,omitempty"`
}

// FullyMatched reports whether every requested provider produced a match.
func (p *CompositeProfile) FullyMatched() bool {
	for _, result := range p.Results {
		if !result.Matched() {
			return false
		}
	}
	return len(p.Results) > 0
}
