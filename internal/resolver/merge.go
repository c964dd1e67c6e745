package resolver

import "strconv"

// Enrichment payload keys provider adapters populate on directory records.
const (
	PayloadInjuryStatus    = "injury_status"
	PayloadProjectedPoints = "projected_points"
	PayloadDepthChartRank  = "depth_chart_rank"
	PayloadTrending        = "trending"
	PayloadByeWeek         = "bye_week"
)

// Merge assembles the composite profile for one player from its per-provider
// match results. Every enrichment field keeps its provider of origin; when
// two providers report the same logical field both values are retained; the
// merger never silently prefers one. Absent fields stay absent, never
// defaulted.
func Merge(q PlayerQuery, results map[Provider]MatchResult) CompositeProfile {
	profile := CompositeProfile{
		CanonicalName: NormalizeName(q.DisplayName),
		Query:         q,
		Results:       results,
	}

	// Stable provider order keeps merged output reproducible.
	for _, provider := range AllProviders {
		result, ok := results[provider]
		if !ok || !result.Matched() {
			continue
		}
		payload := result.Record.Payload
		if payload == nil {
			continue
		}
		if v, ok := payload[PayloadInjuryStatus]; ok && v != "" {
			profile.InjuryStatuses = append(profile.InjuryStatuses, ProvenancedValue{Provider: provider, Value: v})
		}
		if v, ok := payload[PayloadProjectedPoints]; ok && v != "" {
			if points, err := strconv.ParseFloat(v, 64); err == nil {
				profile.ProjectedPoints = append(profile.ProjectedPoints, ProvenancedFloat{Provider: provider, Value: points})
			}
		}
		if v, ok := payload[PayloadDepthChartRank]; ok && v != "" {
			profile.DepthChartRanks = append(profile.DepthChartRanks, ProvenancedValue{Provider: provider, Value: v})
		}
		if v, ok := payload[PayloadTrending]; ok && v != "" {
			profile.TrendingSignals = append(profile.TrendingSignals, ProvenancedValue{Provider: provider, Value: v})
		}
		if v, ok := payload[PayloadByeWeek]; ok && v != "" {
			profile.ByeWeeks = append(profile.ByeWeeks, ProvenancedValue{Provider: provider, Value: v})
		}
	}

	return profile
}
