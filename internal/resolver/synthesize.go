package resolver

import (
	"github.com/sirupsen/logrus"
)

// syntheticIDPrefix makes fabricated defense ids deterministic and
// recognizable: "DEF_" plus the provider's team id.
const syntheticIDPrefix = "DEF_"

// Synthesizer fabricates canonical pseudo-player records for team
// defense/special-teams units that providers do not individually roster.
type Synthesizer struct {
	norm   *Normalizer
	logger *logrus.Logger
}

func NewSynthesizer(norm *Normalizer, logger *logrus.Logger) *Synthesizer {
	return &Synthesizer{norm: norm, logger: logger}
}

// SynthesizeTeamEntity builds a defense record for the query's team against
// the target provider. Returns Unmatched when the canonical abbreviation has
// no entry in the provider's team-id table, never a malformed record.
func (s *Synthesizer) SynthesizeTeamEntity(q PlayerQuery, target Provider) MatchResult {
	canonical := s.norm.NormalizeTeam(q.Source, q.TeamAbbr)
	teamID, ok := TeamIDTable(target)[canonical]
	if !ok {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"provider": target,
				"team":     q.TeamAbbr,
			}).Warn("Defense synthesis failed, team id not found")
		}
		return Unmatched()
	}

	record := &ProviderRecord{
		ProviderID: syntheticIDPrefix + teamID,
		FullName:   TeamName(canonical) + " Defense",
		TeamAbbr:   canonical,
		Position:   PositionDefense,
		Synthetic:  true,
	}
	return MatchResult{
		Status:     StatusMatched,
		Record:     record,
		Confidence: ConfidenceSynthetic,
		Strategy:   "team_defense_synthesis",
	}
}
