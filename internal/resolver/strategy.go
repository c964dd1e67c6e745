package resolver

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Strategy attempts to locate a query's player in a provider directory.
// Implementations are pure over their inputs so the chain stays reorderable
// and each stage testable alone. A nil result means "no match", never an
// error: absence is data here.
type Strategy interface {
	Name() string
	TryMatch(ctx context.Context, q PlayerQuery, target Provider, directory []ProviderRecord) *MatchResult
}

// PlayerSearcher is the external single-player search endpoint used only by
// the remote lookup fallback.
type PlayerSearcher interface {
	SearchByName(ctx context.Context, provider Provider, name string) ([]ProviderRecord, error)
}

// xrefPayloadKeys are the cross-reference id fields providers embed in their
// directory payloads.
var xrefPayloadKeys = []string{
	"yahoo_id", "sleeper_id", "espn_id", "tank01_id", "gsis_id", "rotowire_id",
}

// DefaultChain builds the strategy chain in priority order.
func DefaultChain(norm *Normalizer, searcher PlayerSearcher, lookupTimeout time.Duration, logger *logrus.Logger) []Strategy {
	return []Strategy{
		&XrefIDStrategy{},
		&ExactNameStrategy{Norm: norm, Logger: logger},
		&LastNameTeamStrategy{Norm: norm, Logger: logger},
		&NicknameStrategy{Norm: norm, Logger: logger},
		&RemoteLookupStrategy{Norm: norm, Searcher: searcher, Timeout: lookupTimeout, Logger: logger},
	}
}

// XrefIDStrategy matches on a cross-reference identifier the source already
// carries. The only strategy allowed to skip name comparison entirely.
type XrefIDStrategy struct{}

func (s *XrefIDStrategy) Name() string { return "xref_id" }

func (s *XrefIDStrategy) TryMatch(_ context.Context, q PlayerQuery, _ Provider, directory []ProviderRecord) *MatchResult {
	if q.SourceID == "" {
		return nil
	}
	for i := range directory {
		record := &directory[i]
		if record.ProviderID == q.SourceID {
			return &MatchResult{Status: StatusMatched, Record: record, Confidence: ConfidenceXrefID, Strategy: s.Name()}
		}
		for _, key := range xrefPayloadKeys {
			if record.Payload[key] == q.SourceID {
				return &MatchResult{Status: StatusMatched, Record: record, Confidence: ConfidenceXrefID, Strategy: s.Name()}
			}
		}
	}
	return nil
}

// teamsCompatible treats a missing team on either side as non-disqualifying;
// present-and-conflicting canonical teams disqualify.
func teamsCompatible(norm *Normalizer, q PlayerQuery, target Provider, record *ProviderRecord) bool {
	if q.TeamAbbr == "" || record.TeamAbbr == "" {
		return true
	}
	return norm.NormalizeTeam(q.Source, q.TeamAbbr) == norm.NormalizeTeam(target, record.TeamAbbr)
}

// positionsCompatible applies the same soft-filter rule to positions.
func positionsCompatible(q PlayerQuery, record *ProviderRecord) bool {
	if q.Position == "" || record.Position == "" {
		return true
	}
	return q.Position == record.Position
}

// nicknameEquivalent reports whether two distinct normalized first names sit
// in the same nickname equivalence class.
func nicknameEquivalent(a, b string) bool {
	if a == b {
		return false
	}
	if _, ok := NameVariants(a)[b]; ok {
		return true
	}
	_, ok := NameVariants(b)[a]
	return ok
}

// pickFirst takes the first directory-order candidate, logging when more than
// one equally-scored candidate survived the filters.
func pickFirst(logger *logrus.Logger, strategy string, q PlayerQuery, candidates []*ProviderRecord) *ProviderRecord {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > 1 && logger != nil {
		logger.WithFields(logrus.Fields{
			"strategy":   strategy,
			"player":     q.DisplayName,
			"candidates": len(candidates),
		}).Warn("Ambiguous match, taking first directory-order candidate")
	}
	return candidates[0]
}

// ExactNameStrategy matches on normalized full-name equality with team and
// position as soft filters.
type ExactNameStrategy struct {
	Norm   *Normalizer
	Logger *logrus.Logger
}

func (s *ExactNameStrategy) Name() string { return "exact_name" }

func (s *ExactNameStrategy) TryMatch(_ context.Context, q PlayerQuery, target Provider, directory []ProviderRecord) *MatchResult {
	queryName := NormalizeName(q.DisplayName)
	if queryName == "" {
		return nil
	}
	var candidates []*ProviderRecord
	for i := range directory {
		record := &directory[i]
		if NormalizeName(record.FullName) != queryName {
			continue
		}
		if !teamsCompatible(s.Norm, q, target, record) || !positionsCompatible(q, record) {
			continue
		}
		candidates = append(candidates, record)
	}
	record := pickFirst(s.Logger, s.Name(), q, candidates)
	if record == nil {
		return nil
	}
	return &MatchResult{Status: StatusMatched, Record: record, Confidence: ConfidenceExactName, Strategy: s.Name()}
}

// LastNameTeamStrategy matches on last-name token plus canonical team
// equality. Unlike the other stages it requires team information on both
// sides; position stays a soft filter.
type LastNameTeamStrategy struct {
	Norm   *Normalizer
	Logger *logrus.Logger
}

func (s *LastNameTeamStrategy) Name() string { return "last_name_team" }

func (s *LastNameTeamStrategy) TryMatch(_ context.Context, q PlayerQuery, target Provider, directory []ProviderRecord) *MatchResult {
	if q.TeamAbbr == "" {
		return nil
	}
	queryName := NormalizeName(q.DisplayName)
	queryFirst := firstToken(queryName)
	queryLast := lastToken(queryName)
	queryTeam := s.Norm.NormalizeTeam(q.Source, q.TeamAbbr)
	if queryLast == "" || queryTeam == "" {
		return nil
	}
	var candidates []*ProviderRecord
	for i := range directory {
		record := &directory[i]
		if record.TeamAbbr == "" {
			continue
		}
		recordName := NormalizeName(record.FullName)
		if lastToken(recordName) != queryLast {
			continue
		}
		// Nickname-divergent first names belong to the nickname stage and
		// its confidence tier, not here.
		if nicknameEquivalent(queryFirst, firstToken(recordName)) {
			continue
		}
		if s.Norm.NormalizeTeam(target, record.TeamAbbr) != queryTeam {
			continue
		}
		if !positionsCompatible(q, record) {
			continue
		}
		candidates = append(candidates, record)
	}
	record := pickFirst(s.Logger, s.Name(), q, candidates)
	if record == nil {
		return nil
	}
	return &MatchResult{Status: StatusMatched, Record: record, Confidence: ConfidenceLastNameTeam, Strategy: s.Name()}
}

// NicknameStrategy is the exact-name stage with first-name equality relaxed
// to the nickname equivalence class. Last names must still match exactly.
type NicknameStrategy struct {
	Norm   *Normalizer
	Logger *logrus.Logger
}

func (s *NicknameStrategy) Name() string { return "nickname_exact" }

func (s *NicknameStrategy) TryMatch(_ context.Context, q PlayerQuery, target Provider, directory []ProviderRecord) *MatchResult {
	queryName := NormalizeName(q.DisplayName)
	if queryName == "" {
		return nil
	}
	queryFirst := firstToken(queryName)
	queryLast := lastToken(queryName)

	var candidates []*ProviderRecord
	for i := range directory {
		record := &directory[i]
		recordName := NormalizeName(record.FullName)
		if lastToken(recordName) != queryLast {
			continue
		}
		recordFirst := firstToken(recordName)
		if recordFirst != queryFirst && !nicknameEquivalent(queryFirst, recordFirst) {
			continue
		}
		if !teamsCompatible(s.Norm, q, target, record) || !positionsCompatible(q, record) {
			continue
		}
		candidates = append(candidates, record)
	}
	record := pickFirst(s.Logger, s.Name(), q, candidates)
	if record == nil {
		return nil
	}
	return &MatchResult{Status: StatusMatched, Record: record, Confidence: ConfidenceNickname, Strategy: s.Name()}
}

// RemoteLookupStrategy issues a live single-player search against the target
// provider. Bounded by a timeout; transport failures degrade to "no
// candidate" rather than propagating.
type RemoteLookupStrategy struct {
	Norm     *Normalizer
	Searcher PlayerSearcher
	Timeout  time.Duration
	Logger   *logrus.Logger
}

func (s *RemoteLookupStrategy) Name() string { return "remote_lookup" }

func (s *RemoteLookupStrategy) TryMatch(ctx context.Context, q PlayerQuery, target Provider, _ []ProviderRecord) *MatchResult {
	if s.Searcher == nil {
		return nil
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	candidates, err := s.Searcher.SearchByName(lookupCtx, target, q.DisplayName)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{
				"provider": target,
				"player":   q.DisplayName,
				"error":    err,
			}).Debug("Remote lookup failed, degrading to no candidate")
		}
		return nil
	}

	queryName := NormalizeName(q.DisplayName)
	for i := range candidates {
		record := &candidates[i]
		if NormalizeName(record.FullName) != queryName {
			continue
		}
		if !teamsCompatible(s.Norm, q, target, record) {
			continue
		}
		return &MatchResult{Status: StatusMatched, Record: record, Confidence: ConfidenceRemoteLookup, Strategy: s.Name()}
	}
	return nil
}
