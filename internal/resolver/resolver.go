package resolver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type resultKey struct {
	provider Provider
	key      CanonicalKey
	sourceID string
	position string
}

// Resolver runs the strategy chain for a query against a target provider,
// short-circuiting on the first confident result and memoizing per
// (provider, CanonicalKey, source ID, position). Session-scoped and
// injectable; construct one per resolution session.
type Resolver struct {
	directories *DirectoryCache
	norm        *Normalizer
	synth       *Synthesizer
	chain       []Strategy
	logger      *logrus.Logger

	// Memoized MatchResults. Writes are idempotent, so last-writer-wins
	// on a concurrent recompute is harmless.
	results sync.Map // resultKey -> MatchResult
}

// Options carries the collaborators a Resolver needs.
type Options struct {
	Fetcher       DirectoryFetcher
	Searcher      PlayerSearcher
	LookupTimeout time.Duration
	Logger        *logrus.Logger
}

func New(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	norm := NewNormalizer(logger)
	return &Resolver{
		directories: NewDirectoryCache(opts.Fetcher, logger),
		norm:        norm,
		synth:       NewSynthesizer(norm, logger),
		chain:       DefaultChain(norm, opts.Searcher, opts.LookupTimeout, logger),
		logger:      logger,
	}
}

// Normalizer exposes the session's normalization tables.
func (r *Resolver) Normalizer() *Normalizer { return r.norm }

// Directories exposes the session's directory cache for status reporting.
func (r *Resolver) Directories() *DirectoryCache { return r.directories }

// Resolve locates the query's player in the target provider's directory.
// The second call for an equivalent query returns the cached result
// unchanged.
func (r *Resolver) Resolve(ctx context.Context, q PlayerQuery, provider Provider) MatchResult {
	key := resultKey{
		provider: provider,
		key:      r.norm.QueryKey(q),
		sourceID: q.SourceID,
		position: q.Position,
	}
	if cached, ok := r.results.Load(key); ok {
		return cached.(MatchResult)
	}

	directory, err := r.directories.Get(ctx, provider)
	if err != nil && len(directory) == 0 {
		result := Unmatched()
		if errors.Is(err, ErrDirectoryUnavailable) {
			// Degraded provider: every query resolves Unmatched this session.
			r.results.Store(key, result)
		}
		// A context error is the caller's problem, not the provider's;
		// the next session call retries the fetch.
		return result
	}

	result := r.runChain(ctx, q, provider, directory)
	r.results.Store(key, result)
	return result
}

func (r *Resolver) runChain(ctx context.Context, q PlayerQuery, provider Provider, directory []ProviderRecord) MatchResult {
	for _, strategy := range r.chain {
		if match := strategy.TryMatch(ctx, q, provider, directory); match != nil {
			r.logger.WithFields(logrus.Fields{
				"player":     q.DisplayName,
				"provider":   provider,
				"strategy":   match.Strategy,
				"confidence": match.Confidence,
			}).Debug("Player resolved")
			return *match
		}
	}

	if q.Position == PositionDefense {
		return r.synth.SynthesizeTeamEntity(q, provider)
	}
	return Unmatched()
}

type providerResult struct {
	provider Provider
	result   MatchResult
}

// ResolveAll resolves one query against every target provider in parallel.
func (r *Resolver) ResolveAll(ctx context.Context, q PlayerQuery, providers []Provider) map[Provider]MatchResult {
	results := make(chan providerResult, len(providers))
	var wg sync.WaitGroup
	for _, provider := range providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			results <- providerResult{provider: p, result: r.Resolve(ctx, q, p)}
		}(provider)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	resolved := make(map[Provider]MatchResult, len(providers))
	for pr := range results {
		resolved[pr.provider] = pr.result
	}
	return resolved
}

// ResolveRoster resolves every query against every requested provider and
// merges the per-provider results into composite profiles. A single
// unresolved player never prevents the rest of the roster from resolving;
// unmatched players surface explicitly in their profiles.
func (r *Resolver) ResolveRoster(ctx context.Context, queries []PlayerQuery, providers []Provider) []CompositeProfile {
	r.directories.Warm(ctx, providers)

	profiles := make([]CompositeProfile, 0, len(queries))
	for _, q := range queries {
		results := r.ResolveAll(ctx, q, providers)
		profiles = append(profiles, Merge(q, results))
	}
	return profiles
}
