package resolver

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrDirectoryUnavailable marks a provider whose directory fetch failed this
// session. Callers treat it as "no matches possible", not as fatal.
var ErrDirectoryUnavailable = errors.New("provider directory unavailable")

// DirectoryFetcher is the external collaborator that retrieves a provider's
// full player directory.
type DirectoryFetcher interface {
	FetchDirectory(ctx context.Context, provider Provider) ([]ProviderRecord, error)
}

type directoryEntry struct {
	ready   chan struct{}
	records []ProviderRecord
	err     error
}

// DirectoryCache holds each provider's directory for the session, fetching it
// at most once. Concurrent first callers for the same provider await the
// single in-flight fetch instead of issuing duplicates.
type DirectoryCache struct {
	fetcher DirectoryFetcher
	logger  *logrus.Logger

	mu      sync.Mutex
	entries map[Provider]*directoryEntry
}

func NewDirectoryCache(fetcher DirectoryFetcher, logger *logrus.Logger) *DirectoryCache {
	return &DirectoryCache{
		fetcher: fetcher,
		logger:  logger,
		entries: make(map[Provider]*directoryEntry),
	}
}

// Get returns the provider's directory, fetching it on first call. A failed
// fetch is recorded and degrades to an empty directory for the rest of the
// session; the recorded error is returned alongside so callers can log it.
func (c *DirectoryCache) Get(ctx context.Context, provider Provider) ([]ProviderRecord, error) {
	c.mu.Lock()
	entry, ok := c.entries[provider]
	if ok {
		c.mu.Unlock()
		select {
		case <-entry.ready:
			return entry.records, entry.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	entry = &directoryEntry{ready: make(chan struct{})}
	c.entries[provider] = entry
	c.mu.Unlock()

	records, err := c.fetcher.FetchDirectory(ctx, provider)
	switch {
	case err == nil:
		entry.records = records
		c.logger.WithFields(logrus.Fields{
			"provider": provider,
			"players":  len(records),
		}).Info("Provider directory loaded")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// The caller gave up, not the provider. Drop the entry so the next
		// call retries the fetch instead of degrading the whole session.
		entry.err = err
		c.mu.Lock()
		delete(c.entries, provider)
		c.mu.Unlock()
	default:
		c.logger.WithFields(logrus.Fields{
			"provider": provider,
			"error":    err,
		}).Warn("Directory fetch failed, provider degrades to empty directory")
		entry.err = errors.Join(ErrDirectoryUnavailable, err)
	}
	close(entry.ready)

	return entry.records, entry.err
}

// Warm fetches the given providers' directories concurrently. Errors are
// already recorded per provider; Warm never fails the caller.
func (c *DirectoryCache) Warm(ctx context.Context, providers []Provider) {
	var wg sync.WaitGroup
	for _, provider := range providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			c.Get(ctx, p) //nolint:errcheck // recorded in the entry
		}(provider)
	}
	wg.Wait()
}

// Size returns the cached directory length for a provider, or -1 before the
// first fetch completes.
func (c *DirectoryCache) Size(provider Provider) int {
	c.mu.Lock()
	entry, ok := c.entries[provider]
	c.mu.Unlock()
	if !ok {
		return -1
	}
	select {
	case <-entry.ready:
		return len(entry.records)
	default:
		return -1
	}
}

// FetchError returns the recorded fetch failure for a provider, if any.
func (c *DirectoryCache) FetchError(provider Provider) error {
	c.mu.Lock()
	entry, ok := c.entries[provider]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-entry.ready:
		return entry.err
	default:
		return nil
	}
}
