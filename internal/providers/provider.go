package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
)

// Cache is the subset of the redis cache service provider clients use to
// avoid refetching bulk payloads across sessions.
type Cache interface {
	GetSimple(key string, dest interface{}) error
	SetSimple(key string, value interface{}, expiration time.Duration) error
}

// Breaker wraps outbound calls with circuit-breaker protection.
type Breaker interface {
	Execute(service string, fn func() (interface{}, error)) (interface{}, error)
}

// Client is one provider's adapter: it fetches the bulk directory and serves
// the single-player search used by the remote lookup fallback.
type Client interface {
	Provider() resolver.Provider
	FetchDirectory(ctx context.Context) ([]resolver.ProviderRecord, error)
	SearchByName(ctx context.Context, name string) ([]resolver.ProviderRecord, error)
}

// Registry dispatches directory fetches and searches to the registered
// provider clients, wrapping each call in that provider's circuit breaker.
// It satisfies both resolver.DirectoryFetcher and resolver.PlayerSearcher.
type Registry struct {
	clients      map[resolver.Provider]Client
	breaker      Breaker
	logger       *logrus.Logger
	fetchTimeout time.Duration
}

func NewRegistry(breaker Breaker, logger *logrus.Logger, clients ...Client) *Registry {
	registry := &Registry{
		clients: make(map[resolver.Provider]Client, len(clients)),
		breaker: breaker,
		logger:  logger,
	}
	for _, client := range clients {
		registry.clients[client.Provider()] = client
	}
	return registry
}

// SetFetchTimeout bounds each bulk directory fetch. Zero means the caller's
// context deadline applies unchanged.
func (r *Registry) SetFetchTimeout(d time.Duration) {
	r.fetchTimeout = d
}

// Client returns the registered client for a provider tag.
func (r *Registry) Client(provider resolver.Provider) (Client, bool) {
	client, ok := r.clients[provider]
	return client, ok
}

// FetchDirectory retrieves a provider's full player directory.
func (r *Registry) FetchDirectory(ctx context.Context, provider resolver.Provider) ([]resolver.ProviderRecord, error) {
	client, ok := r.clients[provider]
	if !ok {
		return nil, fmt.Errorf("no client registered for provider %q", provider)
	}
	if r.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.fetchTimeout)
		defer cancel()
	}
	records, err := r.execute(provider, func() (interface{}, error) {
		return client.FetchDirectory(ctx)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SearchByName runs the provider's single-player search endpoint.
func (r *Registry) SearchByName(ctx context.Context, provider resolver.Provider, name string) ([]resolver.ProviderRecord, error) {
	client, ok := r.clients[provider]
	if !ok {
		return nil, fmt.Errorf("no client registered for provider %q", provider)
	}
	records, err := r.execute(provider, func() (interface{}, error) {
		return client.SearchByName(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Registry) execute(provider resolver.Provider, fn func() (interface{}, error)) ([]resolver.ProviderRecord, error) {
	var raw interface{}
	var err error
	if r.breaker != nil {
		raw, err = r.breaker.Execute(string(provider), fn)
	} else {
		raw, err = fn()
	}
	if err != nil {
		return nil, err
	}
	records, ok := raw.([]resolver.ProviderRecord)
	if !ok {
		return nil, fmt.Errorf("unexpected result shape from provider %q", provider)
	}
	return records, nil
}
