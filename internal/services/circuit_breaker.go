package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
)

type CircuitBreakerService struct {
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

func NewCircuitBreakerService(threshold int, timeout time.Duration, logger *logrus.Logger) *CircuitBreakerService {
	newSettings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: uint32(threshold),
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"component": "circuit_breaker",
					"provider":  name,
					"from":      from.String(),
					"to":        to.String(),
				}).Info("Circuit breaker state changed")
			},
		}
	}

	// One breaker per provider so an outage at one never trips the others.
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(resolver.AllProviders))
	for _, provider := range resolver.AllProviders {
		breakers[string(provider)] = gobreaker.NewCircuitBreaker(newSettings(string(provider)))
	}

	return &CircuitBreakerService{
		breakers: breakers,
		logger:   logger,
	}
}

// Execute wraps a function call with circuit breaker protection
func (cb *CircuitBreakerService) Execute(provider string, fn func() (interface{}, error)) (interface{}, error) {
	breaker, exists := cb.breakers[provider]
	if !exists {
		cb.logger.WithFields(logrus.Fields{
			"component": "circuit_breaker",
			"provider":  provider,
		}).Warn("No circuit breaker found for provider, executing without protection")
		return fn()
	}

	return breaker.Execute(fn)
}

// GetState returns the current state of a circuit breaker
func (cb *CircuitBreakerService) GetState(provider string) gobreaker.State {
	if breaker, exists := cb.breakers[provider]; exists {
		return breaker.State()
	}
	return gobreaker.StateClosed
}

// GetCounts returns the current counts for a circuit breaker
func (cb *CircuitBreakerService) GetCounts(provider string) gobreaker.Counts {
	if breaker, exists := cb.breakers[provider]; exists {
		return breaker.Counts()
	}
	return gobreaker.Counts{}
}
