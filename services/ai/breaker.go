package aisvc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker/v2"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/ai"
	metricsvc "github.com/trezcool/academia/services/metrics"
)

// Breaker guards a provider with a circuit breaker.
// Each request is attempted once; an open circuit fails fast with NetworkOrHTTPFailure.
type Breaker struct {
	provider ai.Provider
	cb       *gobreaker.CircuitBreaker[string]
	logger   core.Logger
}

func NewBreaker(provider ai.Provider, logger core.Logger) *Breaker {
	name := "ai-" + provider.Name()
	metricsvc.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("ai circuit breaker state change", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metricsvc.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			metricsvc.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Breaker{provider: provider, cb: cb, logger: logger}
}

// isSuccessful tells which errors do not count against the provider: a missing key is a
// configuration problem and a canceled call means the caller went away.
func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	pErr, ok := ai.AsProviderError(err)
	return ok && pErr.Kind == ai.MissingCredential
}

func (b *Breaker) Name() string { return b.provider.Name() }

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func (b *Breaker) Complete(ctx context.Context, p ai.Prompt) (string, error) {
	start := time.Now()
	out, err := b.cb.Execute(func() (string, error) {
		return b.provider.Complete(ctx, p)
	})
	metricsvc.AIDuration.WithLabelValues(b.Name(), string(p.Kind)).Observe(time.Since(start).Seconds())
	metricsvc.AIRequests.WithLabelValues(b.Name(), string(p.Kind), metricsvc.Status(err)).Inc()

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ai.NewProviderError(ai.NetworkOrHTTPFailure, b.Name(), err)
	}
	return out, err
}
