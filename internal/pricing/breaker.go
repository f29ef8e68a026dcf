package pricing

import (
	"context"

	"virtual-trader/internal/errors"
	"virtual-trader/internal/models"
	"virtual-trader/internal/resilience"
)

// BreakerSource wraps a source with a circuit breaker so a failing
// upstream is backed off instead of hammered. Unknown symbols do not
// trip the breaker; only availability errors do.
type BreakerSource struct {
	src Source
	cb  *resilience.CircuitBreaker
}

// NewBreakerSource wraps a source with circuit breaker protection.
func NewBreakerSource(src Source) *BreakerSource {
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.ShouldTrip = func(err error) bool {
		return errors.Is(err, errors.ErrPriceUnavailable)
	}
	return &BreakerSource{
		src: src,
		cb:  resilience.NewCircuitBreaker(src.Name(), cfg),
	}
}

// Name returns the wrapped source's name.
func (s *BreakerSource) Name() string { return s.src.Name() }

// Breaker exposes the underlying circuit breaker.
func (s *BreakerSource) Breaker() *resilience.CircuitBreaker { return s.cb }

// Quote fetches a quote unless the circuit is open.
func (s *BreakerSource) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	if err := s.cb.Allow(); err != nil {
		return models.Quote{}, errors.NewPriceError(symbol, s.src.Name(),
			errors.Wrap(errors.ErrPriceUnavailable, err.Error()))
	}

	quote, err := s.src.Quote(ctx, symbol)
	s.cb.Record(err)
	return quote, err
}
