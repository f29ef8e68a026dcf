package pricing

import (
	"context"
	"testing"
	"time"

	"virtual-trader/internal/errors"
	"virtual-trader/internal/models"
	"virtual-trader/internal/resilience"
)

func fastRetrySource(inner Source) *RetrySource {
	src := NewRetrySource(inner)
	src.cfg.InitialDelay = time.Millisecond
	src.cfg.MaxDelay = 5 * time.Millisecond
	return src
}

func TestRetrySourceRecoversFromTransientFailure(t *testing.T) {
	inner := newCountingSource()
	inner.fail["AAPL"] = errors.NewPriceError("AAPL", "counting", errors.ErrPriceUnavailable)
	src := fastRetrySource(inner)

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(500 * time.Microsecond)
		inner.mu.Lock()
		delete(inner.fail, "AAPL")
		inner.quotes["AAPL"] = models.Quote{Symbol: "AAPL"}
		inner.mu.Unlock()
	}()

	q, err := src.Quote(context.Background(), "AAPL")
	<-done
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Symbol != "AAPL" {
		t.Errorf("symbol = %s, want AAPL", q.Symbol)
	}
	if inner.callCount() < 2 {
		t.Errorf("upstream called %d times, want at least 2", inner.callCount())
	}
}

func TestRetrySourceDoesNotRetryUnknownSymbol(t *testing.T) {
	inner := newCountingSource()
	src := fastRetrySource(inner)

	_, err := src.Quote(context.Background(), "NOPE")
	if !errors.Is(err, errors.ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
	if inner.callCount() != 1 {
		t.Errorf("upstream called %d times, want 1 (unknown symbols are not retried)", inner.callCount())
	}
}

func TestRetrySourceGivesUpAfterMaxAttempts(t *testing.T) {
	inner := newCountingSource()
	inner.fail["AAPL"] = errors.NewPriceError("AAPL", "counting", errors.ErrPriceUnavailable)
	src := fastRetrySource(inner)

	_, err := src.Quote(context.Background(), "AAPL")
	if !errors.Is(err, errors.ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable, got %v", err)
	}
	if inner.callCount() != 3 {
		t.Errorf("upstream called %d times, want 3", inner.callCount())
	}
}

func TestBreakerSourceOpensAfterRepeatedFailures(t *testing.T) {
	inner := newCountingSource()
	inner.fail["AAPL"] = errors.NewPriceError("AAPL", "counting", errors.ErrPriceUnavailable)
	src := NewBreakerSource(inner)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := src.Quote(ctx, "AAPL"); err == nil {
			t.Fatalf("quote %d should fail", i)
		}
	}
	if src.Breaker().State() != resilience.CircuitOpen {
		t.Fatalf("breaker state = %s, want OPEN", src.Breaker().State())
	}

	// Open circuit short-circuits without touching the upstream.
	before := inner.callCount()
	_, err := src.Quote(ctx, "AAPL")
	if !errors.Is(err, errors.ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable from open circuit, got %v", err)
	}
	if inner.callCount() != before {
		t.Error("open circuit must not call the upstream")
	}
}

func TestBreakerSourceIgnoresUnknownSymbols(t *testing.T) {
	inner := newCountingSource()
	src := NewBreakerSource(inner)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		src.Quote(ctx, "NOPE")
	}
	if src.Breaker().State() != resilience.CircuitClosed {
		t.Errorf("breaker state = %s, want CLOSED (unknown symbols must not trip it)", src.Breaker().State())
	}
}
