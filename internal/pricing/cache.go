package pricing

import (
	"context"
	"sync"
	"time"

	"virtual-trader/internal/models"
)

type cachedQuote struct {
	quote   models.Quote
	fetched time.Time
}

// CachedSource wraps a Source with a per-symbol TTL cache.
type CachedSource struct {
	src Source
	ttl time.Duration

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

// NewCachedSource wraps src with a TTL cache. A non-positive ttl disables
// caching and every lookup goes to the underlying source.
func NewCachedSource(src Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		src:   src,
		ttl:   ttl,
		cache: make(map[string]cachedQuote),
	}
}

// Name implements Source.
func (s *CachedSource) Name() string { return s.src.Name() }

// Quote implements Source. Errors are never cached.
func (s *CachedSource) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	if s.ttl > 0 {
		s.mu.RLock()
		if c, ok := s.cache[symbol]; ok && time.Since(c.fetched) < s.ttl {
			s.mu.RUnlock()
			return c.quote, nil
		}
		s.mu.RUnlock()
	}

	q, err := s.src.Quote(ctx, symbol)
	if err != nil {
		return models.Quote{}, err
	}

	if s.ttl > 0 {
		s.mu.Lock()
		s.cache[symbol] = cachedQuote{quote: q, fetched: time.Now()}
		s.mu.Unlock()
	}
	return q, nil
}
