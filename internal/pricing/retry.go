package pricing

import (
	"context"

	"virtual-trader/internal/errors"
	"virtual-trader/internal/models"
	"virtual-trader/pkg/utils"
)

// RetrySource retries transient quote failures with backoff. Unknown
// symbols are not retried; only upstream availability errors are.
type RetrySource struct {
	src Source
	cfg utils.RetryConfig
}

// NewRetrySource wraps a source with retry behavior.
func NewRetrySource(src Source) *RetrySource {
	cfg := utils.DefaultRetryConfig()
	cfg.ShouldRetry = func(err error) bool {
		return errors.Is(err, errors.ErrPriceUnavailable)
	}
	return &RetrySource{src: src, cfg: cfg}
}

// Name returns the wrapped source's name.
func (s *RetrySource) Name() string { return s.src.Name() }

// Quote fetches a quote, retrying transient failures.
func (s *RetrySource) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	return utils.RetryWithResult(ctx, s.cfg, func() (models.Quote, error) {
		return s.src.Quote(ctx, symbol)
	})
}
