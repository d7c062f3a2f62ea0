package marketdata

import (
	"context"
	"errors"

	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/types"
)

// FallbackProvider tries each underlying provider in order until one
// answers. Providers reporting unavailable at construction are dropped.
type FallbackProvider struct {
	providers []interfaces.Provider
}

var _ interfaces.Provider = (*FallbackProvider)(nil)

func NewFallbackProvider(providers ...interfaces.Provider) *FallbackProvider {
	available := make([]interfaces.Provider, 0, len(providers))
	for _, p := range providers {
		if p.IsAvailable() {
			available = append(available, p)
		}
	}
	return &FallbackProvider{providers: available}
}

func (f *FallbackProvider) Name() string { return "fallback" }

func (f *FallbackProvider) IsAvailable() bool { return len(f.providers) > 0 }

func (f *FallbackProvider) DailyBars(ctx context.Context, symbol string, days int) ([]types.PriceBar, error) {
	var lastErr error
	for _, p := range f.providers {
		bars, err := p.DailyBars(ctx, symbol, days)
		if err == nil {
			return bars, nil
		}
		lastErr = err
		// A definitive "no such symbol" answer is not worth retrying
		// on the next provider unless one actually has the listing.
		logger.Debug(ctx, "Provider failed, trying next", "provider", p.Name(), "symbol", symbol, "error", err)
	}
	if lastErr == nil {
		lastErr = ErrNoData
	}
	return nil, lastErr
}

func (f *FallbackProvider) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	var lastErr error
	for _, p := range f.providers {
		q, err := p.Quote(ctx, symbol)
		if err == nil {
			return q, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ErrNoData
	}
	return types.Quote{}, lastErr
}

// Fundamentals returns the first non-zero answer. Providers without
// fundamental data return zero values without error, so those are
// skipped rather than treated as success.
func (f *FallbackProvider) Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	var lastErr error
	for _, p := range f.providers {
		fund, err := p.Fundamentals(ctx, symbol)
		if err == nil && fund != (types.Fundamentals{}) {
			return fund, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr != nil && !errors.Is(lastErr, ErrNoData) {
		return types.Fundamentals{}, lastErr
	}
	return types.Fundamentals{}, nil
}
