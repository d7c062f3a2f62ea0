package marketdata

import (
	"context"
	"strings"
	"sync"
	"time"

	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/types"
)

// CachingProvider wraps a Provider with a per-symbol TTL cache. One user
// query touches the same symbol several times (report, swing, pivots),
// and scans hit the whole watchlist; the cache keeps that to one upstream
// fetch per symbol per TTL window.
type CachingProvider struct {
	inner   interfaces.Provider
	ttl     time.Duration
	maxDays int
	now     func() time.Time

	mu    sync.Mutex
	bars  map[string]barsEntry
	funds map[string]fundsEntry
}

type barsEntry struct {
	bars      []types.PriceBar
	fetchedAt time.Time
}

type fundsEntry struct {
	funds     types.Fundamentals
	fetchedAt time.Time
}

var _ interfaces.Provider = (*CachingProvider)(nil)

// NewCachingProvider creates a caching wrapper. maxDays is the window to
// always fetch upstream so one fetch serves every lookback the engine
// asks for (the swing checklist needs 200+ bars).
func NewCachingProvider(inner interfaces.Provider, ttl time.Duration, maxDays int) *CachingProvider {
	if maxDays < 365 {
		maxDays = 365
	}
	return &CachingProvider{
		inner:   inner,
		ttl:     ttl,
		maxDays: maxDays,
		now:     time.Now,
		bars:    make(map[string]barsEntry),
		funds:   make(map[string]fundsEntry),
	}
}

func (p *CachingProvider) Name() string      { return p.inner.Name() }
func (p *CachingProvider) IsAvailable() bool { return p.inner.IsAvailable() }

func (p *CachingProvider) DailyBars(ctx context.Context, symbol string, days int) ([]types.PriceBar, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))

	p.mu.Lock()
	entry, ok := p.bars[key]
	p.mu.Unlock()

	if ok && p.now().Sub(entry.fetchedAt) < p.ttl {
		return tail(entry.bars, days), nil
	}

	fetchDays := p.maxDays
	if days > fetchDays {
		fetchDays = days
	}

	bars, err := p.inner.DailyBars(ctx, key, fetchDays)
	if err != nil {
		// Serve stale data over an error when we have it
		if ok {
			return tail(entry.bars, days), nil
		}
		return nil, err
	}

	p.mu.Lock()
	p.bars[key] = barsEntry{bars: bars, fetchedAt: p.now()}
	p.mu.Unlock()

	return tail(bars, days), nil
}

// Quote is never cached; the last traded price is the one thing users
// expect to be live.
func (p *CachingProvider) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	return p.inner.Quote(ctx, symbol)
}

func (p *CachingProvider) Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))

	p.mu.Lock()
	entry, ok := p.funds[key]
	p.mu.Unlock()

	// Fundamentals move on quarterly reports, so hold them 24x the bar TTL
	if ok && p.now().Sub(entry.fetchedAt) < 24*p.ttl {
		return entry.funds, nil
	}

	funds, err := p.inner.Fundamentals(ctx, key)
	if err != nil {
		return types.Fundamentals{}, err
	}

	p.mu.Lock()
	p.funds[key] = fundsEntry{funds: funds, fetchedAt: p.now()}
	p.mu.Unlock()

	return funds, nil
}

func tail(bars []types.PriceBar, days int) []types.PriceBar {
	if len(bars) > days {
		return bars[len(bars)-days:]
	}
	return bars
}
