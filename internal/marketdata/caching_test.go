package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-advisor-bot/internal/types"
)

// stubProvider counts upstream calls and serves canned data.
type stubProvider struct {
	name      string
	available bool
	bars      []types.PriceBar
	barsErr   error
	quote     types.Quote
	quoteErr  error
	funds     types.Fundamentals

	barsCalls  int
	fundsCalls int
}

func (s *stubProvider) Name() string      { return s.name }
func (s *stubProvider) IsAvailable() bool { return s.available }

func (s *stubProvider) DailyBars(ctx context.Context, symbol string, days int) ([]types.PriceBar, error) {
	s.barsCalls++
	if s.barsErr != nil {
		return nil, s.barsErr
	}
	return s.bars, nil
}

func (s *stubProvider) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	if s.quoteErr != nil {
		return types.Quote{}, s.quoteErr
	}
	return s.quote, nil
}

func (s *stubProvider) Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	s.fundsCalls++
	return s.funds, nil
}

func makeBars(n int) []types.PriceBar {
	bars := make([]types.PriceBar, n)
	for i := range bars {
		bars[i] = types.PriceBar{Ts: int64(i), Close: 100 + float64(i), Vol: 1000}
	}
	return bars
}

func TestCachingProviderSingleUpstreamFetch(t *testing.T) {
	stub := &stubProvider{name: "stub", available: true, bars: makeBars(400)}
	cp := NewCachingProvider(stub, 15*time.Minute, 400)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		bars, err := cp.DailyBars(ctx, "INFY", 200)
		if err != nil {
			t.Fatalf("DailyBars: %v", err)
		}
		if len(bars) != 200 {
			t.Fatalf("got %d bars, want 200", len(bars))
		}
	}
	if stub.barsCalls != 1 {
		t.Errorf("upstream called %d times, want 1", stub.barsCalls)
	}
}

func TestCachingProviderServesTailOfCachedWindow(t *testing.T) {
	stub := &stubProvider{name: "stub", available: true, bars: makeBars(400)}
	cp := NewCachingProvider(stub, 15*time.Minute, 400)

	ctx := context.Background()
	if _, err := cp.DailyBars(ctx, "INFY", 365); err != nil {
		t.Fatalf("DailyBars: %v", err)
	}
	bars, err := cp.DailyBars(ctx, "infy", 20)
	if err != nil {
		t.Fatalf("DailyBars: %v", err)
	}
	if len(bars) != 20 {
		t.Fatalf("got %d bars, want 20", len(bars))
	}
	if bars[len(bars)-1].Ts != 399 {
		t.Errorf("tail should end at the latest bar, got ts %d", bars[len(bars)-1].Ts)
	}
	if stub.barsCalls != 1 {
		t.Errorf("case-insensitive key miss: upstream called %d times", stub.barsCalls)
	}
}

func TestCachingProviderExpiry(t *testing.T) {
	stub := &stubProvider{name: "stub", available: true, bars: makeBars(400)}
	cp := NewCachingProvider(stub, 15*time.Minute, 400)

	current := time.Unix(1700000000, 0)
	cp.now = func() time.Time { return current }

	ctx := context.Background()
	if _, err := cp.DailyBars(ctx, "TCS", 100); err != nil {
		t.Fatalf("DailyBars: %v", err)
	}

	current = current.Add(14 * time.Minute)
	if _, err := cp.DailyBars(ctx, "TCS", 100); err != nil {
		t.Fatalf("DailyBars: %v", err)
	}
	if stub.barsCalls != 1 {
		t.Fatalf("cache expired early: %d upstream calls", stub.barsCalls)
	}

	current = current.Add(2 * time.Minute)
	if _, err := cp.DailyBars(ctx, "TCS", 100); err != nil {
		t.Fatalf("DailyBars: %v", err)
	}
	if stub.barsCalls != 2 {
		t.Errorf("stale entry not refetched: %d upstream calls, want 2", stub.barsCalls)
	}
}

func TestCachingProviderServesStaleOnUpstreamError(t *testing.T) {
	stub := &stubProvider{name: "stub", available: true, bars: makeBars(400)}
	cp := NewCachingProvider(stub, 15*time.Minute, 400)

	current := time.Unix(1700000000, 0)
	cp.now = func() time.Time { return current }

	ctx := context.Background()
	if _, err := cp.DailyBars(ctx, "SBIN", 100); err != nil {
		t.Fatalf("DailyBars: %v", err)
	}

	stub.barsErr = errors.New("upstream down")
	current = current.Add(time.Hour)

	bars, err := cp.DailyBars(ctx, "SBIN", 100)
	if err != nil {
		t.Fatalf("stale data should be served on upstream failure, got %v", err)
	}
	if len(bars) != 100 {
		t.Errorf("got %d stale bars, want 100", len(bars))
	}
}

func TestCachingProviderFundamentalsCached(t *testing.T) {
	stub := &stubProvider{
		name: "stub", available: true, bars: makeBars(400),
		funds: types.Fundamentals{Name: "Infosys", PERatio: 24.5},
	}
	cp := NewCachingProvider(stub, 15*time.Minute, 400)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f, err := cp.Fundamentals(ctx, "INFY")
		if err != nil {
			t.Fatalf("Fundamentals: %v", err)
		}
		if f.Name != "Infosys" {
			t.Fatalf("got %+v", f)
		}
	}
	if stub.fundsCalls != 1 {
		t.Errorf("fundamentals fetched %d times, want 1", stub.fundsCalls)
	}
}
