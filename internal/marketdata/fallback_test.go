package marketdata

import (
	"context"
	"errors"
	"testing"

	"stock-advisor-bot/internal/types"
)

func TestFallbackSkipsUnavailableProviders(t *testing.T) {
	down := &stubProvider{name: "down", available: false}
	up := &stubProvider{name: "up", available: true, bars: makeBars(10)}

	f := NewFallbackProvider(down, up)
	if !f.IsAvailable() {
		t.Fatal("fallback with one live provider should be available")
	}

	bars, err := f.DailyBars(context.Background(), "INFY", 10)
	if err != nil {
		t.Fatalf("DailyBars: %v", err)
	}
	if len(bars) != 10 {
		t.Errorf("got %d bars", len(bars))
	}
	if down.barsCalls != 0 {
		t.Error("unavailable provider should never be called")
	}
}

func TestFallbackTriesNextOnError(t *testing.T) {
	failing := &stubProvider{name: "a", available: true, barsErr: errors.New("boom")}
	working := &stubProvider{name: "b", available: true, bars: makeBars(5)}

	f := NewFallbackProvider(failing, working)
	bars, err := f.DailyBars(context.Background(), "TCS", 5)
	if err != nil {
		t.Fatalf("DailyBars: %v", err)
	}
	if len(bars) != 5 {
		t.Errorf("got %d bars", len(bars))
	}
	if failing.barsCalls != 1 || working.barsCalls != 1 {
		t.Errorf("calls: failing=%d working=%d", failing.barsCalls, working.barsCalls)
	}
}

func TestFallbackReturnsLastError(t *testing.T) {
	a := &stubProvider{name: "a", available: true, barsErr: errors.New("a down")}
	b := &stubProvider{name: "b", available: true, barsErr: &ProviderError{Provider: "b", Err: ErrNoData}}

	f := NewFallbackProvider(a, b)
	_, err := f.DailyBars(context.Background(), "NOSUCH", 5)
	if err == nil {
		t.Fatal("want error when every provider fails")
	}
	if !errors.Is(err, ErrNoData) {
		t.Errorf("last error should surface, got %v", err)
	}
}

func TestFallbackFundamentalsSkipsZeroValues(t *testing.T) {
	empty := &stubProvider{name: "kite", available: true, bars: makeBars(5)}
	rich := &stubProvider{
		name: "yahoo", available: true, bars: makeBars(5),
		funds: types.Fundamentals{Name: "State Bank of India", PERatio: 11.2},
	}

	f := NewFallbackProvider(empty, rich)
	funds, err := f.Fundamentals(context.Background(), "SBIN")
	if err != nil {
		t.Fatalf("Fundamentals: %v", err)
	}
	if funds.Name != "State Bank of India" {
		t.Errorf("zero-value answer should be skipped, got %+v", funds)
	}
}

func TestFallbackFundamentalsAllEmptyIsNotAnError(t *testing.T) {
	a := &stubProvider{name: "a", available: true}
	f := NewFallbackProvider(a)

	funds, err := f.Fundamentals(context.Background(), "INFY")
	if err != nil {
		t.Fatalf("missing fundamentals must degrade to zero value, got %v", err)
	}
	if funds != (types.Fundamentals{}) {
		t.Errorf("want zero value, got %+v", funds)
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	err := &ProviderError{Provider: "yahoo", Err: ErrNoData}
	if !errors.Is(err, ErrNoData) {
		t.Error("ProviderError should unwrap to its cause")
	}
	if err.Error() != "yahoo: no market data for symbol" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestYahooSymbolMapping(t *testing.T) {
	cases := map[string]string{
		"INFY":      "INFY.NS",
		"infy":      "INFY.NS",
		" TCS ":     "TCS.NS",
		"NIFTY":     "^NSEI",
		"NIFTY50":   "^NSEI",
		"BANKNIFTY": "^NSEBANK",
		"^NSEI":     "^NSEI",
		"INFY.NS":   "INFY.NS",
	}
	for in, want := range cases {
		if got := yahooSymbol(in); got != want {
			t.Errorf("yahooSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}
