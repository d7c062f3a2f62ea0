package marketdata

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/types"
)

// KiteProvider fetches NSE data through the Zerodha Kite Connect API.
// It needs a valid API key and daily access token; without both it
// reports unavailable and the fallback chain skips it.
type KiteProvider struct {
	kc       *kiteconnect.Client
	exchange string
	limiter  *limiter

	mu          sync.Mutex
	instruments map[string]int // tradingsymbol -> instrument token
}

var _ interfaces.Provider = (*KiteProvider)(nil)

func NewKiteProvider(apiKey, accessToken, exchange string, perMinute int) *KiteProvider {
	if perMinute <= 0 {
		perMinute = 10
	}
	if exchange == "" {
		exchange = "NSE"
	}

	p := &KiteProvider{
		exchange: exchange,
		limiter:  newLimiter("kite", perMinute),
	}
	if apiKey != "" && accessToken != "" {
		p.kc = kiteconnect.New(apiKey)
		p.kc.SetAccessToken(accessToken)
	}
	return p
}

func (p *KiteProvider) Name() string { return "kite" }

func (p *KiteProvider) IsAvailable() bool { return p.kc != nil }

// DailyBars fetches daily candles via the historical data API. The
// instrument token table is loaded once and reused.
func (p *KiteProvider) DailyBars(ctx context.Context, symbol string, days int) ([]types.PriceBar, error) {
	if p.kc == nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("not configured")}
	}

	token, err := p.instrumentToken(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := p.limiter.wait(ctx); err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	candles, err := p.kc.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err, Retryable: true}
	}
	if len(candles) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: ErrNoData}
	}

	bars := make([]types.PriceBar, 0, len(candles))
	for _, c := range candles {
		bars = append(bars, types.PriceBar{
			Ts:    c.Date.Unix(),
			Open:  c.Open,
			High:  c.High,
			Low:   c.Low,
			Close: c.Close,
			Vol:   float64(c.Volume),
		})
	}
	return bars, nil
}

// Quote returns the last traded price via the LTP API.
func (p *KiteProvider) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	if p.kc == nil {
		return types.Quote{}, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("not configured")}
	}

	if err := p.limiter.wait(ctx); err != nil {
		return types.Quote{}, err
	}

	key := p.exchange + ":" + strings.ToUpper(symbol)
	ltp, err := p.kc.GetLTP(key)
	if err != nil {
		return types.Quote{}, &ProviderError{Provider: p.Name(), Err: err, Retryable: true}
	}

	q, ok := ltp[key]
	if !ok || q.LastPrice == 0 {
		return types.Quote{}, &ProviderError{Provider: p.Name(), Err: ErrNoData}
	}

	return types.Quote{
		Symbol: strings.ToUpper(symbol),
		Price:  q.LastPrice,
		Ts:     time.Now().Unix(),
	}, nil
}

// Fundamentals is not served by Kite Connect; the fallback chain pulls
// fundamentals from Yahoo instead.
func (p *KiteProvider) Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	return types.Fundamentals{}, nil
}

func (p *KiteProvider) instrumentToken(ctx context.Context, symbol string) (int, error) {
	upper := strings.ToUpper(strings.TrimSpace(symbol))

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.instruments == nil {
		if err := p.limiter.wait(ctx); err != nil {
			return 0, err
		}
		all, err := p.kc.GetInstruments()
		if err != nil {
			return 0, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("loading instruments: %w", err), Retryable: true}
		}

		table := make(map[string]int, len(all))
		for _, inst := range all {
			if inst.Exchange == p.exchange {
				table[inst.Tradingsymbol] = inst.InstrumentToken
			}
		}
		p.instruments = table
		logger.Info(ctx, "Instrument table loaded", "exchange", p.exchange, "count", len(table))
	}

	token, ok := p.instruments[upper]
	if !ok {
		return 0, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("%s: %w", upper, ErrNoData)}
	}
	return token, nil
}
