package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/types"
)

const (
	yahooChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
	yahooUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// indexSymbols maps NSE index shorthands to Yahoo's tickers. Everything
// else gets the .NS suffix.
var indexSymbols = map[string]string{
	"NIFTY":      "^NSEI",
	"NIFTY50":    "^NSEI",
	"BANKNIFTY":  "^NSEBANK",
	"NIFTYBANK":  "^NSEBANK",
	"FINNIFTY":   "NIFTY_FIN_SERVICE.NS",
	"MIDCPNIFTY": "NIFTY_MIDCAP_100.NS",
}

// YahooProvider fetches NSE data from the unofficial Yahoo Finance API.
// No API key is needed, so it is always available.
type YahooProvider struct {
	client  *http.Client
	limiter *limiter
}

var _ interfaces.Provider = (*YahooProvider)(nil)

func NewYahooProvider(perMinute int) *YahooProvider {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &YahooProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: newLimiter("yahoo", perMinute),
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) IsAvailable() bool { return true }

// yahooSymbol converts an NSE trading symbol to Yahoo's ticker format.
func yahooSymbol(symbol string) string {
	upper := strings.ToUpper(strings.TrimSpace(symbol))
	if mapped, ok := indexSymbols[upper]; ok {
		return mapped
	}
	if strings.HasPrefix(upper, "^") || strings.Contains(upper, ".") {
		return upper
	}
	return upper + ".NS"
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyBars fetches daily OHLCV bars covering the trailing days window.
func (p *YahooProvider) DailyBars(ctx context.Context, symbol string, days int) ([]types.PriceBar, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -days)

	url := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d&includePrePost=false",
		yahooChartURL, yahooSymbol(symbol), from.Unix(), now.Unix())

	var data yahooChartResponse
	if err := p.getJSON(ctx, url, &data); err != nil {
		return nil, err
	}

	if data.Chart.Error != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("%s: %w", data.Chart.Error.Description, ErrNoData)}
	}
	if len(data.Chart.Result) == 0 || len(data.Chart.Result[0].Timestamp) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: ErrNoData}
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: ErrNoData}
	}
	quotes := result.Indicators.Quote[0]

	bars := make([]types.PriceBar, 0, len(result.Timestamp))
	for i := range result.Timestamp {
		// Yahoo pads holidays with null entries; skip incomplete rows
		if i >= len(quotes.Open) || i >= len(quotes.High) || i >= len(quotes.Low) || i >= len(quotes.Close) {
			continue
		}
		if quotes.Close[i] == 0 {
			continue
		}

		var volume int64
		if i < len(quotes.Volume) {
			volume = quotes.Volume[i]
		}

		bars = append(bars, types.PriceBar{
			Ts:    result.Timestamp[i],
			Open:  quotes.Open[i],
			High:  quotes.High[i],
			Low:   quotes.Low[i],
			Close: quotes.Close[i],
			Vol:   float64(volume),
		})
	}

	if len(bars) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: ErrNoData}
	}
	return bars, nil
}

// Quote returns the last traded price from the chart metadata.
func (p *YahooProvider) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	url := fmt.Sprintf("%s/%s?interval=1d&range=1d", yahooChartURL, yahooSymbol(symbol))

	var data yahooChartResponse
	if err := p.getJSON(ctx, url, &data); err != nil {
		return types.Quote{}, err
	}

	if data.Chart.Error != nil || len(data.Chart.Result) == 0 {
		return types.Quote{}, &ProviderError{Provider: p.Name(), Err: ErrNoData}
	}

	meta := data.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return types.Quote{}, &ProviderError{Provider: p.Name(), Err: ErrNoData}
	}

	return types.Quote{
		Symbol: strings.ToUpper(symbol),
		Price:  meta.RegularMarketPrice,
		Ts:     meta.RegularMarketTime,
	}, nil
}

// rawValue is Yahoo's {"raw": n, "fmt": "n"} number wrapper.
type rawValue struct {
	Raw float64 `json:"raw"`
}

type yahooSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName string `json:"shortName"`
				LongName  string `json:"longName"`
			} `json:"price"`
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
			SummaryDetail struct {
				TrailingPE    rawValue `json:"trailingPE"`
				DividendYield rawValue `json:"dividendYield"`
				MarketCap     rawValue `json:"marketCap"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				PriceToBook rawValue `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				ReturnOnEquity rawValue `json:"returnOnEquity"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Fundamentals fetches company fundamentals from the quoteSummary endpoint.
// Failures degrade to a zero value because scoring treats missing
// fundamentals as neutral.
func (p *YahooProvider) Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	url := fmt.Sprintf("%s/%s?modules=price,assetProfile,summaryDetail,defaultKeyStatistics,financialData",
		yahooSummaryURL, yahooSymbol(symbol))

	var data yahooSummaryResponse
	if err := p.getJSON(ctx, url, &data); err != nil {
		logger.Debug(ctx, "Fundamentals fetch failed", "symbol", symbol, "error", err)
		return types.Fundamentals{}, nil
	}

	if data.QuoteSummary.Error != nil || len(data.QuoteSummary.Result) == 0 {
		return types.Fundamentals{}, nil
	}

	r := data.QuoteSummary.Result[0]
	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}

	return types.Fundamentals{
		Name:           name,
		Sector:         r.AssetProfile.Sector,
		PERatio:        r.SummaryDetail.TrailingPE.Raw,
		PriceToBook:    r.DefaultKeyStatistics.PriceToBook.Raw,
		ReturnOnEquity: r.FinancialData.ReturnOnEquity.Raw * 100,
		MarketCap:      r.SummaryDetail.MarketCap.Raw,
		DividendYield:  r.SummaryDetail.DividendYield.Raw * 100,
	}, nil
}

func (p *YahooProvider) getJSON(ctx context.Context, url string, out any) error {
	if err := p.limiter.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return &ProviderError{Provider: p.Name(), Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		p.limiter.signalRateLimited()
		return &ProviderError{Provider: p.Name(), Err: fmt.Errorf("rate limited"), Retryable: true}
	}
	if resp.StatusCode != http.StatusOK {
		return &ProviderError{Provider: p.Name(), Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	p.limiter.resetBackoff()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
