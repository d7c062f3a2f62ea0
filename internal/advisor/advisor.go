// Package advisor is the indicator and scoring engine. The pure parts
// (Snapshot, ComputeScore, SwingScore) hold no state and never touch I/O;
// Service glues them to a market-data provider.
package advisor

import (
	"context"
	"fmt"
	"math"

	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/store"
	"stock-advisor-bot/internal/ta"
	"stock-advisor-bot/internal/types"
)

type Service struct {
	cfg *store.Config
	md  interfaces.Provider
}

var _ interfaces.Analyzer = (*Service)(nil)

func New(cfg *store.Config, md interfaces.Provider) *Service {
	return &Service{cfg: cfg, md: md}
}

// Report fetches history for one symbol and reduces it to the structured
// advisory: indicator snapshot, pivots, composite score, verdict.
func (s *Service) Report(ctx context.Context, symbol string) (*types.Report, error) {
	bars, err := s.md.DailyBars(ctx, symbol, s.cfg.MarketData.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("daily bars for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no history for %s", symbol)
	}

	latest := bars[len(bars)-1]
	prev := latest
	if len(bars) > 1 {
		prev = bars[len(bars)-2]
	}

	snap := Snapshot(bars)

	var piv types.PivotLevels
	piv.PP, piv.R1, piv.S1, piv.R2, piv.S2, piv.R3, piv.S3 = ta.Pivots(prev.High, prev.Low, prev.Close)

	ltp := latest.Close
	upside := 0.0
	if ltp > 0 {
		upside = round2((piv.R2 - ltp) / ltp * 100)
	}

	fund, err := s.md.Fundamentals(ctx, symbol)
	if err != nil {
		// Fundamentals are optional; score them as neutral.
		logger.Warn(ctx, "Fundamentals unavailable", "symbol", symbol, "error", err)
		fund = types.Fundamentals{}
	}

	score := ComputeScore(ScoreInput{
		LTP:           ltp,
		EMA50:         snap.EMA50,
		EMA200:        snap.EMA200,
		RSI:           snap.RSI14,
		PERatio:       fund.PERatio,
		ROE:           fund.ReturnOnEquity,
		UpsidePct:     upside,
		Volatility:    snap.Volatility20,
		HasVolatility: true,
	})

	return &types.Report{
		Symbol:       symbol,
		LTP:          ltp,
		PrevClose:    prev.Close,
		Trend:        TrendDirection(ltp, snap.EMA50, snap.EMA200),
		UpsidePct:    upside,
		Indicators:   snap,
		Fundamentals: fund,
		Pivots:       piv,
		Result: types.ScoreResult{
			Score:      score,
			Verdict:    VerdictFor(score),
			Confidence: ConfidenceFor(score),
		},
		GeneratedAt: latest.Ts,
	}, nil
}

// Swing runs the checklist for both sides on the same series. The sides
// are independent; a symbol can in principle collect points on both.
func (s *Service) Swing(ctx context.Context, symbol string) (types.SwingCheck, types.SwingCheck, error) {
	bars, err := s.md.DailyBars(ctx, symbol, s.cfg.MarketData.LookbackDays)
	if err != nil {
		return types.SwingCheck{}, types.SwingCheck{}, fmt.Errorf("daily bars for %s: %w", symbol, err)
	}
	return SwingScore(bars, types.SideLong), SwingScore(bars, types.SideShort), nil
}

// Scan scores every symbol and keeps the ones at or above minScore.
// Per-symbol failures are logged and skipped so one bad ticker cannot
// spoil a watchlist sweep.
func (s *Service) Scan(ctx context.Context, symbols []string, minScore int) ([]types.ScanHit, error) {
	hits := make([]types.ScanHit, 0, len(symbols))
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return hits, err
		}
		rep, err := s.Report(ctx, sym)
		if err != nil {
			logger.Warn(ctx, "Scan skipping symbol", "symbol", sym, "error", err)
			continue
		}
		if rep.Result.Score >= minScore {
			hits = append(hits, types.ScanHit{Symbol: sym, Score: rep.Result.Score})
		}
	}
	return hits, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
