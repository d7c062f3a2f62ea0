package advisor

import (
	"stock-advisor-bot/internal/ta"
	"stock-advisor-bot/internal/types"
)

// columns splits a bar series into the per-field slices the primitives
// operate on. The input series is never mutated.
func columns(bars []types.PriceBar) (highs, lows, closes, vols []float64) {
	highs = make([]float64, len(bars))
	lows = make([]float64, len(bars))
	closes = make([]float64, len(bars))
	vols = make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
		vols[i] = b.Vol
	}
	return
}

// Snapshot derives the full indicator set at the latest bar. Pure; every
// call recomputes from scratch.
func Snapshot(bars []types.PriceBar) types.IndicatorSet {
	highs, lows, closes, vols := columns(bars)

	var s types.IndicatorSet
	s.RSI14 = ta.RSI(closes, 14)
	s.EMA20 = ta.EMA(closes, 20)
	s.EMA50 = ta.EMA(closes, 50)
	s.EMA200 = ta.EMA(closes, 200)
	s.SMA20 = ta.SMA(closes, 20)
	s.SMA50 = ta.SMA(closes, 50)
	s.SMA200 = ta.SMA(closes, 200)
	s.BB.Middle, s.BB.Upper, s.BB.Lower = ta.Bollinger(closes, 20, 2)
	s.ADX14, s.PlusDI, s.MinusDI = ta.ADX(highs, lows, closes, 14)
	s.MACDLine, s.MACDSignal = ta.MACD(closes)
	s.Volatility20 = ta.Volatility(closes, 20)
	s.VolumeAvg20 = ta.SMA(vols, 20)
	return s
}
