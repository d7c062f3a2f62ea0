package advisor

import (
	"fmt"
	"math"

	"stock-advisor-bot/internal/ta"
	"stock-advisor-bot/internal/types"
)

// minSwingBars is what the 200-period averages need before the checklist
// says anything at all.
const minSwingBars = 200

// SwingScore evaluates the 8-point checklist for one side. LONG and SHORT
// are independent: this never looks at the other side's result. With fewer
// than 200 bars the score is 0 with no conditions. Conditions appear in a
// fixed evaluation order (trend, band, ADX, volume, RSI, MACD, extremum
// proximity, EMA50 proximity) so output is reproducible.
func SwingScore(bars []types.PriceBar, side types.Side) types.SwingCheck {
	check := types.SwingCheck{Side: side, Conditions: []string{}}
	if len(bars) < minSwingBars {
		return check
	}

	highs, lows, closes, vols := columns(bars)
	ltp := closes[len(closes)-1]

	ema50 := ta.EMA(closes, 50)
	ema200 := ta.EMA(closes, 200)
	bbMid, bbUp, bbLow := ta.Bollinger(closes, 20, 2)
	adx, plusDI, minusDI := ta.ADX(highs, lows, closes, 14)
	rsi := ta.RSI(closes, 14)
	macdLine, macdSignal := ta.MACD(closes)
	volAvg := ta.SMA(vols, 20)
	volLast := vols[len(vols)-1]
	recentHigh := ta.RollingMax(closes, 20)
	recentLow := ta.RollingMin(closes, 20)

	add := func(ok bool, label string) {
		if ok {
			check.Conditions = append(check.Conditions, label)
			check.Score++
		}
	}

	nearEMA50 := ema50 != 0 && math.Abs(ltp-ema50)/ema50 < 0.03

	if side == types.SideLong {
		add(ltp > ema50 && ema50 > ema200, "trend: price > EMA50 > EMA200")
		add(bbLow <= ltp && ltp <= bbMid, "price in lower Bollinger half")
		add(adx > 25 && plusDI > minusDI, fmt.Sprintf("ADX %.1f > 25 with +DI > -DI", adx))
		add(volLast > volAvg, "volume above 20-bar average")
		add(rsi >= 40 && rsi <= 70, fmt.Sprintf("RSI %.1f in 40-70", rsi))
		add(macdLine > macdSignal, "MACD above signal")
		add(ltp >= recentHigh*0.97, "near 20-bar high")
		add(nearEMA50, "near EMA50 support")
	} else {
		add(ltp < ema50 && ema50 < ema200, "trend: price < EMA50 < EMA200")
		add(bbMid <= ltp && ltp <= bbUp, "price in upper Bollinger half")
		add(adx > 25 && minusDI > plusDI, fmt.Sprintf("ADX %.1f > 25 with -DI > +DI", adx))
		add(volLast > volAvg, "volume above 20-bar average")
		add(rsi >= 30 && rsi <= 60, fmt.Sprintf("RSI %.1f in 30-60", rsi))
		add(macdLine < macdSignal, "MACD below signal")
		add(ltp <= recentLow*1.03, "near 20-bar low")
		add(nearEMA50, "near EMA50 resistance")
	}

	return check
}
