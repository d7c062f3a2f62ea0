package ta

import (
	"math"
	"testing"
)

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestRSIBounds(t *testing.T) {
	cases := [][]float64{
		linear(50, 100, 1),
		linear(50, 100, -1),
		{100, 99, 101, 98, 102, 97, 103, 96, 104, 95, 105, 94, 106, 93, 107, 92},
		linear(300, 10, 0.5),
	}
	for i, closes := range cases {
		rsi := RSI(closes, 14)
		if rsi < 0 || rsi > 100 {
			t.Errorf("case %d: RSI %.4f out of [0,100]", i, rsi)
		}
	}
}

func TestRSIConvergence(t *testing.T) {
	up := RSI(linear(120, 100, 1), 14)
	if up < 95 {
		t.Errorf("RSI of strictly rising series = %.2f, want near 100", up)
	}
	down := RSI(linear(120, 220, -1), 14)
	if down > 5 {
		t.Errorf("RSI of strictly falling series = %.2f, want near 0", down)
	}
}

func TestRSIInsufficientHistory(t *testing.T) {
	if got := RSI([]float64{100, 101, 102}, 14); got != 50.0 {
		t.Errorf("RSI on 3 bars = %.2f, want neutral 50", got)
	}
	if got := RSI(nil, 14); got != 50.0 {
		t.Errorf("RSI on empty series = %.2f, want neutral 50", got)
	}
}

func TestRSINoLossesStaysFinite(t *testing.T) {
	rsi := RSI(linear(30, 100, 2), 14)
	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		t.Fatalf("RSI with zero losses = %v, want finite", rsi)
	}
	if rsi < 99 {
		t.Errorf("RSI with zero losses = %.2f, want ~100", rsi)
	}
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	if got := SMA(closes, 3); got != 4 {
		t.Errorf("SMA(3) = %.2f, want 4", got)
	}
	// Window longer than the series averages what exists.
	if got := SMA(closes, 10); got != 3 {
		t.Errorf("SMA(10) over 5 values = %.2f, want 3", got)
	}
	if got := SMA(nil, 5); got != 0 {
		t.Errorf("SMA of empty series = %.2f, want 0", got)
	}
}

func TestEMAConstantSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 250
	}
	if got := EMA(closes, 20); math.Abs(got-250) > 1e-9 {
		t.Errorf("EMA of constant series = %.4f, want 250", got)
	}
}

func TestEMATracksTrend(t *testing.T) {
	closes := linear(100, 100, 1)
	e20 := EMA(closes, 20)
	e50 := EMA(closes, 50)
	last := closes[len(closes)-1]
	if !(e20 < last && e50 < e20) {
		t.Errorf("uptrend: want ema50 < ema20 < last, got %.2f / %.2f / %.2f", e50, e20, last)
	}
}

func TestBollingerOrdering(t *testing.T) {
	closes := []float64{10, 12, 11, 13, 12, 14, 13, 15, 14, 16, 15, 17, 16, 18, 17, 19, 18, 20, 19, 21}
	mid, up, low := Bollinger(closes, 20, 2)
	if !(low < mid && mid < up) {
		t.Errorf("band ordering broken: low %.2f mid %.2f up %.2f", low, mid, up)
	}
}

func TestBollingerZeroVariance(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50
	}
	mid, up, low := Bollinger(closes, 20, 2)
	if mid != 50 || up != 50 || low != 50 {
		t.Errorf("constant series: want all bands 50, got %.2f/%.2f/%.2f", mid, up, low)
	}
}

func TestPivotLevelRelations(t *testing.T) {
	// r1 mirrors the low around the pivot and s1 mirrors the high, so
	// r1-pp = pp-low and pp-s1 = high-pp. The r2/s2 band is symmetric
	// around the pivot for any input.
	cases := []struct{ h, l, c float64 }{
		{110, 100, 105},
		{2500.5, 2450.25, 2480},
		{10, 10, 10},
		{99.99, 12.34, 50},
	}
	for _, tc := range cases {
		pp, r1, s1, r2, s2, _, _ := Pivots(tc.h, tc.l, tc.c)
		if math.Abs((r1-pp)-(pp-tc.l)) > 1e-9 {
			t.Errorf("H=%.2f L=%.2f C=%.2f: r1-pp=%.6f, want pp-low=%.6f", tc.h, tc.l, tc.c, r1-pp, pp-tc.l)
		}
		if math.Abs((pp-s1)-(tc.h-pp)) > 1e-9 {
			t.Errorf("H=%.2f L=%.2f C=%.2f: pp-s1=%.6f, want high-pp=%.6f", tc.h, tc.l, tc.c, pp-s1, tc.h-pp)
		}
		if math.Abs((r2-pp)-(pp-s2)) > 1e-9 {
			t.Errorf("H=%.2f L=%.2f C=%.2f: r2-pp=%.6f pp-s2=%.6f", tc.h, tc.l, tc.c, r2-pp, pp-s2)
		}
	}
}

func TestPivotR1S1SymmetricAtMidpointClose(t *testing.T) {
	// With the close at the session midpoint the r1/s1 distances collapse
	// to the same value.
	cases := []struct{ h, l float64 }{
		{110, 100},
		{2500.5, 2450.25},
		{99.99, 12.34},
	}
	for _, tc := range cases {
		c := (tc.h + tc.l) / 2
		pp, r1, s1, _, _, _, _ := Pivots(tc.h, tc.l, c)
		if math.Abs((r1-pp)-(pp-s1)) > 1e-9 {
			t.Errorf("H=%.2f L=%.2f C=mid: r1-pp=%.6f pp-s1=%.6f", tc.h, tc.l, r1-pp, pp-s1)
		}
	}
}

func TestPivotKnownValues(t *testing.T) {
	pp, r1, s1, r2, s2, r3, s3 := Pivots(110, 100, 105)
	if pp != 105 {
		t.Errorf("pp = %.2f, want 105", pp)
	}
	if r1 != 110 || s1 != 100 {
		t.Errorf("r1/s1 = %.2f/%.2f, want 110/100", r1, s1)
	}
	if r2 != 115 || s2 != 95 {
		t.Errorf("r2/s2 = %.2f/%.2f, want 115/95", r2, s2)
	}
	if r3 != 120 || s3 != 90 {
		t.Errorf("r3/s3 = %.2f/%.2f, want 120/90", r3, s3)
	}
}

func TestMACDSignOnTrend(t *testing.T) {
	line, _ := MACD(linear(100, 100, 1))
	if line <= 0 {
		t.Errorf("MACD line on uptrend = %.4f, want > 0", line)
	}
	line, _ = MACD(linear(100, 300, -1))
	if line >= 0 {
		t.Errorf("MACD line on downtrend = %.4f, want < 0", line)
	}
}

func TestADXNeutralOnShortSeries(t *testing.T) {
	h := linear(10, 101, 1)
	l := linear(10, 99, 1)
	c := linear(10, 100, 1)
	adx, pdi, mdi := ADX(h, l, c, 14)
	if adx != 0 || pdi != 0 || mdi != 0 {
		t.Errorf("short series: want neutral (0,0,0), got (%.2f,%.2f,%.2f)", adx, pdi, mdi)
	}
}

func TestADXDirectionalBias(t *testing.T) {
	n := 80
	h := make([]float64, n)
	l := make([]float64, n)
	c := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + float64(i)*2
		h[i] = base + 1
		l[i] = base - 1
		c[i] = base
	}
	adx, pdi, mdi := ADX(h, l, c, 14)
	if pdi <= mdi {
		t.Errorf("steady uptrend: want +DI > -DI, got +DI %.2f -DI %.2f", pdi, mdi)
	}
	if adx <= 20 {
		t.Errorf("steady uptrend: want strong ADX, got %.2f", adx)
	}
	if math.IsNaN(adx) || math.IsInf(adx, 0) {
		t.Errorf("ADX must stay finite, got %v", adx)
	}
}

func TestVolatilityConstantSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 123.45
	}
	got := Volatility(closes, 20)
	if got != 0 {
		t.Errorf("volatility of constant series = %v, want 0", got)
	}
	if math.IsNaN(got) {
		t.Error("volatility of constant series is NaN")
	}
}

func TestVolatilityInsufficientHistory(t *testing.T) {
	if got := Volatility(linear(10, 100, 1), 20); got != 0 {
		t.Errorf("volatility on 10 bars = %v, want 0", got)
	}
}

func TestVolatilityPositiveOnNoise(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%2)*3
	}
	if got := Volatility(closes, 20); got <= 0 {
		t.Errorf("volatility of oscillating series = %v, want > 0", got)
	}
}

func TestRollingExtremes(t *testing.T) {
	vals := []float64{5, 9, 3, 7, 6, 8, 2, 4}
	if got := RollingMax(vals, 4); got != 8 {
		t.Errorf("RollingMax(4) = %.2f, want 8", got)
	}
	if got := RollingMin(vals, 4); got != 2 {
		t.Errorf("RollingMin(4) = %.2f, want 2", got)
	}
	if got := RollingMax(vals, 100); got != 9 {
		t.Errorf("RollingMax over-long window = %.2f, want 9", got)
	}
}
