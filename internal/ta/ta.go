// Package ta implements the indicator primitives. Every function is pure,
// operates on chronological series, and fails soft: insufficient history or
// a degenerate division yields the documented neutral default, never NaN,
// Inf, or a panic.
package ta

import "math"

// eps substitutes zero denominators so ratios stay finite.
const eps = 1e-9

// SMA returns the arithmetic mean of the last n values. With fewer than n
// values it averages what exists; an empty series yields 0.
func SMA(vals []float64, n int) float64 {
	if len(vals) == 0 || n <= 0 {
		return 0
	}
	if n > len(vals) {
		n = len(vals)
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// EMA returns the latest exponential moving average with the adjust-free
// recursion seeded at the first value, alpha = 2/(span+1). An empty series
// yields 0.
func EMA(vals []float64, span int) float64 {
	s := EMASeries(vals, span)
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// EMASeries returns the full EMA series aligned with vals.
func EMASeries(vals []float64, span int) []float64 {
	if len(vals) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(vals))
	out[0] = vals[0]
	for i := 1; i < len(vals); i++ {
		out[i] = alpha*vals[i] + (1.0-alpha)*out[i-1]
	}
	return out
}

// RSI returns the Wilder-smoothed Relative Strength Index of the latest bar.
// Average gain/loss use exponential smoothing with alpha = 1/period, not a
// simple rolling mean. Fewer than period+1 values yields the neutral 50.
func RSI(vals []float64, period int) float64 {
	if period <= 0 || len(vals) < period+1 {
		return 50.0
	}
	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(vals); i++ {
		gain, loss := 0.0, 0.0
		if d := vals[i] - vals[i-1]; d > 0 {
			gain = d
		} else {
			loss = -d
		}
		if i == 1 {
			avgGain, avgLoss = gain, loss
			continue
		}
		avgGain = alpha*gain + (1.0-alpha)*avgGain
		avgLoss = alpha*loss + (1.0-alpha)*avgLoss
	}
	if avgLoss < eps {
		avgLoss = eps
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// StdDev returns the sample standard deviation of the last n values.
// Fewer than two values yields 0.
func StdDev(vals []float64, n int) float64 {
	if n > len(vals) {
		n = len(vals)
	}
	if n < 2 {
		return 0
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n-1))
}

// Bollinger returns the mid/upper/lower band at the latest bar:
// mid = SMA(n), upper/lower = mid +/- k standard deviations.
func Bollinger(vals []float64, n int, k float64) (mid, upper, lower float64) {
	mid = SMA(vals, n)
	sd := StdDev(vals, n)
	return mid, mid + k*sd, mid - k*sd
}

// Pivots computes classic floor-trader pivot levels from the prior
// session's high, low and close.
func Pivots(high, low, close float64) (pp, r1, s1, r2, s2, r3, s3 float64) {
	pp = (high + low + close) / 3.0
	r1 = 2.0*pp - low
	s1 = 2.0*pp - high
	r2 = pp + (high - low)
	s2 = pp - (high - low)
	r3 = high + 2.0*(pp-low)
	s3 = low - 2.0*(high-pp)
	return
}

// MACD returns the latest MACD line (EMA12 - EMA26) and its EMA9 signal.
func MACD(vals []float64) (line, signal float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	fast := EMASeries(vals, 12)
	slow := EMASeries(vals, 26)
	diff := make([]float64, len(vals))
	for i := range vals {
		diff[i] = fast[i] - slow[i]
	}
	sig := EMASeries(diff, 9)
	return diff[len(diff)-1], sig[len(sig)-1]
}

// ADX returns the latest Average Directional Index with its directional
// indicators. TR, +DM and -DM are smoothed with rolling sums/means over
// period; ADX is the rolling mean of DX over period. A series too short to
// cover both smoothing windows yields the neutral (0, 0, 0).
func ADX(highs, lows, closes []float64, period int) (adx, plusDI, minusDI float64) {
	n := len(closes)
	if period <= 0 || len(highs) != n || len(lows) != n {
		return 0, 0, 0
	}
	// Diffs start at bar 1; the DX series needs period bars of TR history,
	// and ADX needs period DX values on top of that.
	if n < 2*period+1 {
		return 0, 0, 0
	}

	m := n - 1 // per-bar diff series length
	tr := make([]float64, m)
	plusDM := make([]float64, m)
	minusDM := make([]float64, m)
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i-1] = math.Max(hl, math.Max(hc, lc))
	}

	// DI at diff-index i uses the window [i-period+1, i].
	diCount := m - period + 1
	plusSeries := make([]float64, diCount)
	minusSeries := make([]float64, diCount)
	dx := make([]float64, diCount)
	for i := 0; i < diCount; i++ {
		var trSum, pSum, mSum float64
		for j := i; j < i+period; j++ {
			trSum += tr[j]
			pSum += plusDM[j]
			mSum += minusDM[j]
		}
		if trSum < eps {
			trSum = eps
		}
		p := 100.0 * (pSum / trSum)
		q := 100.0 * (mSum / trSum)
		plusSeries[i] = p
		minusSeries[i] = q
		den := p + q
		if den < eps {
			den = eps
		}
		dx[i] = 100.0 * math.Abs(p-q) / den
	}

	adx = SMA(dx, period)
	return adx, plusSeries[diCount-1], minusSeries[diCount-1]
}

// Volatility returns the sample standard deviation of percentage returns
// over the last window bars, as a percentage. Fewer than window+1 values
// (or a zero price in the window) yields 0.
func Volatility(vals []float64, window int) float64 {
	if window <= 0 || len(vals) < window+1 {
		return 0
	}
	rets := make([]float64, 0, window)
	for i := len(vals) - window; i < len(vals); i++ {
		prev := vals[i-1]
		if prev == 0 {
			return 0
		}
		rets = append(rets, (vals[i]-prev)/prev)
	}
	return StdDev(rets, window) * 100.0
}

// RollingMax returns the maximum of the last n values; 0 for an empty series.
func RollingMax(vals []float64, n int) float64 {
	if len(vals) == 0 {
		return 0
	}
	if n > len(vals) {
		n = len(vals)
	}
	max := vals[len(vals)-n]
	for i := len(vals) - n + 1; i < len(vals); i++ {
		if vals[i] > max {
			max = vals[i]
		}
	}
	return max
}

// RollingMin returns the minimum of the last n values; 0 for an empty series.
func RollingMin(vals []float64, n int) float64 {
	if len(vals) == 0 {
		return 0
	}
	if n > len(vals) {
		n = len(vals)
	}
	min := vals[len(vals)-n]
	for i := len(vals) - n + 1; i < len(vals); i++ {
		if vals[i] < min {
			min = vals[i]
		}
	}
	return min
}
