package advisor

import "stock-advisor-bot/internal/types"

// ScoreInput carries the scalars the composite score is built from.
// PERatio and ROE at or below zero mean "unknown" and award no points.
// Volatility participates only when HasVolatility is set.
type ScoreInput struct {
	LTP           float64
	EMA50, EMA200 float64
	RSI           float64
	PERatio       float64
	ROE           float64 // percent
	UpsidePct     float64
	Volatility    float64 // percent
	HasVolatility bool
}

// ComputeScore maps the input scalars onto the weighted 0-100 confidence
// score. The rule table is fixed and additive; the result is clamped and
// fully deterministic.
func ComputeScore(in ScoreInput) int {
	score := 0

	// Trend, up to 30.
	if in.LTP > in.EMA200 {
		score += 30
	} else if in.LTP > in.EMA50 {
		score += 15
	}

	// Momentum, up to 20.
	switch {
	case in.RSI >= 45 && in.RSI <= 60:
		score += 20
	case (in.RSI >= 40 && in.RSI < 45) || (in.RSI > 60 && in.RSI <= 70):
		score += 10
	case in.RSI > 70:
		score += 5
	}

	// Valuation, up to 10.
	if in.PERatio > 0 {
		if in.PERatio < 15 {
			score += 10
		} else if in.PERatio <= 25 {
			score += 5
		}
	}

	// Quality, up to 10.
	if in.ROE > 0 {
		if in.ROE >= 18 {
			score += 10
		} else if in.ROE >= 12 {
			score += 5
		}
	}

	// Risk-reward, up to 10.
	switch {
	case in.UpsidePct >= 10:
		score += 10
	case in.UpsidePct >= 5:
		score += 5
	case in.UpsidePct >= 2:
		score += 2
	}

	// Volatility adjustment, -5..0.
	if in.HasVolatility {
		switch {
		case in.Volatility > 5:
			score -= 5
		case in.Volatility > 3.5:
			score -= 2
		case in.Volatility < 1:
			score -= 3
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// VerdictFor maps a composite score onto its verdict tier.
func VerdictFor(score int) types.Verdict {
	switch {
	case score >= 75:
		return types.VerdictStrongBuy
	case score >= 55:
		return types.VerdictBuyHold
	case score >= 35:
		return types.VerdictWait
	default:
		return types.VerdictAvoid
	}
}

// ConfidenceFor mirrors the verdict thresholds; the AVOID tier shares LOW.
func ConfidenceFor(score int) types.Confidence {
	switch {
	case score >= 75:
		return types.ConfidenceHigh
	case score >= 55:
		return types.ConfidenceModerate
	default:
		return types.ConfidenceLow
	}
}

// TrendDirection is the coarse price-vs-EMA label used in reports.
func TrendDirection(ltp, ema50, ema200 float64) string {
	if ltp > ema200 {
		return "BULLISH"
	}
	if ltp > ema50 {
		return "NEUTRAL"
	}
	return "BEARISH"
}
