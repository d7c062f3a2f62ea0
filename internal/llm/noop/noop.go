package noop

import (
	"context"
	"fmt"

	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/types"
)

// NoopCommentator is the fallback commentator used when no LLM is
// configured or every configured provider failed. It builds a
// deterministic summary from the report so users always get text.
type NoopCommentator struct{}

func NewNoopCommentator() *NoopCommentator {
	return &NoopCommentator{}
}

func (c *NoopCommentator) Comment(ctx context.Context, symbol string, report *types.Report, ctxmap map[string]any) (string, error) {
	logger.Debug(ctx, "Noop commentator called", "symbol", symbol)

	if report == nil {
		return fmt.Sprintf("No analysis available for %s right now.", symbol), nil
	}

	switch report.Result.Verdict {
	case types.VerdictStrongBuy:
		return fmt.Sprintf("%s scores %d/100 with a %s trend, which puts it in strong buy territory. RSI sits at %.1f. As always, size positions sensibly.",
			symbol, report.Result.Score, report.Trend, report.Indicators.RSI14), nil
	case types.VerdictBuyHold:
		return fmt.Sprintf("%s scores %d/100 in a %s trend. The setup supports holding or gradual accumulation rather than an aggressive entry.",
			symbol, report.Result.Score, report.Trend), nil
	case types.VerdictWait:
		return fmt.Sprintf("%s scores %d/100 and the signals are mixed. Waiting for a clearer trend costs nothing here.",
			symbol, report.Result.Score), nil
	default:
		return fmt.Sprintf("%s scores %d/100 with weak technicals. Better candidates should exist elsewhere.",
			symbol, report.Result.Score), nil
	}
}
