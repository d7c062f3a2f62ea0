package llm

import (
	"context"

	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/types"
)

// FallbackChain tries each commentator in order until one answers. The
// last element should be the noop commentator so a comment is always
// produced.
type FallbackChain struct {
	commentators []interfaces.Commentator
	names        []string
}

var _ interfaces.Commentator = (*FallbackChain)(nil)

func NewFallbackChain() *FallbackChain {
	return &FallbackChain{}
}

func (f *FallbackChain) Add(name string, c interfaces.Commentator) *FallbackChain {
	f.commentators = append(f.commentators, c)
	f.names = append(f.names, name)
	return f
}

func (f *FallbackChain) Comment(ctx context.Context, symbol string, report *types.Report, ctxmap map[string]any) (string, error) {
	var lastErr error
	for i, c := range f.commentators {
		text, err := c.Comment(ctx, symbol, report, ctxmap)
		if err == nil {
			return text, nil
		}
		lastErr = err
		logger.Warn(ctx, "Commentator failed, trying next",
			"provider", f.names[i],
			"symbol", symbol,
			"error", err,
		)
	}
	return "", lastErr
}
