package llmobs

import (
	"context"

	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/trace"
	"stock-advisor-bot/internal/types"
)

// observableCommentator wraps a Commentator with logging and tracing
type observableCommentator struct {
	commentator interfaces.Commentator
}

// Compile-time interface check
var _ interfaces.Commentator = (*observableCommentator)(nil)

// Wrap wraps a commentator with observability middleware
func Wrap(commentator interfaces.Commentator) interfaces.Commentator {
	return &observableCommentator{
		commentator: commentator,
	}
}

func (oc *observableCommentator) Comment(
	ctx context.Context,
	symbol string,
	report *types.Report,
	contextData map[string]any,
) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Comment")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting commentary",
		"symbol", symbol,
	)

	text, err := oc.commentator.Comment(ctx, symbol, report, contextData)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get commentary", err,
			"symbol", symbol,
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Commentary received",
		"symbol", symbol,
		"chars", len(text),
	)

	return text, nil
}
