package advisorobs

import (
	"context"

	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/trace"
	"stock-advisor-bot/internal/types"
)

// observableAnalyzer wraps an Analyzer with logging and tracing
type observableAnalyzer struct {
	analyzer interfaces.Analyzer
}

// Compile-time interface check
var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

// Wrap wraps an analyzer with observability middleware
func Wrap(analyzer interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{
		analyzer: analyzer,
	}
}

func (oa *observableAnalyzer) Report(ctx context.Context, symbol string) (*types.Report, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.Report")
	defer span.End()

	report, err := oa.analyzer.Report(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to build report", err,
			"symbol", symbol,
		)
		return nil, err
	}

	logger.Verdict(ctx, symbol, string(report.Result.Verdict), report.Result.Score, string(report.Result.Confidence))

	return report, nil
}

func (oa *observableAnalyzer) Swing(ctx context.Context, symbol string) (types.SwingCheck, types.SwingCheck, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.Swing")
	defer span.End()

	long, short, err := oa.analyzer.Swing(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to run swing checklist", err,
			"symbol", symbol,
		)
		return types.SwingCheck{}, types.SwingCheck{}, err
	}

	logger.InfoSkip(ctx, 1, "Swing checklist evaluated",
		"symbol", symbol,
		"long_score", long.Score,
		"short_score", short.Score,
	)

	return long, short, nil
}

func (oa *observableAnalyzer) Scan(ctx context.Context, symbols []string, minScore int) ([]types.ScanHit, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.Scan")
	defer span.End()

	timer := logger.StartOperation(ctx, "watchlist-scan",
		"symbols", len(symbols),
		"min_score", minScore,
	)

	hits, err := oa.analyzer.Scan(ctx, symbols, minScore)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	timer.End("hits", len(hits))
	return hits, nil
}
