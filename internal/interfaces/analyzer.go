package interfaces

import (
	"context"

	"stock-advisor-bot/internal/types"
)

// Analyzer produces structured advisories from market data. Implementations
// return values only; message formatting belongs to the chat layer.
type Analyzer interface {
	// Report computes the full indicator snapshot, composite score and
	// verdict for one symbol.
	Report(ctx context.Context, symbol string) (*types.Report, error)

	// Swing evaluates the 8-point checklist for both sides independently.
	Swing(ctx context.Context, symbol string) (long, short types.SwingCheck, err error)

	// Scan scores each symbol and returns those at or above minScore.
	Scan(ctx context.Context, symbols []string, minScore int) ([]types.ScanHit, error)
}
