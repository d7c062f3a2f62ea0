package interfaces

import (
	"context"

	"stock-advisor-bot/internal/types"
)

// Provider supplies historical bars, quotes, and optional fundamentals for
// a symbol. Implementations must distinguish "no data for this symbol"
// (marketdata.ErrNoData) from transport failures; sparse-but-present
// history is fine and is handled downstream by the engine.
type Provider interface {
	Name() string
	DailyBars(ctx context.Context, symbol string, days int) ([]types.PriceBar, error)
	Quote(ctx context.Context, symbol string) (types.Quote, error)
	// Fundamentals is best-effort: providers without fundamental data
	// return a zero value and no error.
	Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error)
	IsAvailable() bool
}
