package interfaces

import (
	"context"

	"stock-advisor-bot/internal/types"
)

// Commentator turns a structured advisory into short narrative text.
// The analysis engine never calls this; only the bot layer does.
type Commentator interface {
	Comment(ctx context.Context, symbol string, report *types.Report, contextData map[string]any) (string, error)
}

// Notifier pushes a message to every subscribed chat. Used by the
// scheduler so it does not depend on the telegram package directly.
type Notifier interface {
	Broadcast(ctx context.Context, text string) error
}
