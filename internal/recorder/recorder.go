package recorder

import (
	"context"

	"stock-advisor-bot/internal/types"
)

// Recorder persists users, their query history, and issued advisories.
// The quota layer counts queries through it; everything else is
// write-only audit data.
type Recorder interface {
	// UpsertUser registers a user on first contact and refreshes the
	// username on later ones. New users start on the free tier.
	UpsertUser(ctx context.Context, userID int64, username string) error

	// UserTier returns the user's quota tier ("free" when unknown).
	UserTier(ctx context.Context, userID int64) (string, error)

	// SetUserTier changes a user's tier. Admin-only operation.
	SetUserTier(ctx context.Context, userID int64, tier string) error

	// QueriesSince counts the user's logged queries at or after the
	// given unix timestamp.
	QueriesSince(ctx context.Context, userID int64, since int64) (int, error)

	// LogQuery records one served query.
	LogQuery(ctx context.Context, userID int64, symbol, kind string) error

	// LogAnalysis records an issued advisory for later review.
	LogAnalysis(ctx context.Context, report *types.Report) error

	Close() error
}
