package recorder

import (
	"context"

	"stock-advisor-bot/internal/types"
)

// NoopRecorder is used when persistence is disabled. Quota checks see
// zero usage, so limits are effectively off.
type NoopRecorder struct{}

var _ Recorder = (*NoopRecorder)(nil)

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) UpsertUser(_ context.Context, _ int64, _ string) error { return nil }
func (n *NoopRecorder) UserTier(_ context.Context, _ int64) (string, error)   { return "free", nil }
func (n *NoopRecorder) SetUserTier(_ context.Context, _ int64, _ string) error {
	return nil
}
func (n *NoopRecorder) QueriesSince(_ context.Context, _ int64, _ int64) (int, error) {
	return 0, nil
}
func (n *NoopRecorder) LogQuery(_ context.Context, _ int64, _ string, _ string) error { return nil }
func (n *NoopRecorder) LogAnalysis(_ context.Context, _ *types.Report) error          { return nil }
func (n *NoopRecorder) Close() error                                                  { return nil }
