package quota

import (
	"context"
	"time"

	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/recorder"
)

// Status is the outcome of a quota check.
type Status struct {
	Tier    string
	Used    int
	Limit   int
	Allowed bool
}

// Manager enforces per-tier daily query limits. Usage counts come from
// the recorder's query log, so the count survives restarts and resets
// naturally at local midnight.
type Manager struct {
	tiers map[string]int
	rec   recorder.Recorder
	now   func() time.Time
}

func New(tiers map[string]int, rec recorder.Recorder) *Manager {
	return &Manager{
		tiers: tiers,
		rec:   rec,
		now:   time.Now,
	}
}

// Check looks up the user's tier and today's usage. It does not consume
// quota; the caller logs the query after serving it.
func (m *Manager) Check(ctx context.Context, userID int64) (Status, error) {
	tier, err := m.rec.UserTier(ctx, userID)
	if err != nil {
		return Status{}, err
	}

	limit, ok := m.tiers[tier]
	if !ok {
		limit, ok = m.tiers["free"]
		if !ok {
			// No limits configured at all
			return Status{Tier: tier, Allowed: true, Limit: -1}, nil
		}
	}

	used, err := m.rec.QueriesSince(ctx, userID, m.dayStart())
	if err != nil {
		return Status{}, err
	}

	st := Status{
		Tier:    tier,
		Used:    used,
		Limit:   limit,
		Allowed: used < limit,
	}
	if !st.Allowed {
		logger.Quota(ctx, userID, tier, used, limit, "event", "limit_reached")
	}
	return st, nil
}

// Consume records one served query against the user's quota.
func (m *Manager) Consume(ctx context.Context, userID int64, symbol, kind string) error {
	return m.rec.LogQuery(ctx, userID, symbol, kind)
}

func (m *Manager) dayStart() int64 {
	now := m.now()
	y, mo, d := now.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, now.Location()).Unix()
}
