package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stock-advisor-bot/internal/types"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestUpsertUserAndTier(t *testing.T) {
	r := openTestRecorder(t)
	ctx := context.Background()

	if err := r.UpsertUser(ctx, 42, "alice"); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	tier, err := r.UserTier(ctx, 42)
	if err != nil {
		t.Fatalf("UserTier: %v", err)
	}
	if tier != "free" {
		t.Errorf("new user tier = %q, want free", tier)
	}

	if err := r.SetUserTier(ctx, 42, "premium"); err != nil {
		t.Fatalf("SetUserTier: %v", err)
	}
	tier, err = r.UserTier(ctx, 42)
	if err != nil {
		t.Fatalf("UserTier: %v", err)
	}
	if tier != "premium" {
		t.Errorf("tier = %q, want premium", tier)
	}

	// Upsert again must not reset the tier
	if err := r.UpsertUser(ctx, 42, "alice2"); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	tier, _ = r.UserTier(ctx, 42)
	if tier != "premium" {
		t.Errorf("tier after re-upsert = %q, want premium", tier)
	}
}

func TestUserTierUnknownUser(t *testing.T) {
	r := openTestRecorder(t)

	tier, err := r.UserTier(context.Background(), 999)
	if err != nil {
		t.Fatalf("UserTier: %v", err)
	}
	if tier != "free" {
		t.Errorf("unknown user tier = %q, want free", tier)
	}
}

func TestSetUserTierUnknownUser(t *testing.T) {
	r := openTestRecorder(t)

	if err := r.SetUserTier(context.Background(), 999, "premium"); err == nil {
		t.Error("SetUserTier on unknown user should fail")
	}
}

func TestQueriesSince(t *testing.T) {
	r := openTestRecorder(t)
	ctx := context.Background()

	if err := r.UpsertUser(ctx, 7, "bob"); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := r.LogQuery(ctx, 7, "INFY", "report"); err != nil {
			t.Fatalf("LogQuery: %v", err)
		}
	}
	// Another user's queries must not count
	if err := r.LogQuery(ctx, 8, "TCS", "report"); err != nil {
		t.Fatalf("LogQuery: %v", err)
	}

	count, err := r.QueriesSince(ctx, 7, time.Now().Add(-time.Minute).Unix())
	if err != nil {
		t.Fatalf("QueriesSince: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	count, err = r.QueriesSince(ctx, 7, time.Now().Add(time.Hour).Unix())
	if err != nil {
		t.Fatalf("QueriesSince: %v", err)
	}
	if count != 0 {
		t.Errorf("future cutoff count = %d, want 0", count)
	}
}

func TestLogAnalysis(t *testing.T) {
	r := openTestRecorder(t)
	ctx := context.Background()

	report := &types.Report{
		Symbol:      "SBIN",
		LTP:         812.5,
		Trend:       "BULLISH",
		UpsidePct:   4.2,
		Result:      types.ScoreResult{Score: 78, Verdict: types.VerdictStrongBuy, Confidence: types.ConfidenceHigh},
		GeneratedAt: time.Now().Unix(),
	}
	report.Indicators.RSI14 = 58.3

	if err := r.LogAnalysis(ctx, report); err != nil {
		t.Fatalf("LogAnalysis: %v", err)
	}

	var verdict string
	var score int
	err := r.db.QueryRow(`SELECT verdict, score FROM analysis_log WHERE symbol = 'SBIN'`).Scan(&verdict, &score)
	if err != nil {
		t.Fatalf("query analysis_log: %v", err)
	}
	if verdict != "STRONG_BUY" || score != 78 {
		t.Errorf("stored verdict=%q score=%d", verdict, score)
	}
}
