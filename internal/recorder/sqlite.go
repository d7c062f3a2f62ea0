package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/types"
)

// SQLiteRecorder persists users and history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

var _ Recorder = (*SQLiteRecorder)(nil)

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc reads don't block the polling loop's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info(context.Background(), "SQLite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id    INTEGER PRIMARY KEY,
			username   TEXT,
			tier       TEXT NOT NULL DEFAULT 'free',
			first_seen INTEGER NOT NULL,
			last_seen  INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS queries (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			user_id   INTEGER NOT NULL,
			symbol    TEXT,
			kind      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_user_ts ON queries(user_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS analysis_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			ltp        REAL,
			score      INTEGER,
			verdict    TEXT,
			confidence TEXT,
			trend      TEXT,
			rsi        REAL,
			upside_pct REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_symbol_ts ON analysis_log(symbol, timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) UpsertUser(ctx context.Context, userID int64, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (user_id, username, tier, first_seen, last_seen)
		VALUES (?,?,'free',?,?)
		ON CONFLICT(user_id) DO UPDATE SET username=excluded.username, last_seen=excluded.last_seen`,
		userID, username, now, now,
	)
	return err
}

func (r *SQLiteRecorder) UserTier(ctx context.Context, userID int64) (string, error) {
	var tier string
	err := r.db.QueryRowContext(ctx, `SELECT tier FROM users WHERE user_id = ?`, userID).Scan(&tier)
	if err == sql.ErrNoRows {
		return "free", nil
	}
	if err != nil {
		return "", err
	}
	return tier, nil
}

func (r *SQLiteRecorder) SetUserTier(ctx context.Context, userID int64, tier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `UPDATE users SET tier = ? WHERE user_id = ?`, tier, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("unknown user %d", userID)
	}
	return nil
}

func (r *SQLiteRecorder) QueriesSince(ctx context.Context, userID int64, since int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM queries WHERE user_id = ? AND timestamp >= ?`,
		userID, since,
	).Scan(&count)
	return count, err
}

func (r *SQLiteRecorder) LogQuery(ctx context.Context, userID int64, symbol, kind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO queries (timestamp, user_id, symbol, kind)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), userID, symbol, kind,
	)
	return err
}

func (r *SQLiteRecorder) LogAnalysis(ctx context.Context, report *types.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO analysis_log
		(timestamp, symbol, ltp, score, verdict, confidence, trend, rsi, upside_pct)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		report.GeneratedAt, report.Symbol, report.LTP,
		report.Result.Score, string(report.Result.Verdict), string(report.Result.Confidence),
		report.Trend, report.Indicators.RSI14, report.UpsidePct,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	logger.Info(context.Background(), "Closing SQLite recorder")
	return r.db.Close()
}
