package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"stock-advisor-bot/internal/logger"
)

// Monitor keeps liveness counters and serves them as JSON. Per-day
// counters reset lazily on the first event of a new day.
type Monitor struct {
	mu           sync.Mutex
	startedAt    time.Time
	day          string
	queriesToday int
	errorsToday  int
	sweepsTotal  int
	lastSweep    time.Time
	now          func() time.Time
}

// Status is the /healthz response body.
type Status struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	QueriesToday  int    `json:"queries_today"`
	ErrorsToday   int    `json:"errors_today"`
	SweepsTotal   int    `json:"sweeps_total"`
	LastSweepUnix int64  `json:"last_sweep_unix,omitempty"`
}

func NewMonitor() *Monitor {
	now := time.Now()
	return &Monitor{
		startedAt: now,
		day:       now.Format("2006-01-02"),
		now:       time.Now,
	}
}

// rollDay resets daily counters when the date changes. Callers hold mu.
func (m *Monitor) rollDay() {
	today := m.now().Format("2006-01-02")
	if today != m.day {
		m.day = today
		m.queriesToday = 0
		m.errorsToday = 0
	}
}

func (m *Monitor) RecordQuery() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollDay()
	m.queriesToday++
}

func (m *Monitor) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollDay()
	m.errorsToday++
}

func (m *Monitor) RecordSweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepsTotal++
	m.lastSweep = m.now()
}

func (m *Monitor) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollDay()

	st := Status{
		Status:        "ok",
		UptimeSeconds: int64(m.now().Sub(m.startedAt).Seconds()),
		QueriesToday:  m.queriesToday,
		ErrorsToday:   m.errorsToday,
		SweepsTotal:   m.sweepsTotal,
	}
	if !m.lastSweep.IsZero() {
		st.LastSweepUnix = m.lastSweep.Unix()
	}
	return st
}

// Serve runs the health endpoint until ctx is cancelled.
func (m *Monitor) Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(m.Snapshot()); err != nil {
			logger.Warn(r.Context(), "Encode health status failed", "error", err)
		}
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Health endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.ErrorWithErr(ctx, "Health endpoint failed", err)
	}
}
