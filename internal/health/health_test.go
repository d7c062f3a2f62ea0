package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCountersAndDayReset(t *testing.T) {
	m := NewMonitor()
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	m.day = clock.Format("2006-01-02")

	m.RecordQuery()
	m.RecordQuery()
	m.RecordError()
	m.RecordSweep()

	st := m.Snapshot()
	if st.QueriesToday != 2 || st.ErrorsToday != 1 || st.SweepsTotal != 1 {
		t.Errorf("snapshot = %+v", st)
	}
	if st.LastSweepUnix != clock.Unix() {
		t.Errorf("last sweep = %d, want %d", st.LastSweepUnix, clock.Unix())
	}

	// Next day: daily counters reset, totals survive
	clock = clock.AddDate(0, 0, 1)
	st = m.Snapshot()
	if st.QueriesToday != 0 || st.ErrorsToday != 0 {
		t.Errorf("daily counters should reset: %+v", st)
	}
	if st.SweepsTotal != 1 {
		t.Errorf("sweep total should survive the day roll: %+v", st)
	}
}

func TestHealthzHandler(t *testing.T) {
	m := NewMonitor()
	m.RecordQuery()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(m.Snapshot())
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var st Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Status != "ok" || st.QueriesToday != 1 {
		t.Errorf("body = %+v", st)
	}
}
