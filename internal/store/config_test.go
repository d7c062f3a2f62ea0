package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
watchlist:
  - INFY
  - TCS
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Exchange != "NSE" {
		t.Errorf("exchange = %q", cfg.Exchange)
	}
	if cfg.MarketData.Source != "AUTO" {
		t.Errorf("source = %q", cfg.MarketData.Source)
	}
	if cfg.MarketData.LookbackDays != 365 {
		t.Errorf("lookback = %d", cfg.MarketData.LookbackDays)
	}
	if cfg.MarketData.CacheTTLMinutes != 15 {
		t.Errorf("ttl = %d", cfg.MarketData.CacheTTLMinutes)
	}
	if cfg.Scan.MinScore != 75 {
		t.Errorf("min score = %d", cfg.Scan.MinScore)
	}
	if cfg.Swing.Risk != "conservative" {
		t.Errorf("risk = %q", cfg.Swing.Risk)
	}
	if cfg.Swing.CronSpec == "" {
		t.Error("cron spec default missing")
	}
	if cfg.Quota.Tiers["free"] != 10 || cfg.Quota.Tiers["premium"] != 200 {
		t.Errorf("tiers = %v", cfg.Quota.Tiers)
	}
	if cfg.Health.Addr != ":8080" {
		t.Errorf("health addr = %q", cfg.Health.Addr)
	}
	if cfg.DBPath != "advisor.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
watchlist: [SBIN]
market_data:
  source: YAHOO
  lookback_days: 500
swing:
  risk: aggressive
scan:
  min_score: 60
quota:
  tiers:
    free: 5
`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MarketData.Source != "YAHOO" || cfg.MarketData.LookbackDays != 500 {
		t.Errorf("market data = %+v", cfg.MarketData)
	}
	if cfg.Swing.Risk != "aggressive" {
		t.Errorf("risk = %q", cfg.Swing.Risk)
	}
	if cfg.Scan.MinScore != 60 {
		t.Errorf("min score = %d", cfg.Scan.MinScore)
	}
	if cfg.Quota.Tiers["free"] != 5 {
		t.Errorf("tiers = %v", cfg.Quota.Tiers)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty watchlist", `watchlist: []`, "watchlist"},
		{"bad source", minimalConfig + `
market_data:
  source: BLOOMBERG
`, "market_data.source"},
		{"bad risk", minimalConfig + `
swing:
  risk: yolo
`, "swing.risk"},
		{"bad min score", minimalConfig + `
scan:
  min_score: 150
`, "min_score"},
		{"bad tier limit", minimalConfig + `
quota:
  tiers:
    free: -1
`, "quota.tiers"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, c.body))
			if err == nil {
				t.Fatal("want validation error")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q should mention %q", err, c.want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should error")
	}
}
