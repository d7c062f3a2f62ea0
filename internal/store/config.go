package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Exchange string `yaml:"exchange"`

	Telegram struct {
		PollTimeoutSeconds int     `yaml:"poll_timeout_seconds"`
		AdminIDs           []int64 `yaml:"admin_ids"`
		BroadcastChatIDs   []int64 `yaml:"broadcast_chat_ids"`
	} `yaml:"telegram"`

	MarketData struct {
		Source          string `yaml:"source"` // YAHOO, KITE, or AUTO
		LookbackDays    int    `yaml:"lookback_days"`
		CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
		RatePerMinute   int    `yaml:"rate_per_minute"`
	} `yaml:"market_data"`

	Watchlist []string `yaml:"watchlist"`

	Scan struct {
		MinScore int `yaml:"min_score"`
	} `yaml:"scan"`

	Swing struct {
		Risk     string `yaml:"risk"` // conservative or aggressive
		CronSpec string `yaml:"cron_spec"`
	} `yaml:"swing"`

	LLM struct {
		Providers   []string `yaml:"providers"` // tried in order: OPENAI, CLAUDE
		Model       string   `yaml:"model"`
		MaxTokens   int      `yaml:"max_tokens"`
		Temperature float32  `yaml:"temperature"`
		System      string   `yaml:"system"`
	} `yaml:"llm"`

	Quota struct {
		Tiers map[string]int `yaml:"tiers"` // tier name -> daily LLM calls
	} `yaml:"quota"`

	News struct {
		Enabled     bool `yaml:"enabled"`
		MaxArticles int  `yaml:"max_articles"`
	} `yaml:"news"`

	Health struct {
		Addr string `yaml:"addr"`
	} `yaml:"health"`

	DBPath string `yaml:"db_path"`
}

func (c *Config) Validate() error {
	switch c.MarketData.Source {
	case "YAHOO", "KITE", "AUTO":
	default:
		return fmt.Errorf("invalid market_data.source '%s': must be 'YAHOO', 'KITE', or 'AUTO'", c.MarketData.Source)
	}
	if len(c.Watchlist) == 0 {
		return errors.New("watchlist cannot be empty")
	}
	if c.Swing.Risk != "conservative" && c.Swing.Risk != "aggressive" {
		return fmt.Errorf("swing.risk must be 'conservative' or 'aggressive', got '%s'", c.Swing.Risk)
	}
	if c.Scan.MinScore < 0 || c.Scan.MinScore > 100 {
		return fmt.Errorf("scan.min_score must be between 0-100, got %d", c.Scan.MinScore)
	}
	for tier, limit := range c.Quota.Tiers {
		if limit <= 0 {
			return fmt.Errorf("quota.tiers.%s must be positive, got %d", tier, limit)
		}
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.MarketData.Source == "" {
		c.MarketData.Source = "AUTO"
	}
	if c.MarketData.LookbackDays == 0 {
		c.MarketData.LookbackDays = 365
	}
	if c.MarketData.CacheTTLMinutes == 0 {
		c.MarketData.CacheTTLMinutes = 15
	}
	if c.MarketData.RatePerMinute == 0 {
		c.MarketData.RatePerMinute = 10
	}
	if c.Telegram.PollTimeoutSeconds == 0 {
		c.Telegram.PollTimeoutSeconds = 30
	}
	if c.Scan.MinScore == 0 {
		c.Scan.MinScore = 75
	}
	if c.Swing.Risk == "" {
		c.Swing.Risk = "conservative"
	}
	if c.Swing.CronSpec == "" {
		// Weekday mornings after open, IST.
		c.Swing.CronSpec = "0 30 9 * * 1-5"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 400
	}
	if c.Quota.Tiers == nil {
		c.Quota.Tiers = map[string]int{"free": 10, "premium": 200}
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 3
	}
	if c.Health.Addr == "" {
		c.Health.Addr = ":8080"
	}
	if c.DBPath == "" {
		c.DBPath = "advisor.db"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
