package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stock-advisor-bot/internal/advisor"
	"stock-advisor-bot/internal/advisor/advisorobs"
	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/llm"
	"stock-advisor-bot/internal/llm/claude"
	"stock-advisor-bot/internal/llm/llmobs"
	"stock-advisor-bot/internal/llm/noop"
	"stock-advisor-bot/internal/llm/openai"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/marketdata"
	"stock-advisor-bot/internal/news"
	"stock-advisor-bot/internal/recorder"
	"stock-advisor-bot/internal/store"
	"stock-advisor-bot/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem loads env vars and initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeProvider builds the market data stack: the configured
// source (or a Kite->Yahoo fallback chain), wrapped in a TTL cache.
func initializeProvider(ctx context.Context, cfg *store.Config) interfaces.Provider {
	yahoo := marketdata.NewYahooProvider(cfg.MarketData.RatePerMinute)
	kite := marketdata.NewKiteProvider(
		os.Getenv("KITE_API_KEY"),
		os.Getenv("KITE_ACCESS_TOKEN"),
		cfg.Exchange,
		cfg.MarketData.RatePerMinute,
	)

	var base interfaces.Provider
	switch cfg.MarketData.Source {
	case "YAHOO":
		base = yahoo
	case "KITE":
		base = kite
	default: // AUTO
		base = marketdata.NewFallbackProvider(kite, yahoo)
	}

	if !base.IsAvailable() {
		logger.Warn(ctx, "Configured market data source unavailable, falling back to Yahoo",
			"source", cfg.MarketData.Source)
		base = yahoo
	}

	logger.Info(ctx, "Market data provider ready",
		"source", cfg.MarketData.Source,
		"kite_configured", kite.IsAvailable(),
	)

	ttl := time.Duration(cfg.MarketData.CacheTTLMinutes) * time.Minute
	return marketdata.NewCachingProvider(base, ttl, cfg.MarketData.LookbackDays)
}

// initializeCommentator builds the LLM chain in configured order with
// the noop commentator as the terminal fallback.
func initializeCommentator(ctx context.Context, cfg *store.Config) interfaces.Commentator {
	chain := llm.NewFallbackChain()

	for _, provider := range cfg.LLM.Providers {
		switch provider {
		case "OPENAI":
			chain.Add("openai", openai.NewOpenAICommentator(cfg))
		case "CLAUDE":
			chain.Add("claude", claude.NewClaudeCommentator(cfg))
		default:
			logger.Warn(ctx, "Unknown LLM provider in config, skipping", "provider", provider)
		}
	}

	if len(cfg.LLM.Providers) == 0 {
		logger.Warn(ctx, "No LLM provider configured - commentary uses deterministic templates")
	}
	chain.Add("noop", noop.NewNoopCommentator())

	return llmobs.Wrap(chain)
}

func initializeAnalyzer(cfg *store.Config, provider interfaces.Provider) interfaces.Analyzer {
	return advisorobs.Wrap(advisor.New(cfg, provider))
}

func initializeRecorder(ctx context.Context, cfg *store.Config) recorder.Recorder {
	if cfg.DBPath == "" || cfg.DBPath == "off" {
		logger.Warn(ctx, "Persistence disabled - quotas are effectively off")
		return recorder.NewNoopRecorder()
	}

	rec, err := recorder.NewSQLiteRecorder(cfg.DBPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "SQLite recorder failed, continuing without persistence", err)
		return recorder.NewNoopRecorder()
	}
	return rec
}

func initializeNews(cfg *store.Config) *news.Scraper {
	if !cfg.News.Enabled {
		return nil
	}
	return news.NewScraper(15*time.Second, 30*time.Minute)
}
