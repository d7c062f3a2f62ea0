package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-advisor-bot/internal/health"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/quota"
	"stock-advisor-bot/internal/scheduler"
	"stock-advisor-bot/internal/telegram"
	"stock-advisor-bot/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		logger.Error(ctx, "TELEGRAM_BOT_TOKEN missing")
		os.Exit(1)
	}

	rec := initializeRecorder(ctx, cfg)
	defer rec.Close()

	provider := initializeProvider(ctx, cfg)
	analyzer := initializeAnalyzer(cfg, provider)
	commentator := initializeCommentator(ctx, cfg)
	qm := quota.New(cfg.Quota.Tiers, rec)
	monitor := health.NewMonitor()

	var headlines telegram.HeadlineSource
	if scraper := initializeNews(cfg); scraper != nil {
		headlines = scraper
	}

	client := telegram.NewClient(token, cfg.Telegram.BroadcastChatIDs)
	bot := telegram.NewBot(cfg, client, analyzer, commentator, qm, rec, headlines, monitor)

	sched := scheduler.New(ctx, cfg, analyzer, client, monitor)
	if err := sched.Register(); err != nil {
		logger.ErrorWithErr(ctx, "Failed to register scheduled tasks", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	go monitor.Serve(ctx, cfg.Health.Addr)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down")
		cancel()
	}()

	logger.Info(ctx, "Bot started",
		"watchlist", len(cfg.Watchlist),
		"source", cfg.MarketData.Source,
		"news", cfg.News.Enabled,
	)
	bot.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Warn(shutdownCtx, "Tracer shutdown failed", "error", err)
	}
}
