package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"stock-advisor-bot/internal/health"
	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/store"
	"stock-advisor-bot/internal/telegram"
	"stock-advisor-bot/internal/trace"
	"stock-advisor-bot/internal/types"
)

// Scheduler runs the daily swing sweep over the watchlist and broadcasts
// strong setups to the configured chats.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *store.Config
	analyzer interfaces.Analyzer
	notifier interfaces.Notifier
	monitor  *health.Monitor
	ctx      context.Context
}

func New(ctx context.Context, cfg *store.Config, analyzer interfaces.Analyzer, notifier interfaces.Notifier, monitor *health.Monitor) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		cfg:      cfg,
		analyzer: analyzer,
		notifier: notifier,
		monitor:  monitor,
		ctx:      ctx,
	}
}

// Register wires the swing sweep to its cron spec.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.cfg.Swing.CronSpec, s.swingSweep); err != nil {
		return fmt.Errorf("register swing sweep: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Scheduler started", "swing_cron", s.cfg.Swing.CronSpec)
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info(s.ctx, "Scheduler stopped")
}

// RunSweepNow executes the swing sweep immediately (manual trigger).
func (s *Scheduler) RunSweepNow() {
	s.swingSweep()
}

// minBroadcastScore is the checklist score that triggers a broadcast.
// Conservative risk wants a full house; aggressive accepts 6+.
func (s *Scheduler) minBroadcastScore() int {
	if s.cfg.Swing.Risk == "aggressive" {
		return 6
	}
	return 8
}

func (s *Scheduler) swingSweep() {
	ctx, span := trace.StartSpan(s.ctx, "scheduler.swing-sweep")
	defer span.End()

	timer := logger.StartOperation(ctx, "swing-sweep", "symbols", len(s.cfg.Watchlist))
	threshold := s.minBroadcastScore()

	alerts := 0
	for _, symbol := range s.cfg.Watchlist {
		if ctx.Err() != nil {
			timer.EndWithError(ctx.Err())
			return
		}

		long, short, err := s.analyzer.Swing(ctx, symbol)
		if err != nil {
			logger.Warn(ctx, "Swing sweep symbol failed", "symbol", symbol, "error", err)
			s.monitor.RecordError()
			continue
		}

		for _, check := range []types.SwingCheck{long, short} {
			if check.Score < threshold {
				continue
			}
			if err := s.notifier.Broadcast(ctx, telegram.FormatSwingAlert(symbol, check)); err != nil {
				logger.ErrorWithErr(ctx, "Swing alert broadcast failed", err, "symbol", symbol)
				s.monitor.RecordError()
				continue
			}
			alerts++
		}
	}

	s.monitor.RecordSweep()
	timer.End("alerts", alerts)
}
