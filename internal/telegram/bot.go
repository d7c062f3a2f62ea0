package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"stock-advisor-bot/internal/health"
	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/marketdata"
	"stock-advisor-bot/internal/quota"
	"stock-advisor-bot/internal/recorder"
	"stock-advisor-bot/internal/store"
	"stock-advisor-bot/internal/trace"
	"stock-advisor-bot/internal/types"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9&-]{1,20}$`)

// HeadlineSource is what the bot needs from the news scraper.
type HeadlineSource interface {
	Headlines(ctx context.Context, symbol string, maxArticles int) ([]types.NewsArticle, error)
}

// Bot routes incoming Telegram messages to the analysis engine.
type Bot struct {
	cfg         *store.Config
	client      *Client
	analyzer    interfaces.Analyzer
	commentator interfaces.Commentator
	quota       *quota.Manager
	rec         recorder.Recorder
	news        HeadlineSource // nil when news is disabled
	monitor     *health.Monitor

	mu      sync.Mutex
	pending map[int64]string // chat ID -> command awaiting its argument
}

func NewBot(cfg *store.Config, client *Client, analyzer interfaces.Analyzer, commentator interfaces.Commentator, qm *quota.Manager, rec recorder.Recorder, news HeadlineSource, monitor *health.Monitor) *Bot {
	return &Bot{
		cfg:         cfg,
		client:      client,
		analyzer:    analyzer,
		commentator: commentator,
		quota:       qm,
		rec:         rec,
		news:        news,
		monitor:     monitor,
		pending:     make(map[int64]string),
	}
}

// Run blocks polling Telegram until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.client.StartPolling(ctx, b.cfg.Telegram.PollTimeoutSeconds, b.handleUpdate)
}

func (b *Bot) handleUpdate(ctx context.Context, upd Update) {
	msg := upd.Message
	ctx, span := trace.StartSpan(ctx, "telegram.update")
	defer span.End()

	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	logger.Info(ctx, "Message received", "user_id", userID, "chat_id", chatID, "text", text)

	if err := b.rec.UpsertUser(ctx, userID, msg.From.Username); err != nil {
		logger.Warn(ctx, "Upsert user failed", "user_id", userID, "error", err)
	}

	// A bare /swing earlier means this message is its symbol argument
	b.mu.Lock()
	pendingCmd, waiting := b.pending[chatID]
	if waiting && !strings.HasPrefix(text, "/") {
		delete(b.pending, chatID)
	} else {
		waiting = false
	}
	b.mu.Unlock()

	if waiting {
		text = pendingCmd + " " + text
	}

	cmd, arg := splitCommand(text)
	switch cmd {
	case "/start":
		if err := b.client.SendWithKeyboard(ctx, chatID, welcomeText, mainMenu); err != nil {
			logger.ErrorWithErr(ctx, "Welcome message failed", err, "chat_id", chatID)
		}
	case "/help":
		b.reply(ctx, chatID, helpText)
	case "/usage":
		b.handleUsage(ctx, chatID, userID)
	case "/scan":
		b.handleScan(ctx, chatID, userID)
	case "/swing":
		b.handleSwing(ctx, chatID, userID, arg)
	case "/tier":
		b.handleTier(ctx, chatID, userID, arg)
	default:
		if strings.HasPrefix(cmd, "/") {
			b.reply(ctx, chatID, "Unknown command. Try /help.")
			return
		}
		b.handleReport(ctx, chatID, userID, text)
	}
}

func splitCommand(text string) (cmd, arg string) {
	parts := strings.SplitN(text, " ", 2)
	cmd = parts[0]
	// Commands in groups arrive as /cmd@botname
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}

func normalizeSymbol(raw string) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	return symbol, symbolPattern.MatchString(symbol)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.client.SendWithRetry(ctx, chatID, text, 2); err != nil {
		logger.ErrorWithErr(ctx, "Reply failed", err, "chat_id", chatID)
	}
}

// checkQuota replies to the user and returns false when the daily limit
// is spent.
func (b *Bot) checkQuota(ctx context.Context, chatID, userID int64) bool {
	st, err := b.quota.Check(ctx, userID)
	if err != nil {
		logger.ErrorWithErr(ctx, "Quota check failed", err, "user_id", userID)
		// Fail open: a broken quota store should not take the bot down
		return true
	}
	if !st.Allowed {
		b.reply(ctx, chatID, FormatQuotaExceeded(st))
		return false
	}
	return true
}

func (b *Bot) consume(ctx context.Context, userID int64, symbol, kind string) {
	b.monitor.RecordQuery()
	if err := b.quota.Consume(ctx, userID, symbol, kind); err != nil {
		logger.Warn(ctx, "Quota consume failed", "user_id", userID, "error", err)
	}
}

func (b *Bot) handleUsage(ctx context.Context, chatID, userID int64) {
	st, err := b.quota.Check(ctx, userID)
	if err != nil {
		logger.ErrorWithErr(ctx, "Quota check failed", err, "user_id", userID)
		b.reply(ctx, chatID, "Couldn't read your usage right now.")
		return
	}
	b.reply(ctx, chatID, FormatUsage(st))
}

func (b *Bot) handleReport(ctx context.Context, chatID, userID int64, raw string) {
	symbol, ok := normalizeSymbol(raw)
	if !ok {
		b.reply(ctx, chatID, "That doesn't look like an NSE symbol. Try something like <code>INFY</code>.")
		return
	}
	if !b.checkQuota(ctx, chatID, userID) {
		return
	}

	report, err := b.analyzer.Report(ctx, symbol)
	if err != nil {
		b.replyAnalysisError(ctx, chatID, symbol, err)
		return
	}

	if err := b.rec.LogAnalysis(ctx, report); err != nil {
		logger.Warn(ctx, "Log analysis failed", "symbol", symbol, "error", err)
	}

	text := FormatReport(report)
	if commentary := b.commentary(ctx, symbol, report); commentary != "" {
		text += commentary
	}

	b.reply(ctx, chatID, text)
	b.consume(ctx, userID, symbol, "report")
}

// commentary builds LLM prompt context and asks the commentator chain.
// Any failure just drops the commentary section.
func (b *Bot) commentary(ctx context.Context, symbol string, report *types.Report) string {
	ctxmap := map[string]any{}

	if b.news != nil && b.cfg.News.Enabled {
		articles, err := b.news.Headlines(ctx, symbol, b.cfg.News.MaxArticles)
		if err == nil && len(articles) > 0 {
			headlines := make([]string, 0, len(articles))
			for _, a := range articles {
				headlines = append(headlines, a.Title)
			}
			ctxmap["headlines"] = headlines
		}
	}

	text, err := b.commentator.Comment(ctx, symbol, report, ctxmap)
	if err != nil {
		logger.Warn(ctx, "Commentary unavailable", "symbol", symbol, "error", err)
		return ""
	}
	return FormatCommentary(text)
}

func (b *Bot) handleSwing(ctx context.Context, chatID, userID int64, arg string) {
	if arg == "" {
		b.mu.Lock()
		b.pending[chatID] = "/swing"
		b.mu.Unlock()
		b.reply(ctx, chatID, "Which symbol should I run the swing checklist on?")
		return
	}

	symbol, ok := normalizeSymbol(arg)
	if !ok {
		b.reply(ctx, chatID, "That doesn't look like an NSE symbol. Try <code>/swing INFY</code>.")
		return
	}
	if !b.checkQuota(ctx, chatID, userID) {
		return
	}

	long, short, err := b.analyzer.Swing(ctx, symbol)
	if err != nil {
		b.replyAnalysisError(ctx, chatID, symbol, err)
		return
	}

	b.reply(ctx, chatID, FormatSwing(symbol, long, short))
	b.consume(ctx, userID, symbol, "swing")
}

func (b *Bot) handleScan(ctx context.Context, chatID, userID int64) {
	if !b.checkQuota(ctx, chatID, userID) {
		return
	}

	b.reply(ctx, chatID, fmt.Sprintf("Scanning %d watchlist symbols…", len(b.cfg.Watchlist)))

	hits, err := b.analyzer.Scan(ctx, b.cfg.Watchlist, b.cfg.Scan.MinScore)
	if err != nil {
		logger.ErrorWithErr(ctx, "Scan failed", err)
		b.reply(ctx, chatID, "Scan failed, try again in a bit.")
		return
	}

	b.reply(ctx, chatID, FormatScan(hits, b.cfg.Scan.MinScore))
	b.consume(ctx, userID, "", "scan")
}

// handleTier lets admins move users between quota tiers:
// /tier 123456 premium
func (b *Bot) handleTier(ctx context.Context, chatID, userID int64, arg string) {
	if !b.isAdmin(userID) {
		b.reply(ctx, chatID, "Admins only.")
		return
	}

	parts := strings.Fields(arg)
	if len(parts) != 2 {
		b.reply(ctx, chatID, "Usage: <code>/tier USER_ID TIER</code>")
		return
	}

	targetID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		b.reply(ctx, chatID, "USER_ID must be numeric.")
		return
	}
	tier := strings.ToLower(parts[1])
	if _, ok := b.cfg.Quota.Tiers[tier]; !ok {
		b.reply(ctx, chatID, fmt.Sprintf("Unknown tier %q.", html.EscapeString(tier)))
		return
	}

	if err := b.rec.SetUserTier(ctx, targetID, tier); err != nil {
		logger.ErrorWithErr(ctx, "Set tier failed", err, "target", targetID)
		b.reply(ctx, chatID, "Couldn't update the tier.")
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("User %d moved to <b>%s</b>.", targetID, html.EscapeString(tier)))
}

func (b *Bot) isAdmin(userID int64) bool {
	for _, id := range b.cfg.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *Bot) replyAnalysisError(ctx context.Context, chatID int64, symbol string, err error) {
	b.monitor.RecordError()
	logger.ErrorWithErr(ctx, "Analysis failed", err, "symbol", symbol)
	if errors.Is(err, marketdata.ErrNoData) {
		b.reply(ctx, chatID, fmt.Sprintf("No data found for <b>%s</b>. Is it a valid NSE symbol?", html.EscapeString(symbol)))
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("Analysis for <b>%s</b> failed, try again shortly.", html.EscapeString(symbol)))
}
