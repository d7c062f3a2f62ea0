package telegram

import (
	"fmt"
	"html"
	"strings"

	"stock-advisor-bot/internal/quota"
	"stock-advisor-bot/internal/types"
)

// All user-facing message text is built here and nowhere else. The
// analysis layer returns values; this file turns them into HTML.

const welcomeText = `👋 Welcome to the stock advisor bot.

Send me an NSE symbol (like <code>INFY</code> or <code>SBIN</code>) and I'll reply with a full technical and fundamental advisory.

Commands:
/scan — score the watchlist and list the strongest setups
/swing SYMBOL — run the 8-point swing checklist
/usage — your remaining daily queries
/help — this message`

const helpText = `Send any NSE symbol as plain text for a full advisory.

/scan — score every watchlist symbol, list those above threshold
/swing SYMBOL — 8-point swing checklist, LONG and SHORT
/usage — quota status
/help — this message

Advisories are informational only, not investment advice.`

// mainMenu is the persistent reply keyboard sent with /start. Button
// labels are commands so a tap routes through the normal dispatcher.
var mainMenu = [][]string{
	{"/scan", "/swing"},
	{"/usage", "/help"},
}

func verdictEmoji(v types.Verdict) string {
	switch v {
	case types.VerdictStrongBuy:
		return "🟢"
	case types.VerdictBuyHold:
		return "🔵"
	case types.VerdictWait:
		return "🟡"
	default:
		return "🔴"
	}
}

// FormatReport renders the full advisory for one symbol.
func FormatReport(r *types.Report) string {
	var b strings.Builder

	name := html.EscapeString(r.Fundamentals.Name)
	if name != "" {
		fmt.Fprintf(&b, "📊 <b>%s</b> — %s\n", html.EscapeString(r.Symbol), name)
	} else {
		fmt.Fprintf(&b, "📊 <b>%s</b>\n", html.EscapeString(r.Symbol))
	}

	changePct := 0.0
	if r.PrevClose > 0 {
		changePct = (r.LTP - r.PrevClose) / r.PrevClose * 100
	}
	fmt.Fprintf(&b, "LTP ₹%.2f (%+.2f%%)\n", r.LTP, changePct)
	fmt.Fprintf(&b, "Trend: %s | Score: <b>%d/100</b>\n", r.Trend, r.Result.Score)
	fmt.Fprintf(&b, "Verdict: %s <b>%s</b> (%s confidence)\n\n",
		verdictEmoji(r.Result.Verdict), r.Result.Verdict, r.Result.Confidence)

	ind := r.Indicators
	fmt.Fprintf(&b, "RSI(14) %.1f | ADX %.1f\n", ind.RSI14, ind.ADX14)
	fmt.Fprintf(&b, "EMA50 %.2f | EMA200 %.2f\n", ind.EMA50, ind.EMA200)
	fmt.Fprintf(&b, "MACD %.2f / signal %.2f\n", ind.MACDLine, ind.MACDSignal)
	fmt.Fprintf(&b, "Bollinger %.2f – %.2f\n", ind.BB.Lower, ind.BB.Upper)
	fmt.Fprintf(&b, "Volatility %.2f%%\n\n", ind.Volatility20)

	p := r.Pivots
	fmt.Fprintf(&b, "Pivots: PP %.2f | R1 %.2f | S1 %.2f | R2 %.2f | S2 %.2f\n",
		p.PP, p.R1, p.S1, p.R2, p.S2)
	fmt.Fprintf(&b, "Upside to R2: %+.2f%%\n", r.UpsidePct)

	f := r.Fundamentals
	if f.PERatio > 0 || f.ReturnOnEquity > 0 {
		b.WriteString("\n")
		if f.PERatio > 0 {
			fmt.Fprintf(&b, "PE %.1f", f.PERatio)
		}
		if f.ReturnOnEquity > 0 {
			if f.PERatio > 0 {
				b.WriteString(" | ")
			}
			fmt.Fprintf(&b, "ROE %.1f%%", f.ReturnOnEquity)
		}
		if f.PriceToBook > 0 {
			fmt.Fprintf(&b, " | P/B %.1f", f.PriceToBook)
		}
		if f.Sector != "" {
			fmt.Fprintf(&b, "\nSector: %s", html.EscapeString(f.Sector))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCommentary appends LLM commentary below an advisory.
func FormatCommentary(text string) string {
	return "\n💬 " + html.EscapeString(strings.TrimSpace(text))
}

// FormatSwing renders both sides of the swing checklist.
func FormatSwing(symbol string, long, short types.SwingCheck) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🎯 <b>%s</b> swing checklist\n\n", html.EscapeString(symbol))

	writeSide := func(check types.SwingCheck) {
		fmt.Fprintf(&b, "<b>%s: %d/8</b>\n", check.Side, check.Score)
		for _, cond := range check.Conditions {
			fmt.Fprintf(&b, "  ✔ %s\n", html.EscapeString(cond))
		}
		if check.Score == 0 {
			b.WriteString("  no conditions met\n")
		}
	}

	writeSide(long)
	b.WriteString("\n")
	writeSide(short)

	return b.String()
}

// FormatScan renders watchlist scan results.
func FormatScan(hits []types.ScanHit, minScore int) string {
	if len(hits) == 0 {
		return fmt.Sprintf("🔍 No watchlist symbols scored %d or above right now.", minScore)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 <b>Watchlist scan</b> (score ≥ %d)\n\n", minScore)
	for _, hit := range hits {
		fmt.Fprintf(&b, "  <b>%s</b> — %d/100\n", html.EscapeString(hit.Symbol), hit.Score)
	}
	return b.String()
}

// FormatUsage renders the user's quota status.
func FormatUsage(st quota.Status) string {
	if st.Limit < 0 {
		return "📈 Your tier has no daily limit."
	}
	remaining := st.Limit - st.Used
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("📈 Tier: <b>%s</b>\nUsed today: %d/%d\nRemaining: %d",
		html.EscapeString(st.Tier), st.Used, st.Limit, remaining)
}

// FormatQuotaExceeded tells a user their daily limit is spent.
func FormatQuotaExceeded(st quota.Status) string {
	return fmt.Sprintf("⛔ Daily limit reached (%d/%d on the %s tier). Quota resets at midnight.",
		st.Used, st.Limit, html.EscapeString(st.Tier))
}

// FormatSwingAlert renders the scheduled broadcast for strong setups.
func FormatSwingAlert(symbol string, check types.SwingCheck) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚡ <b>%s</b> %s setup: %d/8\n", html.EscapeString(symbol), check.Side, check.Score)
	for _, cond := range check.Conditions {
		fmt.Fprintf(&b, "  ✔ %s\n", html.EscapeString(cond))
	}
	return b.String()
}
