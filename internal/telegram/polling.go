package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-advisor-bot/internal/logger"
)

// Update is one incoming event from getUpdates. Only text messages are
// handled; everything else is skipped but still advances the offset.
type Update struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		MessageID int `json:"message_id"`
		From      struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"from"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// UpdateHandler processes one text message.
type UpdateHandler func(ctx context.Context, upd Update)

// StartPolling long-polls getUpdates and dispatches text messages to the
// handler. Blocks until ctx is cancelled.
func (c *Client) StartPolling(ctx context.Context, timeoutSeconds int, handler UpdateHandler) {
	offset := 0
	// Poll client needs headroom over the long-poll window
	client := &http.Client{Timeout: time.Duration(timeoutSeconds+5) * time.Second}

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Telegram polling stopped")
			return
		default:
		}

		url := fmt.Sprintf("%s%s/getUpdates?offset=%d&timeout=%d", apiBase, c.token, offset, timeoutSeconds)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			logger.ErrorWithErr(ctx, "Create polling request failed", err)
			sleepCtx(ctx, 5*time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn(ctx, "Polling request failed", "error", err)
			sleepCtx(ctx, 5*time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			logger.Warn(ctx, "Read polling response failed", "error", err)
			continue
		}

		var result struct {
			OK     bool     `json:"ok"`
			Result []Update `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			logger.Warn(ctx, "Decode polling response failed", "error", err)
			continue
		}

		for _, upd := range result.Result {
			offset = upd.UpdateID + 1
			if upd.Message == nil || upd.Message.Text == "" {
				continue
			}
			handler(ctx, upd)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
