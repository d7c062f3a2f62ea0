package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-advisor-bot/internal/interfaces"
	"stock-advisor-bot/internal/logger"
)

const apiBase = "https://api.telegram.org/bot"

// Client talks to the Telegram Bot API. It is the only place in the
// codebase that knows the wire format.
type Client struct {
	token        string
	http         *http.Client
	broadcastIDs []int64
}

var _ interfaces.Notifier = (*Client)(nil)

func NewClient(token string, broadcastIDs []int64) *Client {
	return &Client{
		token:        token,
		http:         &http.Client{Timeout: 30 * time.Second},
		broadcastIDs: broadcastIDs,
	}
}

// Send posts one HTML-formatted message to a chat.
func (c *Client) Send(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+c.token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithKeyboard posts an HTML message with a persistent reply keyboard.
// Each row of labels becomes one row of buttons; tapping a button sends
// its label back as a regular message.
func (c *Client) SendWithKeyboard(ctx context.Context, chatID int64, text string, rows [][]string) error {
	keyboard := make([][]map[string]string, 0, len(rows))
	for _, row := range rows {
		buttons := make([]map[string]string, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, map[string]string{"text": label})
		}
		keyboard = append(keyboard, buttons)
	}

	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
		"reply_markup": map[string]any{
			"keyboard":        keyboard,
			"resize_keyboard": true,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+c.token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (c *Client) SendWithRetry(ctx context.Context, chatID int64, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := c.Send(ctx, chatID, text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			logger.Warn(ctx, "Telegram send failed, retrying",
				"attempt", i+1,
				"max_attempts", maxRetries+1,
				"backoff", backoff.String(),
				"error", err,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// Broadcast sends the message to every configured broadcast chat.
// Failing chats are logged and skipped so one bad chat ID does not
// silence the rest.
func (c *Client) Broadcast(ctx context.Context, text string) error {
	var lastErr error
	for _, chatID := range c.broadcastIDs {
		if err := c.SendWithRetry(ctx, chatID, text, 2); err != nil {
			logger.ErrorWithErr(ctx, "Broadcast to chat failed", err, "chat_id", chatID)
			lastErr = err
		}
	}
	return lastErr
}
