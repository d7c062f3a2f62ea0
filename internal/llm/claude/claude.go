package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"stock-advisor-bot/internal/store"
	"stock-advisor-bot/internal/trace"
	"stock-advisor-bot/internal/types"
)

// ClaudeCommentator implements the Commentator interface using the
// Anthropic messages API
type ClaudeCommentator struct {
	cfg      *store.Config
	endpoint string
}

func NewClaudeCommentator(cfg *store.Config) *ClaudeCommentator {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeCommentator{cfg: cfg, endpoint: endpoint}
}

func (c *ClaudeCommentator) Comment(ctx context.Context, symbol string, report *types.Report, ctxmap map[string]any) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return "", errors.New("CLAUDE_API_KEY missing")
	}

	state := map[string]any{"symbol": symbol, "report": report, "context": ctxmap}
	stateB, _ := json.Marshal(state)

	system := c.cfg.LLM.System
	if system == "" {
		system = "You are a cautious equities analyst. Write short plain-text commentary, no financial advice disclaimers."
	}
	user := fmt.Sprintf("Advisory as JSON:%s\n\nWrite a short plain-text commentary (3-4 sentences) for a retail investor. Never invent numbers.", string(stateB))

	reqBody := map[string]any{
		"model":  c.cfg.LLM.Model,
		"system": system,
		"messages": []map[string]string{
			{"role": "user", "content": user},
		},
		"max_tokens":  c.cfg.LLM.MaxTokens,
		"temperature": c.cfg.LLM.Temperature,
	}

	bb, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("claude http %d: %s", resp.StatusCode, string(body))
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("empty completion")
	}
	return out, nil
}
