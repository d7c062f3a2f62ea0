package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"stock-advisor-bot/internal/store"
	"stock-advisor-bot/internal/trace"
	"stock-advisor-bot/internal/types"
)

type OpenAICommentator struct {
	cfg *store.Config
}

func NewOpenAICommentator(cfg *store.Config) *OpenAICommentator {
	return &OpenAICommentator{cfg: cfg}
}

func (c *OpenAICommentator) Comment(ctx context.Context, symbol string, report *types.Report, ctxmap map[string]any) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	state := map[string]any{"symbol": symbol, "report": report, "context": ctxmap}
	sb, _ := json.Marshal(state)
	prompt := fmt.Sprintf("You will receive a stock advisory as JSON. Write a short plain-text commentary (3-4 sentences) for a retail investor. Never invent numbers; only reference values present in the JSON.\nAdvisory:%s", string(sb))

	body := map[string]any{
		"model":       c.cfg.LLM.Model,
		"messages":    []map[string]string{{"role": "system", "content": c.cfg.LLM.System}, {"role": "user", "content": prompt}},
		"temperature": c.cfg.LLM.Temperature,
		"max_tokens":  c.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}

	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	out := strings.TrimSpace(r.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("empty completion")
	}
	return out, nil
}
