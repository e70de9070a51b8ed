package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kgavrilov/pravobot/config"
)

// OpenRouter implements Generator over the OpenAI-compatible chat
// completions endpoint at openrouter.ai.
type OpenRouter struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewOpenRouter builds the provider; the per-call read timeout rides on
// the injected context, not the HTTP client, so the caller's deadline
// is the only clock.
func NewOpenRouter(cfg config.LLMConfig) *OpenRouter {
	return &OpenRouter{cfg: cfg, client: &http.Client{}}
}

type textBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imageURL struct {
	URL string `json:"url"`
}

type imageBlock struct {
	Type     string   `json:"type"`
	ImageURL imageURL `json:"image_url"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content []any  `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// Generate issues one chat-completion call with a multimodal payload:
// one text block plus zero or more image blocks.
func (p *OpenRouter) Generate(ctx context.Context, model, prompt string, images []string) (string, error) {
	content := []any{textBlock{Type: "text", Text: prompt}}
	for _, img := range images {
		content = append(content, imageBlock{Type: "image_url", ImageURL: imageURL{URL: img}})
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: content}},
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	baseURL := p.cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter status %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices")
	}
	return out.Choices[0].Message.Content, nil
}
