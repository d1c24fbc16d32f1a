package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/httputil"
	"github.com/oldlogancap/logan-screener/pkg/logger"
)

// Client calls the chat completions API. It implements
// contracts.ChatProvider.
type Client struct {
	httpClient *httputil.Client
	cfg        config.OpenAIConfig
	configured bool
	logger     *logger.Logger
}

// NewClient creates an OpenAI client. An unconfigured client is still
// usable; Configured() reports false and callers degrade accordingly.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: httputil.NewWithTimeout(cfg, log, 60*time.Second),
		cfg:        cfg.OpenAI,
		configured: cfg.IsOpenAIConfigured(),
		logger:     log,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.configured
}

type chatRequest struct {
	Model       string                  `json:"model"`
	Messages    []contracts.ChatMessage `json:"messages"`
	Temperature float64                 `json:"temperature"`
	MaxTokens   int                     `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete returns the assistant response for a conversation with the
// given system prompt.
func (c *Client) Complete(ctx context.Context, system string, messages []contracts.ChatMessage) (string, error) {
	if !c.configured {
		return "", fmt.Errorf("openai api key not configured")
	}

	payload := chatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Messages:    append([]contracts.ChatMessage{{Role: "system", Content: system}}, messages...),
	}

	resp, err := c.httpClient.PostJSON(ctx, c.cfg.BaseURL+"/chat/completions", payload, map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading completion response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion failed: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion failed with status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
