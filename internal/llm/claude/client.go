package claude

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"interview-backend/internal/llm"
)

const (
	providerName     = "anthropic"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1024
	defaultTimeout   = 30 * time.Second
)

// Config configures the Anthropic Messages client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client implements llm.Client using the Anthropic Messages API.
type Client struct {
	api   anthropic.Client
	model string
}

// NewClient constructs a client. SDK retries are disabled: callers get at most one attempt per call.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	return &Client{api: anthropic.NewClient(opts...), model: model}, nil
}

// Complete sends the prompt and concatenates the text blocks of the reply.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	maxTokens := int64(req.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}
	if sys := strings.TrimSpace(req.SystemPrompt); sys != "" {
		params.System = []anthropic.TextBlockParam{{Text: sys}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", llm.Unavailable(providerName, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", llm.Unavailable(providerName, fmt.Errorf("response has no text content"))
	}
	return text, nil
}

var _ llm.Client = (*Client)(nil)
