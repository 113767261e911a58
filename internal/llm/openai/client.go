package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"interview-backend/internal/llm"
)

const (
	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// GroqBaseURL is Groq's OpenAI-compatible API root.
	GroqBaseURL = "https://api.groq.com/openai/v1"

	defaultTimeout = 30 * time.Second
)

// Config configures a Chat Completions client.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// Client implements llm.Client against any OpenAI-compatible Chat Completions endpoint.
type Client struct {
	provider   string
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a new client. Groq and other compatible providers are reached via BaseURL.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for %s", providerName(cfg.Provider))
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("API key is required for %s", providerName(cfg.Provider))
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		provider: providerName(cfg.Provider),
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		endpoint: base + "/chat/completions",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         *float64      `json:"temperature,omitempty"`
	MaxTokens           int           `json:"max_tokens,omitempty"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one system+user exchange and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	content, err := c.complete(ctx, req)
	if err != nil {
		return "", llm.Unavailable(c.provider, err)
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if sys := strings.TrimSpace(req.SystemPrompt); sys != "" {
		messages = append(messages, chatMessage{Role: "system", Content: sys})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})

	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
	}
	if isReasoningModel(c.model) {
		reqBody.MaxCompletionTokens = req.MaxOutputTokens
	} else {
		temp := req.Temperature
		reqBody.Temperature = &temp
		reqBody.MaxTokens = req.MaxOutputTokens
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("%s request timeout: %w", c.provider, err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return "", fmt.Errorf("%s http status %d: %s", c.provider, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("%s response parse: %w", c.provider, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%s http status %d: %s (%s)", c.provider, resp.StatusCode, parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%s http status %d: %s", c.provider, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s response missing choices", c.provider)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%s response empty content", c.provider)
	}
	if parsed.Usage != nil {
		log.Printf("llm response provider=%s model=%s operation=%s prompt_tokens=%d completion_tokens=%d",
			c.provider, c.model, req.Operation, parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)
	}
	return content, nil
}

// isGPT5 reports the gpt-5 family.
func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

// isReasoningModel reports models that reject an explicit temperature and max_tokens:
// the gpt-5 family and the o1, o3 and o4 series.
func isReasoningModel(model string) bool {
	if isGPT5(model) {
		return true
	}
	m := strings.ToLower(strings.TrimSpace(model))
	for _, prefix := range []string{"o1", "o3", "o4"} {
		if m == prefix || strings.HasPrefix(m, prefix+"-") {
			return true
		}
	}
	return false
}

func providerName(p string) string {
	if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
		return p
	}
	return "openai"
}

var _ llm.Client = (*Client)(nil)
