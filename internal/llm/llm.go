package llm

import (
	"context"
	"errors"
	"fmt"
)

// CompletionRequest is one prompt sent to the oracle.
type CompletionRequest struct {
	// Operation names the call site for logs and metrics, e.g. "score.technical".
	Operation       string
	SystemPrompt    string
	UserPrompt      string
	Temperature     float64
	MaxOutputTokens int
}

// Client sends a prompt to a text-generation service and returns the raw text it produced.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ClientFunc adapts a plain function to Client.
type ClientFunc func(ctx context.Context, req CompletionRequest) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

var (
	// ErrOracleUnavailable wraps every failure to obtain text from the provider:
	// network errors, timeouts, non-2xx statuses and empty completions.
	ErrOracleUnavailable = errors.New("oracle unavailable")
	// ErrNotConfigured is returned by the placeholder client.
	ErrNotConfigured = errors.New("LLM provider not configured")
)

// Unavailable tags err as an oracle availability failure for the named provider.
func Unavailable(provider string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", provider, ErrOracleUnavailable, err)
}

// PlaceholderClient is used when no provider is configured. Every call fails, so
// scoring falls back to its defaults and question generation reports an error.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured wrapped as an availability failure.
func (PlaceholderClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	_ = ctx
	_ = req
	return "", Unavailable("placeholder", ErrNotConfigured)
}
