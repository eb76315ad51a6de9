// Package oracle provides the Anthropic-backed narrative oracle client. The
// rest of the engine only sees the arbiter's Oracle interface; everything
// provider-specific stays here.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/amelnychuk/fableforge/internal/config"
)

// ErrMissingAPIKey indicates the configured API key environment variable is
// unset or empty.
var ErrMissingAPIKey = errors.New("oracle: API key environment variable is not set")

// Client calls the Anthropic Messages API with a fixed model and token
// budget. It makes exactly one attempt per Complete call; retry policy, if
// any, belongs to the caller (the arbiter deliberately has none).
type Client struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClient builds a Client from configuration, reading the API key from the
// environment variable named by cfg.APIKeyEnv.
//
// Postcondition: returns a ready Client or ErrMissingAPIKey.
func NewClient(cfg config.OracleConfig) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, cfg.APIKeyEnv)
	}
	return &Client{
		client:    anthropic.NewClient(option.WithAPIKey(key)),
		model:     anthropic.Model(cfg.Model),
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

// Complete sends the system instruction and user message and returns the
// concatenated text content of the response. Cancellation and deadlines
// come from ctx.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("oracle: messages call: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("oracle: response contained no text content")
	}
	return b.String(), nil
}
