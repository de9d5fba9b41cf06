package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"bizplan-backend/internal/llm"
)

const defaultModel = sdk.ModelClaudeSonnet4_20250514

// Messager is the subset of the SDK messages service used by Client.
type Messager interface {
	New(ctx context.Context, params sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Client implements llm.Rewriter using the Anthropic Messages API.
type Client struct {
	messages Messager
	model    sdk.Model
}

// NewClient constructs a client for apiKey. An empty model selects the default.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is required")
	}
	c := sdk.NewClient(option.WithAPIKey(apiKey))
	return NewWithMessager(&c.Messages, model), nil
}

// NewWithMessager wraps an existing messages service.
func NewWithMessager(messages Messager, model string) *Client {
	m := sdk.Model(strings.TrimSpace(model))
	if m == "" {
		m = defaultModel
	}
	return &Client{messages: messages, model: m}
}

// Rewrite sends the enrichment prompt and returns the concatenated text blocks.
func (c *Client) Rewrite(ctx context.Context, input llm.RewriteInput) (string, error) {
	user := llm.BuildPrompt(input)
	if sink, ok := llm.PromptHashSinkFromContext(ctx); ok {
		llm.RecordPromptHash(sink, llm.SystemPrompt, user)
	}
	resp, err := c.messages.New(ctx, sdk.MessageNewParams{
		Model:       c.model,
		MaxTokens:   llm.MaxTokens,
		System:      []sdk.TextBlockParam{{Text: llm.SystemPrompt}},
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(user))},
		Temperature: sdk.Float(llm.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("anthropic response empty content")
	}
	return out, nil
}

var _ llm.Rewriter = (*Client)(nil)
