package eino

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"bizplan-backend/internal/llm"
)

// Generator is the subset of an eino chat model used by Client.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Client implements llm.Rewriter over any OpenAI-compatible endpoint.
type Client struct {
	chat Generator
}

// Config selects the endpoint and model.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// NewClient builds an eino OpenAI chat model for cfg.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("LLM_MODEL is required for eino")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("LLM_API_KEY is required for eino")
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("eino chat model: %w", err)
	}
	return NewWithGenerator(cm), nil
}

// NewWithGenerator wraps an existing chat model.
func NewWithGenerator(chat Generator) *Client {
	return &Client{chat: chat}
}

// Rewrite sends the enrichment prompt and returns the response content.
func (c *Client) Rewrite(ctx context.Context, input llm.RewriteInput) (string, error) {
	user := llm.BuildPrompt(input)
	if sink, ok := llm.PromptHashSinkFromContext(ctx); ok {
		llm.RecordPromptHash(sink, llm.SystemPrompt, user)
	}
	messages := []*schema.Message{
		{Role: schema.System, Content: llm.SystemPrompt},
		{Role: schema.User, Content: user},
	}
	resp, err := c.chat.Generate(ctx, messages,
		model.WithTemperature(float32(llm.Temperature)),
		model.WithMaxTokens(llm.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("eino generate: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", errors.New("eino response empty content")
	}
	return strings.TrimSpace(resp.Content), nil
}

var _ llm.Rewriter = (*Client)(nil)
