package api

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// OpenAIConfig configures an OpenAI-compatible chat endpoint.
type OpenAIConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	RequestsPerMinute int
}

// OpenAIClient talks to any OpenAI-compatible endpoint through eino.
type OpenAIClient struct {
	chat    model.BaseChatModel
	model   string
	limiter *rate.Limiter
	tracker *TokenTracker
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
func NewOpenAIClient(ctx context.Context, cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrNotConfigured)
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init openai chat model: %w", err)
	}
	return newOpenAIClient(chat, cfg.Model, newLimiter(cfg.RequestsPerMinute)), nil
}

func newOpenAIClient(chat model.BaseChatModel, name string, limiter *rate.Limiter) *OpenAIClient {
	return &OpenAIClient{chat: chat, model: name, limiter: limiter, tracker: NewTokenTracker(name)}
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Tracker returns the token usage of this client.
func (c *OpenAIClient) Tracker() *TokenTracker {
	return c.tracker
}

// Complete sends a single user message at temperature zero.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	return guard(ctx, c.limiter, req.Timeout, func(ctx context.Context) (string, error) {
		var messages []*schema.Message
		if req.System != "" {
			messages = append(messages, &schema.Message{Role: schema.System, Content: req.System})
		}
		messages = append(messages, &schema.Message{Role: schema.User, Content: req.Prompt})

		opts := []model.Option{model.WithTemperature(0)}
		if req.MaxTokens > 0 {
			opts = append(opts, model.WithMaxTokens(req.MaxTokens))
		}

		resp, err := c.chat.Generate(ctx, messages, opts...)
		if err != nil {
			return "", fmt.Errorf("openai generate: %w", err)
		}
		if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
			u := resp.ResponseMeta.Usage
			c.tracker.Add(int64(u.PromptTokens), int64(u.CompletionTokens))
		} else {
			c.tracker.Add(0, 0)
		}
		return resp.Content, nil
	})
}
