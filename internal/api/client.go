// Package api provides the language model clients used by the AI phase and
// the fixer: Anthropic (direct or through AWS Bedrock) and any
// OpenAI-compatible endpoint.
package api

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
	"golang.org/x/time/rate"

	"github.com/ShayCichocki/reportqc/internal/version"
)

// Client wraps the Anthropic SDK client with token tracking and a rate limiter.
type Client struct {
	inner   anthropic.Client
	model   anthropic.Model
	tracker *TokenTracker
	limiter *rate.Limiter
}

// ClientConfig contains configuration for creating a new Client.
type ClientConfig struct {
	// Model is the Claude model to use (e.g., anthropic.Model("claude-sonnet-4-5-20250929")).
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY env var.
	APIKey string
	// BaseURL overrides the API endpoint, for proxies and tests.
	BaseURL string
	// UseAWSBedrock indicates whether to use AWS Bedrock instead of direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
	// RequestsPerMinute throttles calls. Zero means unlimited.
	RequestsPerMinute int
}

// NewClient creates a new Anthropic API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrNotConfigured)
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, option.WithHeader("User-Agent", version.UserAgent()))

	model := cfg.Model
	if model == "" {
		model = anthropic.Model("claude-sonnet-4-5-20250929")
	}
	if cfg.UseAWSBedrock {
		model = translateModelForBedrock(model)
	}

	return &Client{
		inner:   anthropic.NewClient(opts...),
		model:   model,
		tracker: NewTokenTracker(string(model)),
		limiter: newLimiter(cfg.RequestsPerMinute),
	}, nil
}

// translateModelForBedrock converts standard Anthropic model names to Bedrock inference profile format.
// Bedrock uses cross-region inference profiles: us.anthropic.{model}-v1:0
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	bedrockModels := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:         "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.Model("claude-sonnet-4-5-20250929"): "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.Model("claude-haiku-4-5-20251001"):  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:         "us.anthropic.claude-opus-4-1-20250805-v1:0",
	}
	if bedrockModel, ok := bedrockModels[model]; ok {
		return anthropic.Model(bedrockModel)
	}
	return model
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return string(c.model)
}

// Tracker returns the token usage of this client.
func (c *Client) Tracker() *TokenTracker {
	return c.tracker
}

// Complete sends a single user message at temperature zero and returns the
// concatenated text blocks of the reply.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	return guard(ctx, c.limiter, req.Timeout, func(ctx context.Context) (string, error) {
		params := anthropic.MessageNewParams{
			Model:       c.model,
			MaxTokens:   int64(req.MaxTokens),
			Temperature: anthropic.Float(0),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
			},
		}
		if req.System != "" {
			params.System = []anthropic.TextBlockParam{{Text: req.System}}
		}

		resp, err := c.inner.Messages.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("anthropic messages: %w", err)
		}
		c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

		var sb strings.Builder
		for _, block := range resp.Content {
			if text, ok := block.AsAny().(anthropic.TextBlock); ok {
				sb.WriteString(text.Text)
			}
		}
		return sb.String(), nil
	})
}
