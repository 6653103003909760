package api

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/reportqc/internal/config"
)

// NewFromConfig builds the Completer selected by llm.provider. It returns
// ErrNotConfigured when the provider is "none" or has no credentials.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Completer, error) {
	if cfg == nil || cfg.LLM.Provider == config.ProviderNone {
		return nil, ErrNotConfigured
	}
	key, err := config.GetAPIKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}

	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		c, err := NewOpenAIClient(ctx, OpenAIConfig{
			BaseURL:           cfg.LLM.BaseURL,
			APIKey:            key,
			Model:             cfg.LLM.Model,
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderAnthropic, "":
		c, err := NewClient(ClientConfig{
			Model:             anthropic.Model(cfg.LLM.Model),
			APIKey:            key,
			BaseURL:           cfg.LLM.BaseURL,
			UseAWSBedrock:     cfg.LLM.UseBedrock,
			AWSRegion:         cfg.LLM.AWSRegion,
			AWSProfile:        cfg.LLM.AWSProfile,
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.LLM.Provider)
	}
}
