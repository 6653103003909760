package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when the selected provider has no API key.
var ErrNoAPIKey = errors.New("no language model API key configured")

// Provider names accepted in llm.provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderNone      = "none"
)

// GetAPIKey returns the API key for the configured provider. The
// environment wins over the config file. Bedrock needs no key.
func GetAPIKey(cfg *Config) (string, error) {
	if cfg == nil {
		return "", ErrNoAPIKey
	}
	switch cfg.LLM.Provider {
	case ProviderOpenAI:
		return firstKey(os.Getenv("OPENAI_API_KEY"), cfg.LLM.OpenAIAPIKey)
	case ProviderNone:
		return "", ErrNoAPIKey
	default:
		if cfg.LLM.UseBedrock {
			return "", nil
		}
		return firstKey(os.Getenv("ANTHROPIC_API_KEY"), cfg.LLM.APIKey)
	}
}

func firstKey(candidates ...string) (string, error) {
	for _, c := range candidates {
		key := os.ExpandEnv(c)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, nil
		}
	}
	return "", ErrNoAPIKey
}

// MaskAPIKey returns a masked version of the API key for display.
// Shows the first 7 characters and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 15 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

// KeySource represents where an API key was loaded from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// GetAPIKeySource returns where the provider's API key was sourced from.
func GetAPIKeySource(cfg *Config) KeySource {
	if cfg == nil {
		return KeySourceNone
	}
	envName, fromFile := "ANTHROPIC_API_KEY", cfg.LLM.APIKey
	if cfg.LLM.Provider == ProviderOpenAI {
		envName, fromFile = "OPENAI_API_KEY", cfg.LLM.OpenAIAPIKey
	}
	if os.Getenv(envName) != "" {
		return KeySourceEnv
	}
	if _, err := firstKey(fromFile); err == nil {
		return KeySourceConfig
	}
	return KeySourceNone
}
