// Package config handles configuration loading and management for reportqc.
// It supports XDG config paths, project-level overrides, a .env file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ShayCichocki/reportqc/internal/policy"
)

const (
	appName           = "reportqc"
	projectConfigName = ".reportqc.yaml"
)

// Config holds all configuration for reportqc.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
	QC       QCConfig       `mapstructure:"qc"`
	Render   RenderConfig   `mapstructure:"render"`
	Output   OutputConfig   `mapstructure:"output"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Log      LogConfig      `mapstructure:"log"`
}

// LLMConfig selects and configures the language model provider.
type LLMConfig struct {
	// Provider is "anthropic", "openai" or "none".
	Provider     string `mapstructure:"provider"`
	Model        string `mapstructure:"model"`
	APIKey       string `mapstructure:"api_key"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	// BaseURL points the openai provider at any compatible endpoint.
	BaseURL    string `mapstructure:"base_url"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
	// RequestsPerMinute throttles model calls. Zero disables throttling.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// TimeoutsConfig holds per-call timeouts for model requests.
type TimeoutsConfig struct {
	Light    time.Duration `mapstructure:"light"`
	Analysis time.Duration `mapstructure:"analysis"`
}

// QCConfig holds the decision and loop thresholds.
type QCConfig struct {
	MaxIterations  int           `mapstructure:"max_iterations"`
	MaxImportant   int           `mapstructure:"max_important"`
	RoundDelay     time.Duration `mapstructure:"round_delay"`
	MathTolerance  float64       `mapstructure:"math_tolerance"`
	MinWords       int           `mapstructure:"min_words"`
	MaxWords       int           `mapstructure:"max_words"`
	MinCompetitors int           `mapstructure:"min_competitors"`
	ExcerptChars   int           `mapstructure:"excerpt_chars"`
	SkipAI         bool          `mapstructure:"skip_ai"`
}

// RenderConfig describes the external report renderer.
type RenderConfig struct {
	// Command is the argv of the renderer. {research}, {contact} and
	// {output} are substituted before it runs.
	Command []string `mapstructure:"command"`
	// Output is where the renderer writes HTML. Empty means stdout.
	Output  string `mapstructure:"output"`
	Contact string `mapstructure:"contact"`
}

// OutputConfig holds paths of persisted artifacts.
type OutputConfig struct {
	Result    string `mapstructure:"result"`
	HistoryDB string `mapstructure:"history_db"`
}

// RulesConfig points at an optional rule override file.
type RulesConfig struct {
	File string `mapstructure:"file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, OPENAI_API_KEY, REPORTQC_*)
// 2. .env in the current directory
// 3. Project config (.reportqc.yaml in current directory or parent)
// 4. User config (~/.config/reportqc/config.yaml)
// 5. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file on top of the
// defaults and environment.
func LoadFromPath(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("REPORTQC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", "ANTHROPIC_API_KEY", "REPORTQC_LLM_API_KEY")
	_ = v.BindEnv("llm.openai_api_key", "OPENAI_API_KEY", "REPORTQC_LLM_OPENAI_API_KEY")
	_ = v.BindEnv("llm.provider", "REPORTQC_LLM_PROVIDER")
	_ = v.BindEnv("llm.model", "REPORTQC_LLM_MODEL")
	_ = v.BindEnv("log.level", "REPORTQC_LOG_LEVEL")
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.LLM.APIKey = os.ExpandEnv(cfg.LLM.APIKey)
	cfg.LLM.OpenAIAPIKey = os.ExpandEnv(cfg.LLM.OpenAIAPIKey)
	return cfg, nil
}

// Set writes a single key to the user config file, creating it if needed.
func Set(key string, value string) error {
	dir := getUserConfigDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	path := filepath.Join(dir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}
	v.Set(key, value)
	return v.WriteConfigAs(path)
}

// Get returns the effective value of a dotted key as loaded by Load.
func Get(key string) (interface{}, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	v := viper.New()
	if err := v.MergeConfigMap(toMap(cfg)); err != nil {
		return nil, err
	}
	if !v.IsSet(key) {
		return nil, fmt.Errorf("unknown config key %q", key)
	}
	return v.Get(key), nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.use_bedrock", false)
	v.SetDefault("llm.aws_region", "")
	v.SetDefault("llm.aws_profile", "")
	v.SetDefault("llm.requests_per_minute", d.LLM.RequestsPerMinute)

	v.SetDefault("timeouts.light", d.Timeouts.Light.String())
	v.SetDefault("timeouts.analysis", d.Timeouts.Analysis.String())

	v.SetDefault("qc.max_iterations", d.QC.MaxIterations)
	v.SetDefault("qc.max_important", d.QC.MaxImportant)
	v.SetDefault("qc.round_delay", d.QC.RoundDelay.String())
	v.SetDefault("qc.math_tolerance", d.QC.MathTolerance)
	v.SetDefault("qc.min_words", d.QC.MinWords)
	v.SetDefault("qc.max_words", d.QC.MaxWords)
	v.SetDefault("qc.min_competitors", d.QC.MinCompetitors)
	v.SetDefault("qc.excerpt_chars", d.QC.ExcerptChars)
	v.SetDefault("qc.skip_ai", false)

	v.SetDefault("render.command", []string{})
	v.SetDefault("render.output", "")
	v.SetDefault("render.contact", "")

	v.SetDefault("output.result", d.Output.Result)
	v.SetDefault("output.history_db", d.Output.HistoryDB)

	v.SetDefault("rules.file", "")

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", "")
}

// getUserConfigDir returns the XDG config directory for reportqc.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", appName)
	}
	return filepath.Join(home, ".config", appName)
}

// findProjectConfig searches for .reportqc.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		configPath := filepath.Join(cwd, projectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return ""
		}
		cwd = parent
	}
}

// Default returns a Config with default values.
func Default() *Config {
	p := policy.Default()
	return &Config{
		LLM: LLMConfig{
			Provider:          "anthropic",
			Model:             "claude-sonnet-4-5-20250929",
			RequestsPerMinute: 30,
		},
		Timeouts: TimeoutsConfig{
			Light:    p.AI.LightTimeout,
			Analysis: p.AI.AnalysisTimeout,
		},
		QC: QCConfig{
			MaxIterations:  p.Loop.MaxIterations,
			MaxImportant:   p.Decision.MaxImportant,
			RoundDelay:     p.Loop.RoundDelay,
			MathTolerance:  p.Content.MathTolerance,
			MinWords:       p.Content.MinWords,
			MaxWords:       p.Content.MaxWords,
			MinCompetitors: p.Data.MinCompetitors,
			ExcerptChars:   p.AI.ExcerptChars,
		},
		Output: OutputConfig{
			Result:    "qc-result.json",
			HistoryDB: filepath.Join(".reportqc", "history.db"),
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Policy builds the pipeline policy from the configured thresholds. Values
// out of range fall back to their defaults.
func (c *Config) Policy() *policy.Config {
	p := policy.Default()
	p.Decision.MaxImportant = c.QC.MaxImportant
	p.Loop.MaxIterations = c.QC.MaxIterations
	p.Loop.RoundDelay = c.QC.RoundDelay
	p.Content.MathTolerance = c.QC.MathTolerance
	p.Content.MinWords = c.QC.MinWords
	p.Content.MaxWords = c.QC.MaxWords
	p.Data.MinCompetitors = c.QC.MinCompetitors
	p.AI.ExcerptChars = c.QC.ExcerptChars
	p.AI.LightTimeout = c.Timeouts.Light
	p.AI.AnalysisTimeout = c.Timeouts.Analysis
	p.Normalize()
	return p
}

// toMap flattens cfg into viper's nested map form for key lookups.
func toMap(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"llm": map[string]interface{}{
			"provider":            cfg.LLM.Provider,
			"model":               cfg.LLM.Model,
			"api_key":             MaskAPIKey(cfg.LLM.APIKey),
			"openai_api_key":      MaskAPIKey(cfg.LLM.OpenAIAPIKey),
			"base_url":            cfg.LLM.BaseURL,
			"use_bedrock":         cfg.LLM.UseBedrock,
			"aws_region":          cfg.LLM.AWSRegion,
			"aws_profile":         cfg.LLM.AWSProfile,
			"requests_per_minute": cfg.LLM.RequestsPerMinute,
		},
		"timeouts": map[string]interface{}{
			"light":    cfg.Timeouts.Light.String(),
			"analysis": cfg.Timeouts.Analysis.String(),
		},
		"qc": map[string]interface{}{
			"max_iterations":  cfg.QC.MaxIterations,
			"max_important":   cfg.QC.MaxImportant,
			"round_delay":     cfg.QC.RoundDelay.String(),
			"math_tolerance":  cfg.QC.MathTolerance,
			"min_words":       cfg.QC.MinWords,
			"max_words":       cfg.QC.MaxWords,
			"min_competitors": cfg.QC.MinCompetitors,
			"excerpt_chars":   cfg.QC.ExcerptChars,
			"skip_ai":         cfg.QC.SkipAI,
		},
		"render": map[string]interface{}{
			"command": cfg.Render.Command,
			"output":  cfg.Render.Output,
			"contact": cfg.Render.Contact,
		},
		"output": map[string]interface{}{
			"result":     cfg.Output.Result,
			"history_db": cfg.Output.HistoryDB,
		},
		"rules": map[string]interface{}{
			"file": cfg.Rules.File,
		},
		"log": map[string]interface{}{
			"level": cfg.Log.Level,
			"file":  cfg.Log.File,
		},
	}
}

// Effective returns cfg in its nested key form with API keys masked.
func Effective(cfg *Config) map[string]interface{} {
	return toMap(cfg)
}
