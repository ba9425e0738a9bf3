// Package config provides configuration loading for councild.
//
// Configuration is loaded from a YAML file, then overridden by
// environment variables, with hardcoded defaults underneath.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds the complete councild configuration.
type Config struct {
	Server       ServerConfig        `koanf:"server"`
	Logging      LoggingConfig       `koanf:"logging"`
	Telemetry    TelemetryConfig     `koanf:"telemetry"`
	Council      CouncilConfig       `koanf:"council"`
	Participants []ParticipantConfig `koanf:"participants"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry configuration.
type TelemetryConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Endpoint       string   `koanf:"endpoint"`
	ServiceName    string   `koanf:"service_name"`
	ServiceVersion string   `koanf:"service_version"`
	Insecure       bool     `koanf:"insecure"`
	SamplingRate   float64  `koanf:"sampling_rate"`
	ShutdownWait   Duration `koanf:"shutdown_wait"`
}

// CouncilConfig holds conversation engine configuration.
type CouncilConfig struct {
	// DefaultMode applies when a request carries no mode directive.
	DefaultMode string `koanf:"default_mode"`

	// GenerationTimeout bounds each participant call.
	GenerationTimeout Duration `koanf:"generation_timeout"`

	// DedupCapacity bounds the processed event ID set.
	DedupCapacity int `koanf:"dedup_capacity"`

	// BotUserID is the chat platform identity whose leading mentions
	// are stripped from user messages. Empty strips any leading
	// mention.
	BotUserID string `koanf:"bot_user_id"`

	// RandSeed fixes the debate shuffle. Zero seeds from the clock.
	RandSeed int64 `koanf:"rand_seed"`
}

// ParticipantConfig describes one council member.
type ParticipantConfig struct {
	Key         string  `koanf:"key"`
	DisplayName string  `koanf:"display_name"`
	Provider    string  `koanf:"provider"`
	Model       string  `koanf:"model"`
	APIKey      Secret  `koanf:"api_key"`
	APIKeyEnv   string  `koanf:"api_key_env"`
	BaseURL     string  `koanf:"base_url"`
	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`
}

// ResolvedAPIKey returns the configured key, falling back to the
// environment variable named by APIKeyEnv.
func (p ParticipantConfig) ResolvedAPIKey() string {
	if p.APIKey.IsSet() {
		return p.APIKey.Value()
	}
	if p.APIKeyEnv != "" {
		return os.Getenv(p.APIKeyEnv)
	}
	return ""
}

// applyDefaults fills in default values for missing configuration.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
		cfg.Telemetry.Insecure = true
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "councild"
	}
	if cfg.Telemetry.ServiceVersion == "" {
		cfg.Telemetry.ServiceVersion = "0.1.0"
	}
	if cfg.Telemetry.SamplingRate == 0 {
		cfg.Telemetry.SamplingRate = 1.0
	}
	if cfg.Telemetry.ShutdownWait == 0 {
		cfg.Telemetry.ShutdownWait = Duration(5 * time.Second)
	}
	if cfg.Council.DefaultMode == "" {
		cfg.Council.DefaultMode = "compare"
	}
	if cfg.Council.GenerationTimeout == 0 {
		cfg.Council.GenerationTimeout = Duration(5 * time.Minute)
	}
	if cfg.Council.DedupCapacity == 0 {
		cfg.Council.DedupCapacity = 1000
	}
	if len(cfg.Participants) == 0 {
		cfg.Participants = DefaultParticipants()
	}
}

// DefaultParticipants is the built-in council roster. Members without
// a credential in the environment are skipped at registry build time.
func DefaultParticipants() []ParticipantConfig {
	return []ParticipantConfig{
		{
			Key:         "openai",
			DisplayName: "GPT-5.2",
			Provider:    "openai",
			Model:       "gpt-5.2",
			APIKeyEnv:   "OPENAI_API_KEY",
		},
		{
			Key:         "gemini",
			DisplayName: "Gemini-3-Flash-Preview",
			Provider:    "googleai",
			Model:       "gemini-3-flash-preview",
			APIKeyEnv:   "GOOGLE_API_KEY",
		},
		{
			Key:         "grok",
			DisplayName: "Grok-3",
			Provider:    "openai",
			Model:       "grok-3",
			APIKeyEnv:   "XAI_API_KEY",
			BaseURL:     "https://api.x.ai/v1",
		},
		{
			Key:         "doubao",
			DisplayName: "Doubao-Seed-1.8",
			Provider:    "openai",
			Model:       "doubao-seed-1-8-251215",
			APIKeyEnv:   "DOUBAO_API_KEY",
			BaseURL:     "https://ark.cn-beijing.volces.com/api/v3/bots",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Council.DefaultMode {
	case "compare", "debate":
	default:
		return fmt.Errorf("invalid default mode: %q (expected compare or debate)", c.Council.DefaultMode)
	}

	if c.Council.DedupCapacity < 0 {
		return fmt.Errorf("dedup capacity cannot be negative: %d", c.Council.DedupCapacity)
	}

	if len(c.Participants) == 0 {
		return errors.New("at least one participant must be configured")
	}

	seen := make(map[string]struct{}, len(c.Participants))
	for i, p := range c.Participants {
		if p.Key == "" {
			return fmt.Errorf("participant %d: key is required", i)
		}
		if _, dup := seen[p.Key]; dup {
			return fmt.Errorf("duplicate participant key: %s", p.Key)
		}
		seen[p.Key] = struct{}{}

		if p.DisplayName == "" {
			return fmt.Errorf("participant %s: display_name is required", p.Key)
		}
		if p.Provider == "" {
			return fmt.Errorf("participant %s: provider is required", p.Key)
		}
		if p.Model == "" {
			return fmt.Errorf("participant %s: model is required", p.Key)
		}
	}

	return nil
}
