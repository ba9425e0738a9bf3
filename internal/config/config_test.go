package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "", 0600))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "councild", cfg.Telemetry.ServiceName)
	assert.Equal(t, "compare", cfg.Council.DefaultMode)
	assert.Equal(t, 5*time.Minute, cfg.Council.GenerationTimeout.Duration())
	assert.Equal(t, 1000, cfg.Council.DedupCapacity)

	require.Len(t, cfg.Participants, 4)
	keys := make([]string, len(cfg.Participants))
	for i, p := range cfg.Participants {
		keys[i] = p.Key
	}
	assert.Equal(t, []string{"openai", "gemini", "grok", "doubao"}, keys)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
server:
  http_port: 9000
  shutdown_timeout: 30s
council:
  default_mode: debate
  generation_timeout: 2m
participants:
  - key: openai
    display_name: GPT-5.2
    provider: openai
    model: gpt-5.2
    api_key: sk-from-yaml
`, 0600)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "debate", cfg.Council.DefaultMode)
	assert.Equal(t, 2*time.Minute, cfg.Council.GenerationTimeout.Duration())

	require.Len(t, cfg.Participants, 1)
	assert.Equal(t, "sk-from-yaml", cfg.Participants[0].ResolvedAPIKey())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  http_port: 9000\n", 0600)

	t.Setenv("SERVER_HTTP_PORT", "9100")
	t.Setenv("COUNCIL_DEFAULT_MODE", "debate")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debate", cfg.Council.DefaultMode)
}

func TestLoad_RejectsInsecurePermissions(t *testing.T) {
	path := writeConfig(t, "server:\n  http_port: 9000\n", 0644)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"bad mode", func(c *Config) { c.Council.DefaultMode = "duel" }, "invalid default mode"},
		{"no participants", func(c *Config) { c.Participants = nil }, "at least one participant"},
		{"missing key", func(c *Config) { c.Participants[0].Key = "" }, "key is required"},
		{"duplicate key", func(c *Config) { c.Participants[1].Key = c.Participants[0].Key }, "duplicate participant key"},
		{"missing display name", func(c *Config) { c.Participants[0].DisplayName = "" }, "display_name is required"},
		{"missing provider", func(c *Config) { c.Participants[0].Provider = "" }, "provider is required"},
		{"missing model", func(c *Config) { c.Participants[0].Model = "" }, "model is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParticipantConfig_ResolvedAPIKey(t *testing.T) {
	t.Setenv("COUNCIL_TEST_KEY", "from-env")

	p := ParticipantConfig{APIKeyEnv: "COUNCIL_TEST_KEY"}
	assert.Equal(t, "from-env", p.ResolvedAPIKey())

	p.APIKey = Secret("explicit")
	assert.Equal(t, "explicit", p.ResolvedAPIKey())

	none := ParticipantConfig{}
	assert.Equal(t, "", none.ResolvedAPIKey())
}

func TestSecret_Redaction(t *testing.T) {
	s := Secret("super-secret")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "super-secret", s.Value())
	assert.True(t, s.IsSet())

	data, err := json.Marshal(struct{ Key Secret }{Key: s})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret")
}
