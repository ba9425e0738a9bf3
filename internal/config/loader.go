package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Load loads configuration from a YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SERVER_HTTP_PORT, COUNCIL_DEFAULT_MODE, etc.)
//  2. YAML config file (~/.config/councild/config.yaml)
//  3. Hardcoded defaults
//
// The configPath parameter specifies the YAML file to load. If empty,
// the default path is used and a missing file is not an error.
//
// # Security Considerations
//
// File Permissions: the configuration file may carry API keys, so it
// must have 0600 or 0400 permissions. Weaker permissions are rejected.
//
// File Size Limit: files larger than 1MB are rejected.
//
// # Environment Variable Mapping
//
// Environment variables use underscore separator and are uppercased.
// The transformer maps them to YAML field names:
//
//	SERVER_HTTP_PORT -> server.http_port
//	COUNCIL_DEFAULT_MODE -> council.default_mode
//	TELEMETRY_SERVICE_NAME -> telemetry.service_name
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "councild", "config.yaml")
	}

	// Load from YAML file if it exists
	if _, err := os.Stat(configPath); err == nil {
		// Open file once and validate using file descriptor to avoid TOCTOU race
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}

		if err := validateConfigFileProperties(info); err != nil {
			return nil, fmt.Errorf("config file validation failed: %w", err)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Use rawbytes provider to avoid re-opening the file
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Override with environment variables. Variables split on the
	// first underscore into section and field name:
	//
	//	SERVER_HTTP_PORT -> server.http_port
	//	COUNCIL_GENERATION_TIMEOUT -> council.generation_timeout
	if err := k.Load(env.Provider("", ".", func(s string) string {
		lower := strings.ToLower(s)
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validateConfigFileProperties checks file permissions and size. Takes
// FileInfo from an already-opened file descriptor to avoid TOCTOU race.
func validateConfigFileProperties(info os.FileInfo) error {
	// Check file permissions (must be 0600 or 0400)
	// Skip on Windows (different permission model)
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	return nil
}
