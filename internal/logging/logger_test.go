package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolestowl/slack-ai-council/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{"json info", config.LoggingConfig{Level: "info", Format: "json"}, false},
		{"console debug", config.LoggingConfig{Level: "debug", Format: "console"}, false},
		{"bad level", config.LoggingConfig{Level: "loud", Format: "json"}, true},
		{"bad format", config.LoggingConfig{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Debug("sanity")
		})
	}
}

func TestContextFields_NoSpan(t *testing.T) {
	fields := ContextFields(context.Background())
	assert.Empty(t, fields)
}
